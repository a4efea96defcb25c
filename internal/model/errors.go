package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidRole  = errors.New("role must be either 'fan' or 'player'")

	// Routing errors, reported to the offending sender only
	ErrUnknownRecipient = errors.New("recipient not found")
	ErrSameRole         = errors.New("chat not allowed between same roles")
	ErrSelfMessage      = errors.New("cannot send a message to yourself")

	// Message errors
	ErrMessageNotFound = errors.New("message not found")
)
