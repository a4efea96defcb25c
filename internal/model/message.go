package model

import "time"

// MessageID uniquely identifies a message
type MessageID string

// Message is a direct message between two users.
// Delivered is true once the message has been pushed to the receiver's live
// connection, or flushed from the offline mailbox on a later reconnect.
// The flag only ever flips false -> true; messages are never deleted here.
type Message struct {
	ID         MessageID `json:"id"`
	SenderID   UserID    `json:"senderId"`
	ReceiverID UserID    `json:"receiverId"`
	Body       string    `json:"message"`
	Delivered  bool      `json:"delivered"`
	CreatedAt  time.Time `json:"createdAt"`
}
