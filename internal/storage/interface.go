package storage

import (
	"context"

	"github.com/fanlink/fanlink/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Credential operations
	SaveCredentials(ctx context.Context, creds *model.Credentials) error
	GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error)

	// Message operations
	SaveMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, id model.MessageID) (*model.Message, error)
	// ListUndelivered returns undelivered messages for a receiver,
	// ascending by creation time
	ListUndelivered(ctx context.Context, receiverID model.UserID) ([]*model.Message, error)
	// MarkDelivered flips the delivered flag for the given messages
	MarkDelivered(ctx context.Context, ids []model.MessageID) error
	// ListConversation returns both directions of messages between two users,
	// descending by creation time
	ListConversation(ctx context.Context, a, b model.UserID) ([]*model.Message, error)
}
