package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fanlink/fanlink/internal/dependencies/clock"
	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/storage"
)

// OfflineNotice is the advisory sent to a sender when the recipient is not
// currently connected. It is informational, not an error: the message has
// been persisted and will be flushed when the recipient reconnects.
const OfflineNotice = "Recipient is offline, message will be sent when they come online."

// Service routes direct messages between users. Each message is persisted
// before any push; a push failure after persistence is logged and never
// rolled back, so delivery is at-least-once via the offline mailbox.
type Service struct {
	storage  storage.Storage
	registry *Registry
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new chat service
func New(storage storage.Storage, registry *Registry, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		registry: registry,
		clock:    clk,
		logger:   logger.With(slog.String("component", "chat")),
	}
}

// Registry returns the presence registry the service routes through
func (s *Service) Registry() *Registry {
	return s.registry
}

// Send validates, persists and routes a message from sender to the user
// identified by to. senderConn, when non-nil, receives an echo of the
// persisted message and the offline advisory. Validation failures persist
// nothing and are returned to the caller.
func (s *Service) Send(ctx context.Context, sender *model.User, senderConn Conn, to model.UserID, body string) (*model.Message, error) {
	if to == sender.ID {
		return nil, model.ErrSelfMessage
	}

	receiver, err := s.storage.GetUser(ctx, to)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrUnknownRecipient
		}
		return nil, err
	}

	if receiver.Role == sender.Role {
		return nil, fmt.Errorf("%w: your role (%s) is only allowed to chat with users of the opposite role, you tried to message a user with role (%s)",
			model.ErrSameRole, sender.Role, receiver.Role)
	}

	// Presence is checked at send time, never cached; a recipient
	// connecting a moment later is caught by the mailbox flush
	online := s.registry.IsOnline(to)

	msg := &model.Message{
		ID:         model.MessageID(uuid.NewString()),
		SenderID:   sender.ID,
		ReceiverID: to,
		Body:       body,
		Delivered:  online,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.storage.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	ev := model.NewMessageEvent(msg)

	// The sender always sees their own sent message
	if senderConn != nil {
		if err := senderConn.Send(ev); err != nil {
			s.logger.Warn("echo to sender failed",
				slog.String("sender_id", string(sender.ID)),
				slog.String("error", err.Error()))
		}
	}

	if online {
		if conn, ok := s.registry.Lookup(to); ok {
			if err := conn.Send(ev); err != nil {
				// The persisted record is the source of truth; no retry
				s.logger.Warn("push to online recipient failed",
					slog.String("receiver_id", string(to)),
					slog.String("message_id", string(msg.ID)),
					slog.String("error", err.Error()))
			}
		}
	} else if senderConn != nil {
		if err := senderConn.Send(model.NewChatErrorEvent(OfflineNotice)); err != nil {
			s.logger.Warn("offline advisory to sender failed",
				slog.String("sender_id", string(sender.ID)),
				slog.String("error", err.Error()))
		}
	}

	return msg, nil
}

// FlushMailbox pushes all undelivered messages for userID to conn in
// creation order, then marks every fetched message delivered. Individual
// push failures are logged; the batch is marked regardless, matching the
// at-least-once contract of the mailbox.
func (s *Service) FlushMailbox(ctx context.Context, userID model.UserID, conn Conn) error {
	pending, err := s.storage.ListUndelivered(ctx, userID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	ids := make([]model.MessageID, 0, len(pending))
	for _, msg := range pending {
		if err := conn.Send(model.NewMessageEvent(msg)); err != nil {
			s.logger.Warn("mailbox push failed",
				slog.String("receiver_id", string(userID)),
				slog.String("message_id", string(msg.ID)),
				slog.String("error", err.Error()))
		}
		ids = append(ids, msg.ID)
	}

	s.logger.Info("mailbox flushed",
		slog.String("user_id", string(userID)),
		slog.Int("messages", len(ids)))

	return s.storage.MarkDelivered(ctx, ids)
}

// Conversation returns both directions of the message history between user
// and otherID, newest first. The same validation rules as Send apply: the
// pair must be two distinct users of opposite roles.
func (s *Service) Conversation(ctx context.Context, user *model.User, otherID model.UserID) ([]*model.Message, error) {
	if otherID == user.ID {
		return nil, model.ErrSelfMessage
	}

	other, err := s.storage.GetUser(ctx, otherID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrUnknownRecipient
		}
		return nil, err
	}

	if other.Role == user.Role {
		return nil, fmt.Errorf("%w: your role (%s) cannot view a conversation with a user of role (%s)",
			model.ErrSameRole, user.Role, other.Role)
	}

	return s.storage.ListConversation(ctx, user.ID, otherID)
}
