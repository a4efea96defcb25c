package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, emailIndexKey(user.Email), string(user.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	userIDStr, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(userIDStr))
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, credentialsKey(creds.UserID), data, 0)
	pipe.Set(ctx, emailIndexKey(creds.Email), string(creds.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error) {
	userIDStr, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, credentialsKey(model.UserID(userIDStr))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Message operations

func (s *Storage) SaveMessage(ctx context.Context, msg *model.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	score := float64(msg.CreatedAt.UnixNano())

	// Pipeline record + conversation index + mailbox index together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, messageKey(msg.ID), data, 0)
	pipe.ZAdd(ctx, conversationKey(msg.SenderID, msg.ReceiverID), redis.Z{
		Score:  score,
		Member: string(msg.ID),
	})
	if !msg.Delivered {
		pipe.ZAdd(ctx, mailboxKey(msg.ReceiverID), redis.Z{
			Score:  score,
			Member: string(msg.ID),
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMessage(ctx context.Context, id model.MessageID) (*model.Message, error) {
	data, err := s.client.Get(ctx, messageKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMessageNotFound
		}
		return nil, err
	}

	var msg model.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Storage) ListUndelivered(ctx context.Context, receiverID model.UserID) ([]*model.Message, error) {
	ids, err := s.client.ZRange(ctx, mailboxKey(receiverID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.getMessages(ctx, ids)
}

func (s *Storage) MarkDelivered(ctx context.Context, ids []model.MessageID) error {
	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		msg, err := s.GetMessage(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrMessageNotFound) {
				continue
			}
			return err
		}

		msg.Delivered = true
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		pipe.Set(ctx, messageKey(id), data, 0)
		pipe.ZRem(ctx, mailboxKey(msg.ReceiverID), string(id))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListConversation(ctx context.Context, a, b model.UserID) ([]*model.Message, error) {
	ids, err := s.client.ZRevRange(ctx, conversationKey(a, b), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.getMessages(ctx, ids)
}

// getMessages fetches messages by id, preserving the given order and
// skipping ids whose records have gone missing
func (s *Storage) getMessages(ctx context.Context, ids []string) ([]*model.Message, error) {
	var msgs []*model.Message
	for _, id := range ids {
		msg, err := s.GetMessage(ctx, model.MessageID(id))
		if err != nil {
			if errors.Is(err, model.ErrMessageNotFound) {
				continue
			}
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
