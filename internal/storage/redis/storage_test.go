package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/fanlink/fanlink/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) message(id, sender, receiver, body string, delivered bool, at time.Time) *model.Message {
	return &model.Message{
		ID:         model.MessageID(id),
		SenderID:   model.UserID(sender),
		ReceiverID: model.UserID(receiver),
		Body:       body,
		Delivered:  delivered,
		CreatedAt:  at,
	}
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:        "user-1",
		Name:      "Alice",
		Email:     "alice@example.com",
		Role:      model.RoleFan,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(user.Name, retrieved.Name)
	s.Equal(user.Role, retrieved.Role)
	s.Equal(user.CreatedAt, retrieved.CreatedAt)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByEmail() {
	user := &model.User{ID: "user-1", Email: "alice@example.com", Role: model.RolePlayer}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)

	_, err = s.storage.GetUserByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Credential tests

func (s *StorageSuite) TestSaveAndGetCredentials() {
	creds := &model.Credentials{
		UserID:       "user-1",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$abcdef",
	}
	s.Require().NoError(s.storage.SaveCredentials(s.ctx, creds))

	retrieved, err := s.storage.GetCredentialsByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(creds.UserID, retrieved.UserID)
	s.Equal(creds.PasswordHash, retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetCredentialsNotFound() {
	_, err := s.storage.GetCredentialsByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Message tests

func (s *StorageSuite) TestSaveAndGetMessage() {
	msg := s.message("msg-1", "fan-1", "player-1", "hello", false, time.Now().UTC())
	s.Require().NoError(s.storage.SaveMessage(s.ctx, msg))

	retrieved, err := s.storage.GetMessage(s.ctx, "msg-1")
	s.Require().NoError(err)
	s.Equal(msg.Body, retrieved.Body)
	s.False(retrieved.Delivered)
}

func (s *StorageSuite) TestGetMessageNotFound() {
	_, err := s.storage.GetMessage(s.ctx, "msg-404")
	s.ErrorIs(err, model.ErrMessageNotFound)
}

func (s *StorageSuite) TestUndeliveredMessageEntersMailbox() {
	now := time.Now().UTC()
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-1", "fan-1", "player-1", "pending", false, now)))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-2", "fan-1", "player-1", "delivered live", true, now.Add(time.Second))))

	pending, err := s.storage.ListUndelivered(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal("pending", pending[0].Body)
}

func (s *StorageSuite) TestListUndeliveredInCreationOrder() {
	now := time.Now().UTC()
	// Saved out of order; the mailbox sorts by creation time
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-2", "fan-1", "player-1", "second", false, now.Add(time.Second))))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-1", "fan-2", "player-1", "first", false, now)))

	pending, err := s.storage.ListUndelivered(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal("first", pending[0].Body)
	s.Equal("second", pending[1].Body)
}

func (s *StorageSuite) TestMarkDelivered() {
	now := time.Now().UTC()
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-1", "fan-1", "player-1", "a", false, now)))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-2", "fan-1", "player-1", "b", false, now.Add(time.Second))))

	s.Require().NoError(s.storage.MarkDelivered(s.ctx, []model.MessageID{"msg-1", "msg-2"}))

	pending, err := s.storage.ListUndelivered(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Empty(pending)

	msg, err := s.storage.GetMessage(s.ctx, "msg-1")
	s.Require().NoError(err)
	s.True(msg.Delivered)
}

func (s *StorageSuite) TestMarkDeliveredIgnoresUnknownIDs() {
	s.NoError(s.storage.MarkDelivered(s.ctx, []model.MessageID{"msg-404"}))
	s.NoError(s.storage.MarkDelivered(s.ctx, nil))
}

func (s *StorageSuite) TestListConversationNewestFirstBothDirections() {
	now := time.Now().UTC()
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-1", "fan-1", "player-1", "oldest", true, now)))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-2", "player-1", "fan-1", "middle", true, now.Add(time.Second))))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-3", "fan-1", "player-1", "newest", false, now.Add(2*time.Second))))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-4", "fan-1", "player-2", "unrelated", false, now.Add(3*time.Second))))

	msgs, err := s.storage.ListConversation(s.ctx, "fan-1", "player-1")
	s.Require().NoError(err)
	s.Require().Len(msgs, 3)
	s.Equal("newest", msgs[0].Body)
	s.Equal("middle", msgs[1].Body)
	s.Equal("oldest", msgs[2].Body)

	// Same history regardless of argument order
	reversed, err := s.storage.ListConversation(s.ctx, "player-1", "fan-1")
	s.Require().NoError(err)
	s.Require().Len(reversed, 3)
	s.Equal("newest", reversed[0].Body)
}

func (s *StorageSuite) TestListConversationEmpty() {
	msgs, err := s.storage.ListConversation(s.ctx, "fan-1", "player-1")
	s.Require().NoError(err)
	s.Empty(msgs)
}
