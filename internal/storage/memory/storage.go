package memory

import (
	"context"
	"sync"

	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users       map[model.UserID]*model.User
	credentials map[model.UserID]*model.Credentials
	emailIndex  map[string]model.UserID
	messages    map[model.MessageID]*model.Message
	// insertion order doubles as creation order
	messageOrder []model.MessageID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:       make(map[model.UserID]*model.User),
		credentials: make(map[model.UserID]*model.Credentials),
		emailIndex:  make(map[string]model.UserID),
		messages:    make(map[model.MessageID]*model.Message),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[creds.UserID] = creds
	s.emailIndex[creds.Email] = creds.UserID
	return nil
}

func (s *Storage) GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	creds, ok := s.credentials[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return creds, nil
}

// Message operations

func (s *Storage) SaveMessage(ctx context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *msg
	if _, ok := s.messages[msg.ID]; !ok {
		s.messageOrder = append(s.messageOrder, msg.ID)
	}
	s.messages[msg.ID] = &stored
	return nil
}

func (s *Storage) GetMessage(ctx context.Context, id model.MessageID) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, model.ErrMessageNotFound
	}
	copied := *msg
	return &copied, nil
}

func (s *Storage) ListUndelivered(ctx context.Context, receiverID model.UserID) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []*model.Message
	for _, id := range s.messageOrder {
		msg := s.messages[id]
		if msg.ReceiverID == receiverID && !msg.Delivered {
			copied := *msg
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

func (s *Storage) MarkDelivered(ctx context.Context, ids []model.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if msg, ok := s.messages[id]; ok {
			msg.Delivered = true
		}
	}
	return nil
}

func (s *Storage) ListConversation(ctx context.Context, a, b model.UserID) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var msgs []*model.Message
	// Walk newest-first
	for i := len(s.messageOrder) - 1; i >= 0; i-- {
		msg := s.messages[s.messageOrder[i]]
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			copied := *msg
			msgs = append(msgs, &copied)
		}
	}
	return msgs, nil
}
