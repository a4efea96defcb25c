package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fanlink/fanlink/internal/dependencies/mocks"
	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, Config{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	})
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegister() {
	user, token, err := s.service.Register(s.ctx, "Alice", "alice@example.com", "hunter2", model.RoleFan)
	s.Require().NoError(err)

	s.NotEmpty(user.ID)
	s.Equal("Alice", user.Name)
	s.Equal("alice@example.com", user.Email)
	s.Equal(model.RoleFan, user.Role)
	s.Equal(s.clock.Now(), user.CreatedAt)
	s.NotEmpty(token)

	// The issued token resolves back to the user
	resolved, err := s.service.Authenticate(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(user.ID, resolved.ID)
}

func (s *ServiceSuite) TestRegisterInvalidRole() {
	_, _, err := s.service.Register(s.ctx, "Alice", "alice@example.com", "hunter2", "admin")
	s.ErrorIs(err, model.ErrInvalidRole)
}

func (s *ServiceSuite) TestRegisterDuplicateEmail() {
	_, _, err := s.service.Register(s.ctx, "Alice", "alice@example.com", "hunter2", model.RoleFan)
	s.Require().NoError(err)

	_, _, err = s.service.Register(s.ctx, "Impostor", "alice@example.com", "other", model.RolePlayer)
	s.ErrorIs(err, model.ErrEmailExists)
}

func (s *ServiceSuite) TestRegisterDoesNotStorePlaintextPassword() {
	_, _, err := s.service.Register(s.ctx, "Alice", "alice@example.com", "hunter2", model.RoleFan)
	s.Require().NoError(err)

	creds, err := s.storage.GetCredentialsByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.NotEqual("hunter2", creds.PasswordHash)
	s.NotEmpty(creds.PasswordHash)
}

// Login tests

func (s *ServiceSuite) TestLogin() {
	registered, _, err := s.service.Register(s.ctx, "Alice", "alice@example.com", "hunter2", model.RoleFan)
	s.Require().NoError(err)

	user, token, err := s.service.Login(s.ctx, "alice@example.com", "hunter2")
	s.Require().NoError(err)
	s.Equal(registered.ID, user.ID)
	s.NotEmpty(token)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, _, err := s.service.Register(s.ctx, "Alice", "alice@example.com", "hunter2", model.RoleFan)
	s.Require().NoError(err)

	_, _, err = s.service.Login(s.ctx, "alice@example.com", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownEmail() {
	_, _, err := s.service.Login(s.ctx, "nobody@example.com", "hunter2")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateMissingToken() {
	_, err := s.service.Authenticate(s.ctx, "")
	s.ErrorIs(err, ErrMissingToken)
}

func (s *ServiceSuite) TestAuthenticateGarbageToken() {
	_, err := s.service.Authenticate(s.ctx, "not-a-jwt")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestAuthenticateWrongSecret() {
	other := New(s.storage, s.clock, Config{Secret: "different-secret", TokenTTL: time.Hour})
	_, token, err := other.Register(s.ctx, "Alice", "alice@example.com", "hunter2", model.RoleFan)
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestAuthenticateExpiredToken() {
	_, token, err := s.service.Register(s.ctx, "Alice", "alice@example.com", "hunter2", model.RoleFan)
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)

	_, err = s.service.Authenticate(s.ctx, token)
	s.ErrorIs(err, ErrTokenExpired)
}

func (s *ServiceSuite) TestAuthenticateTokenStillValidBeforeExpiry() {
	_, token, err := s.service.Register(s.ctx, "Alice", "alice@example.com", "hunter2", model.RoleFan)
	s.Require().NoError(err)

	s.clock.Advance(59 * time.Minute)

	_, err = s.service.Authenticate(s.ctx, token)
	s.NoError(err)
}

func (s *ServiceSuite) TestAuthenticateDeletedSubject() {
	// Valid token whose subject exists in a different store
	issuer := New(memory.New(), s.clock, Config{Secret: "test-secret", TokenTTL: time.Hour})
	_, token, err := issuer.Register(s.ctx, "Ghost", "ghost@example.com", "boo", model.RoleFan)
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, token)
	s.ErrorIs(err, ErrUnknownUser)
}

// TokenFromRequest tests

func (s *ServiceSuite) TestTokenFromRequestHeader() {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer abc123")
	s.Equal("abc123", TokenFromRequest(r))
}

func (s *ServiceSuite) TestTokenFromRequestHeaderWithoutBearerPrefix() {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "abc123")
	s.Equal("abc123", TokenFromRequest(r))
}

func (s *ServiceSuite) TestTokenFromRequestQueryFallback() {
	r := httptest.NewRequest("GET", "/ws?authorization=abc123", nil)
	s.Equal("abc123", TokenFromRequest(r))
}

func (s *ServiceSuite) TestTokenFromRequestHeaderWinsOverQuery() {
	r := httptest.NewRequest("GET", "/ws?authorization=from-query", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	s.Equal("from-header", TokenFromRequest(r))
}

func (s *ServiceSuite) TestTokenFromRequestAbsent() {
	r := httptest.NewRequest("GET", "/ws", nil)
	s.Equal("", TokenFromRequest(r))
}
