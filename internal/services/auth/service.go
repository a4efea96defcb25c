package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fanlink/fanlink/internal/dependencies/clock"
	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/storage"
)

// Errors
var (
	ErrMissingToken       = errors.New("authentication token missing")
	ErrInvalidToken       = errors.New("invalid authentication token")
	ErrTokenExpired       = errors.New("authentication token expired")
	ErrUnknownUser        = errors.New("token subject no longer exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const tokenIssuer = "fanlink"

// Config holds configuration for the auth service
type Config struct {
	// Secret signs and verifies bearer tokens
	Secret string
	// TokenTTL is how long issued tokens stay valid
	TokenTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL: 24 * time.Hour,
	}
}

// Service handles account registration, login and token resolution
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	secret   []byte
	tokenTTL time.Duration
}

// New creates a new auth service
func New(storage storage.Storage, clk clock.Clock, cfg Config) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	return &Service{
		storage:  storage,
		clock:    clk,
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTL,
	}
}

// Register creates a new account and returns the user with a signed token
func (s *Service) Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, string, error) {
	if !model.ValidRole(role) {
		return nil, "", model.ErrInvalidRole
	}

	// Check if email is taken
	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, "", model.ErrEmailExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:        model.UserID(uuid.NewString()),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
	}

	creds := &model.Credentials{
		UserID:       user.ID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, "", err
	}
	if err := s.storage.SaveCredentials(ctx, creds); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies email and password and returns the user with a signed token
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	creds, err := s.storage.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.storage.GetUser(ctx, creds.UserID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to the user it identifies. Expiry is
// checked against the service clock; a valid token whose subject has been
// deleted resolves to ErrUnknownUser rather than a crash.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	user, err := s.storage.GetUser(ctx, model.UserID(claims.Subject))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	return user, nil
}

// issueToken signs a token for the user
func (s *Service) issueToken(user *model.User) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(user.ID),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// TokenFromRequest extracts the bearer credential from a request: the
// Authorization header first, the authorization query parameter as a
// fallback. The first non-empty value wins. A "Bearer " prefix is accepted
// but not required.
func TokenFromRequest(r *http.Request) string {
	token := r.Header.Get("Authorization")
	if token == "" {
		token = r.URL.Query().Get("authorization")
	}
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}
