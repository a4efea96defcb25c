// Package factory wires the application's dependencies together.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/fanlink/fanlink/internal/dependencies/clock"
	"github.com/fanlink/fanlink/internal/realtime"
	"github.com/fanlink/fanlink/internal/services/auth"
	"github.com/fanlink/fanlink/internal/services/chat"
	"github.com/fanlink/fanlink/internal/storage"
	"github.com/fanlink/fanlink/internal/storage/memory"
	redisstorage "github.com/fanlink/fanlink/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService *auth.Service
	ChatService *chat.Service
	Registry    *chat.Registry

	// Realtime
	Hub            *realtime.Hub
	SessionHandler *realtime.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service; the token
	// secret must be set
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired. The hub's
// event loop is started; callers own its shutdown via App.Hub.Close.
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), cfg.AuthConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, clk, authCfg)
	registry := chat.NewRegistry()
	chatService := chat.New(store, registry, clk, logger)
	hub := realtime.NewHub(logger)
	go hub.Run()
	sessionHandler := realtime.NewHandler(authService, chatService, hub, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		AuthService:    authService,
		ChatService:    chatService,
		Registry:       registry,
		Hub:            hub,
		SessionHandler: sessionHandler,
	}
}
