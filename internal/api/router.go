package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fanlink/fanlink/internal/api/handler"
	"github.com/fanlink/fanlink/internal/api/middleware"
	"github.com/fanlink/fanlink/internal/services/auth"
	"github.com/fanlink/fanlink/internal/services/chat"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	ChatService *chat.Service
	// SessionHandler serves the websocket endpoint; mounted outside the
	// middleware chain so the upgrade gets the raw ResponseWriter
	SessionHandler http.Handler
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	chatHandler := handler.NewChatHandler(cfg.ChatService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Protected user routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)

	// Conversation history routes (all require auth)
	chats := api.PathPrefix("/chat").Subrouter()
	chats.Use(authMiddleware)
	chats.HandleFunc("/{user_id}", chatHandler.Conversation).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Realtime endpoint; the session handler does its own authentication
	if cfg.SessionHandler != nil {
		r.Handle("/ws", cfg.SessionHandler)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
