package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fanlink/fanlink/internal/api/apierr"
	"github.com/fanlink/fanlink/internal/api/middleware"
	"github.com/fanlink/fanlink/internal/api/request"
	"github.com/fanlink/fanlink/internal/api/response"
	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/services/auth"
)

// AuthHandler handles account endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Email == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("email is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}
	if req.Role == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("role is required"))
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponse{
		Token: token,
		User:  response.UserFromModel(user),
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("email and password are required"))
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponse{
		Token: token,
		User:  response.UserFromModel(user),
	})
}

// GetMe handles GET /api/v1/users/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
