package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fanlink/fanlink/internal/api/apierr"
	"github.com/fanlink/fanlink/internal/api/middleware"
	"github.com/fanlink/fanlink/internal/api/response"
	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/services/chat"
)

// ChatHandler handles conversation history endpoints
type ChatHandler struct {
	chatService *chat.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// Conversation handles GET /api/v1/chat/{user_id}
func (h *ChatHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	otherID := mux.Vars(r)["user_id"]
	if otherID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("user id is required"))
		return
	}

	msgs, err := h.chatService.Conversation(r.Context(), user, model.UserID(otherID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ConversationResponse{Conversation: msgs})
}
