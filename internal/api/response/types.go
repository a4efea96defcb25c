package response

import (
	"time"

	"github.com/fanlink/fanlink/internal/model"
)

// User represents a user in API responses; the password hash never leaves
// the credentials record
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:        string(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ConversationResponse is the response for the conversation history endpoint
type ConversationResponse struct {
	Conversation []*model.Message `json:"conversation"`
}
