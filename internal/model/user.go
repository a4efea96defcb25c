package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// Role is the messaging category a user belongs to.
// Messaging is only permitted across categories, never within one.
type Role string

const (
	RoleFan    Role = "fan"
	RolePlayer Role = "player"
)

// ValidRole reports whether r is one of the two defined roles
func ValidRole(r Role) bool {
	return r == RoleFan || r == RolePlayer
}

// User represents an account holder
type User struct {
	ID        UserID    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials holds authentication data for a user.
// Stored separately so the password hash never travels with the user record.
type Credentials struct {
	UserID       UserID    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"` // bcrypt hash
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
