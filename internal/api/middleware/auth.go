package middleware

import (
	"context"
	"net/http"

	"github.com/fanlink/fanlink/internal/api/apierr"
	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/services/auth"
)

type contextKey string

const userContextKey contextKey = "user"

// Auth creates authentication middleware that resolves the bearer token to
// a user and rejects the request otherwise
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authService.Authenticate(r.Context(), auth.TokenFromRequest(r))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	user := GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
