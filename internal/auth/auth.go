// Package auth verifies callers and guards operations by role.
//
// Transport layers put the verified user into the request context with WithUser;
// operations call RequireUser or RequireRole before touching any data.
package auth

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/feedback-service/internal/models"
)

// Error is a guard failure. Code is exposed to GraphQL clients as an extension.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

var (
	ErrUnauthorized = &Error{Code: "UNAUTHENTICATED", Message: "unauthorized access"}
	ErrForbidden    = &Error{Code: "FORBIDDEN", Message: "forbidden - insufficient permissions"}
	ErrInvalidToken = errors.New("invalid access token")
)

// Authenticator turns a bearer token into a user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type contextKey struct{}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*models.User)
	return user, ok && user != nil
}

// RequireUser returns the authenticated caller or ErrUnauthorized
func RequireUser(ctx context.Context) (*models.User, error) {
	user, ok := UserFromContext(ctx)
	if !ok || user.Email == "" {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// RequireRole returns the caller when it holds role. Admins satisfy every role.
func RequireRole(ctx context.Context, role models.UserRole) (*models.User, error) {
	user, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if user.Role != role && !user.IsAdmin() {
		return nil, ErrForbidden
	}
	return user, nil
}
