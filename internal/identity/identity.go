// Package identity carries the authenticated user through the request
// context. Tokens are issued by the external identity provider; this module
// only verifies and reads them.
package identity

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognized by the application.
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleViewer = "viewer"
)

// Claims is the verified token payload.
type Claims struct {
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
	jwt.RegisteredClaims
}

type contextKey struct{}

// WithClaims returns a context carrying the verified claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// FromContext returns the claims set by the auth middleware, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}

// UserID returns the authenticated user id, or empty when unauthenticated.
func UserID(ctx context.Context) string {
	if claims, ok := FromContext(ctx); ok {
		return claims.UserID
	}
	return ""
}

// Role returns the authenticated user's role, or empty.
func Role(ctx context.Context) string {
	if claims, ok := FromContext(ctx); ok {
		return claims.Role
	}
	return ""
}
