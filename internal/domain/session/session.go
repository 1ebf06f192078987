// Package session carries the authenticated staff member through a request.
package session

import (
	"context"

	"github.com/google/uuid"
)

// Role names
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Session describes who is making the current request.
type Session struct {
	UserID uuid.UUID
	Email  string
	Roles  []string
}

// HasRole reports whether the session carries role
func (s Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin gates hard deletes and maintenance endpoints
func (s Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

// IsZero reports whether the session is anonymous
func (s Session) IsZero() bool {
	return s.UserID == uuid.Nil
}

type ctxKey struct{}

// WithSession attaches s to ctx
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to ctx, if any
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
