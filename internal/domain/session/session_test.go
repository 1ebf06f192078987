package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionRoles(t *testing.T) {
	s := Session{UserID: uuid.New(), Roles: []string{RoleStaff}}
	assert.True(t, s.HasRole(RoleStaff))
	assert.False(t, s.IsAdmin())
	assert.False(t, s.IsZero())

	s.Roles = append(s.Roles, RoleAdmin)
	assert.True(t, s.IsAdmin())
	assert.True(t, Session{}.IsZero())
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := Session{UserID: uuid.New(), Email: "a@example.com"}
	got, ok := FromContext(WithSession(context.Background(), s))
	assert.True(t, ok)
	assert.Equal(t, s.UserID, got.UserID)
}
