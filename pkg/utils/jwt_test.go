package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "cashier@example.com", []string{"staff"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "cashier@example.com", claims.Email)
	assert.Equal(t, []string{"staff"}, claims.Roles)
}

func TestJWTRejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := NewJWTManager("secret", time.Hour)
	token, err := issuer.GenerateAccessToken(uuid.New(), "a@example.com", nil)
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	expired := NewJWTManager("secret", -time.Minute)
	token, err = expired.GenerateAccessToken(uuid.New(), "a@example.com", nil)
	require.NoError(t, err)
	_, err = expired.ValidateAccessToken(token)
	assert.Error(t, err)
}
