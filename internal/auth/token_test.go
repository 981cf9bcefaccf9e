package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	authenticator := NewAuthenticator("secret")
	userID := uuid.New()

	token, err := authenticator.Sign("alice", userID)
	require.NoError(t, err)

	claims, err := authenticator.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, userID.String(), claims.UserID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewAuthenticator("secret-a").Sign("alice", uuid.New())
	require.NoError(t, err)

	_, err = NewAuthenticator("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewAuthenticator("secret").Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
