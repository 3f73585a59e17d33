package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal-go/internal/config"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not-a-hash", "anything"))
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager(&config.Auth{JWTSecret: "test-secret", TokenTTLMinutes: 60})

	token, err := m.IssueToken(42)
	require.NoError(t, err)

	userID, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenRejectedByOtherSecret(t *testing.T) {
	issuer := NewManager(&config.Auth{JWTSecret: "secret-a", TokenTTLMinutes: 60})
	verifier := NewManager(&config.Auth{JWTSecret: "secret-b", TokenTTLMinutes: 60})

	token, err := issuer.IssueToken(1)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager(&config.Auth{JWTSecret: "test-secret", TokenTTLMinutes: -1})

	token, err := m.IssueToken(1)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	m := NewManager(&config.Auth{JWTSecret: "test-secret", TokenTTLMinutes: 60})

	_, err := m.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
