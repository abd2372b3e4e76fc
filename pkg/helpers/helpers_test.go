package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestSessionRoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret", time.Hour)
	m.Now = fixedClock(now)

	token, exp, err := m.IssueSession("user-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := m.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestSessionExpires(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret", time.Hour)
	m.Now = fixedClock(now)
	token, _, err := m.IssueSession("user-1")
	require.NoError(t, err)

	m.Now = fixedClock(now.Add(2 * time.Hour))
	_, err = m.ParseSession(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionRejectsOtherSecret(t *testing.T) {
	token, _, err := NewJWTManager("one", time.Hour).IssueSession("user-1")
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour).ParseSession(token)
	assert.Error(t, err)
}

func TestOpaqueTokenShapeAndDigest(t *testing.T) {
	a, err := GenerateOpaqueToken()
	require.NoError(t, err)
	b, err := GenerateOpaqueToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NoError(t, CheckOpaqueToken(a))
	assert.Len(t, HashOpaqueToken(a), 64)
	assert.Equal(t, HashOpaqueToken(a), HashOpaqueToken(a))
	assert.NotContains(t, HashOpaqueToken(a), a)
}

func TestCheckOpaqueTokenRejectsMalformed(t *testing.T) {
	for _, tok := range []string{"", "abc", "not base64 !!", strings.Repeat("A", 10)} {
		assert.ErrorIs(t, CheckOpaqueToken(tok), ErrMalformedToken, tok)
	}
}

func TestPasswordHash(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)

	assert.True(t, CompareHashAndPassword(hash, "Secret123!"))
	assert.False(t, CompareHashAndPassword(hash, "secret123!"))
}
