package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 42, 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	id, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 1, 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("s3cret", "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewAccessToken("s3cret", 1, -5)
	require.NoError(t, err)
	_, err = ParseAccessToken("s3cret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = ParseAccessToken("s3cret", noSub)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("demo123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "demo123"))
	assert.False(t, VerifyPassword(h, "demo124"))

	h, err = HashPassword("x", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
