package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmptyPassword)

	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "battery staple"))
	assert.False(t, VerifyPassword("", "correct horse"))
}

func TestHashPassword_OutOfRangeCost(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 42, "alicia", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alicia", claims.Username)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 1, "alicia", time.Hour)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ParseAccessToken("other", tok.Token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		old, err := NewAccessToken("s3cret", 1, "alicia", -time.Minute)
		require.NoError(t, err)
		_, err = ParseAccessToken("s3cret", old.Token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("none algorithm", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = ParseAccessToken("s3cret", raw)
		assert.Error(t, err)
	})
}
