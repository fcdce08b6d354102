package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTForTest(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "discovery.test",
	})
}

func TestJWTService(t *testing.T) {
	t.Run("Should round-trip claims", func(t *testing.T) {
		svc := newJWTForTest(time.Hour)

		token, err := svc.GenerateToken("staff-user", true)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "staff-user", claims.Username)
		assert.True(t, claims.IsStaff)
		assert.Equal(t, "discovery.test", claims.Issuer)
	})

	t.Run("Should reject tokens signed with another secret", func(t *testing.T) {
		other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
		token, err := other.GenerateToken("user", false)
		require.NoError(t, err)

		_, err = newJWTForTest(time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject expired tokens", func(t *testing.T) {
		svc := newJWTForTest(-time.Minute)
		token, err := svc.GenerateToken("user", false)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Should reject garbage", func(t *testing.T) {
		_, err := newJWTForTest(time.Hour).ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractBearerToken(t *testing.T) {
	t.Run("Should extract the token", func(t *testing.T) {
		token, err := ExtractBearerToken("Bearer abc.def.ghi")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("Should accept a lowercase scheme", func(t *testing.T) {
		token, err := ExtractBearerToken("bearer abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})

	t.Run("Should reject an empty header", func(t *testing.T) {
		_, err := ExtractBearerToken("")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Should reject other schemes", func(t *testing.T) {
		_, err := ExtractBearerToken("Basic dXNlcjpwYXNz")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Should reject a bare token", func(t *testing.T) {
		_, err := ExtractBearerToken("abc.def.ghi")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}
