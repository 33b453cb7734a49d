package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorcat/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		AccessTokenExpiration: expiration,
		Issuer:                "vendorcat-test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(GenerateTokenInput{
		UserID:      userID,
		Username:    "reviewer",
		Permissions: []string{PermEditImports},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "reviewer", claims.Username)
	assert.Equal(t, "vendorcat-test", claims.Issuer)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	svc := newTestService(time.Hour)

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := newTestService(-time.Minute)
		token, _, err := expired.GenerateToken(GenerateTokenInput{UserID: uuid.New(), Username: "u"})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-value",
			AccessTokenExpiration: time.Hour,
			Issuer:                "vendorcat-test",
		})
		token, _, err := other.GenerateToken(GenerateTokenInput{UserID: uuid.New(), Username: "u"})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_Permissions(t *testing.T) {
	claims := &Claims{Permissions: []string{PermEditImports}}

	assert.True(t, claims.HasPermission(PermEditImports))
	assert.False(t, claims.HasPermission(PermApproveMappings))
	assert.True(t, claims.HasAnyPermission(PermApproveMappings, PermEditImports))
	assert.False(t, claims.HasAnyPermission(PermApproveMappings))
}
