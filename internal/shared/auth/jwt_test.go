package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: 5})

	token, err := svc.GenerateToken("u-1", "+919900112233", "mechanic")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "+919900112233", claims.Phone)
	assert.Equal(t, "mechanic", claims.Role)
	assert.Equal(t, "mechpro", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(config.JWTConfig{Secret: "secret_a", ExpiryMinutes: 5})
	verifier := NewJWTService(config.JWTConfig{Secret: "secret_b", ExpiryMinutes: 5})

	token, err := issuer.GenerateToken("u-1", "", "user")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: -1})

	token, err := svc.GenerateToken("u-1", "", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestExtractIdentity(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: 5})

	token, err := svc.GenerateToken("u-1", "+911111111111", "admin")
	require.NoError(t, err)

	userID, role, err := svc.ExtractIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "admin", role)

	_, _, err = svc.ExtractIdentity("garbage")
	require.Error(t, err)
}
