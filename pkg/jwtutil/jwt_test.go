package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcp-service/pkg/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "unit-test-key", ExpirationHours: 1})

	token, err := GenerateToken("u-1", "ana@example.com", "Ana", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "admin", claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateToken_WrongKey(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "key-one"})
	token, err := GenerateToken("u-1", "ana@example.com", "", "")
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "key-two"})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}
