package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateAndValidateToken verifies a round trip through the signer.
func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(testConfig())

	token, err := svc.GenerateToken(42, "resident", "A-101")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims, err := svc.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "resident", claims.Role)
	assert.Equal(t, "A-101", claims.FlatNo)
}

// TestValidateTokenRejectsWrongKey verifies tokens signed with another
// secret fail validation.
func TestValidateTokenRejectsWrongKey(t *testing.T) {
	svc := NewJWTService(testConfig())
	token, err := svc.GenerateToken(1, "admin", "")
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWTSecretKey = "different-secret"
	other := NewJWTService(otherCfg)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

// TestValidateTokenRejectsGarbage verifies malformed input errors out.
func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService(testConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
