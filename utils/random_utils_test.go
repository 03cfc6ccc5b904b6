package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRandomDigitsLengthAndCharset verifies OTP generation produces only
// digits at the requested length.
func TestRandomDigitsLengthAndCharset(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		otp := RandomDigits(length)
		assert.Len(t, otp, length)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9', "unexpected rune %q", r)
		}
	}
}

// TestRandomDigitsDefaultsLength verifies a non-positive length falls back
// to four digits.
func TestRandomDigitsDefaultsLength(t *testing.T) {
	assert.Len(t, RandomDigits(0), 4)
	assert.Len(t, RandomDigits(-3), 4)
}

// TestGenerateQRTokenShape verifies tokens carry the QR prefix and do not
// repeat across calls.
func TestGenerateQRTokenShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := GenerateQRToken()
		assert.True(t, strings.HasPrefix(token, "QR-"))
		assert.False(t, seen[token], "token repeated: %s", token)
		seen[token] = true
	}
}

// TestHashPasswordRoundTrip verifies bcrypt hashing and comparison.
func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
