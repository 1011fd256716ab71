package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, Verify("correct horse battery", hash))
	assert.False(t, Verify("wrong password", hash))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("same-password")
	assert.NoError(t, err)
	h2, err := Hash("same-password")
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashToken(t *testing.T) {
	// Deterministic, hex-encoded, never echoes the input
	h := HashToken("some-refresh-token")
	assert.Equal(t, h, HashToken("some-refresh-token"))
	assert.NotEqual(t, h, HashToken("other-token"))
	assert.Len(t, h, 64)
	assert.NotContains(t, h, "some-refresh-token")
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.True(t, ValidatePassword("a much longer passphrase"))
	assert.False(t, ValidatePassword("1234567"))
	assert.False(t, ValidatePassword(""))
}
