package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("sup3rsecret", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "sup3rsecret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("abcdefg1"))
	assert.ErrorIs(t, ValidatePasswordStrength("short1"), ErrWeakPassword)
	assert.ErrorIs(t, ValidatePasswordStrength("onlyletters"), ErrWeakPassword)
	assert.ErrorIs(t, ValidatePasswordStrength("12345678"), ErrWeakPassword)
}
