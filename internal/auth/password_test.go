package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("5309")
	require.NoError(t, err)
	assert.NotEqual(t, "5309", hash)

	assert.NoError(t, CheckPassword(hash, "5309"))
	assert.ErrorIs(t, CheckPassword(hash, "8675"), ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword("", ""), ErrInvalidCredentials)
}
