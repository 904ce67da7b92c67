package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("wrench-turner-9")
	require.NoError(t, err)

	assert.NotEqual(t, "wrench-turner-9", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	// bcrypt salts, so hashing twice never collides
	again, err := HashPassword("wrench-turner-9")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestHashPassword_TooLong(t *testing.T) {
	// bcrypt rejects input beyond 72 bytes
	_, err := HashPassword(strings.Repeat("x", 80))
	assert.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("wrench-turner-9")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "wrench-turner-9"))
	assert.False(t, VerifyPassword(hash, "wrench-turner-8"))
	assert.False(t, VerifyPassword(hash, ""))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "wrench-turner-9"))
}
