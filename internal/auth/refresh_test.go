package auth

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshToken_Shape(t *testing.T) {
	rt, err := NewRefreshToken(720 * time.Hour)
	require.NoError(t, err)

	raw, err := DecodeBase64URL(rt.Plaintext)
	require.NoError(t, err)
	assert.Len(t, raw, 48)

	assert.Equal(t, HashRefreshToken(rt.Plaintext), rt.Hash)
	assert.WithinDuration(t, time.Now().UTC().Add(720*time.Hour), rt.ExpiresAt, 5*time.Second)
}

func TestNewRefreshToken_Unique(t *testing.T) {
	a, err := NewRefreshToken(time.Hour)
	require.NoError(t, err)
	b, err := NewRefreshToken(time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, a.Plaintext, b.Plaintext)
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestHashRefreshToken_Deterministic(t *testing.T) {
	plaintext := "some-opaque-token"

	sum := sha256.Sum256([]byte(plaintext))
	expected := EncodeBase64URL(sum[:])

	assert.Equal(t, expected, HashRefreshToken(plaintext))
	assert.Equal(t, HashRefreshToken(plaintext), HashRefreshToken(plaintext))
	assert.NotEqual(t, HashRefreshToken(plaintext), HashRefreshToken(plaintext+"x"))
}
