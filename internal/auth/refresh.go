package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"time"
)

// refreshTokenBytes is the entropy of a refresh token before encoding.
const refreshTokenBytes = 48

// RefreshToken pairs the opaque plaintext handed to the client with the
// one-way hash persisted in storage. The plaintext exists only in memory and
// in the response; a storage compromise alone yields no usable tokens.
type RefreshToken struct {
	Plaintext string
	Hash      string
	ExpiresAt time.Time
}

// NewRefreshToken generates a high-entropy opaque token valid for ttl.
func NewRefreshToken(ttl time.Duration) (*RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	plaintext := EncodeBase64URL(buf)

	return &RefreshToken{
		Plaintext: plaintext,
		Hash:      HashRefreshToken(plaintext),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// HashRefreshToken computes the stored form of a refresh token: base64url of
// the SHA-256 digest of the plaintext. Presented tokens are hashed the same
// way and looked up against storage; the plaintext itself is never persisted
// or logged.
func HashRefreshToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return EncodeBase64URL(sum[:])
}
