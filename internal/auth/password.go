package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters for newly created password hashes. Stored hashes embed
// their own parameters, so these can be raised without invalidating existing
// records.
const (
	pbkdf2Scheme     = "pbkdf2"
	pbkdf2Iterations = 100_000
	pbkdf2KeyLength  = 32 // 256 bits
	pbkdf2SaltLength = 16 // 128 bits
)

// PasswordStrengthHint is the user-facing message for rejected weak passwords.
const PasswordStrengthHint = "Password must be at least 8 characters long."

// HashPassword derives a PBKDF2-SHA256 key from the password under a fresh
// random salt and encodes the result as a self-describing record:
//
//	pbkdf2$<iterations>$<salt b64url>$<key b64url>
func HashPassword(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate password salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)

	return strings.Join([]string{
		pbkdf2Scheme,
		strconv.Itoa(pbkdf2Iterations),
		EncodeBase64URL(salt),
		EncodeBase64URL(key),
	}, "$"), nil
}

// VerifyPassword re-derives the key using the parameters stored in the record
// and compares it to the stored key in constant time. Any malformed or
// unrecognized record fails closed: the function returns false, never an
// error, so storage corruption cannot be told apart from a wrong password.
func VerifyPassword(password, storedHash string) bool {
	parts := strings.Split(storedHash, "$")
	if len(parts) != 4 || parts[0] != pbkdf2Scheme {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := DecodeBase64URL(parts[2])
	if err != nil {
		return false
	}

	expected, err := DecodeBase64URL(parts[3])
	if err != nil || len(expected) == 0 {
		return false
	}

	actual := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)

	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// UpgradeHashIfNeeded returns a freshly computed hash when the stored record
// uses an unrecognized scheme or fewer iterations than the current default,
// and the unchanged record otherwise. Callers must only invoke it after a
// successful VerifyPassword with the same password.
func UpgradeHashIfNeeded(password, storedHash string) (string, error) {
	parts := strings.SplitN(storedHash, "$", 3)
	if len(parts) < 2 || parts[0] != pbkdf2Scheme {
		return HashPassword(password)
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations < pbkdf2Iterations {
		return HashPassword(password)
	}

	return storedHash, nil
}
