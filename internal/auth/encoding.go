package auth

import (
	"encoding/base64"
	"fmt"
)

// DecodeError is returned when a base64url value cannot be decoded. It is a
// distinct failure kind so callers can tell codec problems apart from
// cryptographic ones.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed base64url value: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeBase64URL encodes raw bytes as URL-safe base64 without padding, the
// alphabet used for salts, derived keys, refresh tokens, and JWT segments.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64URL decodes an unpadded URL-safe base64 string. Wrong-alphabet
// characters and impossible lengths surface as a *DecodeError.
func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return b, nil
}
