package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. Each maps to a distinct cause so the caller can
// log precisely while still collapsing all of them to a generic unauthorized
// response at the edge.
var (
	ErrTokenMalformed      = errors.New("malformed token")
	ErrUnexpectedAlgorithm = errors.New("unexpected signing algorithm")
	ErrInvalidSignature    = errors.New("invalid token signature")
	ErrInvalidClaims       = errors.New("invalid token claims")
	ErrTokenExpired        = errors.New("token expired")
)

// AccessTokenClaims is the payload carried by an access token: the subject
// user id plus the identity fields route handlers need without a user lookup.
// DisplayName serializes as JSON null when the user has none.
type AccessTokenClaims struct {
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access tokens. Issuance and
// verification share one symmetric secret; both happen inside the same trust
// boundary, so no key rotation mechanism exists.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given secret and access
// token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured access token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Sign issues an access token for the user with iat=now and exp=now+ttl.
// The structured claims are returned alongside the compact token so callers
// can read the expiry without re-parsing.
func (m *TokenManager) Sign(userID, email string, displayName *string) (string, *AccessTokenClaims, error) {
	now := time.Now().UTC()
	claims := &AccessTokenClaims{
		Email:       email,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign access token: %w", err)
	}

	return token, claims, nil
}

// Verify parses and validates a compact access token. It fails with
// ErrTokenMalformed on anything that is not a three-segment JWT,
// ErrUnexpectedAlgorithm unless the header declares HS256,
// ErrInvalidSignature on an HMAC mismatch, ErrTokenExpired once exp <= now
// (no clock-skew leeway), and ErrInvalidClaims when the payload is missing
// required fields.
func (m *TokenManager) Verify(tokenString string) (*AccessTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedAlgorithm, t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnexpectedAlgorithm):
			return nil, ErrUnexpectedAlgorithm
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
		}
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.Subject == "" || claims.Email == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
