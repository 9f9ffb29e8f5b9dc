package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func strPtr(s string) *string {
	return &s
}

func TestSign_ProducesVerifiableToken(t *testing.T) {
	m := NewTokenManager(testSecret, 15*time.Minute)

	token, claims, err := m.Sign("usr_abc", "ada@example.com", strPtr("Ada"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	verified, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_abc", verified.Subject)
	assert.Equal(t, "ada@example.com", verified.Email)
	require.NotNil(t, verified.DisplayName)
	assert.Equal(t, "Ada", *verified.DisplayName)

	assert.WithinDuration(t, time.Now().UTC(), claims.IssuedAt.Time, 5*time.Second)
	assert.Equal(t, claims.IssuedAt.Time.Add(15*time.Minute), claims.ExpiresAt.Time)
}

func TestSign_NilDisplayName(t *testing.T) {
	m := NewTokenManager(testSecret, 15*time.Minute)

	token, _, err := m.Sign("usr_abc", "ada@example.com", nil)
	require.NoError(t, err)

	verified, err := m.Verify(token)
	require.NoError(t, err)
	assert.Nil(t, verified.DisplayName)
}

func TestVerify_Malformed(t *testing.T) {
	m := NewTokenManager(testSecret, 15*time.Minute)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	m := NewTokenManager(testSecret, 15*time.Minute)

	token, _, err := m.Sign("usr_abc", "ada@example.com", nil)
	require.NoError(t, err)

	_, err = m.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_WrongSecret(t *testing.T) {
	m := NewTokenManager(testSecret, 15*time.Minute)
	other := NewTokenManager("a-completely-different-secret", 15*time.Minute)

	token, _, err := other.Sign("usr_abc", "ada@example.com", nil)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)

	token, _, err := m.Sign("usr_abc", "ada@example.com", nil)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

// Tokens signed with any algorithm other than HS256 are rejected before
// signature verification, including the classic alg=none downgrade.
func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	m := NewTokenManager(testSecret, 15*time.Minute)

	claims := &AccessTokenClaims{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "usr_abc",
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
		},
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(noneToken)
	assert.ErrorIs(t, err, ErrUnexpectedAlgorithm)

	hs384Token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Verify(hs384Token)
	assert.ErrorIs(t, err, ErrUnexpectedAlgorithm)
}

func TestVerify_MissingRequiredClaims(t *testing.T) {
	m := NewTokenManager(testSecret, 15*time.Minute)

	cases := map[string]*AccessTokenClaims{
		"no subject": {
			Email: "ada@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
				ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
			},
		},
		"no email": {
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "usr_abc",
				IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
				ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
			},
		},
		"no issued at": {
			Email: "ada@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "usr_abc",
				ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
			},
		},
		"no expiry": {
			Email: "ada@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:  "usr_abc",
				IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
			},
		},
	}

	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			require.NoError(t, err)

			_, err = m.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidClaims)
		})
	}
}
