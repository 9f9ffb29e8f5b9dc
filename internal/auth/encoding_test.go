package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBase64URL_NoPaddingNoStdAlphabet(t *testing.T) {
	// Input chosen to produce '-' and '_' in the URL-safe alphabet and '='
	// padding in standard base64.
	encoded := EncodeBase64URL([]byte{0xfb, 0xef, 0xff})

	assert.NotContains(t, encoded, "=")
	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, "/")
}

func TestEncodeBase64URL_Empty(t *testing.T) {
	assert.Equal(t, "", EncodeBase64URL(nil))
	assert.Equal(t, "", EncodeBase64URL([]byte{}))
}

func TestDecodeBase64URL_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		{0xff, 0xfe, 0xfd},
		[]byte("the quick brown fox"),
	}

	for _, in := range inputs {
		decoded, err := DecodeBase64URL(EncodeBase64URL(in))
		require.NoError(t, err)
		assert.Equal(t, in, decoded)
	}
}

func TestDecodeBase64URL_RejectsPadding(t *testing.T) {
	_, err := DecodeBase64URL("aGVsbG8=")

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeBase64URL_RejectsStandardAlphabet(t *testing.T) {
	_, err := DecodeBase64URL("a+b/cd")

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeBase64URL_RejectsImpossibleLength(t *testing.T) {
	// A single base64 character cannot encode any whole byte.
	_, err := DecodeBase64URL("A")

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}
