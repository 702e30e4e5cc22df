package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"type":      "owed",
		"game_id":   "g1",
		"player_id": "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"game_id":"g1","player_id":"bob","type":"owed"}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(got))
}

func TestMarshalCanonical_EscapesControlCharacters(t *testing.T) {
	got, err := MarshalCanonical("a\"b\\c\n\x01")
	require.NoError(t, err)
	assert.Equal(t, `"a\"b\\c\n\u0001"`, string(got))
}

func TestMarshalCanonical_LineSeparatorsLiteral(t *testing.T) {
	got, err := MarshalCanonical("x\u2028y\u2029z")
	require.NoError(t, err)
	assert.Equal(t, "\"x\u2028y\u2029z\"", string(got))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// e + combining acute accent (NFD) must match the precomposed form.
	decomposed, err := MarshalCanonical("cafe\u0301")
	require.NoError(t, err)
	composed, err := MarshalCanonical("caf\u00e9")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+FF61 sorts before U+1F600 in UTF-8 byte order but after it in
	// UTF-16 code units (0xFF61 > 0xD83D).
	got, err := MarshalCanonical(map[string]any{
		"\uFF61":     1,
		"\U0001F600": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFF61\":1}", string(got))
}

func TestMarshalCanonical_Nested(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b": []any{true, int64(2), "x"},
		"a": []string{"m", "n"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":["m","n"],"b":[true,2,"x"]}`, string(got))
}

func TestMarshalCanonical_RejectsNullAndFloats(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"f": 1.5})
	assert.Error(t, err)
}
