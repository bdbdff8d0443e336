package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected Encoding
	}{
		{"empty", nil, UTF8},
		{"ascii", []byte("Version = 1.0\r\n\tx"), ASCII},
		{"utf8 without bom", []byte("caf\xc3\xa9"), UTF8},
		{"control byte", []byte{'a', 0x01}, UTF8},
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'a'}, UTF8BOM},
		{"utf16le", []byte{0xFF, 0xFE, 'a', 0}, UTF16LE},
		{"utf16be", []byte{0xFE, 0xFF, 0, 'a'}, UTF16BE},
		{"utf32le", []byte{0xFF, 0xFE, 0, 0, 'a', 0, 0, 0}, UTF32LE},
		{"utf32be", []byte{0, 0, 0xFE, 0xFF, 0, 0, 0, 'a'}, UTF32BE},
	}
	for _, tc := range tests {
		if got := DetectEncoding(tc.input); got != tc.expected {
			t.Errorf("%s: DetectEncoding() = %s, expected %s", tc.name, got, tc.expected)
		}
	}
}

// TestEncodingRoundTrip checks that decoding then encoding gives back the
// same bytes, byte order mark included.
func TestEncodingRoundTrip(t *testing.T) {
	inputs := map[Encoding][]byte{
		UTF8BOM: append([]byte{0xEF, 0xBB, 0xBF}, "<Project>é</Project>"...),
		UTF16LE: {0xFF, 0xFE, 'h', 0, 'i', 0, '\n', 0},
		UTF16BE: {0xFE, 0xFF, 0, 'h', 0, 'i'},
		UTF32LE: {0xFF, 0xFE, 0, 0, 'h', 0, 0, 0},
		UTF32BE: {0, 0, 0xFE, 0xFF, 0, 0, 0, 'h'},
		ASCII:   []byte("plain\n"),
	}
	for enc, raw := range inputs {
		require.Equal(t, enc, DetectEncoding(raw))
		text, err := enc.Decode(raw)
		require.NoError(t, err, enc.String())
		assert.NotContains(t, text, "\uFEFF", enc.String())

		out, err := enc.Encode(text)
		require.NoError(t, err, enc.String())
		assert.Equal(t, raw, out, enc.String())
	}
}

func TestDecodeUTF16(t *testing.T) {
	text, err := UTF16LE.Decode([]byte{0xFF, 0xFE, 'h', 0, 'i', 0})
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}
