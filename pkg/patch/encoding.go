package patch

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding is the byte encoding a file was found in.
type Encoding int

const (
	ASCII Encoding = iota
	UTF8
	UTF8BOM
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (e Encoding) String() string {
	switch e {
	case ASCII:
		return "us-ascii"
	case UTF8:
		return "utf-8"
	case UTF8BOM:
		return "utf-8 (bom)"
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	case UTF32LE:
		return "utf-32le"
	case UTF32BE:
		return "utf-32be"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// DetectEncoding guesses the encoding of b from its byte order mark, falling
// back to a scan for bytes outside printable 7-bit ASCII. Empty input is UTF-8.
func DetectEncoding(b []byte) Encoding {
	switch {
	case len(b) == 0:
		return UTF8
	case bytes.HasPrefix(b, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return UTF32LE
	case bytes.HasPrefix(b, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return UTF32BE
	case bytes.HasPrefix(b, []byte{0xFF, 0xFE}):
		return UTF16LE
	case bytes.HasPrefix(b, []byte{0xFE, 0xFF}):
		return UTF16BE
	case bytes.HasPrefix(b, utf8BOM):
		return UTF8BOM
	}

	for _, c := range b {
		if c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		if c < 0x20 || c >= 0x7F {
			return UTF8
		}
	}
	return ASCII
}

func (e Encoding) codec() encoding.Encoding {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM)
	case UTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM)
	default:
		return nil
	}
}

// Decode returns the text of b with any byte order mark removed.
func (e Encoding) Decode(b []byte) (string, error) {
	if e == UTF8BOM {
		return string(bytes.TrimPrefix(b, utf8BOM)), nil
	}
	c := e.codec()
	if c == nil {
		return string(b), nil
	}
	out, err := c.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", e, err)
	}
	return string(out), nil
}

// Encode renders s in e, writing the byte order mark e was detected with.
// ASCII content is written as UTF-8.
func (e Encoding) Encode(s string) ([]byte, error) {
	if e == UTF8BOM {
		return append(append([]byte{}, utf8BOM...), s...), nil
	}
	c := e.codec()
	if c == nil {
		return []byte(s), nil
	}
	out, err := c.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", e, err)
	}
	return out, nil
}
