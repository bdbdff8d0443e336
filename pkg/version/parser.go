package version

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parser converts free-form version strings into Values.
//
// The zero Parser rejects blank input and applies no default suffix.
type Parser struct {
	// IgnoreEmpty makes Parse return the zero Value for blank input instead
	// of ErrEmptyInput.
	IgnoreEmpty bool

	// DefaultFixedSuffix is used as the fixed suffix when the input carries
	// no suffix at all.
	DefaultFixedSuffix string
}

// NewParser returns a Parser that rejects blank input.
func NewParser() Parser {
	return Parser{}
}

// Parse reads a version of the form "major[.minor[.build[.revision]]][-suffix]".
//
// Whitespace anywhere in the input is ignored and a leading "v" or "V" is
// dropped. Missing numeric positions default to 0. The suffix is split at
// its trailing run of ASCII digits: "alpha123" yields the fixed suffix
// "alpha" and the dynamic suffix "123".
func (p Parser) Parse(input string) (Value, error) {
	s := stripSpaces(input)
	if s == "" {
		if p.IgnoreEmpty {
			return Value{}, nil
		}
		return Value{}, ErrEmptyInput
	}

	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') && isDigit(s[1]) {
		s = s[1:]
	}

	numeric, suffix, hasSuffix := strings.Cut(s, "-")

	segments := strings.Split(numeric, ".")
	if len(segments) > 4 {
		return Value{}, fmt.Errorf("%w: %q has more than four numeric segments", ErrFormat, input)
	}

	var parts [4]int
	for i, seg := range segments {
		n, err := parseComponent(seg)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q: %v", ErrFormat, input, err)
		}
		parts[i] = n
	}

	v := New(parts[0], parts[1], parts[2], parts[3])
	if hasSuffix {
		v.FixedSuffix, v.DynamicSuffix = SplitSuffix(suffix)
	}
	if !v.IsPrerelease() && p.DefaultFixedSuffix != "" {
		v.FixedSuffix = p.DefaultFixedSuffix
	}
	return v, nil
}

// MustParse is like Parse with a default Parser but panics on error.
// It is intended for tests and static tables.
func MustParse(input string) Value {
	v, err := NewParser().Parse(input)
	if err != nil {
		panic(err)
	}
	return v
}

// SplitSuffix splits a suffix into its fixed part and its trailing digit run.
func SplitSuffix(suffix string) (fixed, dynamic string) {
	i := len(suffix)
	for i > 0 && isDigit(suffix[i-1]) {
		i--
	}
	return suffix[:i], suffix[i:]
}

func parseComponent(seg string) (int, error) {
	if seg == "" {
		return 0, fmt.Errorf("empty numeric segment")
	}
	for i := 0; i < len(seg); i++ {
		if !isDigit(seg[i]) {
			return 0, fmt.Errorf("segment %q is not a non-negative integer", seg)
		}
	}
	n, err := strconv.ParseInt(seg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("segment %q: %w", seg, err)
	}
	return int(n), nil
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
