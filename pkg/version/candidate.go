package version

import (
	"fmt"
	"strconv"
	"strings"
)

// ReleaseCandidate only moves the dynamic suffix counter, leaving the
// numeric components alone: 1.2.0.0-rc1 -> 1.2.0.0-rc2.
//
// Ordering compares the numeric components first and the dynamic suffix
// counter second. The fixed suffix takes no part in ordering, so
// 1.0.0.0-alpha5 and 1.0.0.0-beta5 are equal under this strategy.
type ReleaseCandidate struct {
	// DefaultFixedSuffix is applied by Increment when the input has no
	// suffix at all.
	DefaultFixedSuffix string
}

// Name implements Strategy.
func (ReleaseCandidate) Name() string { return "Release Candidate Versioning" }

// Increment adds one to the dynamic suffix. The result is rendered without
// zero padding. Only BumpSuffix and BumpNone are supported.
func (s ReleaseCandidate) Increment(v Value, kind BumpKind) (Value, error) {
	if kind == BumpNone {
		return v, nil
	}
	if kind != BumpSuffix {
		return v, fmt.Errorf("%w: only suffix versioning is supported by the release candidate strategy, got %s", ErrUnsupportedOperation, kind)
	}

	counter, err := parseCounter(v.DynamicSuffix)
	if err != nil {
		return v, err
	}

	fixed := v.FixedSuffix
	if strings.TrimSpace(fixed) == "" && strings.TrimSpace(v.DynamicSuffix) == "" {
		fixed = s.DefaultFixedSuffix
	}
	return v.WithSuffix(fixed, strconv.FormatUint(counter+1, 10)), nil
}

// Decrement subtracts one from the dynamic suffix. It returns ErrRange when
// the counter is already 0. Only BumpSuffix and BumpNone are supported.
func (ReleaseCandidate) Decrement(v Value, kind BumpKind) (Value, error) {
	if kind == BumpNone {
		return v, nil
	}
	if kind != BumpSuffix {
		return v, fmt.Errorf("%w: only suffix versioning is supported by the release candidate strategy, got %s", ErrUnsupportedOperation, kind)
	}

	counter, err := parseCounter(v.DynamicSuffix)
	if err != nil {
		return v, err
	}
	if counter < 1 {
		return v, rangeError(kind, v)
	}
	return v.WithSuffix(v.FixedSuffix, strconv.FormatUint(counter-1, 10)), nil
}

// IsGreaterThan implements Strategy.
func (ReleaseCandidate) IsGreaterThan(a, b Value) bool {
	if c := compareCanonical(a, b); c != 0 {
		return c > 0
	}
	return counterOf(a) > counterOf(b)
}

// IsLessThan implements Strategy.
func (ReleaseCandidate) IsLessThan(a, b Value) bool {
	if c := compareCanonical(a, b); c != 0 {
		return c < 0
	}
	return counterOf(a) < counterOf(b)
}

// IsEqualTo implements Strategy.
func (ReleaseCandidate) IsEqualTo(a, b Value) bool {
	return compareCanonical(a, b) == 0 && counterOf(a) == counterOf(b)
}

// parseCounter reads a dynamic suffix; an empty suffix counts as 0.
func parseCounter(dynamic string) (uint64, error) {
	dynamic = strings.TrimSpace(dynamic)
	if dynamic == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(dynamic, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: dynamic suffix %q: %v", ErrFormat, dynamic, err)
	}
	return n, nil
}

func counterOf(v Value) uint64 {
	n, _ := parseCounter(v.DynamicSuffix)
	return n
}
