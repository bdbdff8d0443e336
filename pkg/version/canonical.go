package version

import (
	"fmt"
	"strings"
)

// Canonical bumps the numeric components and always clears the suffix.
//
// Ordering only holds between versions sharing the same suffix (compared
// case-insensitively): 1.2.0-beta1 is neither less than, greater than nor
// equal to 1.3.0.
type Canonical struct{}

// Name implements Strategy.
func (Canonical) Name() string { return "Canonical Versioning" }

// Increment bumps the targeted component, resets the lower ones and clears
// the suffix. BumpSuffix is not supported.
func (Canonical) Increment(v Value, kind BumpKind) (Value, error) {
	switch kind {
	case BumpNone:
		return v, nil
	case BumpMajor:
		return New(v.Major+1, 0, 0, 0), nil
	case BumpMinor:
		return New(v.Major, v.Minor+1, 0, 0), nil
	case BumpBuild:
		return New(v.Major, v.Minor, v.Build+1, 0), nil
	case BumpRevision:
		return New(v.Major, v.Minor, v.Build, v.Revision+1), nil
	case BumpSuffix:
		return v, fmt.Errorf("%w: suffix versioning is not supported by the canonical strategy", ErrUnsupportedOperation)
	default:
		return v, fmt.Errorf("%w: unknown bump kind %s", ErrUnsupportedOperation, kind)
	}
}

// Decrement lowers the targeted component, resets the lower ones and clears
// the suffix. It returns ErrRange when the component is already 0.
func (Canonical) Decrement(v Value, kind BumpKind) (Value, error) {
	switch kind {
	case BumpNone:
		return v, nil
	case BumpMajor:
		if v.Major < 1 {
			return v, rangeError(kind, v)
		}
		return New(v.Major-1, 0, 0, 0), nil
	case BumpMinor:
		if v.Minor < 1 {
			return v, rangeError(kind, v)
		}
		return New(v.Major, v.Minor-1, 0, 0), nil
	case BumpBuild:
		if v.Build < 1 {
			return v, rangeError(kind, v)
		}
		return New(v.Major, v.Minor, v.Build-1, 0), nil
	case BumpRevision:
		if v.Revision < 1 {
			return v, rangeError(kind, v)
		}
		return New(v.Major, v.Minor, v.Build, v.Revision-1), nil
	case BumpSuffix:
		return v, fmt.Errorf("%w: suffix versioning is not supported by the canonical strategy", ErrUnsupportedOperation)
	default:
		return v, fmt.Errorf("%w: unknown bump kind %s", ErrUnsupportedOperation, kind)
	}
}

// IsGreaterThan implements Strategy.
func (Canonical) IsGreaterThan(a, b Value) bool {
	return compareCanonical(a, b) > 0 && sameSuffix(a, b)
}

// IsLessThan implements Strategy.
func (Canonical) IsLessThan(a, b Value) bool {
	return compareCanonical(a, b) < 0 && sameSuffix(a, b)
}

// IsEqualTo implements Strategy.
func (Canonical) IsEqualTo(a, b Value) bool {
	return compareCanonical(a, b) == 0 && sameSuffix(a, b)
}

func sameSuffix(a, b Value) bool {
	return strings.EqualFold(a.FixedSuffix, b.FixedSuffix) &&
		strings.EqualFold(a.DynamicSuffix, b.DynamicSuffix)
}

func rangeError(kind BumpKind, v Value) error {
	return fmt.Errorf("%w: cannot decrement %s of %s below zero", ErrRange, kind, v.Prerelease())
}
