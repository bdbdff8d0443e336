package version

import (
	"fmt"
	"strings"
)

// Value is an immutable version: four non-negative numeric components plus
// an optional fixed (alphabetic) and dynamic (numeric) suffix.
//
// Values are passed and returned by value. Every operation that changes a
// component returns a new Value.
type Value struct {
	Major    int
	Minor    int
	Build    int
	Revision int

	// FixedSuffix is the alphabetic prerelease tag, e.g. "beta".
	FixedSuffix string
	// DynamicSuffix is the numeric counter following the fixed suffix. It is
	// kept as a string so zero padding ("001") survives a round trip.
	DynamicSuffix string
}

// New returns a Value with the given canonical components and no suffix.
func New(major, minor, build, revision int) Value {
	return Value{Major: major, Minor: minor, Build: build, Revision: revision}
}

// WithSuffix returns a copy of v carrying the given suffix parts.
func (v Value) WithSuffix(fixed, dynamic string) Value {
	v.FixedSuffix = fixed
	v.DynamicSuffix = dynamic
	return v
}

// WithoutSuffix returns a copy of v with both suffix parts cleared.
func (v Value) WithoutSuffix() Value {
	return v.WithSuffix("", "")
}

// IsPrerelease reports whether either suffix part is set.
func (v Value) IsPrerelease() bool {
	return strings.TrimSpace(v.FixedSuffix) != "" || strings.TrimSpace(v.DynamicSuffix) != ""
}

// IsZero reports whether v is the zero version 0.0.0.0 without suffix.
func (v Value) IsZero() bool {
	return v == Value{}
}

// Canonical returns the four numeric components in order.
func (v Value) Canonical() [4]int {
	return [4]int{v.Major, v.Minor, v.Build, v.Revision}
}

// Suffix returns the fixed and dynamic suffix joined, e.g. "beta12".
func (v Value) Suffix() string {
	return v.FixedSuffix + v.DynamicSuffix
}

// String returns the short form "major.minor.build" for release versions
// with a zero revision, the full canonical form for other release versions,
// and the prerelease form otherwise.
func (v Value) String() string {
	if !v.IsPrerelease() {
		if v.Revision == 0 {
			return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
		}
		return v.FullCanonical()
	}
	return v.Prerelease()
}

// FullCanonical always returns "major.minor.build.revision".
func (v Value) FullCanonical() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Prerelease returns the full canonical form followed by "-<fixed><dynamic>".
// For release versions it is the same as FullCanonical.
func (v Value) Prerelease() string {
	if !v.IsPrerelease() {
		return v.FullCanonical()
	}
	return v.FullCanonical() + "-" + v.Suffix()
}

// compareCanonical compares the numeric components of a and b as a tuple.
func compareCanonical(a, b Value) int {
	ac, bc := a.Canonical(), b.Canonical()
	for i := range ac {
		switch {
		case ac[i] < bc[i]:
			return -1
		case ac[i] > bc[i]:
			return 1
		}
	}
	return 0
}
