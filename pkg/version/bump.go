package version

import (
	"fmt"
	"strings"
)

// BumpKind selects which component an increment or decrement targets.
type BumpKind int

const (
	// BumpNone leaves the version untouched.
	BumpNone BumpKind = iota
	// BumpMajor targets the major component.
	BumpMajor
	// BumpMinor targets the minor component.
	BumpMinor
	// BumpBuild targets the build component.
	BumpBuild
	// BumpRevision targets the revision component.
	BumpRevision
	// BumpSuffix targets the dynamic suffix counter.
	BumpSuffix
)

// String returns the lower-case name of the bump kind.
func (k BumpKind) String() string {
	switch k {
	case BumpNone:
		return "none"
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	case BumpBuild:
		return "build"
	case BumpRevision:
		return "revision"
	case BumpSuffix:
		return "suffix"
	default:
		return fmt.Sprintf("BumpKind(%d)", int(k))
	}
}

// ParseBumpKind maps a case-insensitive name to a BumpKind.
// Supported names: none (nobump), major, minor, build (patch), revision,
// suffix.
func ParseBumpKind(s string) (BumpKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "nobump":
		return BumpNone, nil
	case "major":
		return BumpMajor, nil
	case "minor":
		return BumpMinor, nil
	case "build", "patch":
		return BumpBuild, nil
	case "revision":
		return BumpRevision, nil
	case "suffix":
		return BumpSuffix, nil
	default:
		return BumpNone, fmt.Errorf("%w: unknown bump kind %q", ErrUnsupportedOperation, s)
	}
}
