package version

import (
	"fmt"
	"strings"
)

// Strategy computes next versions and orders versions according to a
// versioning scheme.
type Strategy interface {
	// Name is a human readable strategy name used in logs.
	Name() string
	// Increment returns v bumped by kind.
	Increment(v Value, kind BumpKind) (Value, error)
	// Decrement returns v lowered by kind.
	Decrement(v Value, kind BumpKind) (Value, error)
	IsGreaterThan(a, b Value) bool
	IsLessThan(a, b Value) bool
	IsEqualTo(a, b Value) bool
}

// Compare returns -1 when a < b, 1 when a > b and 0 otherwise, as decided by s.
// Pairs that s considers neither less, greater nor equal compare as 0.
func Compare(s Strategy, a, b Value) int {
	switch {
	case s.IsLessThan(a, b):
		return -1
	case s.IsGreaterThan(a, b):
		return 1
	default:
		return 0
	}
}

// StrategyByName returns the strategy registered under name.
// Known names are "simple" (alias "canonical") and "rc".
// defaultFixedSuffix is only used by the release candidate strategy.
func StrategyByName(name, defaultFixedSuffix string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "simple", "canonical":
		return Canonical{}, nil
	case "rc":
		return ReleaseCandidate{DefaultFixedSuffix: defaultFixedSuffix}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
