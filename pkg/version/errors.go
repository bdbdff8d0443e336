package version

import "errors"

var (
	// ErrEmptyInput is returned when a blank version string is parsed and the
	// parser is not configured to tolerate it.
	ErrEmptyInput = errors.New("version string cannot be empty")

	// ErrFormat is returned when a numeric segment cannot be parsed.
	ErrFormat = errors.New("invalid version format")

	// ErrUnsupportedOperation is returned when a bump kind is not supported by
	// the active strategy, or when an operation is not allowed in the current
	// configuration.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrRange is returned when a decrement would make a component negative.
	ErrRange = errors.New("version component out of range")
)
