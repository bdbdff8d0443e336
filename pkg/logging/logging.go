// Package logging holds the shared slog level and logger constructor used by
// every autoversion component.
package logging

import (
	"io"
	"log/slog"
	"os"
)

var (
	// Level is shared by every logger built with New.
	Level slog.LevelVar

	// DefaultOpts are the handler options of loggers built with New.
	DefaultOpts = &slog.HandlerOptions{
		Level: &Level,
	}

	output io.Writer = os.Stderr
)

// New returns a text logger on stderr tagged with the component name.
func New(component string) *slog.Logger {
	return slog.New(slog.NewTextHandler(output, DefaultOpts)).With("component", component)
}

// SetVerbose switches every logger between Info and Debug.
func SetVerbose(verbose bool) {
	if verbose {
		Level.Set(slog.LevelDebug)
		return
	}
	Level.Set(slog.LevelInfo)
}

// SetOutput redirects loggers built afterwards. Tests use it to capture logs.
func SetOutput(w io.Writer) {
	output = w
}

// Or returns l, or a component logger when l is nil.
func Or(l *slog.Logger, component string) *slog.Logger {
	if l != nil {
		return l
	}
	return New(component)
}
