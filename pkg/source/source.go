// Package source reads the current version from, and writes new versions
// to, the places a build keeps them: a plain file, environment variables,
// git tags or a Go source file.
package source

import (
	"errors"

	"github.com/bcomnes/autoversion/pkg/version"
)

// ErrNoTags is returned when git finds no version tag reachable from HEAD.
var ErrNoTags = errors.New("no version tags found")

// Source provides the current version.
type Source interface {
	Name() string
	CurrentVersion() (version.Value, error)
}

// Target persists a new version.
type Target interface {
	Name() string
	SetNewVersion(v version.Value) error
}

// Planner is implemented by targets that write files. Files lists what
// SetNewVersion(v) would write, without writing anything.
type Planner interface {
	Files(v version.Value) ([]string, error)
}

// Committer is implemented by targets that record the written files in
// version control before persisting the version.
type Committer interface {
	// CheckClean fails when files other than allowed have uncommitted
	// changes.
	CheckClean(allowed []string) error
	// CommitFiles records files as a commit for v.
	CommitFiles(v version.Value, files []string) error
}

// Checker is implemented by sources and targets that depend on an external
// tool. Check fails when the tool cannot be used.
type Checker interface {
	Check() error
}

func lenientParser() version.Parser {
	return version.Parser{IgnoreEmpty: true}
}
