package source

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/bcomnes/autoversion/pkg/logging"
	"github.com/bcomnes/autoversion/pkg/version"
)

// semverPattern is the semver.org grammar without anchors.
var semverPattern = regexp.MustCompile(`(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?`)

// SemverFiles replaces the first semantic version in each of its files,
// e.g. the "version" of a package.json or a Cargo.toml. Versions written
// right after a "v" are skipped.
type SemverFiles struct {
	Paths  []string
	Logger *slog.Logger
}

// NewSemverFiles returns a target for paths.
func NewSemverFiles(paths []string, logger *slog.Logger) *SemverFiles {
	return &SemverFiles{Paths: paths, Logger: logging.Or(logger, "semverfiles")}
}

func (s *SemverFiles) Name() string { return "Semantic Version Files" }

// SetNewVersion rewrites every file. A file that cannot be bumped is
// logged and left alone.
func (s *SemverFiles) SetNewVersion(v version.Value) error {
	logger := logging.Or(s.Logger, "semverfiles")
	for _, path := range s.Paths {
		if err := findAndReplaceSemver(path, v.String()); err != nil {
			logger.Warn("failed to bump version", "file", path, "error", err)
		}
	}
	return nil
}

// Files implements Planner. Missing files are left out.
func (s *SemverFiles) Files(version.Value) ([]string, error) {
	var files []string
	for _, path := range s.Paths {
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return files, nil
}

// findAndReplaceSemver replaces the first semantic version in path that is
// not preceded by "v" or "V".
func findAndReplaceSemver(path, newVersion string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	for _, m := range semverPattern.FindAllIndex(content, -1) {
		if m[0] > 0 && strings.ContainsRune("vV", rune(content[m[0]-1])) {
			continue
		}
		out := make([]byte, 0, len(content)-m[1]+m[0]+len(newVersion))
		out = append(out, content[:m[0]]...)
		out = append(out, newVersion...)
		out = append(out, content[m[1]:]...)
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	}
	return errors.New("no semantic version found in file")
}
