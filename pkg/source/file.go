package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bcomnes/autoversion/pkg/version"
)

// File keeps the version in a small key/value text file:
//
//	Version = 1.2.0.0-rc3
//	CanonicalVersion = 1.2.0.0
//	VersionMajor = 1
//	...
//
// Blank lines and lines starting with // or # are ignored when reading.
type File struct {
	Path   string
	Parser version.Parser
}

// NewFile returns a File source reading path with a lenient parser.
func NewFile(path string) *File {
	return &File{Path: path, Parser: lenientParser()}
}

func (f *File) Name() string { return "File-Based Simple Version Control" }

// CurrentVersion returns the zero version when the file or its Version
// line is missing.
func (f *File) CurrentVersion() (version.Value, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return version.Value{}, nil
	}
	if err != nil {
		return version.Value{}, fmt.Errorf("reading version file: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.NewReplacer(" ", "", "\t", "").Replace(line)
		if len(line) < len("Version=") || !strings.EqualFold(line[:len("Version=")], "Version=") {
			continue
		}
		value, _, _ := strings.Cut(line[len("Version="):], "=")
		return f.Parser.Parse(value)
	}
	if err := sc.Err(); err != nil {
		return version.Value{}, fmt.Errorf("reading version file: %w", err)
	}
	return version.Value{}, nil
}

// SetNewVersion rewrites the whole file, creating its directory if needed.
func (f *File) SetNewVersion(v version.Value) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Version = %s\n", v)
	fmt.Fprintf(&b, "CanonicalVersion = %s\n", v.FullCanonical())
	fmt.Fprintf(&b, "VersionMajor = %d\n", v.Major)
	fmt.Fprintf(&b, "VersionMinor = %d\n", v.Minor)
	fmt.Fprintf(&b, "VersionBuild = %d\n", v.Build)
	fmt.Fprintf(&b, "VersionRevision = %d\n", v.Revision)
	if suffix := strings.TrimSpace(v.DynamicSuffix); suffix != "" {
		fmt.Fprintf(&b, "VersionSuffix = %s\n", suffix)
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Path, err)
	}
	return os.WriteFile(f.Path, []byte(b.String()), 0o644)
}

// Files implements Planner.
func (f *File) Files(version.Value) ([]string, error) {
	return []string{f.Path}, nil
}
