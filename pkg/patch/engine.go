package patch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofrs/flock"

	"github.com/bcomnes/autoversion/pkg/logging"
	"github.com/bcomnes/autoversion/pkg/version"
)

// LockTimeout bounds the wait for the exclusive lock on each file.
var LockTimeout = 2 * time.Second

// Patcher rewrites the version fields of every file its Config selects
// under Root. Files of a kind outside Kinds abort the run.
type Patcher struct {
	Name   string
	Root   string
	Config Config
	Kinds  []Kind
	Logger *slog.Logger
}

// NewNetCore patches .csproj and .vbproj files.
func NewNetCore(root string, cfg Config, logger *slog.Logger) *Patcher {
	return newPatcher(".NET Core Version Patcher", root, cfg, logger, CSharpProject, VbProject)
}

// NewNetFx patches AssemblyInfo source files in C#, VB and C++.
func NewNetFx(root string, cfg Config, logger *slog.Logger) *Patcher {
	return newPatcher(".NET Framework Version Patcher", root, cfg, logger, CSharpSource, VbSource, CppSource)
}

// NewNuspec patches .nuspec manifests.
func NewNuspec(root string, cfg Config, logger *slog.Logger) *Patcher {
	return newPatcher("NuSpec Version Patcher", root, cfg, logger, PackageManifest)
}

// NewText patches "Version = x" lines in plain text files.
func NewText(root string, cfg Config, logger *slog.Logger) *Patcher {
	return newPatcher("Text File Patcher", root, cfg, logger, PlainText)
}

func newPatcher(name, root string, cfg Config, logger *slog.Logger, kinds ...Kind) *Patcher {
	if root == "" {
		root = "."
	}
	return &Patcher{
		Name:   name,
		Root:   root,
		Config: cfg,
		Kinds:  kinds,
		Logger: logging.Or(logger, "patch").With("patcher", name),
	}
}

func (p *Patcher) logger() *slog.Logger {
	return logging.Or(p.Logger, "patch")
}

// Files lists the files the patcher would touch, sorted and without
// duplicates. Paths are joined to Root.
func (p *Patcher) Files() ([]string, error) {
	var (
		found []string
		err   error
	)
	if p.Config.UseGlobber {
		found, err = p.globFiles()
	} else {
		found, err = p.simpleFiles()
	}
	if err != nil {
		return nil, err
	}
	slices.Sort(found)
	return slices.Compact(found), nil
}

// globFiles matches filters against paths below Root, ignoring case.
func (p *Patcher) globFiles() ([]string, error) {
	if !p.Config.Recursive {
		return nil, fmt.Errorf("%w: cannot disable recursive search when using the globber", version.ErrUnsupportedOperation)
	}
	fsys := os.DirFS(p.Root)
	var out []string
	for _, filter := range p.Config.Filters() {
		pattern := foldCase(strings.TrimPrefix(filepath.ToSlash(filter), "./"))
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", filter, err)
		}
		for _, m := range matches {
			out = append(out, filepath.Join(p.Root, filepath.FromSlash(m)))
		}
	}
	return out, nil
}

// foldCase turns every cased letter outside a character class into a class
// matching both cases, e.g. "*.cs" into "*.[cC][sS]".
func foldCase(pattern string) string {
	var (
		b       strings.Builder
		inClass bool
		escaped bool
	)
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case inClass:
			inClass = r != ']'
		case r == '[':
			inClass = true
		case unicode.ToLower(r) != unicode.ToUpper(r):
			b.WriteByte('[')
			b.WriteRune(unicode.ToLower(r))
			b.WriteRune(unicode.ToUpper(r))
			b.WriteByte(']')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p *Patcher) simpleFiles() ([]string, error) {
	var out []string
	for _, filter := range p.Config.Filters() {
		if !p.Config.Recursive {
			entries, err := os.ReadDir(p.Root)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", p.Root, err)
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				if ok, err := filepath.Match(filter, e.Name()); err != nil {
					return nil, fmt.Errorf("filter %q: %w", filter, err)
				} else if ok {
					out = append(out, filepath.Join(p.Root, e.Name()))
				}
			}
			continue
		}

		err := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ok, err := filepath.Match(filter, d.Name())
			if err != nil {
				return fmt.Errorf("filter %q: %w", filter, err)
			}
			if ok {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Patch rewrites every selected file with v. It stops at the first error;
// files patched before it stay patched.
func (p *Patcher) Patch(v version.Value) error {
	files, err := p.Files()
	if err != nil {
		return err
	}
	logger := p.logger()
	logger.Info("found files to patch", "count", len(files))

	for _, file := range files {
		logger.Info("patching file", "file", file)
		if err := p.PatchFile(file, v); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

// PatchFile rewrites a single file. A missing file is logged and skipped.
func (p *Patcher) PatchFile(path string, v version.Value) error {
	logger := p.logger()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("file does not exist, skipping", "file", path)
		return nil
	}

	kind, err := p.Config.classify(path)
	if err != nil {
		return err
	}
	if !slices.Contains(p.Kinds, kind) {
		return fmt.Errorf("%w: %s files are not handled by the %s", ErrUnsupportedFormat, kind, p.Name)
	}
	logger.Debug("detected file kind", "file", path, "kind", kind)

	lock := flock.New(path)
	ctx, cancel := context.WithTimeout(context.Background(), LockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil {
		return fmt.Errorf("locking file: %w", err)
	}
	if !locked {
		return errors.New("unable to acquire file lock")
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	enc := DetectEncoding(raw)
	logger.Debug("detected encoding", "file", path, "encoding", enc)

	content, err := enc.Decode(raw)
	if err != nil {
		return err
	}
	patched, err := Rewrite(kind, content, v, p.Config)
	if err != nil {
		return err
	}
	out, err := enc.Encode(patched)
	if err != nil {
		return err
	}

	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncating file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(out); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return f.Sync()
}
