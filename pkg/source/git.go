package source

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bcomnes/autoversion/pkg/logging"
	"github.com/bcomnes/autoversion/pkg/process"
	"github.com/bcomnes/autoversion/pkg/version"
)

// Git reads the version from the nearest tag on the first-parent history
// of HEAD and writes new versions as tags on HEAD.
type Git struct {
	Dir       string
	TagPrefix string
	// Commit makes CommitFiles stage and commit the written files before
	// the tag is created.
	Commit bool

	Runner process.Runner
	Parser version.Parser
	Logger *slog.Logger
}

// NewGit returns a Git source running the real git binary in dir.
func NewGit(dir, tagPrefix string, logger *slog.Logger) *Git {
	return &Git{
		Dir:       dir,
		TagPrefix: tagPrefix,
		Runner:    process.Exec{},
		Parser:    version.NewParser(),
		Logger:    logging.Or(logger, "git"),
	}
}

func (g *Git) Name() string { return "Git Tag Version Control" }

func (g *Git) logger() *slog.Logger {
	return logging.Or(g.Logger, "git")
}

func (g *Git) call(args ...string) (process.Result, error) {
	res, err := g.Runner.Run(g.Dir, "git", args...)
	if err != nil {
		return res, fmt.Errorf("running git %s: %w", args[0], err)
	}
	return res, nil
}

// mustSucceed runs git and turns a non-zero exit into an error, logging
// both output streams.
func (g *Git) mustSucceed(args ...string) (process.Result, error) {
	res, err := g.call(args...)
	if err != nil {
		return res, err
	}
	if !res.Success() {
		g.logger().Error("git command failed",
			"args", strings.Join(args, " "),
			"exitCode", res.ExitCode,
			"stdout", res.Stdout,
			"stderr", res.Stderr)
		return res, fmt.Errorf("git %s failed with exit code %d", args[0], res.ExitCode)
	}
	return res, nil
}

// Check verifies that git can be run.
func (g *Git) Check() error {
	if _, err := g.mustSucceed("--version"); err != nil {
		return fmt.Errorf("git is not available on the system: %w", err)
	}
	return nil
}

// CurrentVersion parses the most recent matching tag. It fails with
// ErrNoTags when git prints nothing.
func (g *Git) CurrentVersion() (version.Value, error) {
	res, err := g.mustSucceed("describe", "--tags", "--first-parent",
		"--match", g.TagPrefix+"[0-9]*", "--abbrev=0", "HEAD")
	if err != nil {
		return version.Value{}, err
	}
	tag := strings.TrimSpace(res.Stdout)
	if tag == "" {
		return version.Value{}, ErrNoTags
	}
	return g.Parser.Parse(strings.TrimPrefix(tag, g.TagPrefix))
}

// TagName returns the tag SetNewVersion creates for v.
func (g *Git) TagName(v version.Value) string {
	return strings.NewReplacer(`"`, "", `\`, "").Replace(g.TagPrefix + v.String())
}

// SetNewVersion tags HEAD with v.
func (g *Git) SetNewVersion(v version.Value) error {
	head, err := g.HeadHash()
	if err != nil {
		return err
	}
	tag := g.TagName(v)
	if _, err := g.mustSucceed("tag", tag, "HEAD"); err != nil {
		return err
	}
	g.logger().Info("created tag", "tag", tag, "commit", head)
	return nil
}

// HeadHash returns the lower-case commit id of HEAD. A failing git call is
// an error.
func (g *Git) HeadHash() (string, error) {
	res, err := g.mustSucceed("rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(res.Stdout)), nil
}

// HeadVersion is like HeadHash but returns "" when git fails.
func (g *Git) HeadVersion() string {
	res, err := g.call("rev-parse", "HEAD")
	if err != nil || !res.Success() {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(res.Stdout))
}

// CheckClean implements Committer. It does nothing unless Commit is set.
// Every path git reports as changed or untracked must be in allowed.
func (g *Git) CheckClean(allowed []string) error {
	if !g.Commit {
		return nil
	}
	top, err := g.mustSucceed("rev-parse", "--show-toplevel")
	if err != nil {
		return fmt.Errorf("failed to find repository root: %w", err)
	}
	root := strings.TrimSpace(top.Stdout)

	res, err := g.mustSucceed("status", "--porcelain", "-z")
	if err != nil {
		return fmt.Errorf("failed to check git status: %w", err)
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve path %q: %w", f, err)
		}
		allowedSet[realPath(abs)] = struct{}{}
	}

	var disallowed []string
	for _, path := range porcelainPaths(res.Stdout) {
		abs := realPath(filepath.Join(root, filepath.FromSlash(path)))
		if _, ok := allowedSet[abs]; !ok {
			disallowed = append(disallowed, path)
		}
	}
	if len(disallowed) > 0 {
		return fmt.Errorf("working directory is dirty; uncommitted files not included in commit: %v", disallowed)
	}
	return nil
}

// porcelainPaths lists the paths in `git status --porcelain -z` output,
// relative to the repository root. Renames and copies yield their new path.
func porcelainPaths(out string) []string {
	var paths []string
	entries := strings.Split(out, "\x00")
	for i := 0; i < len(entries); i++ {
		e := entries[i]
		if len(e) < 4 {
			continue
		}
		paths = append(paths, e[3:])
		if e[0] == 'R' || e[0] == 'C' {
			i++
		}
	}
	return paths
}

// realPath resolves symlinks in path, or in its directory when path does
// not exist.
func realPath(path string) string {
	if p, err := filepath.EvalSymlinks(path); err == nil {
		return p
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		return filepath.Join(dir, filepath.Base(path))
	}
	return filepath.Clean(path)
}

// CommitFiles implements Committer. The commit message is the version.
func (g *Git) CommitFiles(v version.Value, files []string) error {
	if !g.Commit {
		return nil
	}
	if len(files) == 0 {
		g.logger().Info("nothing to commit")
		return nil
	}
	if _, err := g.mustSucceed(append([]string{"add", "--"}, files...)...); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}
	if _, err := g.mustSucceed("commit", "-m", v.String()); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	return nil
}
