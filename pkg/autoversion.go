package autoversion

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bcomnes/autoversion/pkg/logging"
	"github.com/bcomnes/autoversion/pkg/patch"
	"github.com/bcomnes/autoversion/pkg/source"
	"github.com/bcomnes/autoversion/pkg/version"
)

// Meta holds metadata about the version bump operation.
type Meta struct {
	OldVersion   string   // The version before bumping.
	NewVersion   string   // The new version after bumping.
	BumpType     string   // The bump kind, e.g. "minor" or "suffix".
	UpdatedFiles []string // Paths of all files written, or that would be written on a dry run.
}

// Pipeline reads a version from Source, bumps it with Strategy and writes it
// through Patchers and Targets.
type Pipeline struct {
	Source   source.Source
	Strategy version.Strategy
	Targets  []source.Target
	Patchers []*patch.Patcher
	Logger   *slog.Logger
}

func (p *Pipeline) logger() *slog.Logger {
	return logging.Or(p.Logger, "autoversion")
}

// describe logs the configured components.
func (p *Pipeline) describe(bump version.BumpKind) {
	targets := make([]string, 0, len(p.Targets))
	for _, t := range p.Targets {
		targets = append(targets, t.Name())
	}
	patchers := make([]string, 0, len(p.Patchers))
	for _, pt := range p.Patchers {
		patchers = append(patchers, pt.Name)
	}
	p.logger().Info("pipeline",
		"source", p.Source.Name(),
		"targets", joinOrNone(targets),
		"patchers", joinOrNone(patchers),
		"strategy", p.Strategy.Name(),
		"bump", bump.String())
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

// next reads the current version and computes the bumped one.
func (p *Pipeline) next(bump version.BumpKind) (cur, next version.Value, err error) {
	if p.Source == nil || p.Strategy == nil {
		return cur, next, fmt.Errorf("pipeline needs a source and a strategy")
	}
	p.describe(bump)
	if err := p.check(); err != nil {
		return cur, next, err
	}

	cur, err = p.Source.CurrentVersion()
	if err != nil {
		return cur, next, fmt.Errorf("failed to read current version from %s: %w", p.Source.Name(), err)
	}
	p.logger().Info("current version", "version", cur.String())

	next, err = p.Strategy.Increment(cur, bump)
	if err != nil {
		return cur, next, fmt.Errorf("failed to bump %s: %w", cur, err)
	}
	p.logger().Info("next version", "version", next.String())
	return cur, next, nil
}

// check runs Check on every distinct source and target that has one.
func (p *Pipeline) check() error {
	seen := map[source.Checker]bool{}
	all := []any{p.Source}
	for _, t := range p.Targets {
		all = append(all, t)
	}
	for _, c := range all {
		checker, ok := c.(source.Checker)
		if !ok || seen[checker] {
			continue
		}
		seen[checker] = true
		if err := checker.Check(); err != nil {
			return err
		}
	}
	return nil
}

// plan lists every file the run writes for v, sorted and deduplicated.
func (p *Pipeline) plan(v version.Value) ([]string, error) {
	var files []string
	for _, pt := range p.Patchers {
		found, err := pt.Files()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pt.Name, err)
		}
		files = append(files, found...)
	}
	for _, t := range p.Targets {
		planner, ok := t.(source.Planner)
		if !ok {
			continue
		}
		more, err := planner.Files(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		files = append(files, more...)
	}
	for i, f := range files {
		files[i] = filepath.Clean(f)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func meta(cur, next version.Value, bump version.BumpKind, files []string) Meta {
	return Meta{
		OldVersion:   cur.String(),
		NewVersion:   next.String(),
		BumpType:     bump.String(),
		UpdatedFiles: files,
	}
}

// Run bumps the version and writes it. Patchers run first in order, then
// targets that only write files, then committing targets, which commit the
// written files before recording the version.
//
// There is no rollback: when a patcher or target fails, everything written
// before it stays written.
func (p *Pipeline) Run(bump version.BumpKind) (Meta, error) {
	cur, next, err := p.next(bump)
	if err != nil {
		return Meta{}, err
	}

	files, err := p.plan(next)
	if err != nil {
		return Meta{}, err
	}
	m := meta(cur, next, bump, files)

	abs := make([]string, 0, len(files))
	for _, f := range files {
		a, err := filepath.Abs(f)
		if err != nil {
			return m, fmt.Errorf("failed to resolve path %q: %w", f, err)
		}
		abs = append(abs, a)
	}

	var committers []source.Target
	for _, t := range p.Targets {
		c, ok := t.(source.Committer)
		if !ok {
			continue
		}
		if err := c.CheckClean(abs); err != nil {
			return m, fmt.Errorf("%s: %w", t.Name(), err)
		}
		committers = append(committers, t)
	}

	for _, pt := range p.Patchers {
		p.logger().Info("applying version to patcher", "patcher", pt.Name)
		if err := pt.Patch(next); err != nil {
			return m, fmt.Errorf("%s: %w", pt.Name, err)
		}
	}

	for _, t := range p.Targets {
		if _, ok := t.(source.Committer); ok {
			continue
		}
		p.logger().Info("applying version to target", "target", t.Name())
		if err := t.SetNewVersion(next); err != nil {
			return m, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}

	for _, t := range committers {
		p.logger().Info("applying version to target", "target", t.Name())
		if err := t.(source.Committer).CommitFiles(next, abs); err != nil {
			return m, fmt.Errorf("%s: %w", t.Name(), err)
		}
		if err := t.SetNewVersion(next); err != nil {
			return m, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}

	p.logger().Info("done", "version", next.String(), "files", len(files))
	return m, nil
}

// DryRun computes the next version and the files Run would write, without
// writing anything.
func (p *Pipeline) DryRun(bump version.BumpKind) (Meta, error) {
	cur, next, err := p.next(bump)
	if err != nil {
		return Meta{}, err
	}
	files, err := p.plan(next)
	if err != nil {
		return Meta{}, err
	}
	return meta(cur, next, bump, files), nil
}
