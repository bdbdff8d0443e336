package autoversion

import (
	"fmt"
	"log/slog"

	"github.com/bcomnes/autoversion/pkg/config"
	"github.com/bcomnes/autoversion/pkg/logging"
	"github.com/bcomnes/autoversion/pkg/patch"
	"github.com/bcomnes/autoversion/pkg/source"
	"github.com/bcomnes/autoversion/pkg/version"
)

// component is anything that can serve as a source or a target.
type component interface {
	Name() string
}

// Build wires the components cfg names into a Pipeline. A source and a
// target with the same name share one instance. env replaces the process
// environment for the env source and target when non-nil.
func Build(cfg *config.Config, env source.Environment, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger = logging.Or(logger, "autoversion")

	strategy, err := version.StrategyByName(cfg.Strategy, cfg.Suffix)
	if err != nil {
		return nil, err
	}

	built := map[string]component{}
	get := func(name string) component {
		if c, ok := built[name]; ok {
			return c
		}
		c := newComponent(name, cfg, env, logger)
		built[name] = c
		return c
	}

	src, ok := get(cfg.Source).(source.Source)
	if !ok {
		return nil, fmt.Errorf("%q cannot be used as a version source", cfg.Source)
	}

	p := &Pipeline{
		Source:   src,
		Strategy: strategy,
		Logger:   logger,
	}
	for _, name := range cfg.Targets {
		t, ok := get(name).(source.Target)
		if !ok {
			return nil, fmt.Errorf("%q cannot be used as a version target", name)
		}
		p.Targets = append(p.Targets, t)
	}
	if len(cfg.BumpFiles) > 0 {
		paths := make([]string, 0, len(cfg.BumpFiles))
		for _, f := range cfg.BumpFiles {
			paths = append(paths, cfg.Resolve(f))
		}
		p.Targets = append(p.Targets, source.NewSemverFiles(paths, logger))
	}

	for _, name := range cfg.Patch {
		p.Patchers = append(p.Patchers, newPatcher(name, cfg, logger))
	}
	return p, nil
}

func newComponent(name string, cfg *config.Config, env source.Environment, logger *slog.Logger) component {
	switch name {
	case "file":
		f := source.NewFile(cfg.Resolve(cfg.VersionFile))
		f.Parser.DefaultFixedSuffix = cfg.Suffix
		return f
	case "env":
		e := source.NewEnv(cfg.VersionEnv, cfg.Resolve(cfg.VersionEnvFile))
		e.Parser.DefaultFixedSuffix = cfg.Suffix
		if env != nil {
			e.Env = env
		}
		return e
	case "git":
		g := source.NewGit(cfg.Root, cfg.TagPrefix, logger)
		g.Parser.DefaultFixedSuffix = cfg.Suffix
		g.Commit = cfg.GitCommit
		return g
	case "go":
		g := source.NewGoFile(cfg.Resolve(cfg.GoVersionFile), cfg.GoModule, logger)
		g.Parser.DefaultFixedSuffix = cfg.Suffix
		return g
	}
	// Validate rejects anything else.
	panic(fmt.Sprintf("unknown component %q", name))
}

func newPatcher(name string, cfg *config.Config, logger *slog.Logger) *patch.Patcher {
	o, _ := cfg.Override(name)

	var (
		pc  patch.Config
		ctr func(string, patch.Config, *slog.Logger) *patch.Patcher
	)
	switch name {
	case "netcore":
		pc, ctr = patch.NetCore(o.Filters...), patch.NewNetCore
	case "netfx":
		pc, ctr = patch.NetFx(o.Filters...), patch.NewNetFx
	case "nuspec":
		pc, ctr = patch.Nuspec(o.Filters...), patch.NewNuspec
	case "text":
		pc, ctr = patch.Text(o.Filters...), patch.NewText
	default:
		panic(fmt.Sprintf("unknown patcher %q", name))
	}

	if o.Recursive != nil {
		pc.Recursive = *o.Recursive
	}
	if o.Globber != nil {
		pc.UseGlobber = *o.Globber
	}
	if o.InsertMissing != nil {
		pc.InsertMissing = *o.InsertMissing
	}
	if o.EnsureImports != nil {
		pc.EnsureImports = *o.EnsureImports
	}
	return ctr(cfg.Root, pc, logger)
}
