package autoversion

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/autoversion/pkg/config"
	"github.com/bcomnes/autoversion/pkg/source"
	"github.com/bcomnes/autoversion/pkg/version"
)

func TestBuildWiresComponents(t *testing.T) {
	dir := t.TempDir()
	off := false
	cfg := &config.Config{
		Source:    "env",
		Strategy:  "rc",
		Targets:   []string{"env", "file", "git"},
		Patch:     []string{"netcore", "text"},
		Suffix:    "beta",
		TagPrefix: "v",
		GitCommit: true,
		BumpFiles: []string{"package.json"},
		Root:      dir,
		Patchers: map[string]config.PatcherOverride{
			"Text": {Filters: []string{"NOTES.txt"}, Globber: &off, Recursive: &off},
		},
	}
	env := source.MapEnvironment{}

	p, err := Build(cfg, env, nil)
	require.NoError(t, err)

	assert.Equal(t, "Release Candidate Versioning", p.Strategy.Name())
	assert.Equal(t, version.ReleaseCandidate{DefaultFixedSuffix: "beta"}, p.Strategy)

	e, ok := p.Source.(*source.Env)
	require.True(t, ok)
	assert.Equal(t, "VERSION", e.Variable)
	assert.Equal(t, filepath.Join(dir, ".version"), e.DotEnvFile)
	assert.Equal(t, "beta", e.Parser.DefaultFixedSuffix)
	assert.Same(t, e, p.Targets[0])

	require.Len(t, p.Targets, 4)
	f, ok := p.Targets[1].(*source.File)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "version.txt"), f.Path)

	g, ok := p.Targets[2].(*source.Git)
	require.True(t, ok)
	assert.Equal(t, dir, g.Dir)
	assert.Equal(t, "v", g.TagPrefix)
	assert.True(t, g.Commit)

	sf, ok := p.Targets[3].(*source.SemverFiles)
	require.True(t, ok)
	assert.Equal(t, []string{filepath.Join(dir, "package.json")}, sf.Paths)

	require.Len(t, p.Patchers, 2)
	assert.Equal(t, ".NET Core Version Patcher", p.Patchers[0].Name)
	assert.True(t, p.Patchers[0].Config.UseGlobber)
	assert.Equal(t, dir, p.Patchers[0].Root)

	text := p.Patchers[1]
	assert.Equal(t, "Text File Patcher", text.Name)
	assert.False(t, text.Config.UseGlobber)
	assert.False(t, text.Config.Recursive)
	assert.True(t, text.Config.InsertMissing)
	assert.Equal(t, []string{"NOTES.txt"}, text.Config.Filters())
}

func TestBuildGoSource(t *testing.T) {
	cfg := &config.Config{Source: "go", Strategy: "simple", GoModule: true}
	p, err := Build(cfg, nil, nil)
	require.NoError(t, err)

	g, ok := p.Source.(*source.GoFile)
	require.True(t, ok)
	assert.Equal(t, "version.go", g.Path)
	assert.True(t, g.Module)
	assert.Empty(t, p.Targets)
	assert.Empty(t, p.Patchers)
	assert.Equal(t, version.Canonical{}, p.Strategy)
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	_, err := Build(&config.Config{Source: "file", Strategy: "semver"}, nil, nil)
	assert.ErrorContains(t, err, `unknown strategy "semver"`)

	_, err = Build(&config.Config{Strategy: "simple"}, nil, nil)
	assert.ErrorContains(t, err, "no 'source' specified")
}

func TestBuildAndRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app", "app.csproj"), `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
</Project>
`)
	writeFile(t, filepath.Join(dir, "version.txt"), "Version = 1.4.2\n")

	cfg := &config.Config{
		Source:   "file",
		Strategy: "simple",
		Targets:  []string{"file", "env"},
		Patch:    []string{"netcore"},
		Root:     dir,
	}
	env := source.MapEnvironment{}
	p, err := Build(cfg, env, nil)
	require.NoError(t, err)

	meta, err := p.Run(version.BumpBuild)
	require.NoError(t, err)
	assert.Equal(t, "1.4.3", meta.NewVersion)
	assert.Equal(t, []string{
		filepath.Join(dir, ".version"),
		filepath.Join(dir, "app", "app.csproj"),
		filepath.Join(dir, "version.txt"),
	}, meta.UpdatedFiles)

	project := readFile(t, filepath.Join(dir, "app", "app.csproj"))
	assert.Equal(t, `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <AssemblyVersion>1.4.3.0</AssemblyVersion>
    <FileVersion>1.4.3.0</FileVersion>
    <AssemblyInformationalVersion>1.4.3</AssemblyInformationalVersion>
  </PropertyGroup>
</Project>
`, project)
	assert.Equal(t, "1.4.3", env["VERSION"])
	assert.Equal(t, "1.4.3.0", env["VERSION_CANONICAL"])
	assert.Contains(t, readFile(t, filepath.Join(dir, ".version")), "VERSION=1.4.3\n")
}
