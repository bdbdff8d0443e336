// Package config loads and validates autoversion configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values
const (
	DefaultVersionEnv     = "VERSION"
	DefaultVersionEnvFile = ".version"
	DefaultVersionFile    = "version.txt"
	DefaultGoVersionFile  = "version.go"
	DefaultRoot           = "."

	// EnvironmentVariable selects an environment-specific config file.
	EnvironmentVariable = "ENVIRONMENT"
	// BumpMethodVariable overrides bumpMethod from the config file.
	BumpMethodVariable = "AUTOVERSIONIT_VERSION_BUMP_METHOD"
)

// ErrMissingBumpMethod is returned when no bump method could be resolved
// from flags, environment or configuration.
var ErrMissingBumpMethod = errors.New("no valid version bump method specified")

var (
	// Sources lists the accepted values for Config.Source.
	Sources = []string{"file", "env", "git", "go"}
	// Targets lists the accepted values for Config.Targets.
	Targets = []string{"file", "env", "git", "go"}
	// Patchers lists the accepted values for Config.Patch.
	Patchers = []string{"netfx", "netcore", "nuspec", "text"}
	// Strategies lists the accepted values for Config.Strategy.
	Strategies = []string{"simple", "canonical", "rc"}

	extensions = []string{".json", ".yaml", ".yml"}
)

// Config is the autoversion configuration file.
type Config struct {
	// Source is where the current version is read from
	Source string `json:"source" yaml:"source"`

	// Strategy names the versioning strategy
	Strategy string `json:"strategy" yaml:"strategy"`

	// Targets receive the new version after patching, in order
	Targets []string `json:"targets,omitempty" yaml:"targets,omitempty"`

	// Patch names the file patchers to run
	Patch []string `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Suffix is the default fixed suffix for versions without one
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`

	// BumpMethod is used when neither a flag nor the environment selects one
	BumpMethod string `json:"bumpMethod,omitempty" yaml:"bumpMethod,omitempty"`

	VersionEnv     string `json:"versionEnv,omitempty" yaml:"versionEnv,omitempty"`
	VersionEnvFile string `json:"versionEnvFile,omitempty" yaml:"versionEnvFile,omitempty"`
	VersionFile    string `json:"versionFile,omitempty" yaml:"versionFile,omitempty"`
	GoVersionFile  string `json:"goVersionFile,omitempty" yaml:"goVersionFile,omitempty"`

	// GoModule rewrites the go.mod module path on major bumps >= 2
	GoModule bool `json:"goModule,omitempty" yaml:"goModule,omitempty"`

	TagPrefix string `json:"tagPrefix,omitempty" yaml:"tagPrefix,omitempty"`

	// GitCommit commits the patched files before tagging
	GitCommit bool `json:"gitCommit,omitempty" yaml:"gitCommit,omitempty"`

	// BumpFiles get their first semantic version replaced
	BumpFiles []string `json:"bumpFiles,omitempty" yaml:"bumpFiles,omitempty"`

	// Root is the directory patchers search from
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	Patchers map[string]PatcherOverride `json:"patchers,omitempty" yaml:"patchers,omitempty"`
}

// PatcherOverride adjusts the preset of a single patcher. Nil fields keep
// the preset value.
type PatcherOverride struct {
	Filters       []string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Recursive     *bool    `json:"recursive,omitempty" yaml:"recursive,omitempty"`
	Globber       *bool    `json:"globber,omitempty" yaml:"globber,omitempty"`
	InsertMissing *bool    `json:"insertMissing,omitempty" yaml:"insertMissing,omitempty"`
	EnsureImports *bool    `json:"ensureImports,omitempty" yaml:"ensureImports,omitempty"`
}

// FileName returns the base name (without extension) of the config file for
// the given environment.
func FileName(environment string) string {
	environment = strings.ToLower(strings.TrimSpace(environment))
	if environment == "" {
		return "autoversion"
	}
	return "autoversion." + environment
}

// Find locates the config file for environment in dir, trying .json, .yaml
// and .yml in that order.
func Find(dir, environment string) (string, error) {
	base := filepath.Join(dir, FileName(environment))
	for _, ext := range extensions {
		path := base + ext
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat config: %w", err)
		}
	}
	return "", fmt.Errorf("no %s.json found in %s: %w", FileName(environment), dir, fs.ErrNotExist)
}

// Load loads configuration from a file. YAML is used for .yaml and .yml
// files, JSON otherwise.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes and validates configuration data in the format named by ext.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate normalizes names, fills defaults and rejects unknown values.
func (c *Config) Validate() error {
	c.Source = normalize(c.Source)
	if c.Source == "" {
		return errors.New("no 'source' specified")
	}
	if !slices.Contains(Sources, c.Source) {
		return fmt.Errorf("unknown source %q", c.Source)
	}

	c.Strategy = normalize(c.Strategy)
	if c.Strategy == "" {
		return errors.New("no 'strategy' specified")
	}
	if !slices.Contains(Strategies, c.Strategy) {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}

	var err error
	if c.Targets, err = names("target", c.Targets, Targets); err != nil {
		return err
	}
	if c.Patch, err = names("patcher", c.Patch, Patchers); err != nil {
		return err
	}
	for name := range c.Patchers {
		if !slices.Contains(Patchers, normalize(name)) {
			return fmt.Errorf("override for unknown patcher %q", name)
		}
	}

	c.Suffix = strings.TrimSpace(c.Suffix)
	c.BumpMethod = strings.TrimSpace(c.BumpMethod)
	c.TagPrefix = strings.TrimSpace(c.TagPrefix)

	if c.VersionEnv == "" {
		c.VersionEnv = DefaultVersionEnv
	}
	if c.VersionEnvFile == "" {
		c.VersionEnvFile = DefaultVersionEnvFile
	}
	if c.VersionFile == "" {
		c.VersionFile = DefaultVersionFile
	}
	if c.GoVersionFile == "" {
		c.GoVersionFile = DefaultGoVersionFile
	}
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	return nil
}

// Override returns the override for patcher name, matched case-insensitively.
func (c *Config) Override(name string) (PatcherOverride, bool) {
	for key, o := range c.Patchers {
		if normalize(key) == name {
			return o, true
		}
	}
	return PatcherOverride{}, false
}

// Resolve makes a relative path relative to the config root.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}

// names normalizes, deduplicates and checks a list of names, dropping blanks.
func names(kind string, in, known []string) ([]string, error) {
	var out []string
	for _, n := range in {
		n = normalize(n)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		if !slices.Contains(known, n) {
			return nil, fmt.Errorf("unknown %s %q", kind, n)
		}
		out = append(out, n)
	}
	return out, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
