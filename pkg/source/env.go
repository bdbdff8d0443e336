package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bcomnes/autoversion/pkg/version"
)

// Environment reads and writes variables. OSEnvironment is the real one.
type Environment interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
}

// OSEnvironment is the process environment.
type OSEnvironment struct{}

func (OSEnvironment) Lookup(key string) (string, bool) { return os.LookupEnv(key) }
func (OSEnvironment) Set(key, value string) error      { return os.Setenv(key, value) }

// MapEnvironment is an in-memory Environment.
type MapEnvironment map[string]string

func (m MapEnvironment) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapEnvironment) Set(key, value string) error {
	m[key] = value
	return nil
}

// Env keeps the version in a family of variables named after Variable:
// VERSION, VERSION_CANONICAL, VERSION_MAJOR, VERSION_MINOR, VERSION_BUILD,
// VERSION_REVISION and VERSION_SUFFIX.
//
// Variables set by a process do not outlive it, so DotEnvFile, when set,
// receives the same assignments for later build steps to source.
type Env struct {
	Variable   string
	DotEnvFile string
	Env        Environment
	Parser     version.Parser
}

// NewEnv returns an Env over the process environment.
func NewEnv(variable, dotEnvFile string) *Env {
	return &Env{
		Variable:   variable,
		DotEnvFile: dotEnvFile,
		Env:        OSEnvironment{},
		Parser:     lenientParser(),
	}
}

func (e *Env) Name() string { return "Environment Variable Version Control" }

func (e *Env) get(suffix string) string {
	key := e.Variable
	if suffix != "" {
		key += "_" + suffix
	}
	v, _ := e.Env.Lookup(key)
	return strings.TrimSpace(v)
}

// CurrentVersion reads the main variable, or assembles the version from the
// component variables when it is blank. Nothing set yields the zero version.
func (e *Env) CurrentVersion() (version.Value, error) {
	data := e.get("")
	if data == "" {
		var segments []string
		for _, part := range []string{"MAJOR", "MINOR", "BUILD", "REVISION"} {
			if s := e.get(part); s != "" {
				segments = append(segments, s)
			}
		}
		data = strings.Join(segments, ".")
		if data == "" {
			return version.Value{}, nil
		}
		if suffix := e.get("SUFFIX"); suffix != "" {
			data += "-" + suffix
		}
	}
	return e.Parser.Parse(data)
}

func (e *Env) assignments(v version.Value) [][2]string {
	return [][2]string{
		{e.Variable, v.String()},
		{e.Variable + "_CANONICAL", v.FullCanonical()},
		{e.Variable + "_MAJOR", strconv.Itoa(v.Major)},
		{e.Variable + "_MINOR", strconv.Itoa(v.Minor)},
		{e.Variable + "_BUILD", strconv.Itoa(v.Build)},
		{e.Variable + "_REVISION", strconv.Itoa(v.Revision)},
		{e.Variable + "_SUFFIX", strings.TrimSpace(v.DynamicSuffix)},
	}
}

// SetNewVersion sets every variable and writes the dotenv file if configured.
func (e *Env) SetNewVersion(v version.Value) error {
	var b strings.Builder
	for _, kv := range e.assignments(v) {
		if err := e.Env.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("setting %s: %w", kv[0], err)
		}
		fmt.Fprintf(&b, "%s=%s\n", kv[0], kv[1])
	}
	if e.DotEnvFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(e.DotEnvFile), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", e.DotEnvFile, err)
	}
	return os.WriteFile(e.DotEnvFile, []byte(b.String()), 0o644)
}

// Files implements Planner.
func (e *Env) Files(version.Value) ([]string, error) {
	if e.DotEnvFile == "" {
		return nil, nil
	}
	return []string{e.DotEnvFile}, nil
}
