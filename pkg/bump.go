package autoversion

import (
	"fmt"
	"strings"

	"github.com/bcomnes/autoversion/pkg/config"
	"github.com/bcomnes/autoversion/pkg/version"
)

// LookupFunc reads an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ResolveBumpKind picks the bump kind. A non-empty flag wins, then a valid
// AUTOVERSIONIT_VERSION_BUMP_METHOD from lookup, then configured. An invalid
// environment value is ignored; an invalid or missing configured value is an
// error wrapping config.ErrMissingBumpMethod.
func ResolveBumpKind(flag string, lookup LookupFunc, configured string) (version.BumpKind, error) {
	if strings.TrimSpace(flag) != "" {
		return version.ParseBumpKind(flag)
	}

	if lookup != nil {
		if env, ok := lookup(config.BumpMethodVariable); ok && strings.TrimSpace(env) != "" {
			if kind, err := version.ParseBumpKind(env); err == nil {
				return kind, nil
			}
		}
	}

	if strings.TrimSpace(configured) == "" {
		return version.BumpNone, config.ErrMissingBumpMethod
	}
	kind, err := version.ParseBumpKind(configured)
	if err != nil {
		return version.BumpNone, fmt.Errorf("invalid bump method %q in configuration: %w", configured, config.ErrMissingBumpMethod)
	}
	return kind, nil
}
