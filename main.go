package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	autoversion "github.com/bcomnes/autoversion/pkg"
	"github.com/bcomnes/autoversion/pkg/config"
	"github.com/bcomnes/autoversion/pkg/logging"
)

type Options struct {
	// Bump selection
	OptionsBump OptionsBump `group:"Version bump"`

	Verbose bool   `short:"v" long:"verbose" description:"Enable debug logging"`
	Config  string `short:"c" long:"config"  description:"Configuration file (default: autoversion[.<ENVIRONMENT>].json in the working directory)"`
	Dry     bool   `long:"dry"               description:"Compute the next version and list the files it would touch without writing anything"`
	Version bool   `long:"version"           description:"Show CLI version and exit"`
}

type OptionsBump struct {
	Major    bool `long:"major"    description:"Bump the major component"`
	Minor    bool `long:"minor"    description:"Bump the minor component"`
	Build    bool `long:"build"    description:"Bump the build component"`
	Revision bool `long:"revision" description:"Bump the revision component"`
	Suffix   bool `long:"suffix"   description:"Bump the release candidate counter"`
	NoBump   bool `long:"nobump"   description:"Write the current version again"`
}

// kind returns the name of the first selected bump, or "" when none is.
func (o OptionsBump) kind() string {
	switch {
	case o.Major:
		return "major"
	case o.Minor:
		return "minor"
	case o.Build:
		return "build"
	case o.Revision:
		return "revision"
	case o.Suffix:
		return "suffix"
	case o.NoBump:
		return "none"
	}
	return ""
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.LookupEnv))
}

func run(args []string, stdout, stderr io.Writer, lookup autoversion.LookupFunc) int {
	var opt Options
	parser := flags.NewParser(&opt, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "autoversion"
	parser.LongDescription = `Reads the current version from the configured source, bumps it with the
configured strategy, patches project files and writes the new version to every
target. The bump comes from a flag, then AUTOVERSIONIT_VERSION_BUMP_METHOD, then
the bumpMethod configuration key.`

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagErr.Message)
			return 0
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if len(rest) > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %s\n", strings.Join(rest, " "))
		return 1
	}

	if opt.Version {
		fmt.Fprintln(stdout, "autoversion CLI version", Version)
		return 0
	}

	logging.SetOutput(stderr)
	logging.SetVerbose(opt.Verbose)
	logger := logging.New("autoversion")

	if err := bump(opt, stdout, lookup, logger); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func bump(opt Options, stdout io.Writer, lookup autoversion.LookupFunc, logger *slog.Logger) error {
	path := opt.Config
	if path == "" {
		environment, _ := lookup(config.EnvironmentVariable)
		found, err := config.Find(".", environment)
		if err != nil {
			return err
		}
		path = found
	}
	logger.Debug("loading configuration", "path", path)

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	kind, err := autoversion.ResolveBumpKind(opt.OptionsBump.kind(), lookup, cfg.BumpMethod)
	if err != nil {
		return err
	}

	p, err := autoversion.Build(cfg, nil, logger)
	if err != nil {
		return err
	}

	var meta autoversion.Meta
	if opt.Dry {
		meta, err = p.DryRun(kind)
	} else {
		meta, err = p.Run(kind)
	}
	if err != nil {
		return err
	}

	if opt.Dry {
		fmt.Fprintln(stdout, "Dry run complete, no files were modified.")
	} else {
		fmt.Fprintln(stdout, "Version bump successful!")
	}
	fmt.Fprintf(stdout, "Old Version: %s\n", meta.OldVersion)
	fmt.Fprintf(stdout, "New Version: %s\n", meta.NewVersion)
	fmt.Fprintf(stdout, "Bump Type:   %s\n", meta.BumpType)

	if len(meta.UpdatedFiles) > 0 {
		if opt.Dry {
			fmt.Fprintln(stdout, "Files that would be updated:")
		} else {
			fmt.Fprintln(stdout, "Files updated:")
		}
		for _, f := range meta.UpdatedFiles {
			fmt.Fprintf(stdout, "  %s\n", f)
		}
	}
	return nil
}
