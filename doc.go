// Package main implements the autoversion CLI tool.
//
// autoversion reads the current version of a project from a configured source,
// bumps it with a versioning strategy, patches the version fields of project
// files in place and writes the new version to every configured target.
//
// Command Usage:
//
//	autoversion [OPTIONS]
//
// Flags:
//
//	--major, --minor, --build, --revision, --suffix, --nobump
//	              Select the component to bump. When several are given the
//	              first in this list wins. Without any, the bump comes from the
//	              AUTOVERSIONIT_VERSION_BUMP_METHOD environment variable, then
//	              from the bumpMethod configuration key.
//	-c, --config: Path to the configuration file. Defaults to autoversion.json
//	              (or autoversion.<ENVIRONMENT>.json when ENVIRONMENT is set) in
//	              the working directory; .yaml and .yml files are accepted too.
//	--dry:        Print the next version and the files it would touch without
//	              writing anything.
//	-v, --verbose: Enable debug logging.
//	--version:    Displays the version of the autoversion CLI tool and exits.
//
// Configuration:
//
//	{
//	  "source": "git",
//	  "strategy": "simple",
//	  "targets": ["file", "git"],
//	  "patch": ["netcore", "nuspec"],
//	  "tagPrefix": "v",
//	  "gitCommit": true
//	}
//
// Sources and targets: file (version.txt), env (VERSION and friends plus a
// .version dotenv file), git (tags on HEAD) and go (a version.go file).
// Patchers: netcore (.csproj/.vbproj), netfx (AssemblyInfo.cs/.vb/.cpp),
// nuspec (.nuspec) and text (Version = x lines in .txt files).
// Strategies: simple (alias canonical) and rc.
//
// Examples:
//
//	# Bump the minor version (e.g. 1.2.3.4 → 1.3.0)
//	autoversion --minor
//
//	# Bump the release candidate counter (e.g. 1.3.0.0-rc4 → 1.3.0.0-rc5)
//	autoversion --suffix
//
//	# Show what a major bump would touch
//	autoversion --dry --major
//
//	# Use autoversion.ci.json
//	ENVIRONMENT=ci autoversion --build
//
// For more detailed API documentation, please see the documentation in the "pkg" package
// or visit [PkgGoDev](https://pkg.go.dev/github.com/bcomnes/autoversion).
package main
