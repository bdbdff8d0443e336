// Package autoversion bumps a project version and writes it everywhere it is
// recorded.
//
// A Pipeline reads the current version from a source (a plain version file,
// environment variables, git tags or a Go version.go file), computes the next
// version with a versioning strategy, patches project files in place
// (.csproj/.vbproj, AssemblyInfo sources, .nuspec manifests, text files) and
// hands the new version to its targets. The git target can commit the
// patched files before tagging HEAD.
//
// Pipelines are usually built from an autoversion.json file:
//
//	cfg, err := config.Load("autoversion.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := autoversion.Build(cfg, nil, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	meta, err := p.Run(version.BumpMinor)
//	if err != nil {
//	    log.Fatalf("version bump failed: %v", err)
//	}
//	log.Printf("bumped %s -> %s", meta.OldVersion, meta.NewVersion)
package autoversion
