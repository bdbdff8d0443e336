// Package version holds the version model used by autoversion: a four part
// numeric version (major.minor.build.revision) with an optional two part
// suffix, the parser that reads it from free-form strings, and the
// versioning strategies that compute the next version.
//
// A suffix is split into a fixed alphabetic tag and a dynamic numeric
// counter, so "1.2.3.4-beta12" has the fixed suffix "beta" and the dynamic
// suffix "12".
//
// Usage Example:
//
//	v, err := version.NewParser().Parse("1.2.3.4-beta1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	next, err := version.Canonical{}.Increment(v, version.BumpMinor)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(next) // 1.3.0
package version
