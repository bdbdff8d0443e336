// Package patch finds project, manifest and source files under a root
// directory and rewrites the version fields inside them in place.
//
// Every file is rewritten in the encoding it was read in. Lines and
// elements the patcher does not own are written back untouched.
//
//	p := patch.NewNetCore(".", patch.NetCore(), nil)
//	if err := p.Patch(version.MustParse("2.1.0.0-beta1")); err != nil {
//		log.Fatal(err)
//	}
package patch
