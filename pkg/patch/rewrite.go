package patch

import (
	"fmt"

	"github.com/bcomnes/autoversion/pkg/version"
)

// rewriteFunc turns the decoded content of a file into its patched content.
type rewriteFunc func(content string, v version.Value, cfg Config) (string, error)

var rewriters = map[Kind]rewriteFunc{
	CSharpSource:    lineRewriter(csharp.rewrite),
	VbSource:        lineRewriter(vb.rewrite),
	CppSource:       lineRewriter(cpp.rewrite),
	PlainText:       lineRewriter(rewriteText),
	PackageManifest: treeRewriter(rewriteNuspec),
	CSharpProject:   treeRewriter(rewriteProject),
	VbProject:       treeRewriter(rewriteProject),
}

// Rewrite applies the rewriter of kind to content.
func Rewrite(kind Kind, content string, v version.Value, cfg Config) (string, error) {
	fn, ok := rewriters[kind]
	if !ok {
		return "", fmt.Errorf("%w: no rewriter for %s", ErrUnsupportedFormat, kind)
	}
	return fn(content, v, cfg)
}

func lineRewriter(fn func(l *Lines, v version.Value, cfg Config)) rewriteFunc {
	return func(content string, v version.Value, cfg Config) (string, error) {
		l := SplitLines(content)
		fn(l, v, cfg)
		return l.String(), nil
	}
}

func treeRewriter(fn func(doc *xmlDoc, v version.Value, cfg Config) error) rewriteFunc {
	return func(content string, v version.Value, cfg Config) (string, error) {
		doc, err := parseXML(content)
		if err != nil {
			return "", fmt.Errorf("parsing xml: %w", err)
		}
		if err := fn(doc, v, cfg); err != nil {
			return "", err
		}
		return doc.String(), nil
	}
}

type field struct {
	path  string
	value func(v version.Value) string
}

var projectFields = []field{
	{"/Project/PropertyGroup/AssemblyVersion", version.Value.FullCanonical},
	{"/Project/PropertyGroup/FileVersion", version.Value.FullCanonical},
	{"/Project/PropertyGroup/AssemblyInformationalVersion", version.Value.String},
}

var nuspecFields = []field{
	{"/package/metadata/version", version.Value.String},
}

func setFields(doc *xmlDoc, fields []field, v version.Value, create bool) error {
	for _, f := range fields {
		if _, err := doc.setText(f.path, f.value(v), create); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	return nil
}

func rewriteProject(doc *xmlDoc, v version.Value, cfg Config) error {
	return setFields(doc, projectFields, v, cfg.InsertMissing)
}

func rewriteNuspec(doc *xmlDoc, v version.Value, cfg Config) error {
	return setFields(doc, nuspecFields, v, cfg.InsertMissing)
}

var textVersionLine = anchored(`Version\s*=.*`)

// rewriteText always appends a missing Version line.
func rewriteText(l *Lines, v version.Value, _ Config) {
	l.AppendOrUpdate(textVersionLine, "Version = "+v.String())
}
