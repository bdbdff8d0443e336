package patch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when a file kind has no rewriter in the
// running patcher. It aborts the whole patch run.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Kind is the content kind of a file, which selects its rewriter.
type Kind int

const (
	CSharpSource Kind = iota + 1
	VbSource
	CppSource
	PlainText
	PackageManifest
	CSharpProject
	VbProject
)

func (k Kind) String() string {
	switch k {
	case CSharpSource:
		return "CSharp"
	case VbSource:
		return "Vb"
	case CppSource:
		return "Cpp"
	case PlainText:
		return "Text"
	case PackageManifest:
		return "NuSpec"
	case CSharpProject:
		return "CSharpProject"
	case VbProject:
		return "VbProject"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classifier decides the Kind of the file at path.
type Classifier func(path string) (Kind, error)

var kindsByExtension = map[string]Kind{
	".cs":     CSharpSource,
	".vb":     VbSource,
	".cpp":    CppSource,
	".txt":    PlainText,
	".nuspec": PackageManifest,
	".csproj": CSharpProject,
	".vbproj": VbProject,
}

// KindByExtension classifies path by its case-insensitive extension.
func KindByExtension(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if k, ok := kindsByExtension[ext]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: file extension %q of %s", ErrUnsupportedFormat, filepath.Ext(path), path)
}
