package patch

import (
	"fmt"
	"regexp"

	"github.com/bcomnes/autoversion/pkg/version"
)

type importLine struct {
	re   *regexp.Regexp
	line string
}

type attributeLine struct {
	re     *regexp.Regexp
	format string
	value  func(v version.Value) string
}

// sourceDialect holds the import and attribute lines of one language.
type sourceDialect struct {
	imports    []importLine
	attributes []attributeLine
}

var csharp = sourceDialect{
	imports: []importLine{
		{anchored(`using\s+System\.Reflection;`), "using System.Reflection;"},
		{anchored(`using\s+System\.Runtime\.CompilerServices;`), "using System.Runtime.CompilerServices;"},
		{anchored(`using\s+System\.Runtime\.InteropServices;`), "using System.Runtime.InteropServices;"},
	},
	attributes: []attributeLine{
		{anchored(`\[assembly:\s*AssemblyVersion\s*\(.*\)\s*\]`), `[assembly: AssemblyVersion("%s")]`, version.Value.FullCanonical},
		{anchored(`\[assembly:\s*AssemblyFileVersion\s*\(.*\)\s*\]`), `[assembly: AssemblyFileVersion("%s")]`, version.Value.FullCanonical},
		{anchored(`\[assembly:\s*AssemblyInformationalVersion\s*\(.*\)\s*\]`), `[assembly: AssemblyInformationalVersion("%s")]`, version.Value.String},
	},
}

var vb = sourceDialect{
	imports: []importLine{
		{anchored(`Imports\s+System`), "Imports System"},
		{anchored(`Imports\s+System\.Reflection`), "Imports System.Reflection"},
		{anchored(`Imports\s+System\.Runtime\.InteropServices`), "Imports System.Runtime.InteropServices"},
	},
	attributes: []attributeLine{
		{anchored(`<Assembly:\s*AssemblyVersion\s*\(.*\)\s*>`), `<Assembly: AssemblyVersion("%s")>`, version.Value.FullCanonical},
		{anchored(`<Assembly:\s*AssemblyFileVersion\s*\(.*\)\s*>`), `<Assembly: AssemblyFileVersion("%s")>`, version.Value.FullCanonical},
		{anchored(`<Assembly:\s*AssemblyInformationalVersion\s*\(.*\)\s*>`), `<Assembly: AssemblyInformationalVersion("%s")>`, version.Value.String},
	},
}

var cpp = sourceDialect{
	imports: []importLine{
		{anchored(`using\s+namespace\s+System::Reflection\s*;`), "using namespace System::Reflection;"},
		{anchored(`using\s+namespace\s+System::Runtime::InteropServices\s*;`), "using namespace System::Runtime::InteropServices;"},
	},
	attributes: []attributeLine{
		{anchored(`\[assembly:\s*AssemblyVersion\s*\(.*\)\s*\]\s*;`), `[assembly: AssemblyVersion("%s")];`, version.Value.FullCanonical},
		{anchored(`\[assembly:\s*AssemblyFileVersion\s*\(.*\)\s*\]\s*;`), `[assembly: AssemblyFileVersion("%s")];`, version.Value.FullCanonical},
		{anchored(`\[assembly:\s*AssemblyInformationalVersion\s*\(.*\)\s*\]\s*;`), `[assembly: AssemblyInformationalVersion("%s")];`, version.Value.String},
	},
}

// rewrite inserts missing imports at the top, then updates or appends the
// version attributes.
func (d sourceDialect) rewrite(l *Lines, v version.Value, cfg Config) {
	if cfg.EnsureImports {
		for _, imp := range d.imports {
			l.InsertOrUpdate(imp.re, imp.line)
		}
	}
	for _, attr := range d.attributes {
		line := fmt.Sprintf(attr.format, attr.value(v))
		if cfg.InsertMissing {
			l.AppendOrUpdate(attr.re, line)
		} else {
			l.PatchIfPresent(attr.re, line)
		}
	}
}
