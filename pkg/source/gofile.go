package source

import (
	"errors"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"

	"github.com/bcomnes/autoversion/pkg/logging"
	"github.com/bcomnes/autoversion/pkg/version"
)

var goVersionPattern = regexp.MustCompile(`Version\s*=\s*"([^"]+)"`)

// GoFile keeps the version in a Go source file declaring
//
//	var (
//		Version = "1.2.3"
//	)
//
// With Module set, a version whose major is 2 or more also moves the module
// path in the nearest go.mod to its /vN form and rewrites imports of the
// module in every Go file below it.
type GoFile struct {
	Path   string
	Module bool
	Parser version.Parser
	Logger *slog.Logger
}

// NewGoFile returns a GoFile source for path.
func NewGoFile(path string, module bool, logger *slog.Logger) *GoFile {
	return &GoFile{
		Path:   path,
		Module: module,
		Parser: lenientParser(),
		Logger: logging.Or(logger, "gofile"),
	}
}

func (g *GoFile) Name() string { return "Go Version File" }

func (g *GoFile) logger() *slog.Logger {
	return logging.Or(g.Logger, "gofile")
}

// CurrentVersion returns the zero version when the file is missing or
// still holds the "dev" placeholder.
func (g *GoFile) CurrentVersion() (version.Value, error) {
	data, err := os.ReadFile(g.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return version.Value{}, nil
	}
	if err != nil {
		return version.Value{}, fmt.Errorf("failed to read version file: %w", err)
	}
	m := goVersionPattern.FindSubmatch(data)
	if m == nil {
		return version.Value{}, errors.New("failed to find version string in file")
	}
	if string(m[1]) == "dev" {
		return version.Value{}, nil
	}
	return g.Parser.Parse(string(m[1]))
}

// SetNewVersion writes the version file and, with Module set, moves the
// module path when the major version requires it.
func (g *GoFile) SetNewVersion(v version.Value) error {
	if !semver.IsValid("v" + v.String()) {
		g.logger().Warn("version is not valid semver, go tooling will not accept it as a module version", "version", v.String())
	}
	if err := writeVersionFile(g.Path, v.String()); err != nil {
		return err
	}
	if !g.Module {
		return nil
	}

	modDir, oldPath, newPath, err := g.modulePaths(v)
	if err != nil || oldPath == newPath {
		return err
	}
	if err := updateGoMod(modDir, newPath); err != nil {
		return err
	}
	rewritten, err := updateSelfImports(modDir, oldPath, newPath)
	if err != nil {
		return err
	}
	g.logger().Info("moved module path", "from", oldPath, "to", newPath, "rewrittenFiles", len(rewritten))
	return nil
}

// Files implements Planner.
func (g *GoFile) Files(v version.Value) ([]string, error) {
	files := []string{g.Path}
	if !g.Module {
		return files, nil
	}
	modDir, oldPath, newPath, err := g.modulePaths(v)
	if err != nil || oldPath == newPath {
		return files, err
	}
	files = append(files, filepath.Join(modDir, "go.mod"))
	more, err := scanSelfImports(modDir, oldPath, newPath)
	if err != nil {
		return nil, err
	}
	return append(files, more...), nil
}

// modulePaths returns the go.mod directory with the current and wanted
// module paths. A missing go.mod yields equal empty paths.
func (g *GoFile) modulePaths(v version.Value) (modDir, oldPath, newPath string, err error) {
	modDir, err = locateGoModDir(filepath.Dir(g.Path))
	if err != nil {
		g.logger().Warn("no go.mod found, module path left alone", "from", filepath.Dir(g.Path))
		return "", "", "", nil
	}
	data, err := os.ReadFile(filepath.Join(modDir, "go.mod"))
	if err != nil {
		return "", "", "", fmt.Errorf("reading go.mod: %w", err)
	}
	f, err := modfile.Parse("go.mod", data, nil)
	if err != nil {
		return "", "", "", fmt.Errorf("parsing go.mod: %w", err)
	}
	if f.Module == nil {
		return "", "", "", errors.New("module directive not found")
	}
	oldPath = f.Module.Mod.Path
	return modDir, oldPath, modulePathFor(oldPath, v), nil
}

// modulePathFor returns the module path carrying v's major version suffix.
func modulePathFor(path string, v version.Value) string {
	base, _, ok := module.SplitPathVersion(path)
	if !ok {
		base = path
	}
	maj := semver.Major("v" + v.String())
	if maj == "" {
		maj = fmt.Sprintf("v%d", v.Major)
	}
	if maj == "v0" || maj == "v1" {
		return base
	}
	return base + "/" + maj
}

// determinePackageName returns the package of the file at path, or of the
// other Go files in its directory, defaulting to "version".
func determinePackageName(path string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		re := regexp.MustCompile(`(?m)^package\s+(\w+)`)
		if m := re.FindSubmatch(data); m != nil {
			return string(m[1]), nil
		}
	}

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "version", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read directory %q: %w", dir, err)
	}
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err != nil {
			continue
		}
		return f.Name.Name, nil
	}
	return "version", nil
}

func writeVersionFile(path, newVersion string) error {
	pkgName, err := determinePackageName(path)
	if err != nil {
		pkgName = "version"
	}
	content := fmt.Sprintf(`package %s

var (
	Version = "%s"
)
`, pkgName, newVersion)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// locateGoModDir walks up from startDir until it finds go.mod.
func locateGoModDir(startDir string) (string, error) {
	d, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", os.ErrNotExist
		}
		d = parent
	}
}

func updateGoMod(modDir, newPath string) error {
	modPath := filepath.Join(modDir, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		return fmt.Errorf("reading go.mod: %w", err)
	}
	f, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return fmt.Errorf("parsing go.mod: %w", err)
	}
	if err := f.AddModuleStmt(newPath); err != nil {
		return fmt.Errorf("setting module path: %w", err)
	}
	out, err := f.Format()
	if err != nil {
		return fmt.Errorf("formatting go.mod: %w", err)
	}
	if err := os.WriteFile(modPath, out, 0o644); err != nil {
		return fmt.Errorf("writing go.mod: %w", err)
	}
	return nil
}

// importsModule reports whether p is oldMod or a package inside it.
func importsModule(p, oldMod string) bool {
	return p == oldMod || strings.HasPrefix(p, oldMod+"/")
}

// walkGoFiles calls fn for every .go file below modDir, skipping vendor.
func walkGoFiles(modDir string, fn func(path string) error) error {
	return filepath.WalkDir(modDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "vendor" || (path != modDir && strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		return fn(path)
	})
}

// scanSelfImports lists the .go files whose imports would move from oldMod
// to newMod.
func scanSelfImports(modDir, oldMod, newMod string) ([]string, error) {
	var matches []string
	err := walkGoFiles(modDir, func(path string) error {
		f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ImportsOnly)
		if err != nil {
			return nil
		}
		for _, imp := range f.Imports {
			p, _ := strconv.Unquote(imp.Path.Value)
			if importsModule(p, oldMod) {
				matches = append(matches, path)
				break
			}
		}
		return nil
	})
	return matches, err
}

// updateSelfImports rewrites imports of oldMod to newMod and returns the
// files it changed.
func updateSelfImports(modDir, oldMod, newMod string) ([]string, error) {
	var modified []string
	err := walkGoFiles(modDir, func(path string) error {
		fset := token.NewFileSet()
		fileAst, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return err
		}

		changed := false
		for _, imp := range fileAst.Imports {
			p, err := strconv.Unquote(imp.Path.Value)
			if err != nil || !importsModule(p, oldMod) {
				continue
			}
			imp.Path.Value = strconv.Quote(newMod + strings.TrimPrefix(p, oldMod))
			changed = true
		}
		if !changed {
			return nil
		}

		out, err := os.Create(path)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := format.Node(out, fset, fileAst); err != nil {
			return err
		}
		modified = append(modified, path)
		return nil
	})
	return modified, err
}
