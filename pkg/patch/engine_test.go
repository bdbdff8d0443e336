package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/autoversion/pkg/version"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// TestPatchProjectWithBOM patches a csproj saved with a UTF-8 byte order mark.
func TestPatchProjectWithBOM(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "src", "App", "App.csproj")
	body := "<Project Sdk=\"Microsoft.NET.Sdk\">\n" +
		"  <PropertyGroup>\n" +
		"    <TargetFramework>net8.0</TargetFramework>\n" +
		"    <AssemblyVersion>1.0.0.0</AssemblyVersion>\n" +
		"  </PropertyGroup>\n" +
		"</Project>\n"
	writeFile(t, project, append([]byte{0xEF, 0xBB, 0xBF}, body...))

	p := NewNetCore(root, NetCore(), nil)
	require.NoError(t, p.Patch(version.MustParse("2.1.0.0-beta1")))

	out := readFile(t, project)
	assert.Equal(t, "\xEF\xBB\xBF<Project Sdk=\"Microsoft.NET.Sdk\">\n"+
		"  <PropertyGroup>\n"+
		"    <TargetFramework>net8.0</TargetFramework>\n"+
		"    <AssemblyVersion>2.1.0.0</AssemblyVersion>\n"+
		"    <FileVersion>2.1.0.0</FileVersion>\n"+
		"    <AssemblyInformationalVersion>2.1.0.0-beta1</AssemblyInformationalVersion>\n"+
		"  </PropertyGroup>\n"+
		"</Project>\n", out)
	assert.Equal(t, UTF8BOM, DetectEncoding([]byte(out)))
}

func TestPatchNonRecursiveSimpleMode(t *testing.T) {
	root := t.TempDir()
	top := filepath.Join(root, "version.txt")
	nested := filepath.Join(root, "sub", "version.txt")
	writeFile(t, top, []byte("Version = 0.1\n"))
	writeFile(t, nested, []byte("Version = 0.1\n"))

	cfg := Text("*.txt")
	cfg.UseGlobber = false
	cfg.Recursive = false
	p := NewText(root, cfg, nil)

	files, err := p.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{top}, files)

	require.NoError(t, p.Patch(version.New(1, 0, 0, 0)))
	assert.Equal(t, "Version = 1.0.0\n", readFile(t, top))
	assert.Equal(t, "Version = 0.1\n", readFile(t, nested))
}

func TestPatchRecursiveSimpleMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "AssemblyInfo.cs"), []byte("// a\n"))
	writeFile(t, filepath.Join(root, "b", "c", "AssemblyInfo.vb"), []byte("' b\n"))

	cfg := NetFx()
	cfg.UseGlobber = false
	p := NewNetFx(root, cfg, nil)

	files, err := p.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "AssemblyInfo.cs"),
		filepath.Join(root, "b", "c", "AssemblyInfo.vb"),
	}, files)
}

func TestGlobberRequiresRecursion(t *testing.T) {
	cfg := NetCore()
	cfg.Recursive = false
	_, err := NewNetCore(t.TempDir(), cfg, nil).Files()
	assert.ErrorIs(t, err, version.ErrUnsupportedOperation)
}

func TestFilesAreDeduplicated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App.csproj"), []byte("<Project/>"))
	writeFile(t, filepath.Join(root, "lib", "Lib.vbproj"), []byte("<Project/>"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.csproj"), 0o755))

	p := NewNetCore(root, NetCore("**/*.csproj", "App.csproj"), nil)
	files, err := p.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "App.csproj"),
		filepath.Join(root, "lib", "Lib.vbproj"),
	}, files)
}

func TestGlobIgnoresCase(t *testing.T) {
	root := t.TempDir()
	info := filepath.Join(root, "src", "properties", "assemblyinfo.cs")
	project := filepath.Join(root, "src", "App.CSProj")
	writeFile(t, info, []byte("[assembly: AssemblyVersion(\"1.0\")]\n"))
	writeFile(t, project, []byte("<Project/>"))

	files, err := NewNetFx(root, NetFx(), nil).Files()
	require.NoError(t, err)
	assert.Equal(t, []string{info}, files)

	files, err = NewNetCore(root, NetCore(), nil).Files()
	require.NoError(t, err)
	assert.Equal(t, []string{project}, files)
}

func TestFoldCase(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"*.cs", "*.[cC][sS]"},
		{"**/A1.txt", "**/[aA]1.[tT][xX][tT]"},
		{"[ab]*.x", "[ab]*.[xX]"},
		{`\a.y`, `\a.[yY]`},
		{"{x,y}", "{[xX],[yY]}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, foldCase(tt.in), tt.in)
	}
}

func TestPatchAbortsOnForeignKind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("Version = 0\n"))
	writeFile(t, filepath.Join(root, "b.csproj"), []byte("<Project/>"))

	p := NewText(root, Text("**/*.txt", "**/*.csproj"), nil)
	err := p.Patch(version.New(1, 0, 0, 0))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	// files before the failing one stay patched
	assert.Equal(t, "Version = 1.0.0\n", readFile(t, filepath.Join(root, "a.txt")))
	assert.Equal(t, "<Project/>", readFile(t, filepath.Join(root, "b.csproj")))
}

func TestPatchUnknownExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), []byte("{}"))
	err := NewText(root, Text("*.json"), nil).Patch(version.New(1, 0, 0, 0))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPatchFileMissingIsSkipped(t *testing.T) {
	p := NewText(t.TempDir(), Text(), nil)
	assert.NoError(t, p.PatchFile(filepath.Join(t.TempDir(), "gone.txt"), version.New(1, 0, 0, 0)))
}

func TestPatchCustomClassifier(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "VERSION")
	writeFile(t, file, []byte("# release\n"))

	cfg := Text("VERSION")
	cfg.Classify = func(string) (Kind, error) { return PlainText, nil }
	require.NoError(t, NewText(root, cfg, nil).Patch(version.MustParse("1.0-rc2")))
	assert.Equal(t, "# release\nVersion = 1.0.0.0-rc2\n", readFile(t, file))
}

func TestPatchUTF16File(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "version.txt")
	raw, err := UTF16LE.Encode("Version = 0.1\r\n")
	require.NoError(t, err)
	writeFile(t, file, raw)

	require.NoError(t, NewText(root, Text("**/*.txt"), nil).Patch(version.New(0, 2, 0, 0)))

	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, UTF16LE, DetectEncoding(got))
	text, err := UTF16LE.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, "Version = 0.2.0\r\n", text)
}
