package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/autoversion/pkg/version"
)

var beta = version.MustParse("2.1.0.0-beta1")

func TestRewriteCSharp(t *testing.T) {
	in := "using System;\n\n[assembly: AssemblyTitle(\"Demo\")]\n[assembly: AssemblyVersion(\"1.0.0.0\")]\n"
	expected := "using System.Runtime.InteropServices;\n" +
		"using System.Runtime.CompilerServices;\n" +
		"using System.Reflection;\n" +
		"using System;\n\n" +
		"[assembly: AssemblyTitle(\"Demo\")]\n" +
		"[assembly: AssemblyVersion(\"2.1.0.0\")]\n" +
		"[assembly: AssemblyFileVersion(\"2.1.0.0\")]\n" +
		"[assembly: AssemblyInformationalVersion(\"2.1.0.0-beta1\")]\n"

	out, err := Rewrite(CSharpSource, in, beta, NetFx())
	require.NoError(t, err)
	assert.Equal(t, expected, out)
}

func TestRewriteVb(t *testing.T) {
	in := "Imports System.Reflection\r\n<Assembly: AssemblyVersion(\"1.0.0.0\")>\r\n"
	expected := "Imports System.Runtime.InteropServices\r\n" +
		"Imports System\r\n" +
		"Imports System.Reflection\r\n" +
		"<Assembly: AssemblyVersion(\"2.1.0.0\")>\r\n" +
		"<Assembly: AssemblyFileVersion(\"2.1.0.0\")>\r\n" +
		"<Assembly: AssemblyInformationalVersion(\"2.1.0.0-beta1\")>\r\n"

	out, err := Rewrite(VbSource, in, beta, NetFx())
	require.NoError(t, err)
	assert.Equal(t, expected, out)
}

func TestRewriteCppUpdateOnly(t *testing.T) {
	cfg := NetFx()
	cfg.InsertMissing = false
	cfg.EnsureImports = false

	in := "// header\n  [assembly:AssemblyVersion(\"1.0\")] ;\n"
	out, err := Rewrite(CppSource, in, version.New(3, 0, 0, 0), cfg)
	require.NoError(t, err)
	assert.Equal(t, "// header\n  [assembly: AssemblyVersion(\"3.0.0.0\")];\n", out)
}

func TestRewriteText(t *testing.T) {
	out, err := Rewrite(PlainText, "name = x\nversion=0.1\n", version.New(1, 2, 3, 0), Text())
	require.NoError(t, err)
	assert.Equal(t, "name = x\nVersion = 1.2.3\n", out)

	// always appended, whatever InsertMissing says
	cfg := Text()
	cfg.InsertMissing = false
	out, err = Rewrite(PlainText, "name = x", version.New(1, 2, 3, 4), cfg)
	require.NoError(t, err)
	assert.Equal(t, "name = x\nVersion = 1.2.3.4\n", out)
}

const multiGroupProject = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <!-- keep me -->
  </PropertyGroup>
  <PropertyGroup>
    <AssemblyVersion>1.0.0.0</AssemblyVersion>
  </PropertyGroup>
</Project>
`

func TestRewriteProjectPicksGroupHoldingField(t *testing.T) {
	expected := `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <FileVersion>1.2.3.4</FileVersion>
    <AssemblyInformationalVersion>1.2.3.4</AssemblyInformationalVersion>
    <!-- keep me -->
  </PropertyGroup>
  <PropertyGroup>
    <AssemblyVersion>1.2.3.4</AssemblyVersion>
  </PropertyGroup>
</Project>
`
	out, err := Rewrite(CSharpProject, multiGroupProject, version.New(1, 2, 3, 4), NetCore())
	require.NoError(t, err)
	assert.Equal(t, expected, out)
}

func TestRewriteProjectUpdateOnly(t *testing.T) {
	cfg := NetCore()
	cfg.InsertMissing = false
	out, err := Rewrite(VbProject, multiGroupProject, version.New(1, 2, 3, 4), cfg)
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(multiGroupProject, "1.0.0.0", "1.2.3.4", 1), out)
}

const sdkProject = `<Project Sdk="Microsoft.NET.Sdk">

  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>net8.0</TargetFramework>
    <Nullable   enable="true" />
    <AssemblyVersion>1.0.0.0</AssemblyVersion>
    <FileVersion/>
    <AssemblyInformationalVersion>1.0.0-alpha1</AssemblyInformationalVersion>
  </PropertyGroup>

  <ItemGroup>
    <PackageReference Include="Newtonsoft.Json" Version="13.0.1" />
    <PackageReference Include='Serilog' Version="3.1.1"></PackageReference>
    <None Update="appsettings.json" CopyToOutputDirectory="PreserveNewest" />
  </ItemGroup>

  <!-- <AssemblyVersion>9.9.9.9</AssemblyVersion> -->
  <Target Name="Stamp" Condition=" '$(Configuration)' == 'Release' ">
    <Message Text="&lt;stamp&gt; &amp; done" />
  </Target>
</Project>
`

func TestRewriteProjectKeepsUntouchedMarkup(t *testing.T) {
	expected := strings.NewReplacer(
		"<AssemblyVersion>1.0.0.0</AssemblyVersion>", "<AssemblyVersion>2.1.0.0</AssemblyVersion>",
		"<FileVersion/>", "<FileVersion>2.1.0.0</FileVersion>",
		"<AssemblyInformationalVersion>1.0.0-alpha1</AssemblyInformationalVersion>", "<AssemblyInformationalVersion>2.1.0.0-beta1</AssemblyInformationalVersion>",
	).Replace(sdkProject)

	out, err := Rewrite(CSharpProject, sdkProject, beta, NetCore())
	require.NoError(t, err)
	assert.Equal(t, expected, out)
	assert.Contains(t, out, `<PackageReference Include="Newtonsoft.Json" Version="13.0.1" />`)
	assert.Contains(t, out, "<!-- <AssemblyVersion>9.9.9.9</AssemblyVersion> -->")
}

func TestRewriteProjectCreatesPropertyGroup(t *testing.T) {
	out, err := Rewrite(CSharpProject, "<Project>\n  <ItemGroup />\n</Project>", version.New(1, 0, 0, 0), NetCore())
	require.NoError(t, err)
	assert.Equal(t, "<Project>\n  <ItemGroup />\n  <PropertyGroup>"+
		"<AssemblyVersion>1.0.0.0</AssemblyVersion>"+
		"<FileVersion>1.0.0.0</FileVersion>"+
		"<AssemblyInformationalVersion>1.0.0</AssemblyInformationalVersion>"+
		"</PropertyGroup>\n</Project>", out)
}

func TestRewriteProjectFillsEmptyPropertyGroup(t *testing.T) {
	in := "<Project Sdk=\"Microsoft.NET.Sdk\">\r\n  <PropertyGroup />\r\n  <ItemGroup />\r\n</Project>\r\n"
	out, err := Rewrite(CSharpProject, in, version.New(1, 0, 0, 1), NetCore())
	require.NoError(t, err)
	assert.Equal(t, "<Project Sdk=\"Microsoft.NET.Sdk\">\r\n  <PropertyGroup>"+
		"<AssemblyVersion>1.0.0.1</AssemblyVersion>"+
		"<FileVersion>1.0.0.1</FileVersion>"+
		"<AssemblyInformationalVersion>1.0.0.1</AssemblyInformationalVersion>"+
		"</PropertyGroup>\r\n  <ItemGroup />\r\n</Project>\r\n", out)
}

func TestRewriteProjectWrongRoot(t *testing.T) {
	_, err := Rewrite(CSharpProject, "<Other/>", version.New(1, 0, 0, 0), NetCore())
	assert.Error(t, err)

	cfg := NetCore()
	cfg.InsertMissing = false
	out, err := Rewrite(CSharpProject, "<Other/>", version.New(1, 0, 0, 0), cfg)
	require.NoError(t, err)
	assert.Equal(t, "<Other/>", out)
}

func TestRewriteProjectKeepsCRLF(t *testing.T) {
	in := strings.ReplaceAll(multiGroupProject, "\n", "\r\n")
	out, err := Rewrite(CSharpProject, in, version.New(1, 2, 3, 4), NetCore())
	require.NoError(t, err)
	assert.Equal(t, strings.Count(out, "\n"), strings.Count(out, "\r\n"))
	assert.Contains(t, out, "<TargetFramework>net8.0</TargetFramework>\r\n    <FileVersion>1.2.3.4</FileVersion>\r\n")
}

func TestRewriteNuspec(t *testing.T) {
	in := `<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd">
  <metadata>
    <id>Demo</id>
    <version>1.0.0</version>
    <dependencies>
      <dependency id="Newtonsoft.Json" version="13.0.1" />
    </dependencies>
  </metadata>
  <files />
</package>
`
	out, err := Rewrite(PackageManifest, in, beta, Nuspec())
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(in, "<version>1.0.0</version>", "<version>2.1.0.0-beta1</version>", 1), out)
}

func TestRewriteNuspecInsertsVersion(t *testing.T) {
	in := "<package>\n  <metadata>\n    <id>Demo</id>\n  </metadata>\n</package>\n"
	out, err := Rewrite(PackageManifest, in, beta, Nuspec())
	require.NoError(t, err)
	assert.Equal(t, "<package>\n  <metadata>\n    <id>Demo</id>\n    <version>2.1.0.0-beta1</version>\n  </metadata>\n</package>\n", out)
}

func TestRewriteUnknownKind(t *testing.T) {
	_, err := Rewrite(Kind(99), "", beta, Text())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestKindByExtension(t *testing.T) {
	k, err := KindByExtension("src/App.CSPROJ")
	require.NoError(t, err)
	assert.Equal(t, CSharpProject, k)

	_, err = KindByExtension("package.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConfigFilters(t *testing.T) {
	cfg := NetCore("extra/*.csproj")
	assert.Equal(t, []string{"**/*.csproj", "**/*.vbproj", "extra/*.csproj"}, cfg.Filters())
	cfg.UseGlobber = false
	assert.Equal(t, []string{"*.csproj", "*.vbproj", "extra/*.csproj"}, cfg.Filters())
	assert.Equal(t, []string{"VERSION"}, Text("VERSION").Filters())
}
