package patch

// Config describes which files a Patcher touches and how missing fields are
// handled. Build one with a preset and adjust the fields.
type Config struct {
	// GlobFilters are used when UseGlobber is set, e.g. "**/*.csproj".
	GlobFilters []string
	// SimpleFilters are base-name wildcards used otherwise, e.g. "*.csproj".
	SimpleFilters []string
	// CustomFilters are added in both modes.
	CustomFilters []string

	Recursive  bool
	UseGlobber bool

	// InsertMissing appends fields that are not present yet. When false,
	// only existing fields are updated.
	InsertMissing bool
	// EnsureImports adds the using/Imports lines source attribute files
	// need. Only source dialects read it.
	EnsureImports bool

	// Classify overrides KindByExtension.
	Classify Classifier
}

func defaults() Config {
	return Config{
		Recursive:     true,
		UseGlobber:    true,
		InsertMissing: true,
		EnsureImports: true,
	}
}

// NetCore targets SDK style C# and VB project files.
func NetCore(custom ...string) Config {
	c := defaults()
	c.GlobFilters = []string{"**/*.csproj", "**/*.vbproj"}
	c.SimpleFilters = []string{"*.csproj", "*.vbproj"}
	c.CustomFilters = custom
	return c
}

// NetFx targets legacy AssemblyInfo source files.
func NetFx(custom ...string) Config {
	c := defaults()
	c.GlobFilters = []string{
		"**/Properties/AssemblyInfo.cs",
		"**/Properties/AssemblyInfo.vb",
		"**/My Project/AssemblyInfo.vb",
	}
	c.SimpleFilters = []string{"AssemblyInfo.cs", "AssemblyInfo.vb"}
	c.CustomFilters = custom
	return c
}

// Nuspec targets package manifests.
func Nuspec(custom ...string) Config {
	c := defaults()
	c.GlobFilters = []string{"**/*.nuspec"}
	c.SimpleFilters = []string{"*.nuspec"}
	c.CustomFilters = custom
	return c
}

// Text has no preset filters; every file comes from custom.
func Text(custom ...string) Config {
	c := defaults()
	c.CustomFilters = custom
	return c
}

// Filters returns the filters of the active mode followed by the custom ones.
func (c Config) Filters() []string {
	base := c.SimpleFilters
	if c.UseGlobber {
		base = c.GlobFilters
	}
	out := make([]string, 0, len(base)+len(c.CustomFilters))
	out = append(out, base...)
	return append(out, c.CustomFilters...)
}

func (c Config) classify(path string) (Kind, error) {
	if c.Classify != nil {
		return c.Classify(path)
	}
	return KindByExtension(path)
}
