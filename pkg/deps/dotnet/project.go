package dotnet

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/feluda/pkg/deps"
)

// CentralPackagesFile holds versions for projects that use central
// package management.
const CentralPackagesFile = "Directory.Packages.props"

var projectExtensions = []string{".csproj", ".fsproj", ".vbproj"}

// ProjectFile parses PackageReference items of SDK-style project files.
type ProjectFile struct{}

func (p *ProjectFile) Type() string             { return "*.csproj" }
func (p *ProjectFile) IncludesTransitive() bool { return false }

func (p *ProjectFile) Supports(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range projectExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (p *ProjectFile) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, err
	}

	var central map[string]string
	direct := make(map[string]string)
	for _, ref := range doc.FindElements("//PackageReference") {
		name := ref.SelectAttrValue("Include", "")
		if name == "" {
			name = ref.SelectAttrValue("Update", "")
		}
		if name == "" {
			continue
		}
		version := attrOrChild(ref, "Version")
		if version == "" {
			if central == nil {
				central = centralVersions(filepath.Dir(path), opts.Logger)
			}
			version = central[strings.ToLower(name)]
		}
		direct[name] = version
	}
	return deps.Direct(deps.DotNet, filepath.Base(path), direct), nil
}

// PackagesConfig parses legacy packages.config files. Development-only
// packages are skipped.
type PackagesConfig struct{}

func (p *PackagesConfig) Type() string             { return "packages.config" }
func (p *PackagesConfig) IncludesTransitive() bool { return false }
func (p *PackagesConfig) Supports(name string) bool {
	return strings.EqualFold(name, "packages.config")
}

func (p *PackagesConfig) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, err
	}
	direct := make(map[string]string)
	for _, pkg := range doc.FindElements("//package") {
		id := pkg.SelectAttrValue("id", "")
		if id == "" || strings.EqualFold(pkg.SelectAttrValue("developmentDependency", ""), "true") {
			continue
		}
		direct[id] = pkg.SelectAttrValue("version", "")
	}
	return deps.Direct(deps.DotNet, p.Type(), direct), nil
}

// centralVersions reads PackageVersion items from the nearest
// Directory.Packages.props at or above dir. Keys are lower-cased.
func centralVersions(dir string, logf func(string, ...any)) map[string]string {
	versions := make(map[string]string)
	path, ok := findUp(dir, CentralPackagesFile)
	if !ok {
		return versions
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		if logf != nil {
			logf("read %s: %v", path, err)
		}
		return versions
	}
	for _, pv := range doc.FindElements("//PackageVersion") {
		name := pv.SelectAttrValue("Include", "")
		if name == "" {
			name = pv.SelectAttrValue("Update", "")
		}
		if name != "" {
			versions[strings.ToLower(name)] = attrOrChild(pv, "Version")
		}
	}
	return versions
}

func findUp(dir, name string) (string, bool) {
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func attrOrChild(e *etree.Element, name string) string {
	if v := e.SelectAttrValue(name, ""); v != "" {
		return strings.TrimSpace(v)
	}
	if c := e.SelectElement(name); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}
