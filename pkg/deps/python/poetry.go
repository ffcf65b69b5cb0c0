package python

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/feluda/pkg/deps"
)

// PoetryLock parses poetry.lock files. It provides the full transitive
// closure without contacting a registry. Direct dependencies are taken
// from pyproject.toml next to the lock file; without one, packages
// nothing else depends on are treated as direct.
type PoetryLock struct{}

func (p *PoetryLock) Type() string              { return "poetry.lock" }
func (p *PoetryLock) IncludesTransitive() bool  { return true }
func (p *PoetryLock) Supports(name string) bool { return name == "poetry.lock" }

func (p *PoetryLock) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	edges := make(map[string][]string, len(lock.Packages))
	for _, pkg := range lock.Packages {
		from := normalize(pkg.Name)
		for dep := range pkg.Dependencies {
			edges[from] = append(edges[from], normalize(dep))
		}
	}

	var roots []string
	if direct, err := pyprojectDeps(filepath.Join(filepath.Dir(path), "pyproject.toml")); err == nil && len(direct) > 0 {
		for name := range direct {
			roots = append(roots, name)
		}
	} else {
		names := make([]string, 0, len(lock.Packages))
		for _, pkg := range lock.Packages {
			names = append(names, normalize(pkg.Name))
		}
		roots = deps.Unreferenced(names, edges)
	}
	depth := deps.Depths(roots, edges)

	out := make([]deps.Dependency, 0, len(lock.Packages))
	for _, pkg := range lock.Packages {
		name := normalize(pkg.Name)
		d, ok := depth[name]
		if !ok {
			d = 1
		}
		out = append(out, deps.Dependency{
			Name:      name,
			Version:   pkg.Version,
			Ecosystem: deps.Python,
			Depth:     d,
			Manifest:  p.Type(),
		})
	}
	deps.SortByName(out)
	return out, nil
}

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name         string         `toml:"name"`
	Version      string         `toml:"version"`
	Dependencies map[string]any `toml:"dependencies"`
}
