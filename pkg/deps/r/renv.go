package r

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations/cran"
)

// RenvLock parses renv.lock files. Direct dependencies come from a
// DESCRIPTION file next to the lock; without one, packages no other
// package requires are treated as direct.
type RenvLock struct{}

func (l *RenvLock) Type() string              { return "renv.lock" }
func (l *RenvLock) IncludesTransitive() bool  { return true }
func (l *RenvLock) Supports(name string) bool { return name == "renv.lock" }

func (l *RenvLock) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock struct {
		Packages map[string]renvPackage `json:"Packages"`
	}
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	var names []string
	edges := make(map[string][]string)
	for key, p := range lock.Packages {
		name := p.name(key)
		if cran.IsBasePackage(name) {
			continue
		}
		names = append(names, name)
		edges[name] = p.Requirements
	}

	var roots []string
	if direct, ok := descriptionDeps(filepath.Join(filepath.Dir(path), "DESCRIPTION")); ok {
		for name := range direct {
			roots = append(roots, name)
		}
	} else {
		roots = deps.Unreferenced(names, edges)
	}
	depth := deps.Depths(roots, edges)

	out := make([]deps.Dependency, 0, len(names))
	for key, p := range lock.Packages {
		name := p.name(key)
		if cran.IsBasePackage(name) {
			continue
		}
		d, ok := depth[name]
		if !ok {
			d = 1
		}
		out = append(out, deps.Dependency{
			Name:      name,
			Version:   p.Version,
			Ecosystem: deps.R,
			Depth:     d,
			Manifest:  l.Type(),
		})
	}
	deps.SortByName(out)
	return out, nil
}

type renvPackage struct {
	Package      string   `json:"Package"`
	Version      string   `json:"Version"`
	Requirements []string `json:"Requirements"`
}

func (p renvPackage) name(key string) string {
	if p.Package != "" {
		return p.Package
	}
	return key
}

func descriptionDeps(path string) (map[string]string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	fields, err := readDCF(f)
	if err != nil {
		return nil, false
	}
	return dependencyFields(fields), true
}
