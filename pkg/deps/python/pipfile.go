package python

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/feluda/pkg/deps"
)

// PipfileLock parses Pipfile.lock files (the "default" and "develop"
// sections). Packages listed in a sibling Pipfile are direct; the rest
// are reported at depth 1.
type PipfileLock struct{}

func (p *PipfileLock) Type() string              { return "Pipfile.lock" }
func (p *PipfileLock) IncludesTransitive() bool  { return true }
func (p *PipfileLock) Supports(name string) bool { return name == "Pipfile.lock" }

func (p *PipfileLock) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock struct {
		Default map[string]pipfileEntry `json:"default"`
		Develop map[string]pipfileEntry `json:"develop"`
	}
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	direct, hasPipfile := pipfileNames(filepath.Join(filepath.Dir(path), "Pipfile"))

	seen := make(map[string]bool)
	var out []deps.Dependency
	for _, section := range []map[string]pipfileEntry{lock.Default, lock.Develop} {
		for raw, entry := range section {
			name := normalize(raw)
			if seen[name] {
				continue
			}
			seen[name] = true
			d := deps.Dependency{
				Name:      name,
				Version:   strings.TrimPrefix(entry.Version, "=="),
				Ecosystem: deps.Python,
				Manifest:  p.Type(),
			}
			if hasPipfile && !direct[name] {
				d.Depth = 1
			}
			out = append(out, d)
		}
	}
	deps.SortByName(out)
	return out, nil
}

type pipfileEntry struct {
	Version string `json:"version"`
}

func pipfileNames(path string) (map[string]bool, bool) {
	var pipfile struct {
		Packages    map[string]any `toml:"packages"`
		DevPackages map[string]any `toml:"dev-packages"`
	}
	if _, err := toml.DecodeFile(path, &pipfile); err != nil {
		return nil, false
	}
	names := make(map[string]bool)
	for _, table := range []map[string]any{pipfile.Packages, pipfile.DevPackages} {
		for name := range table {
			names[normalize(name)] = true
		}
	}
	return names, true
}
