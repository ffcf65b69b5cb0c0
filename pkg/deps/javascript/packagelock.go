package javascript

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/feluda/pkg/deps"
)

const nodeModules = "node_modules/"

// PackageLock parses package-lock.json files of lockfileVersion 2 and 3
// (the "packages" map). Top-level packages named by the root package are
// direct; other packages get their node_modules nesting level as depth.
type PackageLock struct{}

func (p *PackageLock) Type() string             { return "package-lock.json" }
func (p *PackageLock) IncludesTransitive() bool { return true }
func (p *PackageLock) Supports(name string) bool {
	return strings.EqualFold(name, "package-lock.json") || strings.EqualFold(name, "npm-shrinkwrap.json")
}

func (p *PackageLock) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock lockFile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	if lock.Packages == nil {
		return nil, fmt.Errorf("lockfileVersion %d has no packages map", lock.LockfileVersion)
	}

	direct := make(map[string]bool)
	if root, ok := lock.Packages[""]; ok {
		for _, group := range []map[string]string{root.Dependencies, root.DevDependencies, root.PeerDependencies, root.OptionalDependencies} {
			for name := range group {
				direct[name] = true
			}
		}
	}

	var out []deps.Dependency
	for key, entry := range lock.Packages {
		if !strings.HasPrefix(key, nodeModules) || entry.Link {
			continue
		}
		nesting := strings.Count(key, nodeModules)
		name := key[strings.LastIndex(key, nodeModules)+len(nodeModules):]
		if entry.Name != "" {
			name = entry.Name
		}

		depth := nesting
		if nesting == 1 && direct[name] {
			depth = 0
		}
		out = append(out, deps.Dependency{
			Name:      name,
			Version:   entry.Version,
			Ecosystem: deps.Node,
			Depth:     depth,
			Manifest:  p.Type(),
			License:   licenseString(entry.License),
		})
	}
	deps.SortByName(out)
	return out, nil
}

// licenseString reads the "license" field: a string, or the legacy
// {"type": ...} object.
func licenseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Type
	}
	return ""
}

type lockFile struct {
	LockfileVersion int                  `json:"lockfileVersion"`
	Packages        map[string]lockEntry `json:"packages"`
}

type lockEntry struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	License              json.RawMessage   `json:"license"`
	Link                 bool              `json:"link"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}
