package rust

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/feluda/pkg/deps"
)

// CargoToml parses Cargo.toml files. It extracts dependencies,
// dev-dependencies and build-dependencies.
type CargoToml struct{}

func (c *CargoToml) Type() string              { return "Cargo.toml" }
func (c *CargoToml) IncludesTransitive() bool  { return false }
func (c *CargoToml) Supports(name string) bool { return strings.EqualFold(name, "cargo.toml") }

func (c *CargoToml) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cargo cargoFile
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, err
	}

	versions := make(map[string]string)
	for _, table := range []map[string]any{cargo.Dependencies, cargo.DevDependencies, cargo.BuildDependencies} {
		for name, spec := range table {
			v, ok := cargoVersion(spec, cargo.Workspace.Dependencies[name])
			if !ok {
				continue
			}
			if _, seen := versions[name]; !seen {
				versions[name] = v
			}
		}
	}
	return deps.Direct(deps.Rust, c.Type(), versions), nil
}

// cargoVersion reads a dependency spec: a version string or a table with
// "version". Path dependencies report false. A table with
// workspace = true takes its spec from [workspace.dependencies].
func cargoVersion(spec, workspace any) (string, bool) {
	switch v := spec.(type) {
	case string:
		return v, true
	case map[string]any:
		if _, ok := v["path"]; ok {
			return "", false
		}
		if inherit, _ := v["workspace"].(bool); inherit {
			if workspace == nil {
				return "", true
			}
			return cargoVersion(workspace, nil)
		}
		if _, ok := v["git"]; ok {
			return "git", true
		}
		s, _ := v["version"].(string)
		return s, true
	}
	return "", true
}

type cargoFile struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Workspace struct {
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"workspace"`
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}
