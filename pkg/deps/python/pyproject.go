package python

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/feluda/pkg/deps"
)

// Pyproject parses pyproject.toml: PEP 621 dependencies and
// optional-dependencies, and Poetry dependency tables including groups.
type Pyproject struct{}

func (p *Pyproject) Type() string              { return "pyproject.toml" }
func (p *Pyproject) IncludesTransitive() bool  { return false }
func (p *Pyproject) Supports(name string) bool { return name == "pyproject.toml" }

func (p *Pyproject) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	versions, err := pyprojectDeps(path)
	if err != nil {
		return nil, err
	}
	return deps.Direct(deps.Python, p.Type(), versions), nil
}

func pyprojectDeps(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var py pyprojectFile
	if err := toml.Unmarshal(data, &py); err != nil {
		return nil, err
	}

	versions := make(map[string]string)
	add := func(name, spec string) {
		if name == "python" {
			return
		}
		if _, seen := versions[name]; !seen {
			versions[name] = spec
		}
	}

	pep508 := append([]string(nil), py.Project.Dependencies...)
	for _, group := range py.Project.OptionalDependencies {
		pep508 = append(pep508, group...)
	}
	for _, req := range pep508 {
		if name, spec, ok := parseRequirement(req); ok {
			add(name, spec)
		}
	}

	poetry := []map[string]any{py.Tool.Poetry.Dependencies, py.Tool.Poetry.DevDependencies}
	for _, g := range py.Tool.Poetry.Group {
		poetry = append(poetry, g.Dependencies)
	}
	for _, table := range poetry {
		for name, spec := range table {
			add(normalize(name), poetryVersion(spec))
		}
	}
	return versions, nil
}

// poetryVersion reads a Poetry dependency spec: a version string or a
// table with "version". Path and git dependencies have no version.
func poetryVersion(spec any) string {
	switch v := spec.(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["version"].(string)
		return s
	case []map[string]any:
		if len(v) > 0 {
			s, _ := v[0]["version"].(string)
			return s
		}
	}
	return ""
}

type pyprojectFile struct {
	Project struct {
		Name                 string              `toml:"name"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name            string         `toml:"name"`
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}
