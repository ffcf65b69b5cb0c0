package javascript

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/matzehuels/feluda/pkg/deps"
)

// PackageJSON parses package.json files. It extracts dependencies,
// devDependencies, peerDependencies and optionalDependencies.
type PackageJSON struct{}

func (p *PackageJSON) Type() string              { return "package.json" }
func (p *PackageJSON) IncludesTransitive() bool  { return false }
func (p *PackageJSON) Supports(name string) bool { return strings.EqualFold(name, "package.json") }

func (p *PackageJSON) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	pkg, err := readPackageJSON(path)
	if err != nil {
		return nil, err
	}

	versions := make(map[string]string)
	for _, group := range pkg.groups() {
		for name, v := range group {
			if _, seen := versions[name]; !seen {
				versions[name] = v
			}
		}
	}
	return deps.Direct(deps.Node, p.Type(), versions), nil
}

func readPackageJSON(path string) (*packageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

type packageFile struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// groups returns the dependency groups, runtime dependencies first.
func (p *packageFile) groups() []map[string]string {
	return []map[string]string{p.Dependencies, p.DevDependencies, p.PeerDependencies, p.OptionalDependencies}
}
