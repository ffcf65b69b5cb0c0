package rust

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/feluda/pkg/deps"
)

// CargoLock parses Cargo.lock files. Packages without a source are the
// workspace members; every other package is reported with its distance
// from them.
type CargoLock struct{}

func (c *CargoLock) Type() string              { return "Cargo.lock" }
func (c *CargoLock) IncludesTransitive() bool  { return true }
func (c *CargoLock) Supports(name string) bool { return strings.EqualFold(name, "cargo.lock") }

func (c *CargoLock) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	byName := make(map[string][]int)
	for i, p := range lock.Packages {
		byName[p.Name] = append(byName[p.Name], i)
	}
	// "name", "name version" or "name version (source)"
	lookup := func(ref string) int {
		fields := strings.Fields(ref)
		if len(fields) == 0 {
			return -1
		}
		candidates := byName[fields[0]]
		if len(fields) == 1 && len(candidates) > 0 {
			return candidates[0]
		}
		for _, i := range candidates {
			if len(fields) > 1 && lock.Packages[i].Version == fields[1] {
				return i
			}
		}
		return -1
	}

	depth := make([]int, len(lock.Packages))
	for i := range depth {
		depth[i] = -1
	}
	var queue []int
	for i, p := range lock.Packages {
		if p.Source == "" {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, ref := range lock.Packages[i].Dependencies {
			j := lookup(ref)
			if j < 0 || lock.Packages[j].Source == "" || depth[j] >= 0 {
				continue
			}
			if lock.Packages[i].Source == "" {
				depth[j] = 0
			} else {
				depth[j] = depth[i] + 1
			}
			queue = append(queue, j)
		}
	}

	var out []deps.Dependency
	for i, p := range lock.Packages {
		if p.Source == "" {
			continue
		}
		d := depth[i]
		if d < 0 {
			d = 1
		}
		out = append(out, deps.Dependency{
			Name:      p.Name,
			Version:   p.Version,
			Ecosystem: deps.Rust,
			Depth:     d,
			Manifest:  c.Type(),
		})
	}
	deps.SortByName(out)
	return out, nil
}

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Dependencies []string `toml:"dependencies"`
}
