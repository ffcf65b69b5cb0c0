package golang

import (
	"os"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations/goproxy"
)

// GoModParser parses go.mod files. Requirements marked "// indirect" are
// reported at depth 1; go.mod lists them because the build needs them,
// not because the module imports them.
type GoModParser struct{}

func (p *GoModParser) Type() string              { return "go.mod" }
func (p *GoModParser) IncludesTransitive() bool  { return false }
func (p *GoModParser) Supports(name string) bool { return name == "go.mod" }

func (p *GoModParser) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, reqs, err := goproxy.ParseGoMod(f)
	if err != nil {
		return nil, err
	}

	out := make([]deps.Dependency, 0, len(reqs))
	for _, r := range reqs {
		d := deps.Dependency{
			Name:      r.Path,
			Version:   r.Version,
			Ecosystem: deps.Go,
			Manifest:  p.Type(),
		}
		if r.Indirect {
			d.Depth = 1
		}
		out = append(out, d)
	}
	return out, nil
}
