package python

import (
	"bufio"
	"os"
	"strings"

	"github.com/matzehuels/feluda/pkg/deps"
)

// Requirements parses requirements*.txt files.
type Requirements struct{}

func (r *Requirements) Type() string             { return "requirements.txt" }
func (r *Requirements) IncludesTransitive() bool { return false }

func (r *Requirements) Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

func (r *Requirements) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	versions := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}
		if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}
		if name, spec, ok := parseRequirement(line); ok {
			if _, seen := versions[name]; !seen {
				versions[name] = spec
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return deps.Direct(deps.Python, r.Type(), versions), nil
}
