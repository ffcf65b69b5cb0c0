package r

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations/cran"
)

// Description parses R package DESCRIPTION files.
type Description struct{}

func (d *Description) Type() string              { return "DESCRIPTION" }
func (d *Description) IncludesTransitive() bool  { return false }
func (d *Description) Supports(name string) bool { return name == "DESCRIPTION" }

func (d *Description) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fields, err := readDCF(f)
	if err != nil {
		return nil, err
	}
	return deps.Direct(deps.R, d.Type(), dependencyFields(fields)), nil
}

// dependencyFields collects the packages of Depends, Imports and
// LinkingTo with their version constraints.
func dependencyFields(fields map[string]string) map[string]string {
	versions := make(map[string]string)
	for _, key := range []string{"Depends", "Imports", "LinkingTo"} {
		for name, constraint := range parsePackageList(fields[key]) {
			if cran.IsBasePackage(name) {
				continue
			}
			if _, seen := versions[name]; !seen {
				versions[name] = constraint
			}
		}
	}
	return versions
}

var packageEntryRE = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9.]*)\s*(?:\(([^)]*)\))?$`)

// parsePackageList reads "dplyr (>= 1.0.0), ggplot2" into name to
// constraint pairs.
func parsePackageList(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if m := packageEntryRE.FindStringSubmatch(part); m != nil {
			out[m[1]] = strings.ReplaceAll(strings.TrimSpace(m[2]), " ", "")
		}
	}
	return out
}

// readDCF reads a Debian control file: "Key: value" lines, where lines
// starting with whitespace continue the previous value.
func readDCF(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string)
	var key string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if key != "" {
				fields[key] = strings.TrimSpace(fields[key] + " " + strings.TrimSpace(line))
			}
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(k)
		fields[key] = strings.TrimSpace(v)
	}
	return fields, scanner.Err()
}
