package scan

import (
	"cmp"
	"slices"

	"github.com/matzehuels/feluda/internal/semver"
	"github.com/matzehuels/feluda/pkg/config"
	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/licenses"
)

// Record is one reported dependency with its license classification.
type Record struct {
	Name       string         `json:"name" yaml:"name"`
	Version    string         `json:"version" yaml:"version"`
	Ecosystem  deps.Ecosystem `json:"ecosystem" yaml:"ecosystem"`
	Depth      int            `json:"depth" yaml:"depth"`
	Manifest   string         `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	Unresolved bool           `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	License    licenses.Info  `json:"license" yaml:"license"`

	declared string // license embedded in the manifest or lock file
}

// Direct reports whether the dependency is declared by the project itself.
func (r Record) Direct() bool { return r.Depth == 0 }

// Dependency returns the record as a dependency.
func (r Record) Dependency() deps.Dependency {
	return deps.Dependency{
		Name:       r.Name,
		Version:    r.Version,
		Ecosystem:  r.Ecosystem,
		Depth:      r.Depth,
		Manifest:   r.Manifest,
		License:    r.declared,
		Unresolved: r.Unresolved,
	}
}

// Summary counts records for reporting and exit code decisions.
type Summary struct {
	Total        int            `json:"total" yaml:"total"`
	Restrictive  int            `json:"restrictive" yaml:"restrictive"`
	Incompatible int            `json:"incompatible" yaml:"incompatible"`
	Unknown      int            `json:"unknown" yaml:"unknown"`
	ByLicense    map[string]int `json:"by_license" yaml:"by_license"`
}

// Merge applies the dependency ignore rules and collapses duplicates,
// keeping the shallowest depth. Records with the same ecosystem and name
// are duplicates when their versions are equal or when either version is
// empty; an empty version takes the version of the pinned copy. The result
// keeps first-seen order.
func Merge(all []deps.Dependency, cfg *config.Config) []Record {
	byName := make(map[deps.Key][]int, len(all))
	out := make([]Record, 0, len(all))
	for _, d := range all {
		if cfg != nil {
			if _, ignored := cfg.IgnoresDependency(d.Name, d.Version); ignored {
				continue
			}
		}
		i, seen := findRecord(out, byName[d.Key()], d.Version)
		if !seen {
			byName[d.Key()] = append(byName[d.Key()], len(out))
			out = append(out, Record{
				Name:       d.Name,
				Version:    d.Version,
				Ecosystem:  d.Ecosystem,
				Depth:      d.Depth,
				Manifest:   d.Manifest,
				Unresolved: d.Unresolved,
				declared:   d.License,
			})
			continue
		}
		r := &out[i]
		if r.Version == "" {
			r.Version = d.Version
		}
		if d.Depth < r.Depth {
			r.Depth, r.Manifest = d.Depth, d.Manifest
		}
		if r.declared == "" {
			r.declared = d.License
		}
		r.Unresolved = r.Unresolved || d.Unresolved
	}
	return out
}

// findRecord picks the record among candidates that version folds into:
// an exact match first, then any record when version is empty, then an
// unpinned record.
func findRecord(out []Record, candidates []int, version string) (int, bool) {
	for _, i := range candidates {
		if out[i].Version == version {
			return i, true
		}
	}
	if version == "" && len(candidates) > 0 {
		return candidates[0], true
	}
	for _, i := range candidates {
		if out[i].Version == "" {
			return i, true
		}
	}
	return 0, false
}

// DropIgnoredLicenses removes records whose license is on the ignore
// list. Ignoring wins over the restrictive list.
func DropIgnoredLicenses(records []Record, cfg *config.Config) []Record {
	if cfg == nil || len(cfg.Licenses.Ignore) == 0 {
		return records
	}
	return slices.DeleteFunc(records, func(r Record) bool {
		return cfg.IgnoresLicense(r.License.Display())
	})
}

// Sort orders records by ecosystem, name and version. Versions compare
// semantically when both parse.
func Sort(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Or(
			cmp.Compare(a.Ecosystem, b.Ecosystem),
			cmp.Compare(a.Name, b.Name),
			semver.CompareStrings(a.Version, b.Version),
		)
	})
}

// Summarize counts records.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records), ByLicense: make(map[string]int)}
	for _, r := range records {
		if r.License.Restrictive {
			s.Restrictive++
		}
		if r.License.Compatibility == licenses.Incompatible {
			s.Incompatible++
		}
		if !r.License.Known() {
			s.Unknown++
		}
		s.ByLicense[r.License.Display()]++
	}
	return s
}
