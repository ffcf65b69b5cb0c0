package licenses

import (
	"maps"
	"slices"
)

// Matrix maps a project license to the set of dependency licenses it can
// include. Keys and members are normalized identifiers and lookups are
// case-sensitive.
type Matrix map[string]map[string]bool

var permissive = []string{"MIT", "BSD-2-Clause", "BSD-3-Clause", "Apache-2.0", "ISC", "0BSD", "Zlib", "Unlicense", "WTFPL"}

// DefaultMatrix returns the built-in compatibility table.
func DefaultMatrix() Matrix {
	m := Matrix{}
	m.Set("MIT", permissive)
	m.Set("Apache-2.0", permissive)
	m.Set("GPL-3.0", append(slices.Clone(permissive), "LGPL-2.1", "LGPL-3.0", "GPL-2.0", "GPL-3.0"))
	m.Set("GPL-2.0", []string{"MIT", "BSD-2-Clause", "BSD-3-Clause", "LGPL-2.1", "GPL-2.0", "ISC", "0BSD", "Zlib", "Unlicense", "WTFPL"})
	m.Set("AGPL-3.0", append(slices.Clone(permissive), "LGPL-2.1", "LGPL-3.0", "GPL-3.0", "AGPL-3.0"))
	m.Set("LGPL-3.0", []string{"MIT", "BSD-2-Clause", "BSD-3-Clause", "Apache-2.0", "LGPL-2.1", "LGPL-3.0", "ISC", "0BSD"})
	m.Set("LGPL-2.1", []string{"MIT", "BSD-2-Clause", "BSD-3-Clause", "LGPL-2.1", "ISC", "0BSD"})
	m.Set("MPL-2.0", []string{"MIT", "BSD-2-Clause", "BSD-3-Clause", "MPL-2.0", "ISC", "0BSD"})
	m.Set("BSD-3-Clause", []string{"MIT", "BSD-2-Clause", "BSD-3-Clause", "ISC", "0BSD"})
	m.Set("BSD-2-Clause", []string{"MIT", "BSD-2-Clause", "ISC", "0BSD"})
	m.Set("ISC", []string{"MIT", "ISC", "0BSD"})
	m.Set("0BSD", []string{"0BSD"})
	m.Set("Unlicense", []string{"Unlicense", "0BSD"})
	m.Set("WTFPL", []string{"WTFPL", "0BSD", "Unlicense"})
	return m
}

// Set replaces the accepted licenses of project.
func (m Matrix) Set(project string, accepted []string) {
	set := make(map[string]bool, len(accepted))
	for _, a := range accepted {
		set[a] = true
	}
	m[project] = set
}

// Has reports whether project is a known project license.
func (m Matrix) Has(project string) bool {
	_, ok := m[project]
	return ok
}

// Accepts reports whether a project under project may include dep.
func (m Matrix) Accepts(project, dep string) bool {
	return m[project][dep]
}

// Accepted returns the sorted dependency licenses accepted under project.
func (m Matrix) Accepted(project string) []string {
	return slices.Sorted(maps.Keys(m[project]))
}

// WithOverrides returns a copy of m where each project license in
// overrides has its accepted set replaced.
func (m Matrix) WithOverrides(overrides map[string][]string) Matrix {
	out := make(Matrix, len(m)+len(overrides))
	for k, v := range m {
		out[k] = maps.Clone(v)
	}
	for project, accepted := range overrides {
		out.Set(project, accepted)
	}
	return out
}
