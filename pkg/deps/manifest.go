package deps

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
)

// ManifestParser reads dependency declarations from local manifest files.
type ManifestParser interface {
	// Parse reads the manifest at path and returns its dependencies.
	Parse(path string, opts Options) ([]Dependency, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Type returns the manifest type identifier (e.g., "Cargo.lock").
	Type() string
	// IncludesTransitive reports whether the manifest contains the full
	// transitive closure (like lock files) or just direct dependencies.
	IncludesTransitive() bool
}

// DetectManifest finds a parser that supports the given file path.
// Returns an error if no parser matches.
func DetectManifest(path string, parsers ...ManifestParser) (ManifestParser, error) {
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unsupported manifest: %s", name)
}

// Direct builds depth-0 dependencies from a name to version map, sorted
// by name.
func Direct(eco Ecosystem, manifest string, versions map[string]string) []Dependency {
	out := make([]Dependency, 0, len(versions))
	for name, v := range versions {
		out = append(out, Dependency{Name: name, Version: v, Ecosystem: eco, Manifest: manifest})
	}
	SortByName(out)
	return out
}

// SortByName orders dependencies by name, then version.
func SortByName(ds []Dependency) {
	slices.SortStableFunc(ds, func(a, b Dependency) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Version, b.Version))
	})
}

// Depths computes the BFS distance of every node reachable from roots
// over edges. Lock file parsers use it to recover dependency depth.
func Depths(roots []string, edges map[string][]string) map[string]int {
	depth := make(map[string]int)
	queue := make([]string, 0, len(roots))
	for _, r := range roots {
		if _, ok := depth[r]; !ok {
			depth[r] = 0
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, to := range edges[n] {
			if _, ok := depth[to]; !ok {
				depth[to] = depth[n] + 1
				queue = append(queue, to)
			}
		}
	}
	return depth
}

// Unreferenced returns the nodes no edge points to, in input order. Lock
// parsers treat them as direct dependencies when no manifest says which
// ones are.
func Unreferenced(nodes []string, edges map[string][]string) []string {
	incoming := make(map[string]bool)
	for _, tos := range edges {
		for _, to := range tos {
			incoming[to] = true
		}
	}
	var out []string
	for _, n := range nodes {
		if !incoming[n] {
			out = append(out, n)
		}
	}
	return out
}
