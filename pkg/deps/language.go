package deps

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/observability"
)

// Env carries what registry clients need. It is built once per run.
type Env struct {
	Cache       cache.Cache
	CacheTTL    time.Duration
	GitHubToken string
	Hooks       observability.Hooks
}

// Language describes one ecosystem: which files mark a project, how to
// parse them, and which registry knows its packages.
type Language struct {
	Name     Ecosystem
	Registry string // Human-readable registry name (e.g., "crates.io")

	// ManifestParsers lists parsers in priority order. Lock files come
	// before the manifests they pin.
	ManifestParsers []ManifestParser

	// FirstMatch parses only the first present manifest, in parser order.
	FirstMatch bool

	// NoTransitive marks registries that declare no dependency edges;
	// their packages are looked up for licenses but never expanded.
	NoTransitive bool

	// NewFetcher builds the registry fetcher. Nil means packages of this
	// ecosystem cannot be looked up or expanded.
	NewFetcher func(env Env) Fetcher
}

// Manifest returns the parser for filename.
func (l *Language) Manifest(filename string) (ManifestParser, bool) {
	p, err := DetectManifest(filename, l.ManifestParsers...)
	return p, err == nil
}

// Select picks the manifests to parse among the files of one directory.
// When a lock file is present only lock files are parsed, since they
// already contain what the manifests declare; the manifests are returned
// as fallback for when the lock files cannot be read. Both lists follow
// parser order.
func (l *Language) Select(files []string) (primary, fallback []string) {
	var locks, direct []string
	for _, p := range l.ManifestParsers {
		for _, f := range files {
			if !p.Supports(filepath.Base(f)) || slices.Contains(locks, f) || slices.Contains(direct, f) {
				continue
			}
			if p.IncludesTransitive() {
				locks = append(locks, f)
			} else {
				direct = append(direct, f)
			}
		}
	}
	primary = direct
	if len(locks) > 0 {
		primary, fallback = locks, direct
	}
	if l.FirstMatch && len(primary) > 1 {
		primary = primary[:1]
	}
	if l.FirstMatch && len(fallback) > 1 {
		fallback = fallback[:1]
	}
	return primary, fallback
}

// FindLanguage returns the language named name from langs, or nil. Names
// are matched case-insensitively and a few common aliases are accepted.
func FindLanguage(name string, langs []*Language) *Language {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := languageAliases[name]; ok {
		name = alias
	}
	for _, l := range langs {
		if string(l.Name) == name {
			return l
		}
	}
	return nil
}

var languageAliases = map[string]string{
	"javascript": "node",
	"js":         "node",
	"npm":        "node",
	"golang":     "go",
	"cargo":      "rust",
	"c++":        "cpp",
	"c":          "cpp",
	"csharp":     "dotnet",
	"c#":         "dotnet",
	"nuget":      "dotnet",
	"cran":       "r",
}
