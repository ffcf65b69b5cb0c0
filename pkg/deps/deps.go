package deps

import (
	"time"

	"github.com/matzehuels/feluda/pkg/integrations"
)

const (
	DefaultMaxDepth = 3              // Default transitive depth
	DefaultWorkers  = 8              // Default concurrent registry lookups
	DefaultCacheTTL = 24 * time.Hour // Default HTTP cache duration
)

// Ecosystem identifies a package ecosystem.
type Ecosystem string

const (
	Rust   Ecosystem = "rust"
	Node   Ecosystem = "node"
	Go     Ecosystem = "go"
	Python Ecosystem = "python"
	R      Ecosystem = "r"
	Cpp    Ecosystem = "cpp"
	DotNet Ecosystem = "dotnet"
)

// Requirement is a dependency edge as declared by a registry: a package
// name and the version requirement on it.
type Requirement = integrations.Requirement

// Dependency is one declared or discovered dependency of the project.
type Dependency struct {
	Name       string    `json:"name"`
	Version    string    `json:"version,omitempty"` // exact, a range, or empty
	Ecosystem  Ecosystem `json:"ecosystem"`
	Depth      int       `json:"depth"`              // 0 for direct dependencies
	Manifest   string    `json:"manifest,omitempty"` // file the dependency was found in
	License    string    `json:"license,omitempty"`  // license embedded in a lock file
	Unresolved bool      `json:"unresolved,omitempty"`
}

// Key identifies a package independent of its version.
type Key struct {
	Ecosystem Ecosystem
	Name      string
}

// Key returns the version-independent identity of d.
func (d Dependency) Key() Key { return Key{Ecosystem: d.Ecosystem, Name: d.Name} }

// Package holds metadata fetched from a package registry.
type Package struct {
	Name         string        // Package name as published
	Version      string        // Version the requirement resolved to
	License      string        // Declared license, raw
	Repository   string        // Source repository URL
	HomePage     string        // Project homepage URL
	Dependencies []Requirement // Declared runtime dependencies
}

// Options configures parsing and transitive expansion.
type Options struct {
	MaxDepth int                  // Maximum transitive depth; 0 keeps only direct dependencies, negative uses 3
	Workers  int                  // Concurrent registry lookups (default: 8)
	CacheTTL time.Duration        // HTTP cache duration (default: 24h)
	Refresh  bool                 // Bypass cache for fresh data
	Logger   func(string, ...any) // Warning callback (optional)
}

// WithDefaults returns a copy of Options with unset values replaced by
// defaults. A MaxDepth of 0 is kept: it limits the result to direct
// dependencies. Only a negative MaxDepth selects DefaultMaxDepth.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth < 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
