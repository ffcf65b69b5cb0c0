// Package rust provides dependency discovery for Rust crates.
//
// # Overview
//
// This package implements [deps.Language] for Rust, supporting:
//
//   - crates.io lookups via the [crates] client
//   - Cargo.toml manifest parsing (direct dependencies)
//   - Cargo.lock parsing (full closure, depth from the lock graph)
//
// # Manifest Parsing
//
//	parser, _ := rust.Language.Manifest("Cargo.toml")
//	direct, _ := parser.Parse("Cargo.toml", deps.Options{})
//
// Cargo.toml lists direct dependencies only; [deps.Resolver] expands them
// through crates.io. Path dependencies are workspace members, not
// third-party code, and are skipped.
//
// [crates]: github.com/matzehuels/feluda/pkg/integrations/crates
// [deps.Language]: github.com/matzehuels/feluda/pkg/deps.Language
// [deps.Resolver]: github.com/matzehuels/feluda/pkg/deps.Resolver
package rust
