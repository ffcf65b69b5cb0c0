// Package deps discovers a project's dependencies from manifest files and
// expands them through package registries.
//
// # Overview
//
// Feluda reads dependency declarations from local files:
//
//   - Manifests (Cargo.toml, package.json, go.mod, requirements.txt, ...)
//   - Lock files (Cargo.lock, package-lock.json, poetry.lock, renv.lock, ...)
//
// and, for manifests that list only direct dependencies, asks the
// ecosystem's registry for the rest.
//
// # Discovery
//
// [Discover] walks a project tree and returns one [Project] per directory
// and [Language]. VCS, vendor and build directories are skipped, as is
// any path matching an exclude glob:
//
//	projects, _ := deps.Discover(root, languages.All, []string{"examples/**"})
//
// [Language.Select] chooses the files to parse: lock files win over the
// manifests they pin, and C/C++ parses only the first build file found.
//
// # Manifest Parsing
//
// Parsers implement [ManifestParser] and return [Dependency] values with
// Depth 0 for direct dependencies. Lock file parsers report
// IncludesTransitive and fill Depth from the lock graph when it is
// recorded there.
//
// # Transitive Expansion
//
// [Resolver.Expand] walks the registry graph breadth-first up to
// Options.MaxDepth; a depth of 0 keeps only the direct dependencies. Each BFS level is fetched on a bounded
// pool of workers; a visited set keyed by (ecosystem, name) makes cycles
// terminate. A failed lookup marks the dependency Unresolved and the walk
// goes on.
//
//	res := deps.NewResolver(map[deps.Ecosystem]deps.Fetcher{
//	    deps.Node: javascript.Language.NewFetcher(env),
//	}, deps.Options{MaxDepth: 3})
//	all, _ := res.Expand(ctx, direct)
//
// # Supported Languages
//
// Each language has a subpackage with its [Language] definition:
//
//   - [rust]: crates.io, Cargo.toml, Cargo.lock
//   - [javascript]: npm, package.json, package-lock.json
//   - [golang]: Go Module Proxy, go.mod
//   - [python]: PyPI, requirements.txt, pyproject.toml, poetry.lock, Pipfile.lock
//   - [r]: CRAN, DESCRIPTION, renv.lock
//   - [cpp]: GitHub, vcpkg.json, conanfile, CMakeLists.txt, Bazel
//   - [dotnet]: NuGet, *.csproj, packages.config, Directory.Packages.props
//
// [rust]: github.com/matzehuels/feluda/pkg/deps/rust
// [javascript]: github.com/matzehuels/feluda/pkg/deps/javascript
// [golang]: github.com/matzehuels/feluda/pkg/deps/golang
// [python]: github.com/matzehuels/feluda/pkg/deps/python
// [r]: github.com/matzehuels/feluda/pkg/deps/r
// [cpp]: github.com/matzehuels/feluda/pkg/deps/cpp
// [dotnet]: github.com/matzehuels/feluda/pkg/deps/dotnet
package deps
