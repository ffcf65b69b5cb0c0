// Package integrations provides HTTP clients for the package registries and
// source hosts a license scan consults.
//
// # Overview
//
// Each subpackage wraps one remote API:
//
//   - [crates]: crates.io (Rust)
//   - [npm]: registry.npmjs.org (JavaScript)
//   - [goproxy]: proxy.golang.org (Go)
//   - [pypi]: pypi.org (Python)
//   - [cran]: crandb.r-pkg.org (R)
//   - [nuget]: api.nuget.org (.NET)
//   - [github]: repository licenses, license files, repository search and the license catalogue
//   - [osi]: the Open Source Initiative license list
//
// # Shared Client
//
// [Client] provides the common plumbing every registry client embeds:
//
//   - Response caching through a [cache.Cache] backend, keyed per namespace
//   - Retry with exponential backoff for transient failures
//   - Rate-limit backoff honouring Retry-After and X-RateLimit-Reset
//   - Observability hooks for requests and cache events
//
// # Usage
//
//	client := pypi.NewClient(backend, 24*time.Hour)
//	pkg, err := client.FetchPackage(ctx, "fastapi", "", false)
//
// # Errors
//
//   - [ErrNotFound]: the package or resource does not exist (HTTP 404)
//   - [ErrNetwork]: HTTP failures, timeouts and unexpected status codes
//
// [crates]: github.com/matzehuels/feluda/pkg/integrations/crates
// [npm]: github.com/matzehuels/feluda/pkg/integrations/npm
// [goproxy]: github.com/matzehuels/feluda/pkg/integrations/goproxy
// [pypi]: github.com/matzehuels/feluda/pkg/integrations/pypi
// [cran]: github.com/matzehuels/feluda/pkg/integrations/cran
// [nuget]: github.com/matzehuels/feluda/pkg/integrations/nuget
// [github]: github.com/matzehuels/feluda/pkg/integrations/github
// [osi]: github.com/matzehuels/feluda/pkg/integrations/osi
package integrations
