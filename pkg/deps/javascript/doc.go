// Package javascript provides dependency discovery for npm packages.
//
// # Overview
//
// This package implements [deps.Language] for JavaScript/Node.js, supporting:
//
//   - npm registry lookups via the [npm] client
//   - package.json manifest parsing
//   - package-lock.json (lockfileVersion 2 and 3) parsing
//
// The registry walk follows the "dependencies" field of each package,
// excluding devDependencies, peerDependencies, and optionalDependencies.
// The project's own package.json contributes all four groups.
//
// package-lock.json records each package's license, so a lock file scan
// can classify licenses without network access.
//
// [npm]: github.com/matzehuels/feluda/pkg/integrations/npm
// [deps.Language]: github.com/matzehuels/feluda/pkg/deps.Language
package javascript
