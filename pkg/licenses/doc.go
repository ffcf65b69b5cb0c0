// Package licenses classifies dependency licenses.
//
// # Overview
//
// The package turns the free-form license strings that registries publish
// into SPDX-style identifiers and evaluates them against a project license:
//
//   - [Normalize] canonicalizes variants ("Apache License 2.0", "apache2",
//     "MIT OR Apache-2.0") into one identifier, or "" when unknown
//   - [Evaluate] checks a dependency license against a [Matrix]
//   - [Restrictive] flags licenses from the configured restrictive list or
//     with copyleft conditions in the license catalogue
//   - [OSIResolver] maps identifiers to their OSI approval status
//   - [DetectProjectLicense] finds the license a project declares
//
// Every function in this package is pure apart from [DetectProjectLicense],
// which reads the project directory.
package licenses
