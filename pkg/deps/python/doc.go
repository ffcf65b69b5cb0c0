// Package python provides dependency discovery for Python packages.
//
// # Overview
//
// This package implements [deps.Language] for Python, supporting:
//
//   - PyPI lookups via the [pypi] client
//   - requirements*.txt (PEP 508 lines; -r, -e and URL lines are skipped)
//   - pyproject.toml (PEP 621 [project] and Poetry [tool.poetry] tables)
//   - poetry.lock and Pipfile.lock (full closure)
//
// Package names are lower-cased with underscores folded to hyphens, so
// "Flask_Login" and "flask-login" are the same dependency.
//
// [pypi]: github.com/matzehuels/feluda/pkg/integrations/pypi
// [deps.Language]: github.com/matzehuels/feluda/pkg/deps.Language
package python
