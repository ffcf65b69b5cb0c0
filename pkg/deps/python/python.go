package python

import (
	"context"
	"regexp"
	"strings"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations"
	"github.com/matzehuels/feluda/pkg/integrations/github"
	"github.com/matzehuels/feluda/pkg/integrations/pypi"
)

// Language provides Python dependency discovery via PyPI.
var Language = &deps.Language{
	Name:     deps.Python,
	Registry: "PyPI",
	ManifestParsers: []deps.ManifestParser{
		&PoetryLock{},
		&PipfileLock{},
		&Requirements{},
		&Pyproject{},
	},
	NewFetcher: newFetcher,
}

func newFetcher(env deps.Env) deps.Fetcher {
	c := pypi.NewClient(env.Cache, env.CacheTTL)
	c.WithHooks(env.Hooks)
	return fetcher{c}
}

type fetcher struct{ *pypi.Client }

func (f fetcher) Fetch(ctx context.Context, name, version string, refresh bool) (*deps.Package, error) {
	p, err := f.FetchPackage(ctx, name, version, refresh)
	if err != nil {
		return nil, err
	}
	pkg := &deps.Package{
		Name:         p.Name,
		Version:      p.Version,
		License:      p.License,
		HomePage:     p.HomePage,
		Dependencies: p.Dependencies,
	}
	if owner, repo, ok := github.ExtractURL(p.ProjectURLs, p.HomePage); ok {
		pkg.Repository = "https://github.com/" + owner + "/" + repo
	}
	return pkg, nil
}

func normalize(name string) string {
	return integrations.NormalizePkgName(name)
}

var requirementRE = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[[^\]]*\])?\s*\(?([^;)]*)\)?`)

// parseRequirement splits a PEP 508 requirement into its normalized name
// and version specifier. Environment markers are dropped.
func parseRequirement(s string) (name, spec string, ok bool) {
	if i := strings.Index(s, " #"); i >= 0 {
		s = s[:i]
	}
	m := requirementRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return normalize(m[1]), strings.ReplaceAll(strings.TrimSpace(m[2]), " ", ""), true
}
