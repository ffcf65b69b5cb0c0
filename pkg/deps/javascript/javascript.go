package javascript

import (
	"context"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations/npm"
)

// Language provides JavaScript/TypeScript dependency discovery via npm.
var Language = &deps.Language{
	Name:            deps.Node,
	Registry:        "npm",
	ManifestParsers: []deps.ManifestParser{&PackageLock{}, &PackageJSON{}},
	NewFetcher:      newFetcher,
}

func newFetcher(env deps.Env) deps.Fetcher {
	c := npm.NewClient(env.Cache, env.CacheTTL)
	c.WithHooks(env.Hooks)
	return fetcher{c}
}

type fetcher struct{ *npm.Client }

func (f fetcher) Fetch(ctx context.Context, name, version string, refresh bool) (*deps.Package, error) {
	p, err := f.FetchPackage(ctx, name, version, refresh)
	if err != nil {
		return nil, err
	}
	return &deps.Package{
		Name:         p.Name,
		Version:      p.Version,
		License:      p.License,
		Repository:   p.Repository,
		HomePage:     p.HomePage,
		Dependencies: p.Dependencies,
	}, nil
}
