package rust

import (
	"context"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations/crates"
)

var Language = &deps.Language{
	Name:            deps.Rust,
	Registry:        "crates.io",
	ManifestParsers: []deps.ManifestParser{&CargoLock{}, &CargoToml{}},
	NewFetcher:      newFetcher,
}

func newFetcher(env deps.Env) deps.Fetcher {
	c := crates.NewClient(env.Cache, env.CacheTTL)
	c.WithHooks(env.Hooks)
	return fetcher{c}
}

type fetcher struct{ *crates.Client }

func (f fetcher) Fetch(ctx context.Context, name, version string, refresh bool) (*deps.Package, error) {
	cr, err := f.FetchCrate(ctx, name, version, refresh)
	if err != nil {
		return nil, err
	}
	return &deps.Package{
		Name:         cr.Name,
		Version:      cr.Version,
		License:      cr.License,
		Repository:   cr.Repository,
		HomePage:     cr.HomePage,
		Dependencies: cr.Dependencies,
	}, nil
}
