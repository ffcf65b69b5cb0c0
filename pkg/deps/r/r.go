// Package r provides dependency discovery for R packages.
//
// DESCRIPTION files list direct dependencies in Depends, Imports and
// LinkingTo; renv.lock pins the full closure. Base packages shipped with
// R are never reported. Registry lookups go to CRAN through crandb.
package r

import (
	"context"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations/cran"
)

var Language = &deps.Language{
	Name:            deps.R,
	Registry:        "CRAN",
	ManifestParsers: []deps.ManifestParser{&RenvLock{}, &Description{}},
	NewFetcher:      newFetcher,
}

func newFetcher(env deps.Env) deps.Fetcher {
	c := cran.NewClient(env.Cache, env.CacheTTL)
	c.WithHooks(env.Hooks)
	return fetcher{c}
}

type fetcher struct{ *cran.Client }

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
		Dependencies: p.Dependencies,
	}, nil
}
