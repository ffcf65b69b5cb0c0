package golang

import (
	"context"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations/goproxy"
)

// Language provides Go dependency discovery via the Go module proxy.
// Supports go.mod manifest files. The proxy serves no license data, so
// fetched modules carry their repository URL for the source host lookup.
var Language = &deps.Language{
	Name:            deps.Go,
	Registry:        "proxy.golang.org",
	ManifestParsers: []deps.ManifestParser{&GoModParser{}},
	NewFetcher:      newFetcher,
}

func newFetcher(env deps.Env) deps.Fetcher {
	c := goproxy.NewClient(env.Cache, env.CacheTTL)
	c.WithHooks(env.Hooks)
	return fetcher{c}
}

type fetcher struct{ *goproxy.Client }

func (f fetcher) Fetch(ctx context.Context, name, version string, refresh bool) (*deps.Package, error) {
	m, err := f.FetchModule(ctx, name, version, refresh)
	if err != nil {
		return nil, err
	}
	return &deps.Package{
		Name:         m.Path,
		Version:      m.Version,
		Repository:   m.Repository,
		Dependencies: m.Dependencies,
	}, nil
}
