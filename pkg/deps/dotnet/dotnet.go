// Package dotnet provides dependency discovery for .NET projects.
//
// PackageReference items are read from SDK-style project files
// (*.csproj, *.fsproj, *.vbproj); versions left to central package
// management come from the nearest Directory.Packages.props. Legacy
// projects are read from packages.config. Packages are resolved against
// the NuGet flat container API and expanded through their .nuspec
// dependency groups.
package dotnet

import (
	"context"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations/nuget"
)

var Language = &deps.Language{
	Name:            deps.DotNet,
	Registry:        "NuGet",
	ManifestParsers: []deps.ManifestParser{&ProjectFile{}, &PackagesConfig{}},
	NewFetcher:      newFetcher,
}

func newFetcher(env deps.Env) deps.Fetcher {
	c := nuget.NewClient(env.Cache, env.CacheTTL)
	c.WithHooks(env.Hooks)
	return fetcher{c}
}

type fetcher struct{ *nuget.Client }

func (f fetcher) Fetch(ctx context.Context, name, version string, refresh bool) (*deps.Package, error) {
	p, err := f.FetchPackage(ctx, name, version, refresh)
	if err != nil {
		return nil, err
	}
	return &deps.Package{
		Name:         p.ID,
		Version:      p.Version,
		License:      p.License,
		Repository:   p.Repository,
		Dependencies: p.Dependencies,
	}, nil
}
