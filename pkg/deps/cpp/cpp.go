package cpp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations"
	"github.com/matzehuels/feluda/pkg/integrations/github"
)

// Version placeholders for dependencies the build files do not pin.
const (
	VersionLatest  = "latest"
	VersionGit     = "git"
	VersionSystem  = "system"
	VersionArchive = "archive"
)

var Language = &deps.Language{
	Name:     deps.Cpp,
	Registry: "GitHub",
	ManifestParsers: []deps.ManifestParser{
		&Vcpkg{},
		&ConanfileTxt{},
		&ConanfilePy{},
		&CMakeLists{},
		&ModuleBazel{},
		&Workspace{},
	},
	FirstMatch:   true,
	NoTransitive: true,
	NewFetcher:   newFetcher,
}

// repoSource is the subset of the GitHub client the fetcher needs.
type repoSource interface {
	File(ctx context.Context, owner, repo, path, ref string, refresh bool) (string, error)
	SearchRepository(ctx context.Context, name string, refresh bool) (owner, repo string, ok bool)
	RepoLicense(ctx context.Context, owner, repo string, refresh bool) (*github.RepoLicense, error)
}

func newFetcher(env deps.Env) deps.Fetcher {
	c := github.NewClient(env.Cache, env.GitHubToken, env.CacheTTL)
	c.WithHooks(env.Hooks)
	return fetcher{src: c}
}

type fetcher struct{ src repoSource }

func (f fetcher) Fetch(ctx context.Context, name, version string, refresh bool) (*deps.Package, error) {
	pkg := &deps.Package{Name: name, Version: version}

	port := "ports/" + strings.ToLower(name) + "/vcpkg.json"
	if text, err := f.src.File(ctx, "microsoft", "vcpkg", port, "", refresh); err == nil {
		var manifest struct {
			License  string `json:"license"`
			Homepage string `json:"homepage"`
		}
		if json.Unmarshal([]byte(text), &manifest) == nil && manifest.License != "" {
			pkg.License = manifest.License
			if owner, repo, ok := integrations.GitHubRepo(manifest.Homepage); ok {
				pkg.Repository = "https://github.com/" + owner + "/" + repo
			}
			return pkg, nil
		}
	}

	owner, repo, ok := f.src.SearchRepository(ctx, name, refresh)
	if !ok {
		return nil, fmt.Errorf("%w: no repository named %s", integrations.ErrNotFound, name)
	}
	pkg.Repository = "https://github.com/" + owner + "/" + repo
	if lic, err := f.src.RepoLicense(ctx, owner, repo, refresh); err == nil && lic.SPDXID != "NOASSERTION" {
		pkg.License = lic.SPDXID
	}
	return pkg, nil
}
