package scan

import (
	"context"
	"time"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations"
	"github.com/matzehuels/feluda/pkg/licenses"
)

// LicenseFetcher finds the declared license of a dependency. Lookups go,
// in order, to the lock file, the package registry, the source host's
// license detection and finally the repository's license file.
type LicenseFetcher struct {
	fetchers   map[deps.Ecosystem]deps.Fetcher
	repos      RepositorySource
	timeout    time.Duration
	localFirst bool
	refresh    bool
	warnf      func(string, ...any)
}

// NewLicenseFetcher creates a fetcher. fetchers maps each ecosystem to
// its registry; repos may be nil to skip source host lookups.
func NewLicenseFetcher(fetchers map[deps.Ecosystem]deps.Fetcher, repos RepositorySource, timeout time.Duration, localFirst, refresh bool, warnf func(string, ...any)) *LicenseFetcher {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &LicenseFetcher{
		fetchers:   fetchers,
		repos:      repos,
		timeout:    timeout,
		localFirst: localFirst,
		refresh:    refresh,
		warnf:      warnf,
	}
}

// Resolve returns the raw license string of d and where it was found.
// Failures are logged and degrade to an empty license with
// [licenses.SourceUnknown].
func (f *LicenseFetcher) Resolve(ctx context.Context, d deps.Dependency) (string, licenses.Source) {
	if f.localFirst && d.License != "" {
		return d.License, licenses.SourceLocal
	}

	var registryRaw, repository string
	if fetcher := f.fetchers[d.Ecosystem]; fetcher != nil {
		pkg, err := f.fetch(ctx, fetcher, d)
		switch {
		case err != nil:
			f.warnf("%s %s@%s: registry lookup failed: %v", d.Ecosystem, d.Name, d.Version, err)
		case pkg != nil:
			if licenses.Normalize(pkg.License) != "" {
				return pkg.License, licenses.SourceRegistry
			}
			registryRaw, repository = pkg.License, pkg.Repository
		}
	}

	if raw, src, ok := f.fromRepository(ctx, d, repository); ok {
		return raw, src
	}
	if registryRaw != "" {
		return registryRaw, licenses.SourceRegistry
	}
	if d.License != "" {
		return d.License, licenses.SourceLocal
	}
	return "", licenses.SourceUnknown
}

func (f *LicenseFetcher) fetch(ctx context.Context, fetcher deps.Fetcher, d deps.Dependency) (*deps.Package, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()
	return fetcher.Fetch(ctx, d.Name, d.Version, f.refresh)
}

func (f *LicenseFetcher) fromRepository(ctx context.Context, d deps.Dependency, repository string) (string, licenses.Source, bool) {
	if f.repos == nil || repository == "" {
		return "", "", false
	}
	owner, repo, ok := integrations.GitHubRepo(repository)
	if !ok {
		return "", "", false
	}

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	var ref string
	info, err := f.repos.RepoLicense(ctx, owner, repo, f.refresh)
	switch {
	case err != nil:
		f.warnf("%s %s: repository %s/%s: %v", d.Ecosystem, d.Name, owner, repo, err)
		return "", "", false
	case info.SPDXID != "" && info.SPDXID != "NOASSERTION":
		return info.SPDXID, licenses.SourceRepository, true
	default:
		ref = info.DefaultBranch
	}

	file, err := f.repos.LicenseFile(ctx, owner, repo, ref, f.refresh)
	if err != nil {
		return "", "", false
	}
	if id := licenses.ClassifyText(file.Text); id != "" {
		return id, licenses.SourceLicenseFile, true
	}
	return "", "", false
}

func (f *LicenseFetcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.timeout)
}
