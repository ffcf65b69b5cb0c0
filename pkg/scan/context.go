package scan

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/config"
	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations/github"
	"github.com/matzehuels/feluda/pkg/integrations/osi"
	"github.com/matzehuels/feluda/pkg/licensedb"
	"github.com/matzehuels/feluda/pkg/observability"
)

// Context carries everything a scan needs. The CLI builds one per run and
// hands it to [Run]; nothing in this package keeps global state.
type Context struct {
	Root        string         // project root on disk
	CacheDir    string         // directory of the license snapshot
	CacheTTL    time.Duration  // HTTP response cache TTL
	Config      *config.Config // loaded configuration, flags applied
	GitHubToken string
	Cache       cache.Cache // HTTP response cache backend
	Logger      *log.Logger
	Hooks       observability.Hooks
	Now         func() time.Time

	// Remote sources. Nil fields are filled with the real API clients.
	OSI          ApprovedSource
	LicenseDB    licensedb.Source
	Repositories RepositorySource
}

// ApprovedSource lists OSI approved license ids.
type ApprovedSource interface {
	FetchApproved(ctx context.Context) ([]string, error)
}

// RepositorySource looks up licenses on the source host.
type RepositorySource interface {
	RepoLicense(ctx context.Context, owner, repo string, refresh bool) (*github.RepoLicense, error)
	LicenseFile(ctx context.Context, owner, repo, ref string, refresh bool) (*github.LicenseFile, error)
}

// NewContext returns a context for root with default collaborators.
func NewContext(root string, cfg *config.Config) *Context {
	c := &Context{Root: root, Config: cfg}
	c.setDefaults()
	return c
}

func (c *Context) setDefaults() {
	if c.Config == nil {
		c.Config = config.Default()
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = c.Config.Cache.TTL
	}
	if c.CacheDir == "" {
		if path, err := licensedb.DefaultPath(c.Root); err == nil {
			c.CacheDir = filepath.Dir(path)
		}
	}
	if c.Cache == nil {
		c.Cache = cache.NewNullCache()
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	c.Hooks = c.Hooks.WithDefaults()
	if c.Now == nil {
		c.Now = time.Now
	}

	var gh *github.Client
	if c.LicenseDB == nil || c.Repositories == nil {
		gh = github.NewClient(c.Cache, c.GitHubToken, c.CacheTTL)
		gh.WithHooks(c.Hooks)
	}
	if c.LicenseDB == nil {
		c.LicenseDB = gh
	}
	if c.Repositories == nil {
		c.Repositories = gh
	}
	if c.OSI == nil {
		o := osi.NewClient(c.Cache, c.CacheTTL)
		o.WithHooks(c.Hooks)
		c.OSI = o
	}
}

// Env is the registry client environment derived from the context.
func (c *Context) Env() deps.Env {
	return deps.Env{
		Cache:       c.Cache,
		CacheTTL:    c.CacheTTL,
		GitHubToken: c.GitHubToken,
		Hooks:       c.Hooks,
	}
}

// LicenseStore returns the license snapshot store under CacheDir.
func (c *Context) LicenseStore() *licensedb.Store {
	return licensedb.NewStore(filepath.Join(c.CacheDir, licensedb.FileName)).WithClock(c.Now)
}

func (c *Context) logf(format string, args ...any) {
	c.Logger.Debugf(format, args...)
}
