package crates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/feluda/internal/semver"
	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/integrations"
)

// CrateInfo holds metadata for one version of a Rust crate from crates.io.
//
// Version is the version the requirement resolved to, or max_version when
// the requirement was empty or matched nothing. Dependencies include only
// "normal" (non-dev, non-optional) dependencies of that version.
//
// This struct is safe for concurrent reads after construction.
type CrateInfo struct {
	Name         string                     // Crate name (e.g., "serde")
	Version      string                     // Resolved version (e.g., "1.0.193")
	License      string                     // License expression of that version (e.g., "MIT OR Apache-2.0")
	Repository   string                     // Repository URL (may be empty)
	HomePage     string                     // Homepage URL (may be empty)
	Description  string                     // Crate description (may be empty)
	Dependencies []integrations.Requirement // Normal dependencies with their version requirement
}

// Client provides access to the crates.io package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
//
// Note: crates.io requires a User-Agent header; this client sets one automatically.
type Client struct {
	*integrations.Client
	baseURL string
}

const userAgent = "feluda (https://github.com/matzehuels/feluda)"

// NewClient creates a crates.io client with the given cache backend.
//
// The client includes a User-Agent header as required by crates.io API policy.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "crates:", cacheTTL, map[string]string{"User-Agent": userAgent}),
		baseURL: "https://crates.io/api/v1",
	}
}

// FetchCrate retrieves metadata for crate at the version selected by the
// Cargo requirement version ("1.0", "^1.2", "=0.4.3", "1.0.193" from a lock
// file, or empty for the newest release).
//
// Dependency fetching failures are ignored; Dependencies is empty when the
// secondary API call fails.
//
// Returns [integrations.ErrNotFound] if the crate doesn't exist and
// [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchCrate(ctx context.Context, crate, version string, refresh bool) (*CrateInfo, error) {
	key := crate + "@" + version

	var info CrateInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		return c.fetch(ctx, crate, version, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, crate, version string, info *CrateInfo) error {
	var data crateResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, integrations.PathEscape(crate)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: crate %s", err, crate)
		}
		return err
	}

	resolved := resolveVersion(version, data)
	license := data.Crate.License
	for _, v := range data.Versions {
		if v.Num == resolved && v.License != "" {
			license = v.License
			break
		}
	}

	deps, _ := c.fetchDeps(ctx, crate, resolved)

	*info = CrateInfo{
		Name:         data.Crate.Name,
		Version:      resolved,
		License:      license,
		Description:  data.Crate.Description,
		Repository:   data.Crate.Repository,
		HomePage:     data.Crate.HomePage,
		Dependencies: deps,
	}
	return nil
}

// resolveVersion applies Cargo semantics: a bare version is a caret requirement.
func resolveVersion(req string, data crateResponse) string {
	req = strings.TrimSpace(req)
	if req == "" || req == "*" {
		return data.Crate.MaxVersion
	}
	if req[0] >= '0' && req[0] <= '9' {
		if _, exact := semver.Exact(req); !exact || strings.Count(req, ".") < 2 {
			req = "^" + req
		}
	}
	available := make([]string, 0, len(data.Versions))
	for _, v := range data.Versions {
		if !v.Yanked {
			available = append(available, v.Num)
		}
	}
	if v, ok := semver.Resolve(req, available); ok {
		return v
	}
	return data.Crate.MaxVersion
}

func (c *Client) fetchDeps(ctx context.Context, crate, version string) ([]integrations.Requirement, error) {
	url := fmt.Sprintf("%s/crates/%s/%s/dependencies", c.baseURL, integrations.PathEscape(crate), version)

	var data depsResponse
	if err := c.Get(ctx, url, &data); err != nil {
		return nil, err
	}

	var deps []integrations.Requirement
	for _, d := range data.Dependencies {
		if d.Kind == "normal" && !d.Optional {
			deps = append(deps, integrations.Requirement{Name: d.CrateID, Version: d.Req})
		}
	}
	return deps, nil
}

type crateResponse struct {
	Crate struct {
		Name        string `json:"name"`
		MaxVersion  string `json:"max_version"`
		Description string `json:"description"`
		License     string `json:"license"`
		Repository  string `json:"repository"`
		HomePage    string `json:"homepage"`
	} `json:"crate"`
	Versions []versionEntry `json:"versions"`
}

type versionEntry struct {
	Num     string `json:"num"`
	License string `json:"license"`
	Yanked  bool   `json:"yanked"`
}

type depsResponse struct {
	Dependencies []depEntry `json:"dependencies"`
}

type depEntry struct {
	CrateID  string `json:"crate_id"`
	Req      string `json:"req"`
	Kind     string `json:"kind"`
	Optional bool   `json:"optional"`
}
