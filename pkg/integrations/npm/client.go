package npm

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/feluda/internal/semver"
	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/integrations"
)

// PackageInfo holds metadata for one version of an npm package.
type PackageInfo struct {
	Name         string
	Version      string
	License      string
	Repository   string
	HomePage     string
	Description  string
	Dependencies []integrations.Requirement
}

// Client provides access to the npm registry API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an npm registry client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "npm:", cacheTTL, nil),
		baseURL: "https://registry.npmjs.org",
	}
}

// FetchPackage retrieves metadata for pkg at the highest version satisfying
// the npm range version. Ranges that match nothing, dist-tags and an empty
// range fall back to the "latest" dist-tag.
func (c *Client) FetchPackage(ctx context.Context, pkg, version string, refresh bool) (*PackageInfo, error) {
	pkg = strings.ToLower(strings.TrimSpace(pkg))
	key := pkg + "@" + version

	var info PackageInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		return c.fetch(ctx, pkg, version, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg, version string, info *PackageInfo) error {
	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+escapeName(pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}

	resolved := data.DistTags.Latest
	if v, ok := semver.Resolve(version, slices.Collect(maps.Keys(data.Versions))); ok {
		resolved = v
	}
	v, ok := data.Versions[resolved]
	if !ok {
		return fmt.Errorf("npm package %s: version %s not found", pkg, resolved)
	}

	*info = PackageInfo{
		Name:         data.Name,
		Version:      resolved,
		Description:  v.Description,
		License:      licenseOf(v),
		Repository:   integrations.NormalizeRepoURL(extractField(v.Repository, "url")),
		HomePage:     v.HomePage,
		Dependencies: requirements(v.Dependencies),
	}
	return nil
}

// escapeName keeps the scope separator of "@scope/name" encoded as the
// registry expects.
func escapeName(pkg string) string {
	if strings.HasPrefix(pkg, "@") {
		return strings.Replace(pkg, "/", "%2f", 1)
	}
	return pkg
}

func licenseOf(v versionDetails) string {
	if s := extractField(v.License, "type"); s != "" {
		return s
	}
	var parts []string
	for _, l := range v.Licenses {
		if s := extractField(l, "type"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " OR ")
}

func requirements(m map[string]string) []integrations.Requirement {
	reqs := make([]integrations.Requirement, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		reqs = append(reqs, integrations.Requirement{Name: name, Version: m[name]})
	}
	return reqs
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

type registryResponse struct {
	Name     string                    `json:"name"`
	DistTags distTags                  `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	Description  string            `json:"description"`
	License      any               `json:"license"`
	Licenses     []any             `json:"licenses"`
	Repository   any               `json:"repository"`
	HomePage     string            `json:"homepage"`
	Dependencies map[string]string `json:"dependencies"`
}
