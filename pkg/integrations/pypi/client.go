package pypi

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/feluda/internal/semver"
	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/integrations"
)

var (
	reqRE    = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[[^\]]*\])?\s*\(?([^;)]*)\)?`)
	markerRE = regexp.MustCompile(`;\s*(.+)`)
	skipRE   = regexp.MustCompile(`extra|dev|test`)
)

// PackageInfo holds metadata for one release of a Python package from PyPI.
//
// Dependencies list only runtime dependencies; extras, dev, and test deps are
// excluded. Names are normalized following PEP 503.
type PackageInfo struct {
	Name         string                     // Project name as published (e.g., "Flask")
	Version      string                     // Release the requirement selected
	License      string                     // License expression, classifier or short license field
	ProjectURLs  map[string]string          // Project URLs from metadata (may be nil)
	HomePage     string                     // Homepage URL (may be empty)
	Summary      string                     // Short package description (may be empty)
	Dependencies []integrations.Requirement // Runtime requirements with their specifiers
}

// Client provides access to the PyPI JSON API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil),
		baseURL: "https://pypi.org/pypi",
	}
}

// FetchPackage retrieves metadata for pkg at the release selected by the
// PEP 440 specifier version ("==2.31.0", ">=2.0,<3", "~=1.4" or empty for the
// latest release).
//
// Returns [integrations.ErrNotFound] if the package doesn't exist and
// [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchPackage(ctx context.Context, pkg, version string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)
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
	var data apiResponse
	if exact, ok := semver.Exact(version); ok {
		if err := c.Get(ctx, fmt.Sprintf("%s/%s/%s/json", c.baseURL, pkg, exact), &data); err == nil {
			fill(info, data)
			return nil
		}
	}

	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}

	if resolved, ok := semver.Resolve(toConstraint(version), slices.Collect(maps.Keys(data.Releases))); ok && resolved != data.Info.Version {
		var release apiResponse
		if err := c.Get(ctx, fmt.Sprintf("%s/%s/%s/json", c.baseURL, pkg, resolved), &release); err == nil {
			data = release
		}
	}
	fill(info, data)
	return nil
}

func fill(info *PackageInfo, data apiResponse) {
	urls := make(map[string]string, len(data.Info.ProjectURLs))
	for k, v := range data.Info.ProjectURLs {
		if s, ok := v.(string); ok {
			urls[k] = s
		}
	}

	*info = PackageInfo{
		Name:         data.Info.Name,
		Version:      data.Info.Version,
		Summary:      data.Info.Summary,
		License:      extractLicenseType(data.Info.LicenseExpression, data.Info.License, data.Info.Classifiers),
		Dependencies: extractDeps(data.Info.RequiresDist),
		ProjectURLs:  urls,
		HomePage:     data.Info.HomePage,
	}
}

// toConstraint rewrites PEP 440 operators into the semver constraint syntax.
func toConstraint(spec string) string {
	spec = strings.ReplaceAll(spec, "~=", "~")
	spec = strings.ReplaceAll(spec, "==", "=")
	return strings.TrimSpace(spec)
}

func extractDeps(requires []string) []integrations.Requirement {
	seen := make(map[string]bool)
	var deps []integrations.Requirement
	for _, req := range requires {
		if m := markerRE.FindStringSubmatch(req); len(m) > 1 && skipRE.MatchString(m[1]) {
			continue
		}
		m := reqRE.FindStringSubmatch(req)
		if len(m) < 3 {
			continue
		}
		name := integrations.NormalizePkgName(m[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		deps = append(deps, integrations.Requirement{Name: name, Version: strings.TrimSpace(m[2])})
	}
	return deps
}

type apiResponse struct {
	Info     apiInfo        `json:"info"`
	Releases map[string]any `json:"releases,omitempty"`
}

type apiInfo struct {
	Name              string         `json:"name"`
	Version           string         `json:"version"`
	Summary           string         `json:"summary"`
	License           string         `json:"license"`
	LicenseExpression string         `json:"license_expression"`
	Classifiers       []string       `json:"classifiers"`
	RequiresDist      []string       `json:"requires_dist"`
	ProjectURLs       map[string]any `json:"project_urls"`
	HomePage          string         `json:"home_page"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// A PEP 639 license expression wins; otherwise the classifier
// ("License :: OSI Approved :: MIT License" -> "MIT License") is used, and
// the free-text license field only when it is short.
func extractLicenseType(expression, license string, classifiers []string) string {
	if expression != "" {
		return expression
	}

	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			if len(parts) >= 3 {
				return parts[len(parts)-1]
			}
		}
	}

	if license != "" && len(license) < 100 && !strings.Contains(license, "\n") {
		return strings.TrimSpace(license)
	}

	// Full license texts: keep the title line ("MIT License", "Apache License 2.0").
	if license != "" {
		firstLine := strings.TrimSpace(strings.Split(license, "\n")[0])
		if len(firstLine) < 50 {
			return firstLine
		}
	}

	return ""
}
