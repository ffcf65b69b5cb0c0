// Package cran provides an HTTP client for CRAN package metadata served by
// the crandb JSON API (https://crandb.r-pkg.org).
package cran

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

// PackageInfo holds metadata for one version of a CRAN package.
type PackageInfo struct {
	Name         string
	Version      string
	License      string
	Repository   string
	Dependencies []integrations.Requirement
}

// Client provides access to crandb.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a CRAN client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "cran:", cacheTTL, nil),
		baseURL: "https://crandb.r-pkg.org",
	}
}

// FetchPackage retrieves pkg at version when it is an exact version and at
// the current release otherwise. Dependencies come from Depends, Imports
// and LinkingTo; R itself and base packages are left out.
func (c *Client) FetchPackage(ctx context.Context, pkg, version string, refresh bool) (*PackageInfo, error) {
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
	var data packageResponse
	if v, ok := semver.Exact(version); ok {
		if err := c.Get(ctx, fmt.Sprintf("%s/%s/%s", c.baseURL, integrations.PathEscape(pkg), v), &data); err == nil {
			fill(info, data)
			return nil
		}
	}
	if err := c.Get(ctx, fmt.Sprintf("%s/%s", c.baseURL, integrations.PathEscape(pkg)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: cran package %s", err, pkg)
		}
		return err
	}
	fill(info, data)
	return nil
}

func fill(info *PackageInfo, data packageResponse) {
	var deps []integrations.Requirement
	for _, field := range []map[string]string{data.Depends, data.Imports, data.LinkingTo} {
		for _, name := range slices.Sorted(maps.Keys(field)) {
			if IsBasePackage(name) {
				continue
			}
			deps = append(deps, integrations.Requirement{Name: name, Version: normalizeRequirement(field[name])})
		}
	}

	*info = PackageInfo{
		Name:         data.Package,
		Version:      data.Version,
		License:      CleanLicense(data.License),
		Repository:   githubURL(data.URL + "," + data.BugReports),
		Dependencies: deps,
	}
}

var fileLicenseRE = regexp.MustCompile(`\s*\+?\s*file\s+LICEN[CS]E\s*`)

// CleanLicense turns a DESCRIPTION License field into an expression:
// "MIT + file LICENSE" -> "MIT", "GPL-2 | GPL-3" -> "GPL-2 OR GPL-3".
func CleanLicense(s string) string {
	s = fileLicenseRE.ReplaceAllString(s, "")
	parts := strings.Split(s, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(slices.DeleteFunc(parts, func(p string) bool { return p == "" }), " OR ")
}

// normalizeRequirement maps "*" (no constraint) to an empty requirement.
func normalizeRequirement(s string) string {
	s = strings.TrimSpace(s)
	if s == "*" {
		return ""
	}
	return s
}

func githubURL(urls string) string {
	for _, u := range strings.FieldsFunc(urls, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' }) {
		if owner, repo, ok := integrations.GitHubRepo(u); ok {
			return "https://github.com/" + owner + "/" + repo
		}
	}
	return ""
}

var basePackages = map[string]bool{
	"R": true, "base": true, "compiler": true, "datasets": true, "graphics": true,
	"grDevices": true, "grid": true, "methods": true, "parallel": true, "splines": true,
	"stats": true, "stats4": true, "tcltk": true, "tools": true, "utils": true,
}

// IsBasePackage reports whether name ships with R itself.
func IsBasePackage(name string) bool { return basePackages[name] }

type packageResponse struct {
	Package    string            `json:"Package"`
	Version    string            `json:"Version"`
	License    string            `json:"License"`
	URL        string            `json:"URL"`
	BugReports string            `json:"BugReports"`
	Depends    map[string]string `json:"Depends"`
	Imports    map[string]string `json:"Imports"`
	LinkingTo  map[string]string `json:"LinkingTo"`
}
