// Package nuget provides an HTTP client for the NuGet v3 flat container API.
//
// Package metadata is read from the .nuspec manifest of the selected
// version, which carries the license expression, repository and
// dependency groups.
package nuget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/matzehuels/feluda/internal/semver"
	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/integrations"
)

// PackageInfo holds metadata for one version of a NuGet package.
type PackageInfo struct {
	ID           string
	Version      string
	License      string // SPDX expression, or "" when only a non-standard license URL is published
	LicenseURL   string
	Repository   string
	Dependencies []integrations.Requirement
}

// Client provides access to api.nuget.org.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a NuGet client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "nuget:", cacheTTL, nil),
		baseURL: "https://api.nuget.org/v3-flatcontainer",
	}
}

// FetchPackage retrieves id at the version selected by a NuGet version or
// interval ("13.0.3", "[1.0,2.0)", "6.*"); an empty version selects the
// newest stable release.
func (c *Client) FetchPackage(ctx context.Context, id, version string, refresh bool) (*PackageInfo, error) {
	lower := strings.ToLower(strings.TrimSpace(id))
	key := lower + "@" + version

	var info PackageInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		return c.fetch(ctx, lower, version, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, id, version string, info *PackageInfo) error {
	var index struct {
		Versions []string `json:"versions"`
	}
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/index.json", c.baseURL, integrations.PathEscape(id)), &index); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: nuget package %s", err, id)
		}
		return err
	}
	if len(index.Versions) == 0 {
		return fmt.Errorf("%w: nuget package %s has no versions", integrations.ErrNotFound, id)
	}

	resolved, ok := semver.Resolve(ToConstraint(version), index.Versions)
	if !ok {
		resolved = latestStable(index.Versions)
	}
	resolved = strings.ToLower(resolved)

	body, err := c.GetText(ctx, fmt.Sprintf("%s/%s/%s/%s.nuspec", c.baseURL, id, resolved, id))
	if err != nil {
		return err
	}
	parsed, err := ParseNuspec(body)
	if err != nil {
		return err
	}
	parsed.Version = resolved
	*info = *parsed
	return nil
}

func latestStable(versions []string) string {
	for i := len(versions) - 1; i >= 0; i-- {
		if !strings.Contains(versions[i], "-") {
			return versions[i]
		}
	}
	return versions[len(versions)-1]
}

// ToConstraint translates NuGet version notation into a semver constraint.
// A bare version is a minimum ("1.0" means >= 1.0); intervals use
// bracket notation; floating versions use "*".
func ToConstraint(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") && !strings.Contains(v, ",") {
		return strings.Trim(v, "[]")
	}
	if strings.ContainsAny(v, "[(") {
		lowInclusive := v[0] == '['
		highInclusive := v[len(v)-1] == ']'
		low, high, _ := strings.Cut(strings.Trim(v, "[]()"), ",")
		low, high = strings.TrimSpace(low), strings.TrimSpace(high)

		var parts []string
		if low != "" {
			op := ">"
			if lowInclusive {
				op = ">="
			}
			parts = append(parts, op+low)
		}
		if high != "" {
			op := "<"
			if highInclusive {
				op = "<="
			}
			parts = append(parts, op+high)
		}
		return strings.Join(parts, ", ")
	}
	if strings.Contains(v, "*") {
		return v
	}
	if _, exact := semver.Exact(v); exact {
		return v
	}
	return ">=" + v
}

// ParseNuspec reads license, repository and dependencies from a .nuspec
// document. Dependencies are merged across target framework groups.
func ParseNuspec(body string) (*PackageInfo, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, fmt.Errorf("parse nuspec: %w", err)
	}
	meta := doc.FindElement("//metadata")
	if meta == nil {
		return nil, errors.New("parse nuspec: missing metadata")
	}

	info := &PackageInfo{ID: text(meta, "id"), Version: text(meta, "version")}
	if lic := meta.SelectElement("license"); lic != nil && lic.SelectAttrValue("type", "expression") == "expression" {
		info.License = strings.TrimSpace(lic.Text())
	}
	info.LicenseURL = text(meta, "licenseUrl")
	if info.License == "" {
		info.License = licenseFromURL(info.LicenseURL)
	}
	if repo := meta.SelectElement("repository"); repo != nil {
		info.Repository = integrations.NormalizeRepoURL(repo.SelectAttrValue("url", ""))
	}
	if info.Repository == "" {
		if _, _, ok := integrations.GitHubRepo(text(meta, "projectUrl")); ok {
			info.Repository = integrations.NormalizeRepoURL(text(meta, "projectUrl"))
		}
	}

	seen := make(map[string]bool)
	for _, dep := range meta.FindElements(".//dependency") {
		name := dep.SelectAttrValue("id", "")
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		info.Dependencies = append(info.Dependencies, integrations.Requirement{Name: name, Version: dep.SelectAttrValue("version", "")})
	}
	return info, nil
}

// licenseFromURL recognizes the licenses.nuget.org form
// (https://licenses.nuget.org/MIT) used for expression licenses.
func licenseFromURL(u string) string {
	const prefix = "https://licenses.nuget.org/"
	if strings.HasPrefix(u, prefix) {
		return strings.TrimPrefix(u, prefix)
	}
	return ""
}

func text(parent *etree.Element, tag string) string {
	if e := parent.SelectElement(tag); e != nil {
		return strings.TrimSpace(e.Text())
	}
	return ""
}
