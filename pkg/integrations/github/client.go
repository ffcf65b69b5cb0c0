package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/integrations"
)

var repoURLPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

// LicenseFileNames are the repository files scanned for license text, in
// lookup order.
var LicenseFileNames = []string{"LICENSE", "LICENSE.md", "LICENSE.txt", "COPYING"}

// RepoLicense is the license GitHub detected for a repository.
type RepoLicense struct {
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	DefaultBranch string `json:"default_branch"`
	SPDXID        string `json:"spdx_id"` // "" when GitHub found no license; "NOASSERTION" when it could not classify one
	Name          string `json:"name"`
}

// LicenseFile is the raw text of a license file in a repository.
type LicenseFile struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Client provides access to the GitHub REST API for license lookups.
// It handles HTTP requests with caching, rate-limit backoff and optional
// token authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. Pass an empty token for
// unauthenticated requests (60 requests/hour instead of 5000).
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(backend, "github:", cacheTTL, headers),
		baseURL: "https://api.github.com",
	}
}

// RepoLicense returns the license GitHub reports for owner/repo.
func (c *Client) RepoLicense(ctx context.Context, owner, repo string, refresh bool) (*RepoLicense, error) {
	key := "repo:" + owner + "/" + repo

	var info RepoLicense
	err := c.Cached(ctx, key, refresh, &info, func() error {
		var data repoResponse
		url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
		if err := c.Get(ctx, url, &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
			}
			return err
		}
		info = RepoLicense{Owner: owner, Repo: repo, DefaultBranch: data.DefaultBranch}
		if data.License != nil {
			info.SPDXID = data.License.SPDXID
			info.Name = data.License.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// SearchRepository finds the most starred repository whose name matches
// name. It is the lookup path for ecosystems without a package registry.
func (c *Client) SearchRepository(ctx context.Context, name string, refresh bool) (owner, repo string, ok bool) {
	key := "search:" + strings.ToLower(name)

	var result searchResult
	err := c.Cached(ctx, key, refresh, &result, func() error {
		query := name + " in:name"
		url := fmt.Sprintf("%s/search/repositories?q=%s&sort=stars&order=desc&per_page=5", c.baseURL, integrations.URLEncode(query))

		var data searchResponse
		if err := c.Get(ctx, url, &data); err != nil {
			return err
		}
		result = pickRepository(name, data.Items)
		return nil
	})
	if err != nil {
		return "", "", false
	}
	return result.Owner, result.Repo, result.Found
}

// pickRepository prefers an exact (case-insensitive) name match over the
// first hit.
func pickRepository(name string, items []searchItem) searchResult {
	for _, it := range items {
		if strings.EqualFold(it.Name, name) {
			return searchResult{Owner: it.Owner.Login, Repo: it.Name, Found: true}
		}
	}
	if len(items) > 0 {
		return searchResult{Owner: items[0].Owner.Login, Repo: items[0].Name, Found: true}
	}
	return searchResult{}
}

// LicenseFile fetches the first of [LicenseFileNames] present in owner/repo
// at ref (the default branch when ref is empty).
func (c *Client) LicenseFile(ctx context.Context, owner, repo, ref string, refresh bool) (*LicenseFile, error) {
	key := "file:" + owner + "/" + repo + "@" + ref

	var file LicenseFile
	err := c.Cached(ctx, key, refresh, &file, func() error {
		for _, name := range LicenseFileNames {
			text, err := c.fetchFile(ctx, owner, repo, name, ref)
			if errors.Is(err, integrations.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			file = LicenseFile{Path: name, Text: text}
			return nil
		}
		return fmt.Errorf("%w: no license file in %s/%s", integrations.ErrNotFound, owner, repo)
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// File fetches the text of path in owner/repo at ref (the default branch
// when ref is empty).
func (c *Client) File(ctx context.Context, owner, repo, path, ref string, refresh bool) (string, error) {
	key := "content:" + owner + "/" + repo + "/" + path + "@" + ref

	var text string
	err := c.Cached(ctx, key, refresh, &text, func() error {
		t, err := c.fetchFile(ctx, owner, repo, path, ref)
		text = t
		return err
	})
	return text, err
}

func (c *Client) fetchFile(ctx context.Context, owner, repo, path, ref string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, path)
	if ref != "" {
		url += "?ref=" + integrations.URLEncode(ref)
	}

	var data contentResponse
	if err := c.Get(ctx, url, &data); err != nil {
		return "", err
	}
	if data.Encoding != "base64" {
		return data.Content, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(data.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return string(raw), nil
}

// ExtractURL finds a GitHub owner/repo in registry project URLs.
func ExtractURL(urls map[string]string, homepage string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls, homepage)
}

type repoResponse struct {
	DefaultBranch string `json:"default_branch"`
	License       *struct {
		Key    string `json:"key"`
		Name   string `json:"name"`
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

type contentResponse struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type searchResult struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Found bool   `json:"found"`
}
