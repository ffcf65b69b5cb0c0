package goproxy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/integrations"
)

// ModuleInfo holds metadata for one version of a Go module.
//
// Dependencies include only direct requirements of that version's go.mod;
// indirect ones are excluded. Modules without a go.mod have no Dependencies.
// Repository is derived from the module path for hosts whose source location
// is predictable (github.com, golang.org/x, gopkg.in); it is empty otherwise.
type ModuleInfo struct {
	Path         string
	Version      string
	Repository   string
	Dependencies []integrations.Requirement
}

// Require is one requirement line of a go.mod file.
type Require struct {
	Path     string
	Version  string
	Indirect bool
}

// Client provides access to the Go module proxy API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Go module proxy client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "goproxy:", cacheTTL, nil),
		baseURL: "https://proxy.golang.org",
	}
}

// FetchModule retrieves metadata for mod at version. An empty version asks
// the proxy's @latest endpoint first.
//
// go.mod fetch failures are ignored; Dependencies is empty for modules
// without one.
func (c *Client) FetchModule(ctx context.Context, mod, version string, refresh bool) (*ModuleInfo, error) {
	mod = strings.TrimSpace(mod)
	key := mod + "@" + version

	var info ModuleInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		return c.fetch(ctx, mod, version, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, mod, version string, info *ModuleInfo) error {
	if version == "" {
		v, err := c.fetchLatest(ctx, mod)
		if err != nil {
			return err
		}
		version = v
	}

	var deps []integrations.Requirement
	if body, err := c.GetText(ctx, fmt.Sprintf("%s/%s/@v/%s.mod", c.baseURL, escapePath(mod), escapePath(version))); err == nil {
		_, reqs, _ := ParseGoMod(strings.NewReader(body))
		for _, r := range reqs {
			if !r.Indirect {
				deps = append(deps, integrations.Requirement{Name: r.Path, Version: r.Version})
			}
		}
	} else if errors.Is(err, integrations.ErrNotFound) && version != "" {
		return fmt.Errorf("%w: go module %s@%s", err, mod, version)
	}

	*info = ModuleInfo{
		Path:         mod,
		Version:      version,
		Repository:   RepositoryURL(mod),
		Dependencies: deps,
	}
	return nil
}

func (c *Client) fetchLatest(ctx context.Context, mod string) (string, error) {
	url := fmt.Sprintf("%s/%s/@latest", c.baseURL, escapePath(mod))

	var data latestResponse
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", fmt.Errorf("%w: go module %s", err, mod)
		}
		return "", err
	}
	return data.Version, nil
}

// RepositoryURL maps a module path to its source repository when the host
// makes that possible without a network round trip.
func RepositoryURL(mod string) string {
	parts := strings.Split(mod, "/")
	switch {
	case len(parts) >= 3 && parts[0] == "github.com":
		return "https://github.com/" + parts[1] + "/" + parts[2]
	case len(parts) >= 3 && parts[0] == "golang.org" && parts[1] == "x":
		return "https://github.com/golang/" + parts[2]
	case len(parts) >= 2 && parts[0] == "gopkg.in":
		// gopkg.in/yaml.v3 -> go-yaml/yaml, gopkg.in/user/pkg.v1 -> user/pkg
		name := parts[len(parts)-1]
		if i := strings.Index(name, ".v"); i > 0 {
			name = name[:i]
		}
		if len(parts) == 2 {
			return "https://github.com/go-" + name + "/" + name
		}
		return "https://github.com/" + parts[1] + "/" + name
	}
	return ""
}

// ParseGoMod reads the module path and requirements of a go.mod file.
// Block and single-line require forms are supported; "// indirect"
// requirements are reported with Indirect set.
func ParseGoMod(r io.Reader) (module string, reqs []Require, err error) {
	seen := make(map[string]bool)
	inRequire := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "module ") {
			module = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "module ")), `"`)
			continue
		}

		if strings.HasPrefix(line, "require (") || line == "require(" {
			inRequire = true
			continue
		}
		if inRequire && line == ")" {
			inRequire = false
			continue
		}

		if strings.HasPrefix(line, "require ") && !strings.Contains(line, "(") {
			line = strings.TrimPrefix(line, "require ")
		} else if !inRequire {
			continue
		}

		if req, ok := parseRequireLine(line); ok && !seen[req.Path] {
			seen[req.Path] = true
			reqs = append(reqs, req)
		}
	}

	return module, reqs, scanner.Err()
}

func parseRequireLine(line string) (Require, bool) {
	indirect := strings.Contains(line, "// indirect")
	if idx := strings.Index(line, "//"); idx != -1 {
		line = line[:idx]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Require{}, false
	}
	req := Require{Path: strings.Trim(fields[0], `"`), Indirect: indirect}
	if len(fields) > 1 {
		req.Version = fields[1]
	}
	return req, true
}

func escapePath(path string) string {
	var b strings.Builder
	for _, r := range path {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('!')
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type latestResponse struct {
	Version string `json:"Version"`
	Time    string `json:"Time"`
}
