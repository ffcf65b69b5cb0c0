// Package cli implements the feluda command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/feluda/pkg/buildinfo"
	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/deps/cpp"
	"github.com/matzehuels/feluda/pkg/deps/dotnet"
	"github.com/matzehuels/feluda/pkg/deps/golang"
	"github.com/matzehuels/feluda/pkg/deps/javascript"
	"github.com/matzehuels/feluda/pkg/deps/python"
	"github.com/matzehuels/feluda/pkg/deps/r"
	"github.com/matzehuels/feluda/pkg/deps/rust"
)

// appName is the application name used for directories and display.
const appName = "feluda"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// languages are the ecosystems a scan looks for, in report order.
var languages = []*deps.Language{
	rust.Language,
	javascript.Language,
	golang.Language,
	python.Language,
	r.Language,
	cpp.Language,
	dotnet.Language,
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Feluda audits the licenses of your dependencies",
		Long: `Feluda scans a project's manifests and lock files, resolves the license of every
direct and transitive dependency, and flags restrictive or incompatible ones.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache returns the HTTP response cache: none with noCache, redis when
// a URL is configured, otherwise files under the user cache directory.
func newCache(ctx context.Context, noCache bool, redisURL string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, redisURL, appName+":")
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := httpCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/feluda/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// httpCacheDir holds registry and GitHub API responses.
func httpCacheDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "http"), nil
}
