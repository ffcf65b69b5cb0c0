package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/licensedb"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the license snapshot and HTTP cache",
		Long: `Feluda keeps two caches: the GitHub license catalogue snapshot of a project
(<project>/.feluda/cache) and registry API responses (~/.cache/feluda/http).`,
	}

	cmd.AddCommand(c.cacheStatusCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// snapshotStore returns the license snapshot store of the project at dir.
func snapshotStore(dir string) (*licensedb.Store, error) {
	path, err := licensedb.DefaultPath(absOrSelf(dir))
	if err != nil {
		return nil, err
	}
	return licensedb.NewStore(path), nil
}

func projectArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}

// cacheStatusCommand creates the "cache status" subcommand.
func (c *CLI) cacheStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [path]",
		Short: "Show license snapshot and HTTP cache status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := snapshotStore(projectArg(args))
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, StyleTitle.Render("License snapshot"))
			st := store.Status()
			printKeyValue(out, "Path", st.Path)
			if !st.Exists {
				printInfo(out, "No snapshot yet; the next scan downloads one")
			} else {
				printKeyValue(out, "Size", licensedb.FormatSize(st.SizeBytes))
				printKeyValue(out, "Licenses", fmt.Sprint(st.LicenseCount))
				printKeyValue(out, "Updated", licensedb.FormatAge(st.Age))
				if st.IsFresh {
					printSuccess(out, "Snapshot is fresh")
				} else {
					printWarning(out, "Snapshot is stale and will be refreshed on the next scan")
				}
			}

			dir, err := httpCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			files, size := dirStats(dir)
			fmt.Fprintln(out)
			fmt.Fprintln(out, StyleTitle.Render("HTTP cache"))
			printKeyValue(out, "Path", dir)
			printKeyValue(out, "Entries", fmt.Sprint(files))
			printKeyValue(out, "Size", licensedb.FormatSize(size))
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var snapshotOnly, httpOnly bool

	cmd := &cobra.Command{
		Use:   "clear [path]",
		Short: "Delete the license snapshot and cached HTTP responses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !httpOnly {
				store, err := snapshotStore(projectArg(args))
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				if err := store.Clear(); err != nil {
					return err
				}
				printSuccess(out, "Removed license snapshot")
				printDetail(out, "File: %s", store.Path())
			}
			if !snapshotOnly {
				n, dir, err := clearHTTPCache()
				if err != nil {
					return err
				}
				printSuccess(out, "Cleared %d cached responses", n)
				printDetail(out, "Directory: %s", dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&snapshotOnly, "snapshot", false, "only remove the license snapshot")
	cmd.Flags().BoolVar(&httpOnly, "http", false, "only remove cached HTTP responses")
	cmd.MarkFlagsMutuallyExclusive("snapshot", "http")
	return cmd
}

func clearHTTPCache() (int, string, error) {
	dir, err := httpCacheDir()
	if err != nil {
		return 0, "", fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, dir, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, dir, err
	}
	n, err := fc.Clear()
	return n, dir, err
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path [path]",
		Short: "Print the snapshot file and HTTP cache directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := snapshotStore(projectArg(args))
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			dir, err := httpCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Path())
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// dirStats counts regular files below dir and their total size.
func dirStats(dir string) (files int, size int64) {
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			files++
			size += info.Size()
		}
		return nil
	})
	return files, size
}
