package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	http, err := httpCacheDir()
	if err != nil {
		t.Fatalf("httpCacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName, "http"); http != want {
		t.Errorf("httpCacheDir() = %q, want %q", http, want)
	}
}

func TestSnapshotStorePath(t *testing.T) {
	project := t.TempDir()
	store, err := snapshotStore(project)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(project, ".feluda", "cache", "github_licenses.json")
	if store.Path() != want {
		t.Errorf("Path() = %q, want %q", store.Path(), want)
	}
}

func TestDirStats(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range map[string]string{"ab/one.json": "{}", "ab/two.json": "[1,2]"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, size := dirStats(dir)
	if files != 2 || size != 7 {
		t.Errorf("dirStats() = %d files, %d bytes; want 2, 7", files, size)
	}

	if files, _ := dirStats(filepath.Join(dir, "missing")); files != 0 {
		t.Errorf("missing dir: %d files, want 0", files)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(t.Context(), true, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(interface{ Dir() string }); ok {
		t.Error("--no-cache should not return a file cache")
	}

	c, err = newCache(t.Context(), false, "")
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(interface{ Dir() string })
	if !ok {
		t.Fatalf("newCache() = %T, want file cache", c)
	}
	if filepath.Base(fc.Dir()) != "http" {
		t.Errorf("file cache dir = %q", fc.Dir())
	}
}
