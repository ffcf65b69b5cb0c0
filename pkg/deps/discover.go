package deps

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are never descended into during discovery.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".feluda":      true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"bin":          true,
	"obj":          true,
}

// Project is one directory holding manifests of one language.
type Project struct {
	Dir       string
	Language  *Language
	Manifests []string // paths in the order they should be parsed
	Fallback  []string // direct manifests to parse if every lock file fails
}

// Discover walks root and returns a Project per (directory, language)
// pair with at least one manifest. Paths matching an exclude glob
// (doublestar syntax, relative to root, slash separated) are skipped
// along with everything below them. Results are sorted by directory,
// then by language order in langs.
func Discover(root string, langs []*Language, exclude []string) ([]Project, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	files := make(map[string][]string)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		if rel != "." && excluded(rel, exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), "bazel-")) {
				return filepath.SkipDir
			}
			return nil
		}
		dir := filepath.Dir(path)
		files[dir] = append(files[dir], path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(files))
	for dir := range files {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var projects []Project
	for _, dir := range dirs {
		for _, lang := range langs {
			if primary, fallback := lang.Select(files[dir]); len(primary) > 0 {
				projects = append(projects, Project{Dir: dir, Language: lang, Manifests: primary, Fallback: fallback})
			}
		}
	}
	return projects, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
