package cpp

import (
	"bufio"
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/feluda/pkg/deps"
)

// Vcpkg parses vcpkg.json manifests. Dependencies are strings or objects
// with "name" and an optional "version".
type Vcpkg struct{}

func (p *Vcpkg) Type() string              { return "vcpkg.json" }
func (p *Vcpkg) IncludesTransitive() bool  { return false }
func (p *Vcpkg) Supports(name string) bool { return name == "vcpkg.json" }

func (p *Vcpkg) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest struct {
		Dependencies []json.RawMessage `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}

	var out []deps.Dependency
	for _, raw := range manifest.Dependencies {
		var name string
		if json.Unmarshal(raw, &name) == nil {
			out = append(out, dep(name, VersionLatest, p.Type()))
			continue
		}
		var obj struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		}
		if json.Unmarshal(raw, &obj) == nil && obj.Name != "" {
			v := obj.Version
			if v == "" {
				v = VersionLatest
			}
			out = append(out, dep(obj.Name, v, p.Type()))
		}
	}
	return out, nil
}

// ConanfileTxt parses the [requires] section of conanfile.txt.
type ConanfileTxt struct{}

func (p *ConanfileTxt) Type() string              { return "conanfile.txt" }
func (p *ConanfileTxt) IncludesTransitive() bool  { return false }
func (p *ConanfileTxt) Supports(name string) bool { return name == "conanfile.txt" }

func (p *ConanfileTxt) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []deps.Dependency
	inRequires := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inRequires = line == "[requires]"
			continue
		}
		if !inRequires || line == "" || line[0] == '#' {
			continue
		}
		if name, version, ok := conanReference(line); ok {
			out = append(out, dep(name, version, p.Type()))
		}
	}
	return out, scanner.Err()
}

var (
	conanRequiresRE = regexp.MustCompile(`(?s)requires\s*=\s*[\[(](.*?)[\])]`)
	conanRequireRE  = regexp.MustCompile(`self\.requires\(\s*["']([^"']+)["']`)
	quotedRE        = regexp.MustCompile(`["']([^"']+)["']`)
)

// ConanfilePy parses requires = [...] and self.requires("...") calls in
// conanfile.py.
type ConanfilePy struct{}

func (p *ConanfilePy) Type() string              { return "conanfile.py" }
func (p *ConanfilePy) IncludesTransitive() bool  { return false }
func (p *ConanfilePy) Supports(name string) bool { return name == "conanfile.py" }

func (p *ConanfilePy) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(data)

	var refs []string
	if m := conanRequiresRE.FindStringSubmatch(content); m != nil {
		for _, q := range quotedRE.FindAllStringSubmatch(m[1], -1) {
			refs = append(refs, q[1])
		}
	}
	for _, m := range conanRequireRE.FindAllStringSubmatch(content, -1) {
		refs = append(refs, m[1])
	}

	var out []deps.Dependency
	seen := make(map[string]bool)
	for _, ref := range refs {
		if name, version, ok := conanReference(ref); ok && !seen[name] {
			seen[name] = true
			out = append(out, dep(name, version, p.Type()))
		}
	}
	return out, nil
}

// conanReference splits "name/version@user/channel".
func conanReference(ref string) (name, version string, ok bool) {
	name, version, ok = strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || name == "" {
		return "", "", false
	}
	version, _, _ = strings.Cut(version, "@")
	return name, version, true
}

var (
	fetchContentRE = regexp.MustCompile(`FetchContent_Declare\s*\(\s*(\w+)`)
	findPackageRE  = regexp.MustCompile(`find_package\s*\(\s*(\w+)(?:\s+([^)]+))?\)`)
)

// CMakeLists parses FetchContent_Declare and find_package calls.
type CMakeLists struct{}

func (p *CMakeLists) Type() string              { return "CMakeLists.txt" }
func (p *CMakeLists) IncludesTransitive() bool  { return false }
func (p *CMakeLists) Supports(name string) bool { return name == "CMakeLists.txt" }

func (p *CMakeLists) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(data)

	var out []deps.Dependency
	for _, m := range fetchContentRE.FindAllStringSubmatch(content, -1) {
		out = append(out, dep(m[1], VersionGit, p.Type()))
	}
	for _, m := range findPackageRE.FindAllStringSubmatch(content, -1) {
		version := VersionSystem
		if args := strings.Fields(m[2]); len(args) > 0 && args[0] != "REQUIRED" && args[0] != "COMPONENTS" {
			version = args[0]
		}
		out = append(out, dep(m[1], version, p.Type()))
	}
	return out, nil
}

var bazelDepRE = regexp.MustCompile(`bazel_dep\s*\(\s*name\s*=\s*"([^"]+)"\s*,\s*version\s*=\s*"([^"]+)"`)

// ModuleBazel parses bazel_dep declarations in MODULE.bazel.
type ModuleBazel struct{}

func (p *ModuleBazel) Type() string              { return "MODULE.bazel" }
func (p *ModuleBazel) IncludesTransitive() bool  { return false }
func (p *ModuleBazel) Supports(name string) bool { return name == "MODULE.bazel" }

func (p *ModuleBazel) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []deps.Dependency
	for _, m := range bazelDepRE.FindAllStringSubmatch(string(data), -1) {
		out = append(out, dep(m[1], m[2], p.Type()))
	}
	return out, nil
}

var httpArchiveRE = regexp.MustCompile(`http_archive\s*\(\s*name\s*=\s*"([^"]+)"`)

// Workspace parses http_archive rules in a Bazel WORKSPACE file.
type Workspace struct{}

func (p *Workspace) Type() string             { return "WORKSPACE" }
func (p *Workspace) IncludesTransitive() bool { return false }
func (p *Workspace) Supports(name string) bool {
	return name == "WORKSPACE" || name == "WORKSPACE.bazel"
}

func (p *Workspace) Parse(path string, opts deps.Options) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []deps.Dependency
	for _, m := range httpArchiveRE.FindAllStringSubmatch(string(data), -1) {
		out = append(out, dep(m[1], VersionArchive, p.Type()))
	}
	return out, nil
}

func dep(name, version, manifest string) deps.Dependency {
	return deps.Dependency{Name: name, Version: version, Ecosystem: deps.Cpp, Manifest: manifest}
}
