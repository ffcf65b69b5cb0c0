package cpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/integrations"
	"github.com/matzehuels/feluda/pkg/integrations/github"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func versions(list []deps.Dependency) map[string]string {
	m := make(map[string]string, len(list))
	for _, d := range list {
		m[d.Name] = d.Version
	}
	return m
}

func assertVersions(t *testing.T, got []deps.Dependency, want map[string]string) {
	t.Helper()
	m := versions(got)
	if len(m) != len(want) {
		t.Fatalf("got %v, want %v", m, want)
	}
	for name, v := range want {
		if m[name] != v {
			t.Errorf("%s = %q, want %q", name, m[name], v)
		}
	}
}

func TestVcpkg(t *testing.T) {
	path := writeFile(t, "vcpkg.json", `{
  "name": "app",
  "dependencies": ["boost", {"name": "opencv", "version": "4.5.0"}, {"name": "fmt"}]
}`)
	got, err := (&Vcpkg{}).Parse(path, deps.Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertVersions(t, got, map[string]string{"boost": "latest", "opencv": "4.5.0", "fmt": "latest"})
	for _, d := range got {
		if d.Ecosystem != deps.Cpp || d.Manifest != "vcpkg.json" {
			t.Errorf("dep %+v", d)
		}
	}
}

func TestConanfileTxt(t *testing.T) {
	path := writeFile(t, "conanfile.txt", `[requires]
boost/1.75.0
openssl/1.1.1k@
# comment
zlib/1.2.11@conan/stable

[generators]
cmake
`)
	got, err := (&ConanfileTxt{}).Parse(path, deps.Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertVersions(t, got, map[string]string{"boost": "1.75.0", "openssl": "1.1.1k", "zlib": "1.2.11"})
}

func TestConanfilePy(t *testing.T) {
	path := writeFile(t, "conanfile.py", `from conan import ConanFile

class App(ConanFile):
    requires = ["fmt/10.1.0", "spdlog/1.12.0@"]

    def requirements(self):
        self.requires("zlib/1.3")
        self.requires("fmt/10.1.0")
`)
	got, err := (&ConanfilePy{}).Parse(path, deps.Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertVersions(t, got, map[string]string{"fmt": "10.1.0", "spdlog": "1.12.0", "zlib": "1.3"})
}

func TestCMakeLists(t *testing.T) {
	path := writeFile(t, "CMakeLists.txt", `cmake_minimum_required(VERSION 3.14)
include(FetchContent)
FetchContent_Declare(json URL https://example.com/json.tar.xz)
find_package(Boost 1.70 REQUIRED COMPONENTS system)
find_package(OpenSSL REQUIRED)
find_package(Threads)
`)
	got, err := (&CMakeLists{}).Parse(path, deps.Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertVersions(t, got, map[string]string{"json": "git", "Boost": "1.70", "OpenSSL": "system", "Threads": "system"})
}

func TestBazel(t *testing.T) {
	module := writeFile(t, "MODULE.bazel", `module(name = "app")
bazel_dep(name = "abseil-cpp", version = "20230802.0")
bazel_dep(name = "googletest", version = "1.14.0", dev_dependency = True)
`)
	got, err := (&ModuleBazel{}).Parse(module, deps.Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertVersions(t, got, map[string]string{"abseil-cpp": "20230802.0", "googletest": "1.14.0"})

	ws := writeFile(t, "WORKSPACE", `load("@bazel_tools//tools/build_defs/repo:http.bzl", "http_archive")
http_archive(
    name = "com_google_protobuf",
    urls = ["https://example.com/protobuf.zip"],
)
`)
	got, err = (&Workspace{}).Parse(ws, deps.Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertVersions(t, got, map[string]string{"com_google_protobuf": "archive"})
}

func TestSelectFirstMatch(t *testing.T) {
	primary, _ := Language.Select([]string{"/p/CMakeLists.txt", "/p/conanfile.txt", "/p/vcpkg.json"})
	if len(primary) != 1 || filepath.Base(primary[0]) != "vcpkg.json" {
		t.Errorf("Select = %v, want vcpkg.json only", primary)
	}
}

type fakeRepos struct {
	files   map[string]string
	repos   map[string][2]string
	license map[string]string
}

func (f *fakeRepos) File(_ context.Context, owner, repo, path, _ string, _ bool) (string, error) {
	if text, ok := f.files[owner+"/"+repo+"/"+path]; ok {
		return text, nil
	}
	return "", integrations.ErrNotFound
}

func (f *fakeRepos) SearchRepository(_ context.Context, name string, _ bool) (string, string, bool) {
	r, ok := f.repos[name]
	return r[0], r[1], ok
}

func (f *fakeRepos) RepoLicense(_ context.Context, owner, repo string, _ bool) (*github.RepoLicense, error) {
	spdx, ok := f.license[owner+"/"+repo]
	if !ok {
		return nil, integrations.ErrNotFound
	}
	return &github.RepoLicense{Owner: owner, Repo: repo, SPDXID: spdx}, nil
}

func TestFetcher(t *testing.T) {
	src := &fakeRepos{
		files: map[string]string{
			"microsoft/vcpkg/ports/fmt/vcpkg.json": `{"name":"fmt","license":"MIT","homepage":"https://github.com/fmtlib/fmt"}`,
		},
		repos:   map[string][2]string{"json": {"nlohmann", "json"}, "odd": {"someone", "odd"}},
		license: map[string]string{"nlohmann/json": "MIT", "someone/odd": "NOASSERTION"},
	}
	f := fetcher{src: src}
	ctx := context.Background()

	pkg, err := f.Fetch(ctx, "FMT", "10.1.0", false)
	if err != nil {
		t.Fatal(err)
	}
	if pkg.License != "MIT" || pkg.Repository != "https://github.com/fmtlib/fmt" {
		t.Errorf("vcpkg port: %+v", pkg)
	}

	pkg, err = f.Fetch(ctx, "json", "git", false)
	if err != nil {
		t.Fatal(err)
	}
	if pkg.License != "MIT" || pkg.Repository != "https://github.com/nlohmann/json" {
		t.Errorf("search: %+v", pkg)
	}

	pkg, err = f.Fetch(ctx, "odd", "system", false)
	if err != nil {
		t.Fatal(err)
	}
	if pkg.License != "" {
		t.Errorf("NOASSERTION should leave license empty, got %q", pkg.License)
	}

	if _, err := f.Fetch(ctx, "missing", "system", false); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
}
