package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/feluda/pkg/config"
	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/deps/javascript"
	ferrors "github.com/matzehuels/feluda/pkg/errors"
	"github.com/matzehuels/feluda/pkg/integrations"
	"github.com/matzehuels/feluda/pkg/integrations/github"
	"github.com/matzehuels/feluda/pkg/licenses"
)

type fakeRegistry struct {
	pkgs  map[string]*deps.Package
	calls atomic.Int32
}

func (f *fakeRegistry) Fetch(_ context.Context, name, version string, _ bool) (*deps.Package, error) {
	f.calls.Add(1)
	if p, ok := f.pkgs[name]; ok {
		return p, nil
	}
	return nil, integrations.ErrNotFound
}

type fakeOSI struct{ err error }

func (f fakeOSI) FetchApproved(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"MIT", "ISC", "GPL-3.0", "AGPL-3.0", "Apache-2.0"}, nil
}

type fakeCatalogue struct{}

func (fakeCatalogue) Licenses(context.Context, bool) ([]github.LicenseSummary, error) {
	return []github.LicenseSummary{{Key: "mit"}, {Key: "agpl-3.0"}}, nil
}

func (fakeCatalogue) License(_ context.Context, key string, _ bool) (*github.License, error) {
	if key == "agpl-3.0" {
		return &github.License{Key: key, SPDXID: "AGPL-3.0", Conditions: []string{"disclose-source", "network-use-disclose"}}, nil
	}
	return &github.License{Key: key, SPDXID: "MIT", Conditions: []string{"include-copyright"}}, nil
}

type fakeRepos struct {
	spdx map[string]string
	text map[string]string
}

func (f fakeRepos) RepoLicense(_ context.Context, owner, repo string, _ bool) (*github.RepoLicense, error) {
	id, ok := f.spdx[owner+"/"+repo]
	if !ok {
		return nil, integrations.ErrNotFound
	}
	return &github.RepoLicense{Owner: owner, Repo: repo, SPDXID: id, DefaultBranch: "main"}, nil
}

func (f fakeRepos) LicenseFile(_ context.Context, owner, repo, _ string, _ bool) (*github.LicenseFile, error) {
	text, ok := f.text[owner+"/"+repo]
	if !ok {
		return nil, integrations.ErrNotFound
	}
	return &github.LicenseFile{Path: "LICENSE", Text: text}, nil
}

func nodeLanguage(reg deps.Fetcher) *deps.Language {
	return &deps.Language{
		Name:            deps.Node,
		Registry:        "fake",
		ManifestParsers: javascript.Language.ManifestParsers,
		NewFetcher:      func(deps.Env) deps.Fetcher { return reg },
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestContext(t *testing.T, root string, cfg *config.Config) *Context {
	t.Helper()
	return &Context{
		Root:         root,
		CacheDir:     t.TempDir(),
		Config:       cfg,
		OSI:          fakeOSI{},
		LicenseDB:    fakeCatalogue{},
		Repositories: fakeRepos{},
	}
}

func byName(records []Record) map[string]Record {
	m := make(map[string]Record, len(records))
	for _, r := range records {
		m[r.Name] = r
	}
	return m
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{
  "name": "app",
  "license": "MIT",
  "dependencies": {"left": "^1.0.0", "right": "2.0.0", "network": "1.0.0", "mystery": "0.1.0"}
}`)

	reg := &fakeRegistry{pkgs: map[string]*deps.Package{
		"left": {Name: "left", Version: "1.2.0", License: "MIT",
			Dependencies: []deps.Requirement{{Name: "tiny", Version: "^3.0.0"}}},
		"tiny":    {Name: "tiny", Version: "3.1.0", License: "ISC"},
		"right":   {Name: "right", Version: "2.0.0", License: "GPL-3.0-or-later"},
		"network": {Name: "network", Version: "1.0.0", License: "AGPL-3.0-only"},
	}}

	cfg := config.Default()
	cfg.Licenses.Restrictive = []string{"GPL-3.0"}
	sc := newTestContext(t, root, cfg)

	res, err := Run(context.Background(), sc, Options{Languages: []*deps.Language{nodeLanguage(reg)}})
	if err != nil {
		t.Fatal(err)
	}

	if res.ProjectLicense != "MIT" {
		t.Errorf("ProjectLicense = %q, want MIT", res.ProjectLicense)
	}
	got := byName(res.Records)
	if len(got) != 5 {
		t.Fatalf("got %d records, want 5: %+v", len(got), res.Records)
	}

	tests := []struct {
		name        string
		spdx        string
		depth       int
		restrictive bool
		compat      licenses.Verdict
		source      licenses.Source
	}{
		{"left", "MIT", 0, false, licenses.Compatible, licenses.SourceRegistry},
		{"tiny", "ISC", 1, false, licenses.Compatible, licenses.SourceRegistry},
		{"right", "GPL-3.0", 0, true, licenses.Incompatible, licenses.SourceRegistry},
		{"network", "AGPL-3.0", 0, true, licenses.Incompatible, licenses.SourceRegistry},
		{"mystery", "", 0, false, licenses.NotEvaluated, licenses.SourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := got[tt.name]
			if r.License.SPDX != tt.spdx {
				t.Errorf("SPDX = %q, want %q", r.License.SPDX, tt.spdx)
			}
			if r.Depth != tt.depth {
				t.Errorf("Depth = %d, want %d", r.Depth, tt.depth)
			}
			if r.License.Restrictive != tt.restrictive {
				t.Errorf("Restrictive = %v, want %v", r.License.Restrictive, tt.restrictive)
			}
			if r.License.Compatibility != tt.compat {
				t.Errorf("Compatibility = %v, want %v", r.License.Compatibility, tt.compat)
			}
			if r.License.Source != tt.source {
				t.Errorf("Source = %v, want %v", r.License.Source, tt.source)
			}
		})
	}

	if s := res.Summary; s.Total != 5 || s.Restrictive != 2 || s.Incompatible != 2 || s.Unknown != 1 {
		t.Errorf("Summary = %+v", s)
	}
	if !got["mystery"].Unresolved {
		t.Error("mystery should be unresolved")
	}
	if len(res.Warnings) == 0 {
		t.Error("expected warnings for the failed lookups")
	}
}

func TestRunExpansionLimits(t *testing.T) {
	tests := []struct {
		name         string
		maxDepth     int
		noTransitive bool
	}{
		{"direct only depth", 0, false},
		{"registry without edges", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "package.json"), `{"name": "app", "dependencies": {"left": "^1.0.0"}}`)
			reg := &fakeRegistry{pkgs: map[string]*deps.Package{
				"left": {Name: "left", Version: "1.2.0", License: "MIT",
					Dependencies: []deps.Requirement{{Name: "tiny", Version: "^3.0.0"}}},
				"tiny": {Name: "tiny", Version: "3.1.0", License: "ISC"},
			}}
			lang := nodeLanguage(reg)
			lang.NoTransitive = tt.noTransitive
			cfg := config.Default()
			cfg.Dependencies.MaxDepth = tt.maxDepth

			res, err := Run(context.Background(), newTestContext(t, root, cfg), Options{Languages: []*deps.Language{lang}})
			if err != nil {
				t.Fatal(err)
			}
			got := byName(res.Records)
			if len(got) != 1 {
				t.Fatalf("got %d records, want only the direct one: %+v", len(got), res.Records)
			}
			if got["left"].License.SPDX != "MIT" {
				t.Errorf("left license = %+v, want MIT from the registry", got["left"].License)
			}
		})
	}
}

func TestRunIgnoreRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{
  "dependencies": {"a": "1.0.0", "b": "1.0.0", "c": "1.0.0"}
}`)
	reg := &fakeRegistry{pkgs: map[string]*deps.Package{
		"a": {Name: "a", Version: "1.0.0", License: "GPL-3.0"},
		"b": {Name: "b", Version: "1.0.0", License: "MIT"},
		"c": {Name: "c", Version: "1.0.0", License: "MIT"},
	}}

	cfg := config.Default()
	cfg.Licenses.Restrictive = []string{"GPL-3.0"}
	cfg.Licenses.Ignore = []string{"GPL-3.0"}
	cfg.Dependencies.Ignore = []config.IgnoreRule{{Name: "c"}}
	sc := newTestContext(t, root, cfg)

	res, err := Run(context.Background(), sc, Options{
		Languages:      []*deps.Language{nodeLanguage(reg)},
		ProjectLicense: "MIT",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 1 || res.Records[0].Name != "b" {
		t.Errorf("records = %+v, want only b", res.Records)
	}
	if res.Summary.Restrictive != 0 {
		t.Errorf("ignored license still counted restrictive: %+v", res.Summary)
	}
}

func TestRunLockFileLocalFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"dependencies": {"a": "^1.0.0"}}`)
	writeFile(t, filepath.Join(root, "package-lock.json"), `{
  "lockfileVersion": 3,
  "packages": {
    "": {"name": "app", "dependencies": {"a": "^1.0.0"}},
    "node_modules/a": {"version": "1.0.0", "license": "MIT"},
    "node_modules/a/node_modules/b": {"version": "2.0.0", "license": "Apache-2.0"}
  }
}`)
	reg := &fakeRegistry{}
	sc := newTestContext(t, root, config.Default())

	res, err := Run(context.Background(), sc, Options{
		Languages:  []*deps.Language{nodeLanguage(reg)},
		LocalFirst: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := reg.calls.Load(); n != 0 {
		t.Errorf("registry called %d times, want 0", n)
	}
	got := byName(res.Records)
	if got["a"].License.SPDX != "MIT" || got["a"].License.Source != licenses.SourceLocal {
		t.Errorf("a = %+v", got["a"].License)
	}
	if got["b"].License.SPDX != "Apache-2.0" || got["b"].Depth != 1 {
		t.Errorf("b = %+v", got["b"])
	}
	if res.ProjectLicense != "" || got["a"].License.Compatibility != licenses.NotEvaluated {
		t.Errorf("without a project license nothing is evaluated")
	}
}

func TestRunUnknownProjectLicense(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"dependencies": {"a": "1.0.0"}}`)
	reg := &fakeRegistry{pkgs: map[string]*deps.Package{"a": {Name: "a", Version: "1.0.0", License: "MIT"}}}
	sc := newTestContext(t, root, config.Default())
	sc.OSI = fakeOSI{err: errors.New("offline")}

	res, err := Run(context.Background(), sc, Options{
		Languages:      []*deps.Language{nodeLanguage(reg)},
		ProjectLicense: "EUPL-1.2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Records[0].License.Compatibility != licenses.NotEvaluated {
		t.Errorf("Compatibility = %v, want not-evaluated", res.Records[0].License.Compatibility)
	}
	var matrixWarnings int
	for _, w := range res.Warnings {
		if strings.Contains(w, "EUPL-1.2") && strings.Contains(w, "compatibility matrix") {
			matrixWarnings++
		}
	}
	if matrixWarnings != 1 {
		t.Errorf("got %d matrix warnings, want 1: %v", matrixWarnings, res.Warnings)
	}
	if res.Records[0].License.OSI != licenses.OSIApproved {
		t.Errorf("fallback OSI table should approve MIT, got %v", res.Records[0].License.OSI)
	}
}

func TestRunInvalidLanguage(t *testing.T) {
	sc := newTestContext(t, t.TempDir(), nil)
	_, err := Run(context.Background(), sc, Options{
		Languages: []*deps.Language{nodeLanguage(&fakeRegistry{})},
		Language:  "cobol",
	})
	if ferrors.GetCode(err) != ferrors.ErrCodeInvalidLanguage {
		t.Errorf("err = %v, want INVALID_LANGUAGE", err)
	}
}
