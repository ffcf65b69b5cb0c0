package scan

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/licenses"
)

type slowFetcher struct{}

func (slowFetcher) Fetch(ctx context.Context, _, _ string, _ bool) (*deps.Package, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLicenseFetcherResolve(t *testing.T) {
	reg := &fakeRegistry{pkgs: map[string]*deps.Package{
		"plain":    {Name: "plain", License: "MIT"},
		"see-file": {Name: "see-file", License: "SEE LICENSE IN LICENSE.md", Repository: "https://github.com/acme/see-file"},
		"no-spdx":  {Name: "no-spdx", Repository: "git+https://github.com/acme/no-spdx.git"},
		"custom":   {Name: "custom", License: "Custom Corp License", Repository: "https://gitlab.com/acme/custom"},
	}}
	repos := fakeRepos{
		spdx: map[string]string{"acme/see-file": "BSD-3-Clause", "acme/no-spdx": "NOASSERTION"},
		text: map[string]string{"acme/no-spdx": "Permission is hereby granted, free of charge, to any person obtaining a copy"},
	}

	tests := []struct {
		name       string
		dep        deps.Dependency
		localFirst bool
		wantRaw    string
		wantSource licenses.Source
	}{
		{"local first", deps.Dependency{Name: "plain", License: "ISC"}, true, "ISC", licenses.SourceLocal},
		{"registry", deps.Dependency{Name: "plain", License: "ISC"}, false, "MIT", licenses.SourceRegistry},
		{"repository", deps.Dependency{Name: "see-file"}, false, "BSD-3-Clause", licenses.SourceRepository},
		{"license file", deps.Dependency{Name: "no-spdx"}, false, "MIT", licenses.SourceLicenseFile},
		{"raw registry string", deps.Dependency{Name: "custom"}, false, "Custom Corp License", licenses.SourceRegistry},
		{"local after failure", deps.Dependency{Name: "missing", License: "0BSD"}, false, "0BSD", licenses.SourceLocal},
		{"unknown", deps.Dependency{Name: "missing"}, false, "", licenses.SourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.dep.Ecosystem = deps.Node
			f := NewLicenseFetcher(map[deps.Ecosystem]deps.Fetcher{deps.Node: reg}, repos, time.Second, tt.localFirst, false, nil)
			raw, src := f.Resolve(context.Background(), tt.dep)
			if raw != tt.wantRaw || src != tt.wantSource {
				t.Errorf("Resolve = (%q, %s), want (%q, %s)", raw, src, tt.wantRaw, tt.wantSource)
			}
		})
	}
}

func TestLicenseFetcherTimeout(t *testing.T) {
	var warned int
	f := NewLicenseFetcher(
		map[deps.Ecosystem]deps.Fetcher{deps.Go: slowFetcher{}},
		nil, 10*time.Millisecond, false, false,
		func(string, ...any) { warned++ },
	)
	raw, src := f.Resolve(context.Background(), deps.Dependency{Name: "example.com/slow", Ecosystem: deps.Go})
	if raw != "" || src != licenses.SourceUnknown {
		t.Errorf("Resolve = (%q, %s), want unknown", raw, src)
	}
	if warned != 1 {
		t.Errorf("warned %d times, want 1", warned)
	}
}

func TestClassify(t *testing.T) {
	osi := licenses.NewOSIResolver([]string{"MIT", "GPL-3.0"})
	m := licenses.DefaultMatrix()

	info := Classify("GPL-3.0-only", licenses.SourceRegistry, "MIT", m, []string{"GPL-3.0"}, nil, false, osi)
	if info.SPDX != "GPL-3.0" || !info.Restrictive || info.Compatibility != licenses.Incompatible || info.OSI != licenses.OSIApproved {
		t.Errorf("GPL: %+v", info)
	}
	if len(info.Raw) != 1 || info.Raw[0] != "GPL-3.0-only" {
		t.Errorf("Raw = %v", info.Raw)
	}

	info = Classify("", licenses.SourceUnknown, "MIT", m, nil, nil, true, osi)
	if !info.Restrictive || info.Compatibility != licenses.Incompatible || info.OSI != licenses.OSIUnknown {
		t.Errorf("strict unknown: %+v", info)
	}
	if info.Display() != "Unknown" {
		t.Errorf("Display = %q", info.Display())
	}
}
