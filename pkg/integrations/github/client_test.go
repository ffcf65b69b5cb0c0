package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/integrations"
)

func TestClient_RepoLicense(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		switch r.URL.Path {
		case "/repos/owner/repo":
			w.Write([]byte(`{"default_branch":"main","license":{"key":"mit","name":"MIT License","spdx_id":"MIT"}}`))
		case "/repos/owner/bare":
			w.Write([]byte(`{"default_branch":"master","license":null}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL, "secret")

	lic, err := c.RepoLicense(context.Background(), "owner", "repo", true)
	if err != nil {
		t.Fatalf("RepoLicense failed: %v", err)
	}
	if lic.SPDXID != "MIT" || lic.DefaultBranch != "main" {
		t.Errorf("unexpected license %+v", lic)
	}

	lic, err = c.RepoLicense(context.Background(), "owner", "bare", true)
	if err != nil {
		t.Fatalf("RepoLicense failed: %v", err)
	}
	if lic.SPDXID != "" {
		t.Errorf("expected no license, got %+v", lic)
	}

	_, err = c.RepoLicense(context.Background(), "owner", "missing", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_LicenseFile(t *testing.T) {
	text := "Apache License\nVersion 2.0, January 2004\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/repo/contents/LICENSE.txt":
			if r.URL.Query().Get("ref") != "main" {
				t.Errorf("ref = %q", r.URL.Query().Get("ref"))
			}
			json.NewEncoder(w).Encode(contentResponse{
				Path:     "LICENSE.txt",
				Encoding: "base64",
				Content:  base64.StdEncoding.EncodeToString([]byte(text)),
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	file, err := c.LicenseFile(context.Background(), "owner", "repo", "main", true)
	if err != nil {
		t.Fatalf("LicenseFile failed: %v", err)
	}
	if file.Path != "LICENSE.txt" || file.Text != text {
		t.Errorf("unexpected file %+v", file)
	}

	_, err = c.LicenseFile(context.Background(), "owner", "other", "", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_File(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/microsoft/vcpkg/contents/ports/zlib/vcpkg.json" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(contentResponse{Content: `{"license": "Zlib"}`})
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")
	text, err := c.File(context.Background(), "microsoft", "vcpkg", "ports/zlib/vcpkg.json", "", true)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if text != `{"license": "Zlib"}` {
		t.Errorf("text = %q", text)
	}

	if _, err := c.File(context.Background(), "microsoft", "vcpkg", "ports/none/vcpkg.json", "", true); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_SearchRepository(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("q") == "nothing in:name" {
			w.Write([]byte(`{"items":[]}`))
			return
		}
		w.Write([]byte(`{"items":[
			{"name":"fmt-extras","owner":{"login":"someone"}},
			{"name":"fmt","owner":{"login":"fmtlib"}}
		]}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	owner, repo, ok := c.SearchRepository(context.Background(), "fmt", true)
	if !ok || owner != "fmtlib" || repo != "fmt" {
		t.Errorf("SearchRepository = %s/%s %v", owner, repo, ok)
	}
	if _, _, ok := c.SearchRepository(context.Background(), "nothing", true); ok {
		t.Error("expected no result")
	}
}

func TestClient_Licenses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/licenses":
			w.Write([]byte(`[{"key":"mit","name":"MIT License","spdx_id":"MIT"},{"key":"agpl-3.0","name":"GNU AGPLv3","spdx_id":"AGPL-3.0"}]`))
		case "/licenses/agpl-3.0":
			w.Write([]byte(`{"key":"agpl-3.0","name":"GNU Affero General Public License v3.0","spdx_id":"AGPL-3.0",
				"permissions":["commercial-use"],"conditions":["disclose-source","network-use-disclose"],"limitations":["liability"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	list, err := c.Licenses(context.Background(), true)
	if err != nil {
		t.Fatalf("Licenses failed: %v", err)
	}
	if len(list) != 2 || list[1].Key != "agpl-3.0" {
		t.Errorf("unexpected list %+v", list)
	}

	l, err := c.License(context.Background(), "agpl-3.0", true)
	if err != nil {
		t.Fatalf("License failed: %v", err)
	}
	if l.Title != "GNU Affero General Public License v3.0" || len(l.Conditions) != 2 {
		t.Errorf("unexpected license %+v", l)
	}
}

func TestClient_RateLimited(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the advertised reset")
	}
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(`{"default_branch":"main","license":{"spdx_id":"ISC"}}`))
	}))
	defer server.Close()

	lic, err := testClient(t, server.URL, "").RepoLicense(context.Background(), "o", "r", true)
	if err != nil {
		t.Fatalf("RepoLicense failed: %v", err)
	}
	if lic.SPDXID != "ISC" || calls.Load() != 2 {
		t.Errorf("license %+v after %d calls", lic, calls.Load())
	}
}

func TestExtractURL(t *testing.T) {
	tests := []struct {
		urls      map[string]string
		home      string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		{
			urls:      map[string]string{"Source": "https://github.com/foo/bar"},
			wantOwner: "foo",
			wantRepo:  "bar",
			wantOK:    true,
		},
		{
			urls:      nil,
			home:      "http://github.com/baz/qux",
			wantOwner: "baz",
			wantRepo:  "qux",
			wantOK:    true,
		},
		{
			urls:   map[string]string{"Homepage": "https://google.com"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		owner, repo, ok := ExtractURL(tt.urls, tt.home)
		if ok != tt.wantOK {
			t.Errorf("got ok=%v, want %v", ok, tt.wantOK)
		}
		if ok {
			if owner != tt.wantOwner {
				t.Errorf("got owner %s, want %s", owner, tt.wantOwner)
			}
			if repo != tt.wantRepo {
				t.Errorf("got repo %s, want %s", repo, tt.wantRepo)
			}
		}
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(cache.NewNullCache(), "test-token", time.Hour)
	if c.Client == nil {
		t.Error("expected client to be initialized")
	}
}

func testClient(t *testing.T, serverURL, token string) *Client {
	t.Helper()
	c := NewClient(cache.NewNullCache(), token, time.Hour)
	c.baseURL = serverURL
	return c
}
