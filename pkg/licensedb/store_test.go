package licensedb

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sample() map[string]License {
	return map[string]License{
		"mit":     {Title: "MIT License", SPDXID: "MIT", Permissions: []string{"commercial-use"}, Conditions: []string{"include-copyright"}},
		"gpl-3.0": {Title: "GNU General Public License v3.0", SPDXID: "GPL-3.0", Conditions: []string{"disclose-source", "same-license"}},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".feluda", "cache", FileName)
	s := NewStore(path)

	if _, ok := s.Load(); ok {
		t.Fatal("expected miss before save")
	}
	if err := s.Save(sample()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, ok := s.Load()
	if !ok {
		t.Fatal("expected hit after save")
	}
	if len(data) != 2 || data["gpl-3.0"].Conditions[0] != "disclose-source" {
		t.Errorf("unexpected data: %+v", data)
	}
}

func TestStoreStale(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewStore(filepath.Join(t.TempDir(), FileName)).WithClock(func() time.Time { return now })
	if err := s.Save(sample()); err != nil {
		t.Fatal(err)
	}

	now = now.Add(MaxAge - time.Second)
	if _, ok := s.Load(); !ok {
		t.Error("snapshot should be fresh just before MaxAge")
	}

	now = now.Add(2 * time.Second)
	if _, ok := s.Load(); ok {
		t.Error("snapshot should be stale after MaxAge")
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Error("stale snapshot must not be deleted")
	}
	if data, ok := s.LoadStale(); !ok || len(data) != 2 {
		t.Error("LoadStale should still return the data")
	}
}

func TestStoreInvalidFiles(t *testing.T) {
	tests := map[string]string{
		"corrupt":          "{not json",
		"version mismatch": `{"version": 2, "timestamp": 9999999999, "data": {}}`,
		"missing data":     `{"version": 1, "timestamp": 9999999999}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			s := NewStore(path)
			if _, ok := s.Load(); ok {
				t.Error("expected miss")
			}
			st := s.Status()
			if !st.Exists || st.LicenseCount != 0 || st.IsFresh {
				t.Errorf("unexpected status: %+v", st)
			}
		})
	}
}

func TestStoreStatus(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewStore(filepath.Join(t.TempDir(), FileName)).WithClock(func() time.Time { return now })

	st := s.Status()
	if st.Exists || st.LicenseCount != 0 || st.Path != s.Path() {
		t.Errorf("absent file status: %+v", st)
	}

	if err := s.Save(sample()); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Hour)
	st = s.Status()
	if !st.Exists || !st.IsFresh || st.LicenseCount != 2 || st.SizeBytes == 0 {
		t.Errorf("unexpected status: %+v", st)
	}
	if st.Age != 2*time.Hour {
		t.Errorf("Age = %v, want 2h", st.Age)
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName))
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear on absent file: %v", err)
	}
	if err := s.Save(sample()); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if s.Status().Exists {
		t.Error("file should be gone")
	}
}

func TestDefaultPath(t *testing.T) {
	got, err := DefaultPath("/work/proj")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/work/proj", ".feluda", "cache", FileName); got != want {
		t.Errorf("DefaultPath = %q, want %q", got, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/xdg")
	got, _ = DefaultPath("")
	if want := filepath.Join("/xdg", "feluda", FileName); got != want {
		t.Errorf("DefaultPath = %q, want %q", got, want)
	}
}

func TestFormat(t *testing.T) {
	sizes := map[int64]string{0: "0 B", 512: "512 B", 2048: "2.0 KB", 3 * 1024 * 1024: "3.0 MB"}
	for n, want := range sizes {
		if got := FormatSize(n); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", n, got, want)
		}
	}
	ages := map[time.Duration]string{
		10 * time.Second: "just now",
		time.Minute:      "1 minute ago",
		5 * time.Minute:  "5 minutes ago",
		3 * time.Hour:    "3 hours ago",
		49 * time.Hour:   "2 days ago",
	}
	for d, want := range ages {
		if got := FormatAge(d); got != want {
			t.Errorf("FormatAge(%v) = %q, want %q", d, got, want)
		}
	}
}
