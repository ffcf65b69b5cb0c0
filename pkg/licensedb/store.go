package licensedb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/feluda/pkg/cache"
)

const (
	// SnapshotVersion is the on-disk format version. Files with another
	// version are ignored.
	SnapshotVersion = 1

	// MaxAge is how long a snapshot stays fresh.
	MaxAge = 30 * 24 * time.Hour

	// FileName is the snapshot file name inside the cache directory.
	FileName = "github_licenses.json"
)

// License is the catalogue entry of one license.
type License struct {
	Title       string   `json:"title"`
	SPDXID      string   `json:"spdx_id"`
	Permissions []string `json:"permissions"`
	Conditions  []string `json:"conditions"`
	Limitations []string `json:"limitations"`
	Body        string   `json:"body,omitempty"`
}

// Snapshot is the JSON document stored on disk.
type Snapshot struct {
	Version   int                `json:"version"`
	Timestamp int64              `json:"timestamp"`
	Data      map[string]License `json:"data"`
}

// Status describes the snapshot file for the cache inspection commands.
type Status struct {
	Exists       bool
	Path         string
	SizeBytes    int64
	IsFresh      bool
	Age          time.Duration
	LicenseCount int
}

// Store reads and writes the snapshot file at a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore returns a store for the snapshot at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// WithClock replaces the time source. Tests use it to age snapshots.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Path returns the snapshot location.
func (s *Store) Path() string { return s.path }

// DefaultPath returns the snapshot path for a project directory. Without
// a project it is $XDG_CACHE_HOME/feluda, falling back to ~/.cache/feluda.
func DefaultPath(projectDir string) (string, error) {
	if projectDir != "" {
		return filepath.Join(projectDir, ".feluda", "cache", FileName), nil
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "feluda", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", "feluda", FileName), nil
}

// Load returns the cached licenses when the snapshot exists, parses, has
// the current version and is fresh. Any other state is a miss.
func (s *Store) Load() (map[string]License, bool) {
	snap, ok := s.read()
	if !ok || !s.fresh(snap) {
		return nil, false
	}
	return snap.Data, true
}

// LoadStale returns the cached licenses regardless of age. It is the
// fallback when a refresh fails.
func (s *Store) LoadStale() (map[string]License, bool) {
	snap, ok := s.read()
	if !ok {
		return nil, false
	}
	return snap.Data, true
}

// Save writes licenses with the current timestamp. The write is atomic.
func (s *Store) Save(data map[string]License) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Version: SnapshotVersion, Timestamp: s.now().Unix(), Data: data}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal license snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := cache.WriteFileAtomic(s.path, body, 0o644); err != nil {
		return fmt.Errorf("write license snapshot: %w", err)
	}
	return nil
}

// Status inspects the snapshot file.
func (s *Store) Status() Status {
	st := Status{Path: s.path}
	info, err := os.Stat(s.path)
	if err != nil {
		return st
	}
	st.Exists = true
	st.SizeBytes = info.Size()
	if snap, ok := s.read(); ok {
		st.Age = s.now().Sub(time.Unix(snap.Timestamp, 0))
		st.IsFresh = s.fresh(snap)
		st.LicenseCount = len(snap.Data)
	}
	return st
}

// Clear removes the snapshot. A missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove license snapshot: %w", err)
	}
	return nil
}

func (s *Store) read() (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}
	var snap Snapshot
	if json.Unmarshal(data, &snap) != nil || snap.Version != SnapshotVersion || snap.Data == nil {
		return nil, false
	}
	return &snap, true
}

func (s *Store) fresh(snap *Snapshot) bool {
	return s.now().Sub(time.Unix(snap.Timestamp, 0)) < MaxAge
}
