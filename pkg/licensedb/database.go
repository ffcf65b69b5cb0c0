package licensedb

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/feluda/pkg/integrations/github"
	"github.com/matzehuels/feluda/pkg/licenses"
)

// fetchWorkers bounds concurrent /licenses/{key} requests.
const fetchWorkers = 4

// Source is the remote catalogue. *github.Client implements it.
type Source interface {
	Licenses(ctx context.Context, refresh bool) ([]github.LicenseSummary, error)
	License(ctx context.Context, key string, refresh bool) (*github.License, error)
}

// Database is an in-memory, read-only view of the license catalogue,
// indexed by normalized SPDX identifier.
type Database struct {
	byKey  map[string]License
	bySPDX map[string]License
}

// New indexes data, which maps GitHub license keys to entries.
func New(data map[string]License) *Database {
	db := &Database{byKey: data, bySPDX: make(map[string]License, len(data))}
	for _, l := range data {
		if id := licenses.Normalize(l.SPDXID); id != "" {
			db.bySPDX[id] = l
		}
	}
	return db
}

// Len returns the number of licenses in the catalogue.
func (d *Database) Len() int { return len(d.byKey) }

// Lookup returns the entry for a normalized SPDX identifier.
func (d *Database) Lookup(spdx string) (License, bool) {
	l, ok := d.bySPDX[spdx]
	return l, ok
}

// Conditions implements licenses.Catalogue.
func (d *Database) Conditions(spdx string) ([]string, bool) {
	l, ok := d.bySPDX[spdx]
	return l.Conditions, ok
}

// Data returns the catalogue keyed by GitHub license key.
func (d *Database) Data() map[string]License { return d.byKey }

var _ licenses.Catalogue = (*Database)(nil)

// FetchOptions configures Fetch.
type FetchOptions struct {
	// Refresh ignores a fresh snapshot and bypasses the HTTP cache.
	Refresh bool
	Logger  func(string, ...any)
}

// Fetch returns the license catalogue. A fresh snapshot in store is used
// as is. Otherwise the catalogue is downloaded from src and written back
// to store once. When the download fails a stale snapshot is used if one
// exists.
func Fetch(ctx context.Context, store *Store, src Source, opts FetchOptions) (*Database, error) {
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}

	if !opts.Refresh {
		if data, ok := store.Load(); ok {
			logf("license database: %d licenses from %s", len(data), store.Path())
			return New(data), nil
		}
	}

	data, err := download(ctx, src, opts.Refresh, logf)
	if err != nil {
		if stale, ok := store.LoadStale(); ok {
			logf("license database: refresh failed (%v), using stale snapshot", err)
			return New(stale), nil
		}
		return nil, err
	}

	if err := store.Save(data); err != nil {
		logf("license database: %v", err)
	}
	return New(data), nil
}

func download(ctx context.Context, src Source, refresh bool, logf func(string, ...any)) (map[string]License, error) {
	list, err := src.Licenses(ctx, refresh)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}

	var (
		mu   sync.Mutex
		data = make(map[string]License, len(list))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchWorkers)
	for _, s := range list {
		g.Go(func() error {
			l, err := src.License(gctx, s.Key, refresh)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logf("license database: skip %s: %v", s.Key, err)
				return nil
			}
			mu.Lock()
			data[s.Key] = License{
				Title:       l.Title,
				SPDXID:      l.SPDXID,
				Permissions: l.Permissions,
				Conditions:  l.Conditions,
				Limitations: l.Limitations,
				Body:        l.Body,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(data) == 0 && len(list) > 0 {
		return nil, fmt.Errorf("fetch licenses: all %d lookups failed", len(list))
	}
	return data, nil
}
