package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. `feluda scan --no-cache` uses it so every
// registry and GitHub lookup goes to the network, and it stands in for a
// nil backend in integrations.NewClient.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
