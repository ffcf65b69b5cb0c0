// Package cache provides byte-oriented cache backends for registry responses
// and resolved license lookups.
//
// Three backends implement [Cache]:
//   - [FileCache] stores entries as JSON files under a directory (CLI default)
//   - [RedisCache] shares entries between machines, e.g. CI runners
//   - [NullCache] never stores anything (--no-cache)
//
// Keys are built with a [Keyer] so that every producer uses the same layout.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL-aware key/value store for serialized values.
//
// Get reports a miss as (nil, false, nil). Expired and corrupt entries are
// misses, not errors.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey returns the key for a raw registry response.
	HTTPKey(namespace, key string) string
	// LicenseKey returns the key for a resolved dependency license.
	LicenseKey(ecosystem, name, version string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LicenseKey hashes the dependency identity so registry names with path
// separators or scopes produce safe keys.
func (DefaultKeyer) LicenseKey(ecosystem, name, version string) string {
	return hashKey("license", ecosystem, name, version)
}

// ScopedKeyer prefixes every key of an inner keyer. It keeps authenticated
// lookups (private repositories) apart from anonymous ones.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) LicenseKey(ecosystem, name, version string) string {
	return k.prefix + k.inner.LicenseKey(ecosystem, name, version)
}
