// Package observability provides hooks for metrics and tracing.
//
// Components receive a [Hooks] bundle explicitly (usually through the scan
// context) and call it at interesting points. The zero value of every field
// is replaced by a no-op implementation by [Hooks.WithDefaults], so callers
// never nil-check.
//
//	hooks := observability.Hooks{HTTP: observability.NewPrometheus(reg)}.WithDefaults()
//	hooks.Scan.OnParseStart(ctx, "node", "package.json")
//
// A Prometheus-backed implementation lives in prometheus.go.
package observability

import (
	"context"
	"time"
)

// ScanHooks receives events from the scan pipeline.
type ScanHooks interface {
	// Parse events, once per manifest file.
	OnParseStart(ctx context.Context, ecosystem, manifest string)
	OnParseComplete(ctx context.Context, ecosystem, manifest string, depCount int, duration time.Duration, err error)

	// OnResolveComplete fires after transitive expansion of one ecosystem.
	OnResolveComplete(ctx context.Context, ecosystem string, depCount int, duration time.Duration)

	// OnLicenseResolved fires per dependency; source is where the license came from.
	OnLicenseResolved(ctx context.Context, ecosystem, source string, duration time.Duration)

	// OnScanComplete fires once with the final counts.
	OnScanComplete(ctx context.Context, total, restrictive, incompatible int, duration time.Duration)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// Hooks bundles all hook categories.
type Hooks struct {
	Scan  ScanHooks
	Cache CacheHooks
	HTTP  HTTPHooks
}

// WithDefaults returns a copy with nil hooks replaced by no-ops.
func (h Hooks) WithDefaults() Hooks {
	if h.Scan == nil {
		h.Scan = NoopScanHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.HTTP == nil {
		h.HTTP = NoopHTTPHooks{}
	}
	return h
}

// Noop returns a bundle of no-op hooks.
func Noop() Hooks { return Hooks{}.WithDefaults() }

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnParseStart(context.Context, string, string) {}
func (NoopScanHooks) OnParseComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopScanHooks) OnResolveComplete(context.Context, string, int, time.Duration)    {}
func (NoopScanHooks) OnLicenseResolved(context.Context, string, string, time.Duration) {}
func (NoopScanHooks) OnScanComplete(context.Context, int, int, int, time.Duration)     {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}
