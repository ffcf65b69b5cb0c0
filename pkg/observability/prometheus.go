package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface with Prometheus collectors.
// Collectors are registered on the registry passed to [NewPrometheus], never
// on the global default registry.
type Prometheus struct {
	parseTotal     *prometheus.CounterVec
	parseErrors    *prometheus.CounterVec
	parseDuration  *prometheus.HistogramVec
	resolveDeps    *prometheus.GaugeVec
	licenseSources *prometheus.CounterVec
	licenseLatency *prometheus.HistogramVec
	scanDeps       *prometheus.GaugeVec
	cacheEvents    *prometheus.CounterVec
	cacheBytes     prometheus.Counter
	httpRequests   *prometheus.CounterVec
	httpErrors     *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		parseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feluda_manifest_parse_total",
			Help: "Number of manifest files parsed by ecosystem.",
		}, []string{"ecosystem"}),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feluda_manifest_parse_errors_total",
			Help: "Number of manifest files that failed to parse.",
		}, []string{"ecosystem"}),
		parseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feluda_manifest_parse_duration_seconds",
			Help:    "Time taken to parse a manifest file.",
			Buckets: prometheus.DefBuckets,
		}, []string{"ecosystem"}),
		resolveDeps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "feluda_resolved_dependencies",
			Help: "Dependencies after transitive expansion by ecosystem.",
		}, []string{"ecosystem"}),
		licenseSources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feluda_license_lookups_total",
			Help: "License lookups by ecosystem and source.",
		}, []string{"ecosystem", "source"}),
		licenseLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feluda_license_lookup_duration_seconds",
			Help:    "Time taken to resolve one dependency license.",
			Buckets: prometheus.DefBuckets,
		}, []string{"ecosystem"}),
		scanDeps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "feluda_scan_dependencies",
			Help: "Dependencies in the last scan by classification.",
		}, []string{"class"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feluda_cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feluda_cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feluda_http_requests_total",
			Help: "Registry requests by host and status code.",
		}, []string{"host", "code"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feluda_http_errors_total",
			Help: "Registry requests that failed before a response.",
		}, []string{"host"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feluda_http_request_duration_seconds",
			Help:    "Registry request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
	}

	reg.MustRegister(
		p.parseTotal, p.parseErrors, p.parseDuration,
		p.resolveDeps, p.licenseSources, p.licenseLatency, p.scanDeps,
		p.cacheEvents, p.cacheBytes,
		p.httpRequests, p.httpErrors, p.httpDuration,
	)
	return p
}

// Hooks returns a bundle that routes every category to p.
func (p *Prometheus) Hooks() Hooks {
	return Hooks{Scan: p, Cache: p, HTTP: p}
}

func (p *Prometheus) OnParseStart(context.Context, string, string) {}

func (p *Prometheus) OnParseComplete(_ context.Context, ecosystem, _ string, _ int, d time.Duration, err error) {
	p.parseTotal.WithLabelValues(ecosystem).Inc()
	p.parseDuration.WithLabelValues(ecosystem).Observe(d.Seconds())
	if err != nil {
		p.parseErrors.WithLabelValues(ecosystem).Inc()
	}
}

func (p *Prometheus) OnResolveComplete(_ context.Context, ecosystem string, n int, _ time.Duration) {
	p.resolveDeps.WithLabelValues(ecosystem).Set(float64(n))
}

func (p *Prometheus) OnLicenseResolved(_ context.Context, ecosystem, source string, d time.Duration) {
	p.licenseSources.WithLabelValues(ecosystem, source).Inc()
	p.licenseLatency.WithLabelValues(ecosystem).Observe(d.Seconds())
}

func (p *Prometheus) OnScanComplete(_ context.Context, total, restrictive, incompatible int, _ time.Duration) {
	p.scanDeps.WithLabelValues("total").Set(float64(total))
	p.scanDeps.WithLabelValues("restrictive").Set(float64(restrictive))
	p.scanDeps.WithLabelValues("incompatible").Set(float64(incompatible))
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	p.httpRequests.WithLabelValues(host, codeLabel(code)).Inc()
	p.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, _, host, _ string, _ error) {
	p.httpErrors.WithLabelValues(host).Inc()
}

func codeLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code == 429:
		return "429"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

var (
	_ ScanHooks  = (*Prometheus)(nil)
	_ CacheHooks = (*Prometheus)(nil)
	_ HTTPHooks  = (*Prometheus)(nil)
)
