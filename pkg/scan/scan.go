package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/errors"
	"github.com/matzehuels/feluda/pkg/licensedb"
	"github.com/matzehuels/feluda/pkg/licenses"
)

// Options are the per-run choices of a scan.
type Options struct {
	// Languages are the ecosystems to look for. Language, when set,
	// restricts the scan to the one it names.
	Languages []*deps.Language
	Language  string

	// ProjectLicense overrides detection of the project's own license.
	ProjectLicense string

	// LocalFirst uses licenses embedded in lock files without asking the
	// registry.
	LocalFirst bool

	// Refresh bypasses the HTTP cache and the license snapshot.
	Refresh bool

	// SkipLicenseDB classifies without the GitHub license catalogue.
	SkipLicenseDB bool
}

// Result is the outcome of a scan.
type Result struct {
	Root           string        `json:"root" yaml:"root"`
	ProjectLicense string        `json:"project_license,omitempty" yaml:"project_license,omitempty"`
	Records        []Record      `json:"dependencies" yaml:"dependencies"`
	Summary        Summary       `json:"summary" yaml:"summary"`
	Warnings       []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Duration       time.Duration `json:"-" yaml:"-"`
}

// Run scans sc.Root: it discovers and parses manifests, expands
// transitive dependencies, resolves and classifies every license, and
// aggregates the records. Problems with a single manifest or dependency
// become warnings; Run fails only on invalid input or cancellation.
func Run(ctx context.Context, sc *Context, opts Options) (*Result, error) {
	sc.setDefaults()
	start := time.Now()
	cfg := sc.Config
	r := &run{sc: sc, opts: opts}

	for _, w := range cfg.Validate() {
		r.warn("config %s", w)
	}

	langs := opts.Languages
	if opts.Language != "" {
		lang := deps.FindLanguage(opts.Language, opts.Languages)
		if lang == nil {
			return nil, errors.New(errors.ErrCodeInvalidLanguage, "unsupported language %q", opts.Language)
		}
		langs = []*deps.Language{lang}
	}
	if len(langs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no languages to scan")
	}

	root, err := filepath.Abs(sc.Root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", sc.Root)
	}

	// Reference data is only needed at classification time.
	var (
		osi *licenses.OSIResolver
		db  *licensedb.Database
	)
	var bg errgroup.Group
	bg.Go(func() error {
		osi = r.loadOSI(ctx)
		return nil
	})
	if !opts.SkipLicenseDB {
		bg.Go(func() error {
			db = r.loadLicenseDB(ctx)
			return nil
		})
	}

	projects, err := deps.Discover(root, langs, cfg.Scan.Exclude)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "discover manifests")
	}
	sc.Logger.Info("discovered projects", "count", len(projects))

	parsed, err := r.parseAll(ctx, projects)
	if err != nil {
		return nil, err
	}
	all, err := r.expand(ctx, langs, parsed)
	if err != nil {
		return nil, err
	}
	records := Merge(all, cfg)

	projectLicense := r.projectLicense(root)

	_ = bg.Wait()
	if err := r.classify(ctx, langs, records, projectLicense, osi, db); err != nil {
		return nil, err
	}

	records = DropIgnoredLicenses(records, cfg)
	Sort(records)
	summary := Summarize(records)
	elapsed := time.Since(start)
	sc.Hooks.Scan.OnScanComplete(ctx, summary.Total, summary.Restrictive, summary.Incompatible, elapsed)

	return &Result{
		Root:           root,
		ProjectLicense: projectLicense,
		Records:        records,
		Summary:        summary,
		Warnings:       r.warnings,
		Duration:       elapsed,
	}, nil
}

type run struct {
	sc   *Context
	opts Options

	mu       sync.Mutex
	warnings []string
}

func (r *run) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.sc.Logger.Warn(msg)
	r.mu.Lock()
	r.warnings = append(r.warnings, msg)
	r.mu.Unlock()
}

func (r *run) workers() int {
	return max(1, r.sc.Config.Scan.Workers)
}

func (r *run) loadOSI(ctx context.Context) *licenses.OSIResolver {
	ids, err := r.sc.OSI.FetchApproved(ctx)
	if err != nil || len(ids) == 0 {
		r.sc.logf("OSI license list unavailable (%v), using built-in table", err)
		return licenses.FallbackOSIResolver()
	}
	return licenses.NewOSIResolver(ids)
}

func (r *run) loadLicenseDB(ctx context.Context) *licensedb.Database {
	db, err := licensedb.Fetch(ctx, r.sc.LicenseStore(), r.sc.LicenseDB, licensedb.FetchOptions{
		Refresh: r.opts.Refresh,
		Logger:  r.sc.logf,
	})
	if err != nil {
		r.sc.logf("license database unavailable: %v", err)
		return nil
	}
	return db
}

type parsedSet struct {
	deps []deps.Dependency
	lock bool // parsed from lock files, already transitive
}

// parseAll parses every project concurrently. A project whose lock
// files all fail falls back to its direct manifests.
func (r *run) parseAll(ctx context.Context, projects []deps.Project) ([]parsedSet, error) {
	out := make([]parsedSet, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, p := range projects {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			list, lock, ok := r.parseFiles(gctx, p, p.Manifests)
			if !ok && len(p.Fallback) > 0 {
				r.warn("%s: falling back to %s", rel(r.sc.Root, p.Dir), filepath.Base(p.Fallback[0]))
				list, lock, _ = r.parseFiles(gctx, p, p.Fallback)
			}
			out[i] = parsedSet{deps: list, lock: lock}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseFiles reports ok when at least one file parsed.
func (r *run) parseFiles(ctx context.Context, p deps.Project, files []string) (list []deps.Dependency, lock, ok bool) {
	eco := string(p.Language.Name)
	opts := deps.Options{MaxDepth: r.sc.Config.Dependencies.MaxDepth, Logger: r.sc.logf}
	for _, file := range files {
		parser, found := p.Language.Manifest(filepath.Base(file))
		if !found {
			continue
		}
		r.sc.Hooks.Scan.OnParseStart(ctx, eco, parser.Type())
		start := time.Now()
		got, err := parser.Parse(file, opts)
		r.sc.Hooks.Scan.OnParseComplete(ctx, eco, parser.Type(), len(got), time.Since(start), err)
		if err != nil {
			r.warn("%s: %v", rel(r.sc.Root, file), errors.Wrap(errors.ErrCodeParse, err, "parse %s", parser.Type()))
			continue
		}
		ok = true
		lock = lock || parser.IncludesTransitive()
		list = append(list, got...)
	}
	return list, lock, ok
}

// expand resolves transitive dependencies of everything not parsed from
// a lock file.
func (r *run) expand(ctx context.Context, langs []*deps.Language, parsed []parsedSet) ([]deps.Dependency, error) {
	var all, direct []deps.Dependency
	for _, p := range parsed {
		all = append(all, p.deps...)
		if !p.lock {
			direct = append(direct, p.deps...)
		}
	}
	if len(direct) == 0 {
		return all, nil
	}

	fetchers := make(map[deps.Ecosystem]deps.Fetcher)
	for _, l := range langs {
		if l.NewFetcher != nil && !l.NoTransitive {
			fetchers[l.Name] = l.NewFetcher(r.sc.Env())
		}
	}
	resolver := deps.NewResolver(fetchers, deps.Options{
		MaxDepth: r.sc.Config.Dependencies.MaxDepth,
		Workers:  r.workers(),
		CacheTTL: r.sc.CacheTTL,
		Refresh:  r.opts.Refresh,
		Logger:   r.sc.logf,
	})

	start := time.Now()
	expanded, err := resolver.Expand(ctx, direct)
	if err != nil {
		return nil, err
	}
	counts := make(map[deps.Ecosystem]int)
	for _, d := range expanded {
		counts[d.Ecosystem]++
		if d.Unresolved {
			r.warn("%s %s@%s: transitive dependencies unresolved", d.Ecosystem, d.Name, d.Version)
		}
	}
	for eco, n := range counts {
		r.sc.Hooks.Scan.OnResolveComplete(ctx, string(eco), n, time.Since(start))
	}
	return append(all, expanded...), nil
}

func (r *run) projectLicense(root string) string {
	raw := r.opts.ProjectLicense
	if raw == "" {
		detected, err := licenses.DetectProjectLicense(root)
		if err != nil {
			r.sc.logf("project license detection: %v", err)
		}
		raw = detected
	}
	id := licenses.Normalize(raw)
	if id == "" {
		return ""
	}
	if !r.sc.Config.Matrix().Has(id) {
		r.warn("project license %s is not in the compatibility matrix; compatibility is not evaluated", id)
	}
	return id
}

// classify resolves and classifies the license of every record in place.
func (r *run) classify(ctx context.Context, langs []*deps.Language, records []Record, projectLicense string, osi *licenses.OSIResolver, db *licensedb.Database) error {
	cfg := r.sc.Config
	matrix := cfg.Matrix()
	var cat licenses.Catalogue
	if db != nil {
		cat = db
	}

	fetchers := make(map[deps.Ecosystem]deps.Fetcher)
	for _, l := range langs {
		if l.NewFetcher != nil {
			fetchers[l.Name] = l.NewFetcher(r.sc.Env())
		}
	}
	lf := NewLicenseFetcher(fetchers, r.sc.Repositories, cfg.Scan.Timeout, r.opts.LocalFirst, r.opts.Refresh, r.warn)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := &records[i]
			start := time.Now()
			raw, src := lf.Resolve(gctx, rec.Dependency())
			rec.License = Classify(raw, src, projectLicense, matrix, cfg.Licenses.Restrictive, cat, cfg.Strict, osi)
			r.sc.Hooks.Scan.OnLicenseResolved(gctx, string(rec.Ecosystem), string(src), time.Since(start))
			return nil
		})
	}
	return g.Wait()
}

// Classify builds the license classification of a raw license string.
func Classify(raw string, src licenses.Source, projectLicense string, m licenses.Matrix, restrictive []string, cat licenses.Catalogue, strict bool, osi *licenses.OSIResolver) licenses.Info {
	info := licenses.Info{Source: src}
	if raw != "" {
		info.Raw = []string{raw}
	}
	info.SPDX = licenses.Normalize(raw)
	if osi != nil {
		info.OSI = osi.Status(info.SPDX)
	}
	subject := info.SPDX
	if subject == "" {
		subject = raw
	}
	info.Restrictive = licenses.Restrictive(subject, restrictive, cat, strict)
	info.Compatibility = licenses.Evaluate(info.SPDX, projectLicense, m, strict)
	return info
}

func rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return r
	}
	return path
}
