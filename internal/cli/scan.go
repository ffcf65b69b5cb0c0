package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/feluda/pkg/buildinfo"
	"github.com/matzehuels/feluda/pkg/config"
	"github.com/matzehuels/feluda/pkg/errors"
	"github.com/matzehuels/feluda/pkg/observability"
	"github.com/matzehuels/feluda/pkg/sbom"
	"github.com/matzehuels/feluda/pkg/scan"
	"github.com/matzehuels/feluda/pkg/source/git"
)

// SBOM formats accepted by --sbom.
const (
	sbomSPDX      = "spdx"
	sbomCycloneDX = "cyclonedx"
)

// scanOpts holds the flags of the scan command.
type scanOpts struct {
	repo           string
	ref            string
	language       string
	projectLicense string
	githubToken    string
	format         string
	sbomFormat     string
	sbomFile       string
	noticeFile     string

	strict             bool
	localFirst         bool
	maxDepth           int
	noCache            bool
	refresh            bool
	restrictiveOnly    bool
	incompatibleOnly   bool
	failOnRestrictive  bool
	failOnIncompatible bool
	gui                bool
	metrics            bool
	notice             bool
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a project's dependencies for license issues",
		Long: `Scan discovers manifests under path (default: the current directory), resolves
the license of every dependency and reports restrictive, incompatible and
unknown licenses.

Use --repo to scan a remote git repository instead of a local directory.`,
		Example: `  feluda scan
  feluda scan ./service --language node --format json
  feluda scan --repo owner/project --fail-on-incompatible
  feluda scan --sbom spdx --notice`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			if opts.repo != "" && len(args) == 1 {
				return errors.New(errors.ErrCodeInvalidInput, "pass either a path or --repo, not both")
			}
			if !cmd.Flags().Changed("github-token") {
				opts.githubToken = os.Getenv("GITHUB_TOKEN")
			}
			return c.runScan(cmd, path, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.repo, "repo", "", "scan a remote repository (URL or owner/repo)")
	f.StringVar(&opts.ref, "ref", "", "branch or tag to check out with --repo")
	f.StringVarP(&opts.language, "language", "l", "", "only scan one ecosystem (rust, node, go, python, r, cpp, dotnet)")
	f.StringVar(&opts.projectLicense, "project-license", "", "license of the project itself (detected when empty)")
	f.StringVar(&opts.githubToken, "github-token", "", "GitHub API token (default: $GITHUB_TOKEN)")
	f.StringVarP(&opts.format, "format", "f", formatTable, "report format: "+strings.Join(reportFormats, ", "))
	f.StringVar(&opts.sbomFormat, "sbom", "", "also write an SBOM: spdx or cyclonedx")
	f.StringVar(&opts.sbomFile, "sbom-file", "", "SBOM output path (default: sbom.<format>.json)")
	f.StringVar(&opts.noticeFile, "notice-file", "THIRD_PARTY_NOTICES", "notice output path for --notice")
	f.BoolVar(&opts.strict, "strict", false, "flag dependencies without a license as restrictive and unknown licenses as incompatible")
	f.BoolVar(&opts.localFirst, "local-first", true, "use licenses recorded in lock files before asking registries")
	f.IntVar(&opts.maxDepth, "max-depth", 0, "maximum transitive depth, 0 for direct dependencies only (default from config)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the HTTP response cache")
	f.BoolVar(&opts.refresh, "refresh", false, "refetch cached responses and the license catalogue")
	f.BoolVar(&opts.restrictiveOnly, "restrictive-only", false, "only report restrictive licenses")
	f.BoolVar(&opts.incompatibleOnly, "incompatible-only", false, "only report incompatible licenses")
	f.BoolVar(&opts.failOnRestrictive, "fail-on-restrictive", false, "exit 1 when a restrictive license is found")
	f.BoolVar(&opts.failOnIncompatible, "fail-on-incompatible", false, "exit 1 when an incompatible license is found")
	f.BoolVar(&opts.gui, "gui", false, "browse results interactively")
	f.BoolVar(&opts.metrics, "metrics", false, "print scan metrics after the report")
	f.BoolVar(&opts.notice, "notice", false, "also write a third-party notice file")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(reportFormats, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("sbom", cobra.FixedCompletions([]string{sbomSPDX, sbomCycloneDX}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, path string, opts scanOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)

	if opts.sbomFormat != "" && opts.sbomFormat != sbomSPDX && opts.sbomFormat != sbomCycloneDX {
		return errors.New(errors.ErrCodeInvalidInput, "unknown SBOM format %q (want spdx or cyclonedx)", opts.sbomFormat)
	}

	name := filepath.Base(absOrSelf(path))
	if opts.repo != "" {
		logger.Info("Cloning repository", "repo", opts.repo)
		co, err := git.Clone(ctx, opts.repo, git.Options{Ref: opts.ref, Token: opts.githubToken})
		if err != nil {
			return err
		}
		defer co.Close()
		path = co.Dir
		name = repoName(co.URL)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)

	httpCache, err := newCache(ctx, opts.noCache, cfg.Cache.RedisURL)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer httpCache.Close()

	var reg *prometheus.Registry
	var hooks observability.Hooks
	if opts.metrics {
		reg, hooks = newMetrics()
	}

	interactive := opts.format == formatTable && !opts.gui
	var spin *Spinner
	if interactive {
		spin = newSpinnerWithContext(ctx, "Scanning "+name)
		hooks.Scan = &progressHooks{ScanHooks: hooks.WithDefaults().Scan, spin: spin}
		spin.Start()
	}

	sc := &scan.Context{
		Root:        path,
		Config:      cfg,
		GitHubToken: opts.githubToken,
		Cache:       httpCache,
		CacheTTL:    cfg.Cache.TTL,
		Logger:      logger,
		Hooks:       hooks,
	}
	prog := newProgress(logger)
	res, err := scan.Run(ctx, sc, scan.Options{
		Languages:      languages,
		Language:       opts.language,
		ProjectLicense: opts.projectLicense,
		LocalFirst:     opts.localFirst,
		Refresh:        opts.refresh,
	})
	if err != nil {
		if spin != nil {
			spin.StopWithError("Scan of " + name + " failed")
		}
		return err
	}
	if spin != nil {
		spin.Stop()
	}
	prog.done(fmt.Sprintf("Scanned %d dependencies", res.Summary.Total))

	records := filterRecords(res.Records, opts.restrictiveOnly, opts.incompatibleOnly)
	if opts.gui {
		if _, err := tea.NewProgram(NewResultsModel(res, records), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("results browser: %w", err)
		}
	} else if err := writeReport(os.Stdout, res, records, opts.format); err != nil {
		return err
	}

	if opts.sbomFormat != "" || opts.notice {
		announce := io.Discard
		if interactive {
			announce = os.Stderr
		}
		if err := writeArtifacts(res, name, opts, announce); err != nil {
			return err
		}
	}

	if reg != nil {
		if err := writeMetrics(os.Stderr, reg); err != nil {
			return err
		}
	}

	return policyError(res.Summary, opts)
}

// applyFlags overrides config values with flags the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts scanOpts) {
	if cmd.Flags().Changed("strict") {
		cfg.Strict = opts.strict
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.Dependencies.MaxDepth = opts.maxDepth
	}
}

// policyError turns the --fail-on-* flags into an exit code.
func policyError(s scan.Summary, opts scanOpts) error {
	var reasons []string
	if opts.failOnRestrictive && s.Restrictive > 0 {
		reasons = append(reasons, fmt.Sprintf("%d restrictive", s.Restrictive))
	}
	if opts.failOnIncompatible && s.Incompatible > 0 {
		reasons = append(reasons, fmt.Sprintf("%d incompatible", s.Incompatible))
	}
	if len(reasons) == 0 {
		return nil
	}
	return &ExitError{Code: 1, Reason: "found " + strings.Join(reasons, " and ") + " licenses"}
}

// writeArtifacts writes the SBOM and notice files requested by flags.
// Written paths are listed on announce.
func writeArtifacts(res *scan.Result, name string, opts scanOpts, announce io.Writer) error {
	doc := sbom.Build(res, sbom.Meta{Name: name, ToolName: appName, ToolVersion: buildinfo.Version})

	var written []string
	if opts.sbomFormat != "" {
		var v any = sbom.ToSPDX(doc)
		if opts.sbomFormat == sbomCycloneDX {
			v = sbom.ToCycloneDX(doc)
		}
		path := opts.sbomFile
		if path == "" {
			path = sbomFileName(opts.sbomFormat)
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode sbom: %w", err)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write sbom: %w", err)
		}
		written = append(written, path)
	}
	if opts.notice {
		if err := os.WriteFile(opts.noticeFile, []byte(sbom.Notice(doc)), 0o644); err != nil {
			return fmt.Errorf("write notice: %w", err)
		}
		written = append(written, opts.noticeFile)
	}

	printSuccess(announce, "Wrote %d file(s)", len(written))
	for _, p := range written {
		printFile(announce, p)
	}
	return nil
}

func sbomFileName(format string) string {
	if format == sbomCycloneDX {
		return "sbom.cdx.json"
	}
	return "sbom.spdx.json"
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// repoName is the last path element of a clone URL without ".git".
func repoName(url string) string {
	url = strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// progressHooks reports scan progress on the spinner and forwards every
// event to the wrapped hooks.
type progressHooks struct {
	observability.ScanHooks
	spin     *Spinner
	manifest atomic.Int64
	resolved atomic.Int64
}

func (h *progressHooks) OnParseComplete(ctx context.Context, ecosystem, manifest string, depCount int, d time.Duration, err error) {
	n := h.manifest.Add(1)
	h.spin.Update(fmt.Sprintf("Parsed %d manifest(s)", n))
	h.ScanHooks.OnParseComplete(ctx, ecosystem, manifest, depCount, d, err)
}

func (h *progressHooks) OnLicenseResolved(ctx context.Context, ecosystem, source string, d time.Duration) {
	n := h.resolved.Add(1)
	h.spin.Update(fmt.Sprintf("Resolved %d license(s)", n))
	h.ScanHooks.OnLicenseResolved(ctx, ecosystem, source, d)
}
