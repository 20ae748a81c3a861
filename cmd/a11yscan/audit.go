package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/a11yscan/internal/audit"
	"github.com/nao1215/a11yscan/internal/config"
	"github.com/nao1215/a11yscan/internal/contrast"
	"github.com/nao1215/a11yscan/internal/fetcher"
	applog "github.com/nao1215/a11yscan/internal/log"
	"github.com/nao1215/a11yscan/internal/model"
	"github.com/nao1215/a11yscan/internal/pipeline"
	"github.com/nao1215/a11yscan/internal/report"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <url-or-file>...",
		Short: "Audit web pages for accessibility issues",
		Long: `Audit fetches each target once and runs the accessibility checks against
the delivered HTML:

- Images, image buttons and image map areas without alt text
- Form controls without a label or an ARIA name
- Empty links, empty buttons, empty table headers, untitled iframes
- Empty role and lang attributes, aria-hidden="false"
- Text below the WCAG contrast minimum (inline and embedded styles)

Targets are URLs or paths to local HTML files. A target without a scheme
is read from disk when the file exists and fetched over https otherwise.
Several targets are audited independently and concurrently.

Examples:
  # Audit a page
  a11yscan audit https://example.com/

  # Audit a local build against the enhanced contrast level
  a11yscan audit --level AAA public/index.html

  # Markdown report for a pull request comment
  a11yscan audit -f markdown -o report.md https://staging.example.com/

  # Fail a CI job on high or critical findings
  a11yscan audit --fail-on high https://example.com/

  # Write a copy of the page with the flagged elements outlined
  a11yscan audit --annotate annotated.html https://example.com/

Configuration file (.a11yscan.yaml) example:
  defaults:
    level: AA
  sites:
    staging.example.com:
      cookie: "session_id=abc123"
      disabledChecks:
        - tabindex`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAuditCmd,
	}

	// Fetch flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with requests")
	cmd.Flags().StringP("proxy", "x", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:9050)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum number of response bytes read per page (at most 32MB)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of targets audited concurrently")

	// Check flags
	cmd.Flags().StringP("level", "l", config.DefaultLevel,
		"WCAG level for contrast (AA or AAA)")
	cmd.Flags().Float64("contrast-threshold", 0,
		"Minimum contrast ratio for normal text (overrides --level)")
	cmd.Flags().Float64("large-contrast-threshold", 0,
		"Minimum contrast ratio for large text (overrides --level)")
	cmd.Flags().String("canvas", "",
		"Color assumed behind the page when nothing sets a background (default white)")
	cmd.Flags().StringSliceP("disable", "d", nil,
		"Checks to skip (see 'a11yscan checks')")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .a11yscan.yaml in current, config or home directory)")

	// Report flags
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format ("+strings.Join(config.Formats, ", ")+")")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().StringP("annotate", "a", "",
		"Write the page with flagged elements outlined to this HTML file")
	cmd.Flags().String("fail-on", "",
		"Exit with status 2 when a finding has at least this severity (info, low, medium, high, critical)")

	return cmd
}

// auditOptions carries the validated configuration and which settings the
// user set on the command line. Explicit flags win over the config file.
type auditOptions struct {
	cfg           *config.Config
	explicitUA    bool
	explicitLevel bool
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	opts, err := buildAuditOptions(cmd, args)
	if err != nil {
		return err
	}

	logger := applog.NewSecureLogger(cmd.ErrOrStderr(), opts.cfg.Verbose)
	if opts.cfg.LogJSON {
		logger = applog.NewSecureJSONLogger(cmd.ErrOrStderr(), opts.cfg.Verbose)
	}

	// Stop fetching on interrupt; reports collected so far are still written.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAudit(ctx, opts, cmd.OutOrStdout(), logger)
}

// getPersistentBool retrieves a global flag from the command or its parent.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// buildAuditOptions creates a validated Config from cobra command flags and
// the configuration file.
func buildAuditOptions(cmd *cobra.Command, args []string) (*auditOptions, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.Level, err = flags.GetString("level"); err != nil {
		return nil, err
	}
	if cfg.ContrastThreshold, err = flags.GetFloat64("contrast-threshold"); err != nil {
		return nil, err
	}
	if cfg.LargeContrastThreshold, err = flags.GetFloat64("large-contrast-threshold"); err != nil {
		return nil, err
	}
	if cfg.Canvas, err = flags.GetString("canvas"); err != nil {
		return nil, err
	}
	if cfg.DisabledChecks, err = flags.GetStringSlice("disable"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.OutputFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.AnnotateFile, err = flags.GetString("annotate"); err != nil {
		return nil, err
	}
	if cfg.FailOn, err = flags.GetString("fail-on"); err != nil {
		return nil, err
	}
	cfg.Verbose = getPersistentBool(cmd, "verbose")
	cfg.LogJSON = getPersistentBool(cmd, "log-json")
	cfg.Targets = args

	// An explicit --config must exist; a missing default file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := validateChecksAndLevels(cfg); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return &auditOptions{
		cfg:           cfg,
		explicitUA:    flags.Changed("user-agent"),
		explicitLevel: flags.Changed("level"),
	}, nil
}

// validateChecksAndLevels checks the check names and levels of the flags
// and of every site in the configuration file.
func validateChecksAndLevels(cfg *config.Config) error {
	if err := audit.ValidateCheckNames(cfg.DisabledChecks); err != nil {
		return err
	}

	sites := []config.SiteConfig{cfg.SiteConfigs.Defaults}
	for _, site := range cfg.SiteConfigs.Sites {
		sites = append(sites, site)
	}
	for _, site := range sites {
		if err := audit.ValidateCheckNames(site.DisabledChecks); err != nil {
			return err
		}
		if _, err := contrast.ParseLevel(site.Level); err != nil {
			return fmt.Errorf("%w: %q", config.ErrInvalidLevel, site.Level)
		}
	}
	return nil
}

// runAudit audits every target and writes the reports.
func runAudit(ctx context.Context, opts *auditOptions, stdout io.Writer, logger *slog.Logger) error {
	cfg := opts.cfg
	logger.Info("starting audit",
		"targets", cfg.Targets,
		"level", cfg.Level,
		"batchSize", cfg.BatchSize,
	)

	client, err := fetcher.NewHTTPClient(cfg.Timeout, cfg.ProxyAddress)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	bp := pipeline.NewBatchProcessor(
		newPipelineFactory(opts, client, logger),
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	reports, batchErr := bp.ProcessBatch(ctx, cfg.Targets)

	if err := writeReports(cfg, reports, stdout); err != nil {
		return err
	}
	if cfg.AnnotateFile != "" {
		writeAnnotated(cfg.AnnotateFile, reports, logger)
	}

	if batchErr != nil {
		return fmt.Errorf("audit interrupted: %w", batchErr)
	}
	return checkResults(cfg, reports)
}

// newPipelineFactory returns a factory that applies the site configuration
// of each target to its fetcher and auditor.
func newPipelineFactory(opts *auditOptions, client *http.Client, logger *slog.Logger) pipeline.PipelineFactory {
	cfg := opts.cfg
	return func(target string) *pipeline.Pipeline {
		site := cfg.SiteConfigs.ForTarget(target)
		targetLogger := logger.With("target", target)

		userAgent := cfg.UserAgent
		if site.UserAgent != "" && !opts.explicitUA {
			userAgent = site.UserAgent
		}
		level := cfg.ContrastLevel()
		if site.Level != "" && !opts.explicitLevel {
			// Levels were validated when the configuration was built.
			level, _ = contrast.ParseLevel(site.Level) //nolint:errcheck // validated
		}

		f := fetcher.NewFetcher(
			fetcher.WithHTTPClient(client),
			fetcher.WithUserAgent(userAgent),
			fetcher.WithMaxBodySize(cfg.MaxBodySize),
			fetcher.WithHeaders(site.Headers),
			fetcher.WithCookie(site.Cookie),
		)
		auditOpts := []audit.Option{
			audit.WithLogger(targetLogger),
			audit.WithDisabledChecks(slices.Concat(cfg.DisabledChecks, site.DisabledChecks)...),
			audit.WithContrastOptions(audit.ContrastOptions{
				Level:  level,
				Normal: cfg.ContrastThreshold,
				Large:  cfg.LargeContrastThreshold,
			}),
		}
		if cfg.Canvas != "" {
			auditOpts = append(auditOpts, audit.WithCanvas(cfg.Canvas))
		}
		auditor := audit.NewAuditor(auditOpts...)
		return pipeline.DefaultPipeline(f, auditor, pipeline.WithLogger(targetLogger))
	}
}

// newReportWriter returns the writer for format.
func newReportWriter(format string, output io.Writer, verbose bool) report.Writer {
	switch format {
	case config.FormatJSON:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(output)
	case config.FormatLog:
		return report.NewLogWriter(output)
	case config.FormatLogJSON:
		return report.NewLogWriter(output, report.WithJSONRecords(true))
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(verbose))
	}
}

// writeReports writes the reports to the output file or stdout.
func writeReports(cfg *config.Config, reports []*model.AuditReport, stdout io.Writer) error {
	output := stdout
	if cfg.OutputFile != "" {
		f, err := createFile(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	w := newReportWriter(cfg.Format, output, cfg.Verbose)
	var err error
	if len(reports) == 1 {
		_, err = w.Write(reports[0])
	} else {
		_, err = w.WriteBatch(reports)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// writeAnnotated writes one annotated page per loaded report. Failures are
// logged because the main report has already been written.
func writeAnnotated(path string, reports []*model.AuditReport, logger *slog.Logger) {
	for i, r := range reports {
		if r.Page == nil || r.Page.Document == nil {
			logger.Warn("no page to annotate", "target", r.Target)
			continue
		}

		out := annotatePath(path, i, len(reports))
		f, err := createFile(out)
		if err != nil {
			logger.Error("failed to create annotated file", "path", out, "error", err)
			continue
		}
		if _, err := report.NewAnnotatedWriter(f).Write(r); err != nil {
			logger.Error("failed to write annotated page", "path", out, "error", err)
		}
		if err := f.Close(); err != nil {
			logger.Error("failed to close annotated file", "path", out, "error", err)
		}
	}
}

// annotatePath returns path for a single target and path with the 1-based
// target index before the extension otherwise ("page-2.html").
func annotatePath(path string, index, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), index+1, ext)
}

// createFile creates or truncates path, creating parent directories.
// Reports can quote page content behind a login, so only the owner can
// read them.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
}

// checkResults turns failed targets and findings at the --fail-on severity
// into an error.
func checkResults(cfg *config.Config, reports []*model.AuditReport) error {
	var failed []string
	for _, r := range reports {
		if r.Error != nil {
			failed = append(failed, r.Target)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w for %d of %d targets: %s",
			ErrTargetsFailed, len(failed), len(reports), strings.Join(failed, ", "))
	}

	if cfg.FailOn == "" {
		return nil
	}
	threshold, _ := model.ParseSeverity(cfg.FailOn) // validated by Config.Validate
	for _, r := range reports {
		if r.Summary().HasFindingsAtOrAbove(threshold) {
			return fmt.Errorf("%w (%s) in %s", ErrFindingsAtThreshold, threshold, r.URL())
		}
	}
	return nil
}
