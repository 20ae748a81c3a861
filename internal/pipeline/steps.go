package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/a11yscan/internal/audit"
	"github.com/nao1215/a11yscan/internal/model"
)

// ErrNoPage is returned by steps that need a loaded page when none is
// present on the report.
var ErrNoPage = errors.New("no page loaded")

// PageFetcher loads the page behind a target.
// *fetcher.Fetcher implements it; tests substitute fixtures.
type PageFetcher interface {
	Fetch(ctx context.Context, target string) (*model.Page, error)
}

// FetchStep loads and parses the target page.
type FetchStep struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a new fetch step.
func NewFetchStep(fetcher PageFetcher, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, report *model.AuditReport) error {
	page, err := s.fetcher.Fetch(ctx, report.Target)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", report.Target, err)
	}

	report.Page = page
	if page.Truncated {
		s.logger.Warn("page body truncated at the size limit; findings cover the start of the document only",
			"url", page.URL,
			"bytes", len(page.Raw),
		)
	}
	s.logger.Info("page loaded",
		"url", page.URL,
		"status", page.StatusCode,
		"elements", page.ElementCount,
	)
	return nil
}

// AuditStep runs the accessibility checks against the loaded page.
type AuditStep struct {
	auditor *audit.Auditor
	logger  *slog.Logger
}

// AuditStepOption configures an AuditStep.
type AuditStepOption func(*AuditStep)

// WithAuditLogger sets a custom logger for the audit step.
func WithAuditLogger(logger *slog.Logger) AuditStepOption {
	return func(s *AuditStep) {
		s.logger = logger
	}
}

// NewAuditStep creates a new audit step.
func NewAuditStep(auditor *audit.Auditor, opts ...AuditStepOption) *AuditStep {
	s := &AuditStep{
		auditor: auditor,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *AuditStep) Name() string {
	return "audit"
}

// Do executes the audit step. Findings collected before a cancellation are
// kept on the report.
func (s *AuditStep) Do(ctx context.Context, report *model.AuditReport) error {
	if report.Page == nil {
		return ErrNoPage
	}
	report.Level = s.auditor.Level().String()

	result, err := s.auditor.Audit(ctx, report.Page)
	if result != nil {
		for _, f := range result.Findings {
			report.AddFinding(f)
		}
		report.ChecksRun = append(report.ChecksRun, result.ChecksRun...)
		report.ContrastEvaluated += result.Stats.ContrastEvaluated
		report.ContrastSkipped += result.Stats.ContrastSkipped
	}
	if err != nil {
		return fmt.Errorf("audit of %s interrupted: %w", report.URL(), err)
	}

	s.logger.Info("audit completed",
		"url", report.URL(),
		"findings", len(report.Findings),
		"contrast_evaluated", report.ContrastEvaluated,
		"contrast_skipped", report.ContrastSkipped,
	)
	return nil
}

// SummaryStep builds the summarized view of the report.
type SummaryStep struct{}

// NewSummaryStep creates a new summary step.
func NewSummaryStep() *SummaryStep {
	return &SummaryStep{}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summary"
}

// Do executes the summary step.
func (s *SummaryStep) Do(_ context.Context, report *model.AuditReport) error {
	report.SimpleReport = model.NewSimpleReport(report)
	return nil
}

// DefaultPipeline creates a pipeline with the fetch, audit and summary
// steps.
func DefaultPipeline(fetcher PageFetcher, auditor *audit.Auditor, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewFetchStep(fetcher, WithFetchLogger(p.logger)),
		NewAuditStep(auditor, WithAuditLogger(p.logger)),
		NewSummaryStep(),
	)
	return p
}
