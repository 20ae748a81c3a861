package audit

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/nao1215/a11yscan/internal/contrast"
	"github.com/nao1215/a11yscan/internal/model"
	"github.com/nao1215/a11yscan/internal/style"
)

// Check categories.
const (
	CategoryImages    = "images"
	CategoryForms     = "forms"
	CategoryARIA      = "aria"
	CategoryKeyboard  = "keyboard"
	CategoryStructure = "structure"
	CategoryColor     = "color"
)

// Check defines the interface for individual accessibility checks.
// Each check focuses on one kind of problem.
type Check interface {
	// Name returns the check's name used in configuration and logs.
	Name() string

	// Category returns the check's category (e.g., "images", "forms").
	Category() string

	// Description returns a one-line summary of what the check looks for.
	Description() string

	// Check runs the check against the target and returns its findings.
	Check(ctx context.Context, target *Target) ([]model.Finding, error)
}

// FindingReporter is implemented by checks that can list the finding
// types they produce. The built-in checks all implement it.
type FindingReporter interface {
	FindingTypes() []string
}

// Target contains everything a check may inspect.
type Target struct {
	// Page is the loaded document.
	Page *model.Page

	// Styles resolves computed colors and fonts for elements of Page.
	Styles *style.Resolver

	// Stats collects counters checks want reported.
	Stats *Stats
}

// Stats holds counters reported alongside findings.
type Stats struct {
	// ContrastEvaluated counts elements whose contrast was measured.
	ContrastEvaluated int

	// ContrastSkipped counts elements whose contrast could not be measured.
	ContrastSkipped int
}

// Result is the outcome of auditing one page.
type Result struct {
	// Findings holds the unique findings in check order.
	Findings []model.Finding

	// ChecksRun lists the checks that ran to completion.
	ChecksRun []string

	// Stats holds the counters collected by the checks.
	Stats Stats
}

// Auditor coordinates accessibility checks.
//
// The style cascade is computed once per page and shared by every check.
// Findings on the same element are deduplicated.
type Auditor struct {
	checks   []Check
	disabled map[string]bool
	logger   *slog.Logger
	contrast ContrastOptions
	canvas   string
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// WithDisabledChecks turns off the named checks.
func WithDisabledChecks(names ...string) Option {
	return func(a *Auditor) {
		for _, n := range names {
			a.disabled[strings.TrimSpace(n)] = true
		}
	}
}

// WithContrastOptions sets the contrast level and threshold overrides.
func WithContrastOptions(opts ContrastOptions) Option {
	return func(a *Auditor) {
		a.contrast = opts
	}
}

// WithCanvas sets the color assumed behind the page.
func WithCanvas(color string) Option {
	return func(a *Auditor) {
		a.canvas = color
	}
}

// NewAuditor creates an Auditor with every built-in check registered.
func NewAuditor(opts ...Option) *Auditor {
	a := &Auditor{
		disabled: make(map[string]bool),
		logger:   slog.Default(),
		contrast: ContrastOptions{Level: contrast.LevelAA},
		canvas:   style.DefaultCanvas,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.contrast.Logger == nil {
		a.contrast.Logger = a.logger
	}

	for _, c := range DefaultChecks(a.contrast) {
		a.Register(c)
	}
	return a
}

// DefaultChecks returns a fresh instance of every built-in check.
func DefaultChecks(opts ContrastOptions) []Check {
	return []Check{
		// Images
		NewImageAltCheck(),
		NewImageMapAreaCheck(),
		NewDecorativeImageCheck(),
		NewImageButtonCheck(),

		// Forms
		NewARIALabelCheck(),
		NewLabelCheck(),

		// ARIA
		NewRoleCheck(),
		NewARIAHiddenCheck(),

		// Keyboard
		NewTabindexCheck(),

		// Structure
		NewEmptyLinkCheck(),
		NewEmptyButtonCheck(),
		NewIframeTitleCheck(),
		NewTableHeaderCheck(),
		NewLangCheck(),
		NewDocumentCheck(),

		// Color
		NewContrastCheck(opts),
	}
}

// CheckNames returns the names of the built-in checks in run order.
func CheckNames() []string {
	checks := DefaultChecks(ContrastOptions{})
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.Name())
	}
	return names
}

// ValidateCheckNames returns ErrUnknownCheck for the first name that is not
// a built-in check.
func ValidateCheckNames(names []string) error {
	known := CheckNames()
	for _, n := range names {
		if !slices.Contains(known, strings.TrimSpace(n)) {
			return fmt.Errorf("%w: %q (available: %s)", ErrUnknownCheck, n, strings.Join(known, ", "))
		}
	}
	return nil
}

// Register adds a check. A check with the same name replaces the old one.
func (a *Auditor) Register(check Check) {
	for i, c := range a.checks {
		if c.Name() == check.Name() {
			a.checks[i] = check
			return
		}
	}
	a.checks = append(a.checks, check)
}

// Level returns the WCAG level the contrast check uses.
func (a *Auditor) Level() contrast.Level {
	return a.contrast.Level
}

// Checks returns the registered checks that are enabled.
func (a *Auditor) Checks() []Check {
	var out []Check
	for _, c := range a.checks {
		if !a.disabled[c.Name()] {
			out = append(out, c)
		}
	}
	return out
}

// Audit runs every enabled check against page.
//
// A failing check is logged and skipped so the other checks still report.
// Cancellation of ctx stops the audit between checks and returns the
// findings collected so far together with the context error.
func (a *Auditor) Audit(ctx context.Context, page *model.Page) (*Result, error) {
	if page == nil || page.Document == nil {
		return nil, ErrNoDocument
	}

	target := &Target{
		Page:   page,
		Styles: style.NewResolver(page.Document, style.WithLogger(a.logger), style.WithCanvas(a.canvas)),
		Stats:  &Stats{},
	}
	result := &Result{}
	a.logger.Debug("styles collected", "url", page.URL, "rules", target.Styles.RuleCount())

	for _, check := range a.Checks() {
		if err := ctx.Err(); err != nil {
			result.Findings = deduplicateFindings(result.Findings)
			result.Stats = *target.Stats
			return result, err
		}

		findings, err := check.Check(ctx, target)
		if err != nil {
			a.logger.Warn("check failed", "check", check.Name(), "url", page.URL, "error", err)
			continue
		}

		a.logger.Debug("check completed", "check", check.Name(), "findings", len(findings))
		result.Findings = append(result.Findings, findings...)
		result.ChecksRun = append(result.ChecksRun, check.Name())
	}

	result.Findings = deduplicateFindings(result.Findings)
	result.Stats = *target.Stats
	return result, nil
}

// deduplicateFindings removes repeated findings of the same type on the
// same element, keeping the first.
func deduplicateFindings(findings []model.Finding) []model.Finding {
	seen := make(map[string]bool, len(findings))
	result := make([]model.Finding, 0, len(findings))

	for _, f := range findings {
		key := f.Type + "|" + f.Location + "|" + f.Selector
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, f)
	}
	return result
}
