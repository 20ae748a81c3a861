package model

import "time"

// AuditReport is the result of auditing one target.
//
// The full report keeps the page and every finding with
// its node, while SimpleReport is the sorted, counted view the writers
// print. The two are built from the same findings slice so they cannot
// disagree.
type AuditReport struct {
	// Target is the URL or path as given by the user.
	Target string `json:"target"`

	// DateAudited is when the audit started.
	DateAudited time.Time `json:"date_audited"`

	// Level is the WCAG conformance level used for contrast ("AA" or "AAA").
	Level string `json:"level"`

	// Page is the loaded document. Nil when loading failed.
	Page *Page `json:"page,omitempty"`

	// Findings holds every unique issue found on the page.
	Findings []Finding `json:"findings"`

	// ChecksRun lists the names of the checks that ran.
	ChecksRun []string `json:"checks_run,omitempty"`

	// ContrastEvaluated counts the elements whose contrast was measured.
	ContrastEvaluated int `json:"contrast_evaluated"`

	// ContrastSkipped counts the elements whose colors could not be parsed.
	// These are treated as not applicable rather than as failures.
	ContrastSkipped int `json:"contrast_skipped"`

	// PerformedSteps records pipeline steps in execution order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut indicates the audit was cut short by its deadline.
	TimedOut bool `json:"timed_out"`

	// Error is the error that stopped the audit, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// SimpleReport is the summarized view, filled by the summary step.
	SimpleReport *SimpleReport `json:"summary,omitempty"`

	seen map[string]struct{}
}

// NewAuditReport creates a new report for the given target.
func NewAuditReport(target string) *AuditReport {
	return &AuditReport{
		Target:      target,
		DateAudited: time.Now(),
		Level:       "AA",
		Findings:    make([]Finding, 0),
		seen:        make(map[string]struct{}),
	}
}

// AddFinding appends a finding unless one with the same type, location and
// selector was already recorded. It reports whether the finding was added.
func (r *AuditReport) AddFinding(finding Finding) bool {
	if r.seen == nil {
		r.seen = make(map[string]struct{}, len(r.Findings))
		for _, f := range r.Findings {
			r.seen[f.key()] = struct{}{}
		}
	}

	key := finding.key()
	if _, dup := r.seen[key]; dup {
		return false
	}
	r.seen[key] = struct{}{}
	r.Findings = append(r.Findings, finding)
	return true
}

// SetError records err on the report.
func (r *AuditReport) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// URL returns the final page URL, falling back to the target.
func (r *AuditReport) URL() string {
	if r.Page != nil && r.Page.URL != "" {
		return r.Page.URL
	}
	return r.Target
}

// Summary returns the SimpleReport, building it on first use.
func (r *AuditReport) Summary() *SimpleReport {
	if r.SimpleReport == nil {
		r.SimpleReport = NewSimpleReport(r)
	}
	return r.SimpleReport
}
