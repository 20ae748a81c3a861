package model

import (
	"cmp"
	"slices"
	"time"
)

// SimpleReport is a summarized, human-readable report.
// It orders findings by severity and counts them for quick review.
type SimpleReport struct {
	// Target is the audited URL or path.
	Target string `json:"target"`

	// URL is the final document URL.
	URL string `json:"url,omitempty"`

	// Title is the document title.
	Title string `json:"title,omitempty"`

	// DateAudited is when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// Level is the WCAG conformance level used for contrast.
	Level string `json:"level"`

	// === Severity Summary ===

	// CriticalCount is the number of critical findings.
	CriticalCount int `json:"critical_count"`

	// HighCount is the number of high severity findings.
	HighCount int `json:"high_count"`

	// MediumCount is the number of medium severity findings.
	MediumCount int `json:"medium_count"`

	// LowCount is the number of low severity findings.
	LowCount int `json:"low_count"`

	// InfoCount is the number of informational findings.
	InfoCount int `json:"info_count"`

	// === Findings ===

	// Findings contains all findings, most severe first.
	Findings []Finding `json:"findings,omitempty"`

	// === Statistics ===

	// ElementsInspected is the number of elements in the document.
	ElementsInspected int `json:"elements_inspected"`

	// ContrastEvaluated is the number of elements whose contrast was measured.
	ContrastEvaluated int `json:"contrast_evaluated"`

	// ContrastSkipped is the number of elements with unparsable colors.
	ContrastSkipped int `json:"contrast_skipped"`

	// TimedOut indicates if the audit was terminated due to timeout.
	TimedOut bool `json:"timed_out"`

	// Error contains any error message if the audit failed.
	Error string `json:"error,omitempty"`
}

// NewSimpleReport creates a new SimpleReport from an AuditReport.
func NewSimpleReport(report *AuditReport) *SimpleReport {
	simple := &SimpleReport{
		Target:            report.Target,
		URL:               report.URL(),
		DateAudited:       report.DateAudited,
		Level:             report.Level,
		ContrastEvaluated: report.ContrastEvaluated,
		ContrastSkipped:   report.ContrastSkipped,
		TimedOut:          report.TimedOut,
		Error:             report.ErrorMessage,
	}
	if report.Error != nil {
		simple.Error = report.Error.Error()
	}
	if report.Page != nil {
		simple.Title = report.Page.Title
		simple.ElementsInspected = report.Page.ElementCount
	}

	simple.Findings = slices.Clone(report.Findings)
	// Most severe first; document order within a severity.
	slices.SortStableFunc(simple.Findings, func(a, b Finding) int {
		return cmp.Compare(b.Severity, a.Severity)
	})

	simple.countBySeverity()
	return simple
}

// countBySeverity counts findings by severity level.
func (s *SimpleReport) countBySeverity() {
	for _, f := range s.Findings {
		switch f.Severity {
		case SeverityCritical:
			s.CriticalCount++
		case SeverityHigh:
			s.HighCount++
		case SeverityMedium:
			s.MediumCount++
		case SeverityLow:
			s.LowCount++
		case SeverityInfo:
			s.InfoCount++
		}
	}
}

// TotalFindings returns the total number of findings.
func (s *SimpleReport) TotalFindings() int {
	return len(s.Findings)
}

// HasFindings returns true if there are any findings.
func (s *SimpleReport) HasFindings() bool {
	return len(s.Findings) > 0
}

// GetFindingsBySeverity returns findings filtered by severity.
func (s *SimpleReport) GetFindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range s.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}

// CountBySeverity returns the number of findings at severity.
func (s *SimpleReport) CountBySeverity(severity Severity) int {
	switch severity {
	case SeverityCritical:
		return s.CriticalCount
	case SeverityHigh:
		return s.HighCount
	case SeverityMedium:
		return s.MediumCount
	case SeverityLow:
		return s.LowCount
	case SeverityInfo:
		return s.InfoCount
	default:
		return 0
	}
}

// HighestSeverity returns the most severe finding level and false when the
// report has no findings.
func (s *SimpleReport) HighestSeverity() (Severity, bool) {
	if len(s.Findings) == 0 {
		return SeverityInfo, false
	}
	return s.Findings[0].Severity, true
}

// HasFindingsAtOrAbove reports whether any finding is at least threshold.
func (s *SimpleReport) HasFindingsAtOrAbove(threshold Severity) bool {
	highest, ok := s.HighestSeverity()
	return ok && highest >= threshold
}
