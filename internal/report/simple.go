package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/a11yscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting, one block per flagged element.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether severities with no findings are shown.
	showEmpty bool

	// verbose adds the impact, the fix and the WCAG link of each finding.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AuditReport) (int, error) {
	simple := report.Summary()

	var sb strings.Builder
	w.writeHeader(&sb, simple)
	w.writeSummary(&sb, simple)
	w.writeFindings(&sb, simple)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs each report followed by a one line total.
func (w *SimpleWriter) WriteBatch(reports []*model.AuditReport) (int, error) {
	total, err := writeEach(reports, w.Write)
	if err != nil || len(reports) < 2 {
		return total, err
	}

	var findings, failed int
	for _, r := range reports {
		findings += r.Summary().TotalFindings()
		if r.Error != nil {
			failed++
		}
	}
	n, err := fmt.Fprintf(w.output, "\nAudited %d targets: %d findings, %d failed\n",
		len(reports), findings, failed)
	return total + n, err
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.SimpleReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      ACCESSIBILITY AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Target:         %s\n", report.URL)
	if report.Title != "" {
		fmt.Fprintf(sb, "Title:          %s\n", report.Title)
	}
	fmt.Fprintf(sb, "Audit Date:     %s\n", report.DateAudited.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "WCAG Level:     %s\n", report.Level)
	fmt.Fprintf(sb, "Elements:       %d\n", report.ElementsInspected)
	fmt.Fprintf(sb, "Status:         %s\n", statusText(report))
	sb.WriteString("\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.SimpleReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  CRITICAL: %d\n", report.CriticalCount)
	fmt.Fprintf(sb, "  HIGH:     %d\n", report.HighCount)
	fmt.Fprintf(sb, "  MEDIUM:   %d\n", report.MediumCount)
	fmt.Fprintf(sb, "  LOW:      %d\n", report.LowCount)
	fmt.Fprintf(sb, "  INFO:     %d\n", report.InfoCount)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:    %d findings\n", report.TotalFindings())
	fmt.Fprintf(sb, "  CONTRAST: %d elements measured, %d skipped\n",
		report.ContrastEvaluated, report.ContrastSkipped)
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.SimpleReport) {
	if !report.HasFindings() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, severity := range model.AllSeverities() {
		findings := report.GetFindingsBySeverity(severity)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}
		w.writeFindingsForSeverity(sb, severity, findings)
	}
}

// writeFindingsForSeverity writes findings of a specific severity level.
func (w *SimpleWriter) writeFindingsForSeverity(sb *strings.Builder, severity model.Severity, findings []model.Finding) {
	fmt.Fprintf(sb, "[%s] %s\n", severityIndicator(severity), severity.String())

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, f := range findings {
		fmt.Fprintf(sb, "  * %s\n", f.Title)
		if f.Description != "" {
			fmt.Fprintf(sb, "    Issue:    %s\n", f.Description)
		}
		if f.Selector != "" {
			fmt.Fprintf(sb, "    Element:  %s\n", f.Selector)
		}
		if f.Snippet != "" {
			fmt.Fprintf(sb, "    Markup:   %s\n", f.Snippet)
		}
		if c := f.Contrast; c != nil {
			fmt.Fprintf(sb, "    Contrast: %.2f:1 (needs %.1f:1) %s on %s\n",
				c.Ratio, c.Required, c.Foreground, c.Background)
		}
		if w.verbose {
			if f.Impact != "" {
				fmt.Fprintf(sb, "    Impact:   %s\n", f.Impact)
			}
			if f.Recommendation != "" {
				fmt.Fprintf(sb, "    Fix:      %s\n", f.Recommendation)
			}
			if f.Reference != "" {
				fmt.Fprintf(sb, "    WCAG:     %s\n", f.Reference)
			}
		}
	}
	sb.WriteString("\n")
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Automated checks find only part of all accessibility barriers.\n")
	sb.WriteString("https://github.com/nao1215/a11yscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
