package report

import (
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/a11yscan/internal/model"
)

// Writer defines the interface for report output.
// Implementations write audit results in various formats.
type Writer interface {
	// Write outputs one report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.AuditReport) (int, error)

	// WriteBatch outputs the reports of several targets in order.
	WriteBatch(reports []*model.AuditReport) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// writeEach calls write for every report in order.
func writeEach(reports []*model.AuditReport, write func(*model.AuditReport) (int, error)) (int, error) {
	var total int
	for _, r := range reports {
		n, err := write(r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// severityLabel returns "High" for SeverityHigh and so on.
// A Caser keeps state, so each call gets its own.
func severityLabel(s model.Severity) string {
	return cases.Title(language.English).String(s.String())
}

// statusText describes how the audit ended.
func statusText(report *model.SimpleReport) string {
	switch {
	case report.TimedOut:
		return "TIMED OUT (partial results)"
	case report.Error != "":
		return "ERROR - " + report.Error
	default:
		return "Complete"
	}
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
