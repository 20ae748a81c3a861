package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/a11yscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for pull request comments and issue trackers.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report as a Markdown document.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Accessibility Audit Report")
	md.PlainText("")
	w.writeReport(md, report.Summary(), 2)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs one document with an overview table and a section
// per target.
func (w *MarkdownWriter) WriteBatch(reports []*model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Accessibility Audit Report")
	md.PlainText("")

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		s := r.Summary()
		rows = append(rows, []string{
			"`" + cell(s.URL) + "`",
			strconv.Itoa(s.TotalFindings()),
			strconv.Itoa(s.CriticalCount + s.HighCount),
			cell(statusEmoji(s)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Target", "Findings", "Critical + High", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, r := range reports {
		s := r.Summary()
		heading(md, 2, s.URL)
		w.writeReport(md, s, 3)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeReport writes one report with section headings at depth.
func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.SimpleReport, depth int) {
	w.writeHeader(md, report)
	w.writeSummary(md, report, depth)
	w.writeFindings(md, report, depth)
}

// writeHeader writes the basic audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SimpleReport) {
	title := report.Title
	if title == "" {
		title = "-"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + cell(report.URL) + "`"},
			{"Title", cell(title)},
			{"Audit Date", report.DateAudited.Format("2006-01-02 15:04:05 MST")},
			{"WCAG Level", report.Level},
			{"Elements Inspected", strconv.Itoa(report.ElementsInspected)},
			{"Contrast Measured", fmt.Sprintf("%d (%d skipped)", report.ContrastEvaluated, report.ContrastSkipped)},
			{"Status", cell(statusEmoji(report))},
		},
	})
	md.PlainText("")
}

// statusEmoji returns the status text with a leading marker.
func statusEmoji(report *model.SimpleReport) string {
	switch {
	case report.TimedOut:
		return "⚠️ " + statusText(report)
	case report.Error != "":
		return "❌ " + statusText(report)
	default:
		return "✅ " + statusText(report)
	}
}

// severityEmoji maps a severity to the marker used in headings and tables.
func severityEmoji(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "🔴"
	case model.SeverityHigh:
		return "🟠"
	case model.SeverityMedium:
		return "🟡"
	case model.SeverityLow:
		return "🔵"
	default:
		return "⚪"
	}
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.SimpleReport, depth int) {
	heading(md, depth, "Severity Summary")

	rows := make([][]string, 0, 6)
	for _, sev := range model.AllSeverities() {
		rows = append(rows, []string{
			severityEmoji(sev) + " " + severityLabel(sev),
			strconv.Itoa(report.CountBySeverity(sev)),
		})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(report.TotalFindings()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.HasFindings() {
		w.writePieChart(md, report)
	}
	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.SimpleReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	for _, sev := range model.AllSeverities() {
		if n := report.CountBySeverity(sev); n > 0 {
			chart.LabelAndIntValue(severityLabel(sev), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.SimpleReport) {
	switch {
	case report.Error != "" && !report.HasFindings():
		md.Cautionf("The audit did not complete: %s", report.Error)
	case report.CriticalCount > 0:
		md.Cautionf(
			"%d control(s) cannot be operated with a screen reader.",
			report.CriticalCount,
		)
	case report.HighCount > 0:
		md.Warningf(
			"%d element(s) cannot be perceived by some users.",
			report.HighCount,
		)
	case report.MediumCount > 0:
		md.Importantf(
			"%d finding(s) make the page harder to use with assistive technology.",
			report.MediumCount,
		)
	case report.HasFindings():
		md.Note("Only low severity and informational findings detected.")
	default:
		md.Tip("No accessibility issues detected by the automated checks.")
	}
	md.PlainText("")
}

// writeFindings writes all findings grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.SimpleReport, depth int) {
	heading(md, depth, "Findings")

	if !report.HasFindings() {
		md.PlainText("No accessibility findings detected.")
		md.PlainText("")
		return
	}

	for _, sev := range model.AllSeverities() {
		findings := report.GetFindingsBySeverity(sev)
		if len(findings) == 0 {
			continue
		}

		heading(md, depth+1, severityEmoji(sev)+" "+severityLabel(sev))
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	rows := make([][]string, len(findings))
	for i, f := range findings {
		rows[i] = []string{
			f.Title,
			"`" + cell(truncateString(orDash(f.Selector), 60)) + "`",
			cell(truncateString(orDash(f.Description), 80)),
			wcagLink(f.Reference),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "Element", "Issue", "WCAG"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, f := range findings {
		var details strings.Builder
		if f.Snippet != "" {
			fmt.Fprintf(&details, "Markup: `%s`\n\n", f.Snippet)
		}
		if c := f.Contrast; c != nil {
			fmt.Fprintf(&details, "Contrast: %.2f:1, needs %.1f:1 (%s on %s)\n\n",
				c.Ratio, c.Required, c.Foreground, c.Background)
		}
		if f.Recommendation != "" {
			details.WriteString(f.Recommendation)
		}
		if details.Len() > 0 {
			md.Details(f.Title+" - "+orDash(f.Selector), details.String())
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [a11yscan](https://github.com/nao1215/a11yscan)*")
}

// heading writes an ATX heading at depth.
func heading(md *markdown.Markdown, depth int, text string) {
	md.PlainText(strings.Repeat("#", depth) + " " + text)
	md.PlainText("")
}

// wcagLink renders the last path element of a WCAG reference as a link.
func wcagLink(ref string) string {
	if ref == "" {
		return "-"
	}
	name := ref[strings.LastIndex(strings.TrimSuffix(ref, "/"), "/")+1:]
	name = strings.TrimSuffix(strings.TrimSuffix(name, "/"), ".html")
	return "[" + name + "](" + ref + ")"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// cell escapes characters that would break a table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
