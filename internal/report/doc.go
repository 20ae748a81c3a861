// Package report writes audit results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with a severity chart for sharing
//   - LogWriter: One structured log record per finding
//   - AnnotatedWriter: The audited page with flagged elements outlined
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably.
package report
