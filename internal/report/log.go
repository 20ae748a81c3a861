package report

import (
	"context"
	"io"
	"log/slog"

	applog "github.com/nao1215/a11yscan/internal/log"
	"github.com/nao1215/a11yscan/internal/model"
)

// LogWriter emits one structured log record per finding, followed by a
// summary record per report. It is meant for log collectors and for
// watching a batch scroll by in a terminal.
//
// Records go through the secure handler, so credentials embedded in target
// URLs never reach the output.
type LogWriter struct {
	baseWriter
	json bool
}

// LogWriterOption configures a LogWriter.
type LogWriterOption func(*LogWriter)

// WithJSONRecords switches from logfmt-style text records to JSON lines.
func WithJSONRecords(enabled bool) LogWriterOption {
	return func(w *LogWriter) {
		w.json = enabled
	}
}

// NewLogWriter creates a LogWriter that outputs to the given writer.
func NewLogWriter(output io.Writer, opts ...LogWriterOption) *LogWriter {
	w := &LogWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write logs every finding of the report.
func (w *LogWriter) Write(report *model.AuditReport) (int, error) {
	cw := &countingWriter{w: w.output}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var handler slog.Handler = slog.NewTextHandler(cw, opts)
	if w.json {
		handler = slog.NewJSONHandler(cw, opts)
	}
	logger := slog.New(applog.NewSecureHandler(handler))

	simple := report.Summary()
	ctx := context.Background()
	for _, f := range simple.Findings {
		attrs := []slog.Attr{
			slog.String("url", simple.URL),
			slog.String("type", f.Type),
			slog.String("severity", f.SeverityText),
			slog.String("selector", f.Selector),
			slog.String("issue", f.Description),
		}
		if c := f.Contrast; c != nil {
			attrs = append(attrs, slog.Group("contrast",
				slog.Float64("ratio", round2(c.Ratio)),
				slog.Float64("required", c.Required),
				slog.String("foreground", c.Foreground),
				slog.String("background", c.Background),
			))
		}
		attrs = append(attrs, slog.String("wcag", f.Reference))
		logger.LogAttrs(ctx, findingLevel(f.Severity), f.Title, attrs...)
		if cw.err != nil {
			return cw.n, cw.err
		}
	}

	level := slog.LevelInfo
	if simple.Error != "" {
		level = slog.LevelError
	}
	logger.LogAttrs(ctx, level, "audit summary",
		slog.String("url", simple.URL),
		slog.String("level", simple.Level),
		slog.Int("findings", simple.TotalFindings()),
		slog.Int("critical", simple.CriticalCount),
		slog.Int("high", simple.HighCount),
		slog.Int("medium", simple.MediumCount),
		slog.Int("low", simple.LowCount),
		slog.Int("info", simple.InfoCount),
		slog.Int("contrast_evaluated", simple.ContrastEvaluated),
		slog.Int("contrast_skipped", simple.ContrastSkipped),
		slog.Bool("timed_out", simple.TimedOut),
		slog.String("error", simple.Error),
	)
	return cw.n, cw.err
}

// WriteBatch logs every report in order.
func (w *LogWriter) WriteBatch(reports []*model.AuditReport) (int, error) {
	return writeEach(reports, w.Write)
}

// findingLevel maps severities onto log levels.
func findingLevel(s model.Severity) slog.Level {
	switch {
	case s >= model.SeverityHigh:
		return slog.LevelError
	case s == model.SeverityMedium:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}

// countingWriter counts bytes and keeps the first write error, since slog
// handlers report errors only through the Handle return value.
type countingWriter struct {
	w   io.Writer
	n   int
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += n
	c.err = err
	return n, err
}
