package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/dom"
	"github.com/nao1215/a11yscan/internal/model"
)

// DefaultOutline is the style appended to every flagged element.
const DefaultOutline = "outline: 2px solid red"

// AnnotatedWriter renders the audited page with every flagged element
// outlined and its issues in a title tooltip, so the result can be opened
// in a browser and inspected by hovering.
//
// The parsed document is modified only while rendering; the original
// attributes are put back before Write returns.
type AnnotatedWriter struct {
	baseWriter
	outline string
}

// AnnotatedWriterOption configures an AnnotatedWriter.
type AnnotatedWriterOption func(*AnnotatedWriter)

// WithOutline replaces the CSS declaration used to mark elements.
func WithOutline(style string) AnnotatedWriterOption {
	return func(w *AnnotatedWriter) {
		if style != "" {
			w.outline = style
		}
	}
}

// NewAnnotatedWriter creates an AnnotatedWriter that outputs to the given writer.
func NewAnnotatedWriter(output io.Writer, opts ...AnnotatedWriterOption) *AnnotatedWriter {
	w := &AnnotatedWriter{
		baseWriter: newBaseWriter(output),
		outline:    DefaultOutline,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the annotated page.
func (w *AnnotatedWriter) Write(report *model.AuditReport) (int, error) {
	if report.Page == nil || report.Page.Document == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoDocument, report.Target)
	}

	restore := w.annotate(report.Findings)
	defer restore()

	cw := &countingWriter{w: w.output}
	if err := html.Render(cw, report.Page.Document); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// WriteBatch renders each page one after another. Callers that want one
// file per page call Write with separate outputs.
func (w *AnnotatedWriter) WriteBatch(reports []*model.AuditReport) (int, error) {
	return writeEach(reports, w.Write)
}

// annotate marks the nodes of findings and returns a func that undoes it.
func (w *AnnotatedWriter) annotate(findings []model.Finding) func() {
	saved := make(map[*html.Node][]html.Attribute)
	messages := make(map[*html.Node][]string)
	var order []*html.Node

	for _, f := range findings {
		n := f.Node
		if n == nil || n.Type != html.ElementNode {
			continue
		}
		if _, ok := saved[n]; !ok {
			saved[n] = slices.Clone(n.Attr)
			order = append(order, n)
		}
		msg := f.Description
		if msg == "" {
			msg = f.Title
		}
		messages[n] = append(messages[n], fmt.Sprintf("[%s] %s", f.SeverityText, msg))
	}

	for _, n := range order {
		style := strings.TrimSpace(dom.AttrValue(n, "style"))
		if style != "" && !strings.HasSuffix(style, ";") {
			style += ";"
		}
		if style != "" {
			style += " "
		}
		dom.SetAttr(n, "style", style+w.outline)

		title := strings.Join(messages[n], "\n")
		if orig := strings.TrimSpace(dom.AttrValue(n, "title")); orig != "" {
			title = orig + "\n" + title
		}
		dom.SetAttr(n, "title", title)
	}

	return func() {
		for n, attrs := range saved {
			n.Attr = attrs
		}
	}
}
