package audit

import (
	"context"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/dom"
	"github.com/nao1215/a11yscan/internal/model"
)

// elementCheck is a check that selects candidate elements with a CSS
// selector and reports those failing a predicate.
type elementCheck struct {
	name        string
	category    string
	description string
	findingType string
	selector    cascadia.Selector

	// fails decides whether a candidate has the problem. It returns the
	// message to report.
	fails func(t *Target, n *html.Node) (string, bool)
}

// Name returns the check name.
func (c *elementCheck) Name() string { return c.name }

// Category returns the check category.
func (c *elementCheck) Category() string { return c.category }

// Description returns what the check looks for.
func (c *elementCheck) Description() string { return c.description }

// FindingTypes returns the single finding type the check reports.
func (c *elementCheck) FindingTypes() []string { return []string{c.findingType} }

// Check runs the selector against the document and collects failures.
func (c *elementCheck) Check(ctx context.Context, t *Target) ([]model.Finding, error) {
	if t.Page == nil || t.Page.Document == nil {
		return nil, ErrNoDocument
	}

	var findings []model.Finding
	for i, n := range c.selector.MatchAll(t.Page.Document) {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return findings, err
			}
		}
		if msg, failed := c.fails(t, n); failed {
			findings = append(findings, newFinding(c.findingType, msg, t, n))
		}
	}
	return findings, nil
}

// newFinding creates a finding pointing at n.
func newFinding(findingType, message string, t *Target, n *html.Node) model.Finding {
	f := model.NewFinding(findingType, message)
	f.Location = t.Page.URL
	f.Selector = dom.Path(n)
	f.Snippet = dom.Snippet(n)
	f.Node = n
	return f
}

// hasAccessibleNameAttr reports whether n is named by aria-label, by an
// aria-labelledby reference that resolves, or by title.
func hasAccessibleNameAttr(n *html.Node) bool {
	if !dom.MissingOrEmpty(n, "aria-label") || !dom.MissingOrEmpty(n, "title") {
		return true
	}
	return labelledByResolves(n)
}

// labelledByResolves reports whether at least one id in aria-labelledby
// refers to an element with text.
func labelledByResolves(n *html.Node) bool {
	ids, ok := dom.Attr(n, "aria-labelledby")
	if !ok {
		return false
	}
	root := dom.Root(n)
	for _, id := range strings.Fields(ids) {
		if ref := dom.FindByID(root, id); ref != nil && (dom.TextContent(ref) != "" || !dom.MissingOrEmpty(ref, "aria-label")) {
			return true
		}
	}
	return false
}
