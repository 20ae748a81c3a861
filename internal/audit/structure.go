package audit

import (
	"context"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/dom"
	"github.com/nao1215/a11yscan/internal/model"
)

// NewEmptyLinkCheck reports links whose href is empty.
func NewEmptyLinkCheck() Check {
	return &elementCheck{
		name:        "empty-link",
		category:    CategoryStructure,
		description: `a elements with href=""`,
		findingType: model.FindingEmptyLink,
		selector:    cascadia.MustCompile("a[href]"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if dom.MissingOrEmpty(n, "href") {
				return "Link has an empty href.", true
			}
			return "", false
		},
	}
}

// hasNamedImage reports whether n contains an image with alt text.
func hasNamedImage(n *html.Node) bool {
	img := dom.Find(n, func(c *html.Node) bool {
		return dom.IsElement(c, "img") && !dom.MissingOrEmpty(c, "alt")
	})
	return img != nil
}

// NewEmptyButtonCheck reports buttons without an accessible name.
func NewEmptyButtonCheck() Check {
	return &elementCheck{
		name:        "empty-button",
		category:    CategoryStructure,
		description: "button elements with no text, image alt or ARIA name",
		findingType: model.FindingEmptyButton,
		selector:    cascadia.MustCompile("button"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if dom.TextContent(n) != "" || hasAccessibleNameAttr(n) || hasNamedImage(n) {
				return "", false
			}
			return "Button has no accessible name.", true
		},
	}
}

// NewIframeTitleCheck reports iframes without a title.
func NewIframeTitleCheck() Check {
	return &elementCheck{
		name:        "iframe-title",
		category:    CategoryStructure,
		description: "iframe elements without a title attribute",
		findingType: model.FindingIframeMissingTitle,
		selector:    cascadia.MustCompile("iframe"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if !dom.MissingOrEmpty(n, "title") || !dom.MissingOrEmpty(n, "aria-label") {
				return "", false
			}
			if isDecorative(n) {
				return "", false
			}
			return "Iframe is missing a title attribute.", true
		},
	}
}

// NewTableHeaderCheck reports header cells without text.
func NewTableHeaderCheck() Check {
	return &elementCheck{
		name:        "table-header",
		category:    CategoryStructure,
		description: "th elements without text",
		findingType: model.FindingEmptyTableHeader,
		selector:    cascadia.MustCompile("th"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if dom.TextContent(n) != "" || hasAccessibleNameAttr(n) || hasNamedImage(n) {
				return "", false
			}
			return "Table header cell is empty.", true
		},
	}
}

// NewLangCheck reports empty lang attributes below the root element.
func NewLangCheck() Check {
	return &elementCheck{
		name:        "lang",
		category:    CategoryStructure,
		description: "elements other than html with an empty lang attribute",
		findingType: model.FindingLangAttributeEmpty,
		selector:    cascadia.MustCompile("[lang]:not(html)"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if dom.MissingOrEmpty(n, "lang") {
				return "Element has an empty lang attribute.", true
			}
			return "", false
		},
	}
}

// DocumentCheck verifies page level requirements: a document language and
// a page title.
type DocumentCheck struct{}

// NewDocumentCheck creates a DocumentCheck.
func NewDocumentCheck() *DocumentCheck {
	return &DocumentCheck{}
}

// Name returns the check name.
func (c *DocumentCheck) Name() string { return "document" }

// Category returns the check category.
func (c *DocumentCheck) Category() string { return CategoryStructure }

// Description returns what the check looks for.
func (c *DocumentCheck) Description() string {
	return "html element without lang, document without title"
}

// FindingTypes returns the finding types the check reports.
func (c *DocumentCheck) FindingTypes() []string {
	return []string{model.FindingDocumentMissingLang, model.FindingDocumentMissingTitle}
}

// Check inspects the root element and the document title.
func (c *DocumentCheck) Check(_ context.Context, t *Target) ([]model.Finding, error) {
	if t.Page == nil || t.Page.Document == nil {
		return nil, ErrNoDocument
	}

	var findings []model.Finding
	root := dom.Find(t.Page.Document, func(n *html.Node) bool { return dom.IsElement(n, "html") })
	if root != nil && dom.MissingOrEmpty(root, "lang") && dom.MissingOrEmpty(root, "xml:lang") {
		findings = append(findings, newFinding(model.FindingDocumentMissingLang,
			"The html element has no lang attribute.", t, root))
	}

	title := dom.Find(t.Page.Document, func(n *html.Node) bool {
		return dom.IsElement(n, "title") && dom.Closest(n, "svg") == nil
	})
	if title == nil || strings.TrimSpace(dom.TextContent(title)) == "" {
		target := title
		if target == nil {
			target = dom.Find(t.Page.Document, func(n *html.Node) bool { return dom.IsElement(n, "head") })
		}
		if target == nil {
			target = root
		}
		if target != nil {
			findings = append(findings, newFinding(model.FindingDocumentMissingTitle,
				"The document has no title or the title is empty.", t, target))
		}
	}
	return findings, nil
}
