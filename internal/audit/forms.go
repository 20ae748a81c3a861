package audit

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/dom"
	"github.com/nao1215/a11yscan/internal/model"
)

// formControls matches the elements users type into or choose from.
var formControls = cascadia.MustCompile("input, textarea, select")

// needsLabel reports whether a form control must be named by its author.
// Hidden inputs are not rendered and button-like inputs are named by
// their value or alt.
func needsLabel(n *html.Node) bool {
	if !dom.IsElement(n, "input") {
		return true
	}
	switch inputType(n) {
	case "hidden", "submit", "reset", "button", "image":
		return false
	}
	return true
}

// hasLabelElement reports whether n is wrapped in a label or referenced by
// a label's for attribute.
func hasLabelElement(n *html.Node) bool {
	if dom.Closest(n, "label") != nil {
		return true
	}
	id := dom.AttrValue(n, "id")
	if id == "" {
		return false
	}
	label := dom.Find(dom.Root(n), func(c *html.Node) bool {
		return dom.IsElement(c, "label") && dom.AttrValue(c, "for") == id
	})
	return label != nil
}

// NewARIALabelCheck reports form controls without aria-label or a
// resolvable aria-labelledby.
func NewARIALabelCheck() Check {
	return &elementCheck{
		name:        "aria-label",
		category:    CategoryForms,
		description: "input, textarea and select without aria-label or aria-labelledby",
		findingType: model.FindingFormControlMissingARIA,
		selector:    formControls,
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if !needsLabel(n) {
				return "", false
			}
			if !dom.MissingOrEmpty(n, "aria-label") || labelledByResolves(n) {
				return "", false
			}
			if dom.HasAttr(n, "aria-labelledby") {
				return "Form control's aria-labelledby does not reference any element with text.", true
			}
			return "Form control is missing aria-label or aria-labelledby.", true
		},
	}
}

// NewLabelCheck reports form controls without an associated label element.
func NewLabelCheck() Check {
	return &elementCheck{
		name:        "label",
		category:    CategoryForms,
		description: "form controls not wrapped in a label and not referenced by label[for]",
		findingType: model.FindingFormControlMissingLabel,
		selector:    formControls,
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if !needsLabel(n) || hasLabelElement(n) {
				return "", false
			}
			return "Form control has no associated label element.", true
		},
	}
}
