package audit

import (
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/dom"
	"github.com/nao1215/a11yscan/internal/model"
)

// NewRoleCheck reports role attributes without a value.
func NewRoleCheck() Check {
	return &elementCheck{
		name:        "role",
		category:    CategoryARIA,
		description: "elements with an empty role attribute",
		findingType: model.FindingRoleAttributeEmpty,
		selector:    cascadia.MustCompile("[role]"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if dom.MissingOrEmpty(n, "role") {
				return "Element has an empty role attribute.", true
			}
			return "", false
		},
	}
}

// NewARIAHiddenCheck reports aria-hidden="false", which never un-hides
// content and is better removed.
func NewARIAHiddenCheck() Check {
	return &elementCheck{
		name:        "aria-hidden",
		category:    CategoryARIA,
		description: `elements with aria-hidden="false"`,
		findingType: model.FindingARIAHiddenFalse,
		selector:    cascadia.MustCompile("[aria-hidden]"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if strings.EqualFold(strings.TrimSpace(dom.AttrValue(n, "aria-hidden")), "false") {
				return `Element uses aria-hidden="false"; remove the attribute instead.`, true
			}
			return "", false
		},
	}
}

// nativelyFocusable reports whether the browser puts n in the tab order
// without a tabindex.
func nativelyFocusable(n *html.Node) bool {
	switch n.Data {
	case "a", "area":
		return dom.HasAttr(n, "href")
	case "button", "select", "textarea", "iframe", "summary":
		return true
	case "input":
		return inputType(n) != "hidden"
	}
	v, ok := dom.Attr(n, "contenteditable")
	return ok && !strings.EqualFold(v, "false")
}

// NewTabindexCheck reports interactive elements that cannot receive
// keyboard focus, and tabindex attributes that are not integers.
func NewTabindexCheck() Check {
	return &elementCheck{
		name:        "tabindex",
		category:    CategoryKeyboard,
		description: "links, buttons and custom controls that are not keyboard focusable",
		findingType: model.FindingInteractiveNoTabindex,
		selector:    cascadia.MustCompile(`a, button, [role="button"], [role="link"], [tabindex]`),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			v, ok := dom.Attr(n, "tabindex")
			if ok {
				if _, err := strconv.Atoi(strings.TrimSpace(v)); err != nil {
					return "Element has an invalid tabindex value " + strconv.Quote(v) + ".", true
				}
				return "", false
			}
			if dom.HasAttr(n, "disabled") || nativelyFocusable(n) {
				return "", false
			}
			return "Interactive element is not keyboard focusable; add tabindex=\"0\".", true
		},
	}
}
