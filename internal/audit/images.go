package audit

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/dom"
	"github.com/nao1215/a11yscan/internal/model"
)

// isDecorative reports whether an image is explicitly removed from the
// accessibility tree.
func isDecorative(n *html.Node) bool {
	role := strings.ToLower(strings.TrimSpace(dom.AttrValue(n, "role")))
	return role == "presentation" || role == "none" ||
		strings.EqualFold(strings.TrimSpace(dom.AttrValue(n, "aria-hidden")), "true")
}

// inputType returns the lowercased type of an input element, defaulting
// to "text".
func inputType(n *html.Node) string {
	t := strings.ToLower(strings.TrimSpace(dom.AttrValue(n, "type")))
	if t == "" {
		return "text"
	}
	return t
}

// NewImageAltCheck reports images without alt text. Images marked as
// decorative are left to NewDecorativeImageCheck.
func NewImageAltCheck() Check {
	return &elementCheck{
		name:        "image-alt",
		category:    CategoryImages,
		description: "img elements without alt text",
		findingType: model.FindingImageMissingAlt,
		selector:    cascadia.MustCompile("img"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if isDecorative(n) {
				return "", false
			}
			alt, ok := dom.Attr(n, "alt")
			switch {
			case !ok:
				return "Image is missing alt text.", true
			case strings.TrimSpace(alt) == "":
				return "Image has empty alt text but is not marked as decorative.", true
			}
			return "", false
		},
	}
}

// NewImageMapAreaCheck reports image map links without alt text.
func NewImageMapAreaCheck() Check {
	return &elementCheck{
		name:        "area-alt",
		category:    CategoryImages,
		description: "area elements with href inside a named map without alt text",
		findingType: model.FindingImageMapAreaMissingAlt,
		selector:    cascadia.MustCompile("map[name] area[href]"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if dom.MissingOrEmpty(n, "alt") && !hasAccessibleNameAttr(n) {
				return "Image map area is missing alt text.", true
			}
			return "", false
		},
	}
}

// NewDecorativeImageCheck reports decorative images without an alt
// attribute. An empty alt is the correct marking here.
func NewDecorativeImageCheck() Check {
	return &elementCheck{
		name:        "decorative-image",
		category:    CategoryImages,
		description: "images with role=presentation or aria-hidden=true that have no alt attribute",
		findingType: model.FindingDecorativeImageNoAlt,
		selector:    cascadia.MustCompile(`img[role="presentation"], img[role="none"], img[aria-hidden="true"]`),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if !dom.HasAttr(n, "alt") {
				return `Decorative image is missing an empty alt attribute (alt="").`, true
			}
			return "", false
		},
	}
}

// NewImageButtonCheck reports image inputs without alt text.
func NewImageButtonCheck() Check {
	return &elementCheck{
		name:        "image-button",
		category:    CategoryImages,
		description: "input[type=image] without alt text",
		findingType: model.FindingImageButtonMissingAlt,
		selector:    cascadia.MustCompile("input[type]"),
		fails: func(_ *Target, n *html.Node) (string, bool) {
			if inputType(n) != "image" {
				return "", false
			}
			if dom.MissingOrEmpty(n, "alt") && !hasAccessibleNameAttr(n) {
				return "Image button is missing alt text.", true
			}
			return "", false
		},
	}
}
