package style

import (
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/dom"
)

// origin orders the sources of a declaration from weakest to strongest.
type origin int

const (
	originAttribute origin = iota
	originSheet
	originInline
)

// rule is one selector of a qualified rule with its declarations.
type rule struct {
	selector    cascadia.Sel
	specificity cascadia.Specificity
	order       int
	decls       []*css.Declaration
}

// declaration is a single property value competing in the cascade.
type declaration struct {
	property    string
	value       string
	important   bool
	origin      origin
	specificity cascadia.Specificity
	order       int
	// index is the position of the declaration inside its block.
	index int
}

// outranks reports whether d wins over other in the cascade.
func (d declaration) outranks(other declaration) bool {
	if d.important != other.important {
		return d.important
	}
	if d.origin != other.origin {
		return d.origin > other.origin
	}
	if d.specificity != other.specificity {
		return other.specificity.Less(d.specificity)
	}
	if d.order != other.order {
		return d.order > other.order
	}
	return d.index > other.index
}

// collectRules parses every applicable <style> element of doc in document
// order.
func collectRules(doc *html.Node, logger *slog.Logger) []rule {
	var rules []rule
	order := 0

	dom.Walk(doc, func(n *html.Node) bool {
		if !dom.IsElement(n, "style") {
			return true
		}
		if !mediaApplies(dom.AttrValue(n, "media")) {
			return false
		}

		var text strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				text.WriteString(c.Data)
			}
		}

		sheet, err := parser.Parse(text.String())
		if err != nil {
			logger.Debug("skipping unparsable stylesheet", "path", dom.Path(n), "error", err)
			return false
		}
		rules = appendRules(rules, sheet.Rules, &order, logger)
		return false
	})
	return rules
}

func appendRules(rules []rule, src []*css.Rule, order *int, logger *slog.Logger) []rule {
	for _, r := range src {
		switch r.Kind {
		case css.QualifiedRule:
			for _, s := range r.Selectors {
				sel, err := cascadia.Parse(s)
				if err != nil {
					// Dynamic pseudo-classes such as :hover never apply to a
					// static document.
					logger.Debug("skipping selector", "selector", s, "error", err)
					continue
				}
				*order++
				rules = append(rules, rule{
					selector:    sel,
					specificity: sel.Specificity(),
					order:       *order,
					decls:       r.Declarations,
				})
			}
		case css.AtRule:
			if strings.EqualFold(strings.TrimPrefix(r.Name, "@"), "media") && mediaApplies(r.Prelude) {
				rules = appendRules(rules, r.Rules, order, logger)
			}
		}
	}
	return rules
}

// mediaApplies reports whether a media query list can apply on a screen.
// Feature expressions such as (max-width: 600px) are assumed to match.
func mediaApplies(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, part := range strings.Split(q, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "not "):
			if !strings.Contains(part, "screen") && !strings.Contains(part, "all") {
				return true
			}
		case strings.HasPrefix(part, "print"), strings.HasPrefix(part, "speech"),
			strings.HasPrefix(part, "only print"), strings.HasPrefix(part, "only speech"):
		default:
			return true
		}
	}
	return false
}

// inlineDeclarations parses a style attribute.
func inlineDeclarations(n *html.Node, logger *slog.Logger) []*css.Declaration {
	v, ok := dom.Attr(n, "style")
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	// The declaration parser drops the value of a last declaration that has
	// no terminating semicolon, which is how most style attributes end.
	decls, err := parser.ParseDeclarations(strings.TrimRight(v, "; \t\r\n") + ";")
	if err != nil {
		logger.Debug("skipping unparsable style attribute", "path", dom.Path(n), "error", err)
		return nil
	}
	return decls
}

// attributeDeclarations maps presentational attributes to the properties
// browsers derive from them.
func attributeDeclarations(n *html.Node) []declaration {
	var out []declaration
	if v, ok := dom.Attr(n, "bgcolor"); ok && v != "" {
		out = append(out, declaration{property: "background-color", value: v, origin: originAttribute})
	}
	if dom.IsElement(n, "font") {
		if v, ok := dom.Attr(n, "color"); ok && v != "" {
			out = append(out, declaration{property: "color", value: v, origin: originAttribute})
		}
	}
	if dom.IsElement(n, "body") {
		if v, ok := dom.Attr(n, "text"); ok && v != "" {
			out = append(out, declaration{property: "color", value: v, origin: originAttribute})
		}
	}
	return out
}
