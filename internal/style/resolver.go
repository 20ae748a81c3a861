package style

import (
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/contrast"
	"github.com/nao1215/a11yscan/internal/dom"
)

// Defaults used when nothing in the document sets a value.
const (
	// DefaultForeground is the initial value of the color property.
	DefaultForeground = "black"
	// DefaultCanvas is the background assumed behind the root element.
	DefaultCanvas = "white"
	// DefaultFontSize is the initial font size in CSS pixels.
	DefaultFontSize = 16.0
)

// Large text limits from WCAG: 18pt, or 14pt when bold.
const (
	largeTextPx     = 24.0
	largeBoldTextPx = 18.66
)

// Computed is the subset of computed style the contrast check needs.
type Computed struct {
	// Foreground is the resolved color value, unparsed.
	Foreground string

	// Background is the first non-transparent background color found on the
	// element or its ancestors, unparsed.
	Background string

	// BackgroundImage is true when a background image or gradient sits
	// between the text and the background color, which makes the measured
	// ratio meaningless.
	BackgroundImage bool

	// FontSize is the computed font size in CSS pixels.
	FontSize float64

	// Bold is true for font weights of 700 and above.
	Bold bool
}

// LargeText reports whether WCAG's large text threshold applies.
func (c Computed) LargeText() bool {
	return c.FontSize >= largeTextPx || (c.Bold && c.FontSize >= largeBoldTextPx)
}

// Resolver computes styles for the elements of one document.
// It caches per element and is not safe for concurrent use.
type Resolver struct {
	rules  []rule
	logger *slog.Logger
	canvas string

	declared map[*html.Node]map[string]declaration
	colors   map[*html.Node]string
	fonts    map[*html.Node]font
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug output about skipped CSS.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithCanvas sets the color assumed behind the document.
func WithCanvas(color string) Option {
	return func(r *Resolver) {
		r.canvas = color
	}
}

// NewResolver parses the stylesheets of doc and returns a Resolver for it.
func NewResolver(doc *html.Node, opts ...Option) *Resolver {
	r := &Resolver{
		logger:   slog.Default(),
		canvas:   DefaultCanvas,
		declared: make(map[*html.Node]map[string]declaration),
		colors:   make(map[*html.Node]string),
		fonts:    make(map[*html.Node]font),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.rules = collectRules(doc, r.logger)
	return r
}

// RuleCount returns the number of selector rules collected from the
// document's stylesheets.
func (r *Resolver) RuleCount() int {
	return len(r.rules)
}

// Compute returns the computed style of element n.
func (r *Resolver) Compute(n *html.Node) Computed {
	bg, image := r.background(n)
	f := r.font(n)
	return Computed{
		Foreground:      r.color(n),
		Background:      bg,
		BackgroundImage: image,
		FontSize:        f.size,
		Bold:            f.weight >= 700,
	}
}

// cascade computes the winning declaration of every property set on n.
func (r *Resolver) cascade(n *html.Node) map[string]declaration {
	if d, ok := r.declared[n]; ok {
		return d
	}

	winners := make(map[string]declaration)
	offer := func(d declaration) {
		d.property = strings.ToLower(strings.TrimSpace(d.property))
		d.value = strings.TrimSpace(d.value)
		for _, expanded := range expand(d) {
			if cur, ok := winners[expanded.property]; !ok || expanded.outranks(cur) {
				winners[expanded.property] = expanded
			}
		}
	}

	if n != nil && n.Type == html.ElementNode {
		for _, d := range attributeDeclarations(n) {
			offer(d)
		}
		for _, rl := range r.rules {
			if !rl.selector.Match(n) {
				continue
			}
			for i, cd := range rl.decls {
				offer(declaration{
					property:    cd.Property,
					value:       cd.Value,
					important:   cd.Important,
					origin:      originSheet,
					specificity: rl.specificity,
					order:       rl.order,
					index:       i,
				})
			}
		}
		for i, cd := range inlineDeclarations(n, r.logger) {
			offer(declaration{
				property:  cd.Property,
				value:     cd.Value,
				important: cd.Important,
				origin:    originInline,
				index:     i,
			})
		}
	}

	r.declared[n] = winners
	return winners
}

// expand splits the background and font shorthands into the longhands
// they reset, so each longhand competes in the cascade on its own.
func expand(d declaration) []declaration {
	switch d.property {
	case "background":
		return expandBackground(d)
	case "font":
		return expandFont(d)
	}
	return []declaration{d}
}

func expandBackground(d declaration) []declaration {

	colorDecl, imageDecl := d, d
	colorDecl.property = "background-color"
	colorDecl.value = "transparent"
	imageDecl.property = "background-image"
	imageDecl.value = "none"

	for _, tok := range splitTokens(d.value) {
		lower := strings.ToLower(tok)
		switch {
		case strings.HasPrefix(lower, "url("), strings.Contains(lower, "gradient("):
			imageDecl.value = tok
		case lower == "inherit" || lower == "initial" || lower == "unset" || lower == "currentcolor":
			colorDecl.value = lower
		default:
			if _, err := contrast.ParseString(tok); err == nil || errors.Is(err, contrast.ErrTransparent) {
				colorDecl.value = tok
			}
		}
	}
	return []declaration{colorDecl, imageDecl}
}

// splitTokens splits a CSS value on whitespace outside parentheses.
func splitTokens(v string) []string {
	var (
		tokens []string
		cur    strings.Builder
		depth  int
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range v {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case (r == ' ' || r == '\t' || r == '\n' || r == ',') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// color returns the inherited foreground color of n.
func (r *Resolver) color(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return DefaultForeground
	}
	if c, ok := r.colors[n]; ok {
		return c
	}

	v := r.cascade(n)["color"].value
	switch strings.ToLower(v) {
	case "", "inherit", "unset", "currentcolor":
		v = r.color(parentElement(n))
	case "initial":
		v = DefaultForeground
	}

	r.colors[n] = v
	return v
}

// background walks from n to the root and returns the first background
// color that is not transparent.
func (r *Resolver) background(n *html.Node) (string, bool) {
	for p := n; p != nil && p.Type == html.ElementNode; p = parentElement(p) {
		decl := r.cascade(p)

		if img := strings.ToLower(decl["background-image"].value); img != "" && img != "none" &&
			img != "initial" && img != "unset" && img != "inherit" {
			return "", true
		}

		v := decl["background-color"].value
		switch strings.ToLower(v) {
		case "", "transparent", "initial", "unset", "inherit":
			continue
		case "currentcolor":
			v = r.color(p)
		}

		if _, err := contrast.ParseString(v); errors.Is(err, contrast.ErrTransparent) {
			continue
		}
		return v, false
	}
	return r.canvas, false
}

func parentElement(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

// IsHidden reports whether n or an ancestor is removed from rendering with
// the hidden attribute or display:none / visibility:hidden.
func (r *Resolver) IsHidden(n *html.Node) bool {
	for p := n; p != nil && p.Type == html.ElementNode; p = parentElement(p) {
		if dom.HasAttr(p, "hidden") {
			return true
		}
		decl := r.cascade(p)
		if strings.EqualFold(decl["display"].value, "none") {
			return true
		}
		if v := strings.ToLower(decl["visibility"].value); v == "hidden" || v == "collapse" {
			return true
		}
	}
	return false
}
