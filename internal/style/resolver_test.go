package style

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/contrast"
	"github.com/nao1215/a11yscan/internal/dom"
)

func load(t *testing.T, src string) (*html.Node, *Resolver) {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc, NewResolver(doc)
}

func byID(t *testing.T, doc *html.Node, id string) *html.Node {
	t.Helper()

	n := dom.FindByID(doc, id)
	if n == nil {
		t.Fatalf("no element with id %q", id)
	}
	return n
}

// sameColor compares CSS values by the color they denote, so the test does
// not depend on how the CSS parser reformats values.
func sameColor(t *testing.T, got, want string) {
	t.Helper()

	g, err := contrast.ParseString(got)
	if err != nil {
		t.Fatalf("computed value %q does not parse: %v", got, err)
	}
	if w := contrast.MustParse(want); g != w {
		t.Errorf("got color %q (%v), want %q (%v)", got, g, want, w)
	}
}

// TestComputeColors tests foreground and background resolution.
func TestComputeColors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		fg   string
		bg   string
	}{
		{
			name: "defaults",
			html: `<p id="t">text</p>`,
			fg:   "black",
			bg:   "white",
		},
		{
			name: "inline style",
			html: `<p id="t" style="color:#777;background-color:#fff">text</p>`,
			fg:   "#777",
			bg:   "#fff",
		},
		{
			name: "color inherits from stylesheet",
			html: `<style>body { color: navy }</style><div><p id="t">text</p></div>`,
			fg:   "navy",
			bg:   "white",
		},
		{
			name: "background comes from ancestor",
			html: `<div style="background:#000"><p id="t" style="color:#fff">text</p></div>`,
			fg:   "#fff",
			bg:   "#000",
		},
		{
			name: "transparent backgrounds are skipped",
			html: `<div style="background-color: rgb(1, 2, 3)"><span id="t" style="background-color: rgba(0,0,0,0)">x</span></div>`,
			fg:   "black",
			bg:   "rgb(1, 2, 3)",
		},
		{
			name: "id selector beats element selector",
			html: `<style>#t { color: red } p { color: blue }</style><p id="t">x</p>`,
			fg:   "red",
			bg:   "white",
		},
		{
			name: "later rule wins at equal specificity",
			html: `<style>p { color: red } p { color: green }</style><p id="t">x</p>`,
			fg:   "green",
			bg:   "white",
		},
		{
			name: "inline beats stylesheet",
			html: `<style>p { color: red }</style><p id="t" style="color: blue">x</p>`,
			fg:   "blue",
			bg:   "white",
		},
		{
			name: "important beats inline",
			html: `<style>p { color: red !important }</style><p id="t" style="color: blue">x</p>`,
			fg:   "red",
			bg:   "white",
		},
		{
			name: "print media is ignored",
			html: `<style>@media print { p { color: red } }</style><p id="t">x</p>`,
			fg:   "black",
			bg:   "white",
		},
		{
			name: "screen media applies",
			html: `<style>@media screen { p { color: red } }</style><p id="t">x</p>`,
			fg:   "red",
			bg:   "white",
		},
		{
			name: "presentational attributes",
			html: `<table bgcolor="#000000"><tr><td><font id="t" color="#ffffff">x</font></td></tr></table>`,
			fg:   "#ffffff",
			bg:   "#000000",
		},
		{
			name: "currentcolor background",
			html: `<p id="t" style="color: teal; background-color: currentcolor">x</p>`,
			fg:   "teal",
			bg:   "teal",
		},
		{
			name: "inherit keyword",
			html: `<div style="color: purple"><span id="t" style="color: inherit">x</span></div>`,
			fg:   "purple",
			bg:   "white",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, r := load(t, tt.html)
			got := r.Compute(byID(t, doc, "t"))

			sameColor(t, got.Foreground, tt.fg)
			sameColor(t, got.Background, tt.bg)
			if got.BackgroundImage {
				t.Error("unexpected background image")
			}
		})
	}
}

// TestComputeBackgroundImage tests that images behind text are reported.
func TestComputeBackgroundImage(t *testing.T) {
	t.Parallel()

	tests := []string{
		`<div style="background: #fff url(hero.png) no-repeat"><p id="t">x</p></div>`,
		`<div style="background-image: linear-gradient(red, blue)"><p id="t">x</p></div>`,
	}

	for _, src := range tests {
		doc, r := load(t, src)
		if got := r.Compute(byID(t, doc, "t")); !got.BackgroundImage {
			t.Errorf("expected background image for %s", src)
		}
	}
}

// TestComputeUnparsableColorIsReturned tests that values the evaluator
// cannot parse are passed through for the caller to skip.
func TestComputeUnparsableColorIsReturned(t *testing.T) {
	t.Parallel()

	doc, r := load(t, `<p id="t" style="color: hsl(0, 0%, 50%)">x</p>`)
	got := r.Compute(byID(t, doc, "t"))
	if !strings.HasPrefix(got.Foreground, "hsl") {
		t.Errorf("expected raw hsl value, got %q", got.Foreground)
	}
}

// TestLargeText tests the WCAG large text rule.
func TestLargeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		html  string
		large bool
	}{
		{"body text", `<p id="t">x</p>`, false},
		{"h1 default", `<h1 id="t">x</h1>`, true},
		{"h2 default", `<h2 id="t">x</h2>`, true},
		{"24px", `<p id="t" style="font-size: 24px">x</p>`, true},
		{"18pt", `<p id="t" style="font-size: 18pt">x</p>`, true},
		{"14pt bold", `<p id="t" style="font-size: 14pt; font-weight: bold">x</p>`, true},
		{"14pt normal", `<p id="t" style="font-size: 14pt">x</p>`, false},
		{"18px bold", `<p id="t" style="font-size: 18px; font-weight: 700">x</p>`, false},
		{"1.5em of 16px", `<p id="t" style="font-size: 1.5em">x</p>`, true},
		{"inherited", `<div style="font-size: 2rem"><span id="t">x</span></div>`, true},
		{"font shorthand", `<p id="t" style="font: bold 19px/1.2 serif">x</p>`, true},
		{"x-large keyword", `<p id="t" style="font-size: x-large">x</p>`, true},
		{"last inline declaration without semicolon", `<p id="t" style="color: #777; font-size: 30px">x</p>`, true},
		{"inline font-size after font shorthand", `<p id="t" style="font: 12px serif; font-size: 30px">x</p>`, true},
		{"inline font shorthand after font-size", `<p id="t" style="font-size: 30px; font: 12px serif">x</p>`, false},
		{"id font-size beats element font shorthand",
			`<style>p { font: 12px serif } #t { font-size: 30px }</style><p id="t">x</p>`, true},
		{"id font shorthand beats class font-size",
			`<style>#t { font: 12px serif } .big { font-size: 30px }</style><p id="t" class="big">x</p>`, false},
		{"later declaration in the same rule wins",
			`<style>p { font-size: 30px; font: 12px serif }</style><p id="t">x</p>`, false},
		{"font shorthand resets weight",
			`<style>p { font-weight: bold }</style><p id="t" style="font: 19px serif">x</p>`, false},
		{"font shorthand without size is ignored", `<p id="t" style="font-size: 30px; font: bold">x</p>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, r := load(t, tt.html)
			got := r.Compute(byID(t, doc, "t"))
			if got.LargeText() != tt.large {
				t.Errorf("LargeText() = %v (size %.2f, bold %v), want %v",
					got.LargeText(), got.FontSize, got.Bold, tt.large)
			}
		})
	}
}

// TestIsHidden tests hidden content detection.
func TestIsHidden(t *testing.T) {
	t.Parallel()

	doc, r := load(t, `
		<style>.gone { display: none }</style>
		<div class="gone"><p id="a">x</p></div>
		<div hidden><p id="b">x</p></div>
		<p id="c" style="visibility: hidden">x</p>
		<p id="d">x</p>`)

	for id, want := range map[string]bool{"a": true, "b": true, "c": true, "d": false} {
		if got := r.IsHidden(byID(t, doc, id)); got != want {
			t.Errorf("IsHidden(#%s) = %v, want %v", id, got, want)
		}
	}
}

// TestResolverOptions tests the canvas option and rule collection.
func TestResolverOptions(t *testing.T) {
	t.Parallel()

	doc, err := html.Parse(strings.NewReader(`<style>p, span { color: red } a:hover { color: blue }</style><p id="t">x</p>`))
	if err != nil {
		t.Fatal(err)
	}

	r := NewResolver(doc, WithCanvas("#eee"))
	sameColor(t, r.Compute(byID(t, doc, "t")).Background, "#eee")

	if r.RuleCount() < 2 {
		t.Errorf("expected at least 2 rules, got %d", r.RuleCount())
	}
	if got := r.cascade(byID(t, doc, "t"))["color"].value; got != "red" {
		t.Errorf("declared color = %q, want red", got)
	}
}

// TestInlineDeclarations tests style attribute parsing.
func TestInlineDeclarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		style string
		want  map[string]string
	}{
		{"single declaration without semicolon", "color: #777", map[string]string{"color": "#777"}},
		{"last declaration without semicolon", "color:#fff;background:#000",
			map[string]string{"color": "#fff", "background": "#000"}},
		{"trailing semicolon", "color: red; display: none;", map[string]string{"color": "red", "display": "none"}},
		{"trailing whitespace", "font-size: 30px ;  ", map[string]string{"font-size": "30px"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, _ := load(t, `<p id="t">x</p>`)
			n := byID(t, doc, "t")
			dom.SetAttr(n, "style", tt.style)

			got := make(map[string]string)
			for _, d := range inlineDeclarations(n, slog.Default()) {
				got[strings.TrimSpace(d.Property)] = strings.TrimSpace(d.Value)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("declarations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestMediaApplies tests media query filtering.
func TestMediaApplies(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"":                            true,
		"all":                         true,
		"screen":                      true,
		"screen and (max-width: 1px)": true,
		"(min-width: 600px)":          true,
		"print":                       false,
		"only print":                  false,
		"print, screen":               true,
		"not screen":                  false,
		"not print":                   true,
	}
	for query, want := range tests {
		if got := mediaApplies(query); got != want {
			t.Errorf("mediaApplies(%q) = %v, want %v", query, got, want)
		}
	}
}
