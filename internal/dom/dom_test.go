package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func first(t *testing.T, doc *html.Node, tag string) *html.Node {
	t.Helper()

	n := Find(doc, func(n *html.Node) bool { return n.Data == tag })
	if n == nil {
		t.Fatalf("no <%s> in document", tag)
	}
	return n
}

// TestAttr tests attribute helpers.
func TestAttr(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<img src="a.png" alt="" title="  ">`)
	img := first(t, doc, "img")

	t.Run("present empty attribute", func(t *testing.T) {
		t.Parallel()

		v, ok := Attr(img, "alt")
		if !ok || v != "" {
			t.Errorf("Attr(alt) = %q, %v", v, ok)
		}
		if !HasAttr(img, "ALT") {
			t.Error("expected case-insensitive match")
		}
		if !MissingOrEmpty(img, "alt") {
			t.Error("expected empty alt to count as empty")
		}
	})

	t.Run("whitespace only is empty", func(t *testing.T) {
		t.Parallel()

		if !MissingOrEmpty(img, "title") {
			t.Error("expected whitespace title to count as empty")
		}
	})

	t.Run("missing attribute", func(t *testing.T) {
		t.Parallel()

		if HasAttr(img, "role") || AttrValue(img, "role") != "" {
			t.Error("expected role to be missing")
		}
		if HasAttr(nil, "role") {
			t.Error("expected nil node to have no attributes")
		}
	})
}

// TestSetAttr tests replacing and adding attributes.
func TestSetAttr(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<p class="a">x</p>`)
	p := first(t, doc, "p")

	SetAttr(p, "class", "b")
	SetAttr(p, "title", "tip")

	if AttrValue(p, "class") != "b" || AttrValue(p, "title") != "tip" {
		t.Errorf("unexpected attributes %v", p.Attr)
	}
	if len(p.Attr) != 2 {
		t.Errorf("expected 2 attributes, got %d", len(p.Attr))
	}
}

// TestTextContent tests text extraction.
func TestTextContent(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<button>  Save <span>now</span><script>var x = 1;</script>
	</button>`)
	btn := first(t, doc, "button")

	if got := TextContent(btn); got != "Save now" {
		t.Errorf("TextContent() = %q, want %q", got, "Save now")
	}

	empty := parse(t, `<th>   </th>`)
	if got := TextContent(empty); got != "" {
		t.Errorf("TextContent() = %q, want empty", got)
	}
}

// TestClosest tests ancestor lookup.
func TestClosest(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<form><label>Name <span><input id="n"></span></label><input id="x"></form>`)
	inputs := Elements(doc)

	var labeled, unlabeled *html.Node
	for _, n := range inputs {
		switch AttrValue(n, "id") {
		case "n":
			labeled = n
		case "x":
			unlabeled = n
		}
	}

	if Closest(labeled, "label") == nil {
		t.Error("expected input inside label to find it")
	}
	if Closest(unlabeled, "label") != nil {
		t.Error("expected input outside label not to find one")
	}
	if Closest(labeled, "input") != labeled {
		t.Error("expected Closest to include the node itself")
	}
}

// TestFindByID tests id lookup.
func TestFindByID(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<div><p id="target">x</p></div>`)
	if n := FindByID(doc, "target"); n == nil || n.Data != "p" {
		t.Errorf("FindByID() = %v", n)
	}
	if FindByID(doc, "") != nil || FindByID(doc, "nope") != nil {
		t.Error("expected no match")
	}
	if Root(FindByID(doc, "target")) != doc {
		t.Error("expected Root to return the document")
	}
}

// TestPath tests selector paths.
func TestPath(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<ul><li>a</li><li>b</li><li><a href="#">c</a></li></ul><section id="main"><p>x</p></section>`)

	t.Run("nth-of-type for repeated siblings", func(t *testing.T) {
		t.Parallel()

		a := first(t, doc, "a")
		want := "html > body > ul > li:nth-of-type(3) > a"
		if got := Path(a); got != want {
			t.Errorf("Path() = %q, want %q", got, want)
		}
	})

	t.Run("stops at an id", func(t *testing.T) {
		t.Parallel()

		p := first(t, doc, "p")
		if got := Path(p); got != "section#main > p" {
			t.Errorf("Path() = %q, want %q", got, "section#main > p")
		}
	})
}

// TestSnippet tests opening tag rendering.
func TestSnippet(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<img src="a.png" alt="&quot;x&quot;"><p title="`+strings.Repeat("y", 200)+`">z</p>`)

	if got := Snippet(first(t, doc, "img")); got != `<img src="a.png" alt="&#34;x&#34;">` {
		t.Errorf("Snippet() = %q", got)
	}

	long := Snippet(first(t, doc, "p"))
	if n := len([]rune(long)); n != maxSnippetLength {
		t.Errorf("expected truncated snippet of %d runes, got %d", maxSnippetLength, n)
	}
	if !strings.HasSuffix(long, "…") {
		t.Error("expected ellipsis on truncated snippet")
	}

	if Snippet(nil) != "" {
		t.Error("expected empty snippet for nil")
	}
}

// TestCountElements tests element counting.
func TestCountElements(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<p>a</p><p>b</p>`)
	// html, head, body, p, p
	if got := CountElements(doc); got != 5 {
		t.Errorf("CountElements() = %d, want 5", got)
	}
}
