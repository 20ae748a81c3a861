package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// maxSnippetLength bounds the length of Snippet output in runes.
const maxSnippetLength = 120

// Attr returns the value of the attribute key and whether it is present.
// Attribute names are matched case-insensitively; the HTML parser already
// lowercases them, but trees built by hand may not.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// AttrValue returns the value of the attribute key or "" when absent.
func AttrValue(n *html.Node, key string) string {
	v, _ := Attr(n, key)
	return v
}

// HasAttr reports whether the attribute key is present, even if empty.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// MissingOrEmpty reports whether the attribute is absent or has only
// whitespace as its value.
func MissingOrEmpty(n *html.Node, key string) bool {
	v, ok := Attr(n, key)
	return !ok || strings.TrimSpace(v) == ""
}

// SetAttr sets key to val, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// IsElement reports whether n is an element with one of the given tag names.
// With no names it reports whether n is an element at all.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// Walk calls fn for n and every descendant in document order. Returning
// false from fn skips the children of that node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// Elements returns every element below n (n included) in document order.
func Elements(n *html.Node) []*html.Node {
	var out []*html.Node
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
		return true
	})
	return out
}

// CountElements returns the number of element nodes below n.
func CountElements(n *html.Node) int {
	count := 0
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode {
			count++
		}
		return true
	})
	return count
}

// TextContent returns the concatenated text below n with whitespace runs
// collapsed. Script and style contents are skipped.
func TextContent(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
			b.WriteByte(' ')
		case html.ElementNode:
			if c.Data == "script" || c.Data == "style" || c.Data == "template" {
				return false
			}
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// Closest returns n or the nearest ancestor element with the given tag, or
// nil when there is none.
func Closest(n *html.Node, tag string) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if IsElement(p, tag) {
			return p
		}
	}
	return nil
}

// Find returns the first element below n (n included) for which match
// returns true.
func Find(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	Walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c.Type == html.ElementNode && match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindByID returns the element with the given id attribute.
func FindByID(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	return Find(root, func(n *html.Node) bool {
		return AttrValue(n, "id") == id
	})
}

// Root returns the top of the tree n belongs to.
func Root(n *html.Node) *html.Node {
	for n != nil && n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Path returns a CSS selector that identifies n, such as
// "html > body > ul > li:nth-of-type(3)". The path stops at the nearest
// ancestor with an id.
func Path(n *html.Node) string {
	var parts []string
	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if id := strings.TrimSpace(AttrValue(p, "id")); id != "" && !strings.ContainsAny(id, " \t\n\"'") {
			parts = append(parts, p.Data+"#"+id)
			break
		}
		parts = append(parts, step(p))
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// step renders one path segment, adding :nth-of-type when siblings share
// the tag name.
func step(n *html.Node) string {
	index, total := 0, 0
	if n.Parent != nil {
		for s := n.Parent.FirstChild; s != nil; s = s.NextSibling {
			if s.Type == html.ElementNode && s.Data == n.Data {
				total++
				if s == n {
					index = total
				}
			}
		}
	}
	if total <= 1 {
		return n.Data
	}
	return n.Data + ":nth-of-type(" + strconv.Itoa(index) + ")"
}

// Snippet renders the opening tag of n, truncated for display.
func Snippet(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace)
			b.WriteByte(':')
		}
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	s := b.String()
	if r := []rune(s); len(r) > maxSnippetLength {
		return string(r[:maxSnippetLength-1]) + "…"
	}
	return s
}
