package fetcher

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/dom"
)

// Parser turns HTML content into the tree the checks inspect.
type Parser struct{}

// ParseResult contains the parsed document and the page metadata taken
// from it.
type ParseResult struct {
	// Document is the root of the parsed tree.
	Document *html.Node

	// Title is the trimmed text of the first <title> outside SVG.
	Title string

	// Lang is the lang attribute of the html element.
	Lang string

	// ElementCount is the number of element nodes.
	ElementCount int
}

// NewParser creates a new HTML parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses HTML content. The content must already be UTF-8.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Document:     doc,
		ElementCount: dom.CountElements(doc),
	}

	if root := dom.Find(doc, func(n *html.Node) bool { return dom.IsElement(n, "html") }); root != nil {
		result.Lang = strings.TrimSpace(dom.AttrValue(root, "lang"))
	}

	title := dom.Find(doc, func(n *html.Node) bool {
		return dom.IsElement(n, "title") && dom.Closest(n, "svg") == nil
	})
	if title != nil {
		result.Title = dom.TextContent(title)
	}
	return result, nil
}
