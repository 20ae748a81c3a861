package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Page is a single loaded HTML document together with the metadata of the
// response that delivered it.
//
// We keep both the raw bytes and the parsed tree. The tree
// is what the checks inspect; the raw bytes give a stable hash so two runs
// against the same target can be told apart.
type Page struct {
	// URL is the final location of the document after redirects.
	// Local files use a file:// URL.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code. Zero for local files.
	StatusCode int `json:"status_code,omitempty"`

	// Headers contains the HTTP response headers in canonical form.
	Headers map[string][]string `json:"headers,omitempty"`

	// ContentType is the media type of the response without parameters.
	ContentType string `json:"content_type"`

	// Title is the trimmed text of the first <title> element.
	Title string `json:"title,omitempty"`

	// Lang is the lang attribute of the html element.
	Lang string `json:"lang,omitempty"`

	// ElementCount is the number of element nodes in the document.
	ElementCount int `json:"element_count"`

	// FetchedAt is when the document was loaded.
	FetchedAt time.Time `json:"fetched_at"`

	// Raw contains the response body, limited to MaxPageSize bytes.
	Raw []byte `json:"-"`

	// Truncated is true when the body was cut at the size limit, so the
	// audit saw only the start of the document.
	Truncated bool `json:"truncated,omitempty"`

	// Hash is the SHA-256 hash of Raw.
	Hash string `json:"hash"`

	// Document is the parsed HTML tree the checks run against.
	Document *html.Node `json:"-"`
}

// MaxPageSize is the maximum size of raw page content to store.
// Larger pages are truncated to this size.
const MaxPageSize = 32 * 1024 * 1024 // 32 MB

// ComputeHash calculates and sets the SHA-256 hash of the page's raw content.
func (p *Page) ComputeHash() {
	if len(p.Raw) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(p.Raw)
	p.Hash = hex.EncodeToString(hash[:])
}

// GetHeader returns the first value of the specified header.
// Returns empty string if the header is not present.
func (p *Page) GetHeader(name string) string {
	if values, ok := p.Headers[name]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// IsHTML returns true if the page content type indicates HTML.
// An empty content type is treated as HTML because local files carry none.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(strings.TrimSpace(p.ContentType))
	return ct == "" ||
		strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml")
}

// TruncateRaw ensures the raw content doesn't exceed MaxPageSize.
// Call it before ComputeHash so the hash describes the stored bytes.
func (p *Page) TruncateRaw() {
	if len(p.Raw) > MaxPageSize {
		p.Raw = p.Raw[:MaxPageSize]
		p.Truncated = true
	}
}
