package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/a11yscan/internal/model"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "a11yscan (+https://github.com/nao1215/a11yscan)"

// DefaultMaxBodySize limits how much of a response is read.
const DefaultMaxBodySize int64 = 5 * 1024 * 1024

// Fetcher loads single pages over HTTP or from disk.
//
// A Fetcher never follows links. Each target is loaded on its own.
type Fetcher struct {
	// client performs HTTP requests.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// headers are added to every request.
	headers map[string]string

	// cookie is a raw Cookie header value (e.g., "session=abc").
	cookie string

	// parser builds the document tree.
	parser *Parser
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client. Use NewHTTPClient to route through
// a proxy.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// WithCookie sets a raw cookie string sent with every request.
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// NewFetcher creates a Fetcher. Without WithHTTPClient it uses a direct
// client with a 30 second timeout.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		headers:     make(map[string]string),
		parser:      NewParser(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client, _ = NewHTTPClient(30*time.Second, "") //nolint:errcheck // no proxy means no error
	}
	return f
}

// Fetch loads and parses the page at target.
//
// A target without a scheme is a local path when such a file exists and an
// https URL otherwise.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*model.Page, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrEmptyTarget
	}

	u, err := ResolveTarget(target)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, u)
	case "file":
		return f.fetchFile(ctx, u)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

// ResolveTarget converts a user supplied target into a URL.
func ResolveTarget(target string) (*url.URL, error) {
	if !strings.Contains(target, "://") {
		if _, err := os.Stat(target); err == nil {
			abs, err := filepath.Abs(target)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve path %s: %w", target, err)
			}
			return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
		}
		target = "https://" + target
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return nil, fmt.Errorf("invalid target URL %q: missing host", target)
	}
	return u, nil
}

// fetchHTTP performs a GET request and parses the response.
func (f *Fetcher) fetchHTTP(ctx context.Context, u *url.URL) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType := mediaTypeOf(contentType)
	if !isHTMLMediaType(mediaType) {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, mediaType)
	}

	body, truncated, err := readLimited(resp.Body, f.maxBodySize)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	finalURL := u.String()
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	page := &model.Page{
		URL:         finalURL,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		ContentType: mediaType,
		Raw:         body,
		Truncated:   truncated,
	}
	if err := f.parse(page, contentType); err != nil {
		return nil, err
	}
	return page, nil
}

// fetchFile reads a document from disk.
func (f *Fetcher) fetchFile(ctx context.Context, u *url.URL) (*model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.FromSlash(u.Path)
	mediaType := mediaTypeOf(mime.TypeByExtension(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = "text/html"
	}
	if !isHTMLMediaType(mediaType) {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, mediaType)
	}

	file, err := os.Open(path) //nolint:gosec // auditing user supplied files is the purpose
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	body, truncated, err := readLimited(file, f.maxBodySize)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	page := &model.Page{
		URL:         u.String(),
		ContentType: mediaType,
		Raw:         body,
		Truncated:   truncated,
	}
	if err := f.parse(page, ""); err != nil {
		return nil, err
	}
	return page, nil
}

// parse decodes the body to UTF-8 and fills in the document fields.
func (f *Fetcher) parse(page *model.Page, contentType string) error {
	page.FetchedAt = time.Now()
	page.TruncateRaw()
	page.ComputeHash()

	reader, err := charset.NewReader(bytes.NewReader(page.Raw), contentType)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", page.URL, err)
	}

	result, err := f.parser.Parse(reader)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", page.URL, err)
	}

	page.Document = result.Document
	page.Title = result.Title
	page.Lang = result.Lang
	page.ElementCount = result.ElementCount
	return nil
}

// mediaTypeOf returns the lowercased media type without parameters.
func mediaTypeOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}

// isHTMLMediaType reports whether mt is an HTML media type. Servers that
// omit the header are given the benefit of the doubt.
func isHTMLMediaType(mt string) bool {
	return mt == "" || mt == "text/html" || mt == "application/xhtml+xml"
}

// readLimited reads at most limit bytes from r and reports whether more
// were available.
func readLimited(r io.Reader, limit int64) ([]byte, bool, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return body[:limit], true, nil
	}
	return body, false, nil
}
