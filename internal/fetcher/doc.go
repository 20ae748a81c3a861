// Package fetcher loads a single HTML document for auditing.
//
// A target is either an http(s) URL, a file:// URL or a path on the local
// file system. The fetcher never follows links: every target is one page.
//
// # Usage
//
//	client, err := fetcher.NewHTTPClient(30*time.Second, "")
//	f := fetcher.NewFetcher(fetcher.WithHTTPClient(client))
//	page, err := f.Fetch(ctx, "https://example.com/")
//
// Responses are decoded to UTF-8 using the charset declared by the server
// or the document, limited in size, and parsed with golang.org/x/net/html.
package fetcher
