package model

import (
	"strings"
	"testing"
)

// TestPageComputeHash tests the ComputeHash method.
func TestPageComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("computes SHA256 hash of raw content", func(t *testing.T) {
		t.Parallel()

		page := &Page{
			Raw: []byte("Hello, World!"),
		}
		page.ComputeHash()

		expected := "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
		if page.Hash != expected {
			t.Errorf("got %q, expected %q", page.Hash, expected)
		}
	})

	t.Run("empty content produces empty hash", func(t *testing.T) {
		t.Parallel()

		page := &Page{Raw: nil, Hash: "stale"}
		page.ComputeHash()

		if page.Hash != "" {
			t.Errorf("expected empty hash, got %q", page.Hash)
		}
	})
}

// TestPageIsHTML tests content type detection.
func TestPageIsHTML(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		contentType string
		expected    bool
	}{
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"TEXT/HTML", true},
		{"application/xhtml+xml", true},
		{"", true},
		{"application/json", false},
		{"image/png", false},
	}

	for _, tc := range testCases {
		page := &Page{ContentType: tc.contentType}
		if got := page.IsHTML(); got != tc.expected {
			t.Errorf("IsHTML(%q) = %v, expected %v", tc.contentType, got, tc.expected)
		}
	}
}

// TestPageGetHeader tests header access.
func TestPageGetHeader(t *testing.T) {
	t.Parallel()

	page := &Page{Headers: map[string][]string{"Content-Type": {"text/html", "ignored"}}}
	if got := page.GetHeader("Content-Type"); got != "text/html" {
		t.Errorf("got %q, expected text/html", got)
	}
	if got := page.GetHeader("Server"); got != "" {
		t.Errorf("expected empty header, got %q", got)
	}
}

// TestPageTruncateRaw tests the raw size limit.
func TestPageTruncateRaw(t *testing.T) {
	t.Parallel()

	page := &Page{Raw: []byte(strings.Repeat("a", MaxPageSize+10))}
	page.TruncateRaw()
	if len(page.Raw) != MaxPageSize {
		t.Errorf("expected %d bytes, got %d", MaxPageSize, len(page.Raw))
	}
	if !page.Truncated {
		t.Error("expected page to be marked truncated")
	}

	small := &Page{Raw: []byte("<p>x</p>")}
	small.TruncateRaw()
	if small.Truncated {
		t.Error("expected small page to stay untruncated")
	}
}
