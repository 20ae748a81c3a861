package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/audit"
	"github.com/nao1215/a11yscan/internal/contrast"
	"github.com/nao1215/a11yscan/internal/model"
)

var errNotFound = errors.New("not found")

// fixtureFetcher serves parsed HTML from memory.
type fixtureFetcher struct {
	pages map[string]string
	delay time.Duration

	mu      sync.Mutex
	active  int32
	maxSeen int32
}

func (f *fixtureFetcher) Fetch(ctx context.Context, target string) (*model.Page, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	f.mu.Lock()
	if n > f.maxSeen {
		f.maxSeen = n
	}
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	src, ok := f.pages[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNotFound, target)
	}
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	return &model.Page{URL: target, Document: doc, ElementCount: 1}, nil
}

const (
	goodPage = `<html lang="en"><head><title>Good</title></head><body><p>Readable</p></body></html>`
	badPage  = `<html><head><title>Bad</title></head><body><img src="a.png"><p style="color:#bbb">faint</p></body></html>`
)

// TestDefaultPipeline tests the fetch, audit and summary steps together.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	fetcher := &fixtureFetcher{pages: map[string]string{
		"https://good.example/": goodPage,
		"https://bad.example/":  badPage,
	}}

	t.Run("clean page", func(t *testing.T) {
		t.Parallel()

		report := model.NewAuditReport("https://good.example/")
		if err := DefaultPipeline(fetcher, audit.NewAuditor()).Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Findings) != 0 {
			t.Errorf("expected no findings, got %+v", report.Findings)
		}
		if report.SimpleReport == nil || report.SimpleReport.HasFindings() {
			t.Error("expected empty summary")
		}
		if report.ContrastEvaluated != 1 {
			t.Errorf("expected 1 contrast evaluation, got %d", report.ContrastEvaluated)
		}
	})

	t.Run("page with issues", func(t *testing.T) {
		t.Parallel()

		auditor := audit.NewAuditor(audit.WithContrastOptions(audit.ContrastOptions{Level: contrast.LevelAAA}))
		report := model.NewAuditReport("https://bad.example/")
		if err := DefaultPipeline(fetcher, auditor).Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Level != "AAA" {
			t.Errorf("expected level AAA, got %q", report.Level)
		}

		summary := report.SimpleReport
		if summary == nil {
			t.Fatal("expected summary")
		}
		for _, typ := range []string{model.FindingImageMissingAlt, model.FindingLowContrast, model.FindingDocumentMissingLang} {
			found := false
			for _, f := range summary.Findings {
				found = found || f.Type == typ
			}
			if !found {
				t.Errorf("expected %s in summary", typ)
			}
		}
		if sev, ok := summary.HighestSeverity(); !ok || sev != model.SeverityHigh {
			t.Errorf("expected highest severity high, got %v", sev)
		}
	})

	t.Run("fetch failure stops the pipeline", func(t *testing.T) {
		t.Parallel()

		report := model.NewAuditReport("https://missing.example/")
		err := DefaultPipeline(fetcher, audit.NewAuditor()).Execute(context.Background(), report)
		if !errors.Is(err, errNotFound) {
			t.Fatalf("expected not found error, got %v", err)
		}
		if report.Page != nil || report.ErrorMessage == "" {
			t.Errorf("unexpected report state: page=%v error=%q", report.Page, report.ErrorMessage)
		}
	})
}

// TestAuditStepWithoutPage tests the audit step guard.
func TestAuditStepWithoutPage(t *testing.T) {
	t.Parallel()

	err := NewAuditStep(audit.NewAuditor()).Do(context.Background(), model.NewAuditReport("x"))
	if !errors.Is(err, ErrNoPage) {
		t.Errorf("expected ErrNoPage, got %v", err)
	}
}

// TestBatchProcessor tests concurrent auditing of several targets.
func TestBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order and failed targets", func(t *testing.T) {
		t.Parallel()

		fetcher := &fixtureFetcher{pages: map[string]string{
			"https://good.example/": goodPage,
			"https://bad.example/":  badPage,
		}}
		bp := NewBatchProcessor(func(string) *Pipeline {
			return DefaultPipeline(fetcher, audit.NewAuditor())
		}, WithConcurrency(2))

		targets := []string{"https://bad.example/", "https://missing.example/", "https://good.example/"}
		reports, err := bp.ProcessBatch(context.Background(), targets)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != len(targets) {
			t.Fatalf("expected %d reports, got %d", len(targets), len(reports))
		}
		for i, r := range reports {
			if r.Target != targets[i] {
				t.Errorf("report %d is for %q, want %q", i, r.Target, targets[i])
			}
		}
		if !reports[0].Summary().HasFindings() {
			t.Error("expected findings for bad page")
		}
		if reports[1].Error == nil {
			t.Error("expected error for missing page")
		}
		if reports[2].Error != nil {
			t.Errorf("unexpected error for good page: %v", reports[2].Error)
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{}
		var targets []string
		for i := range 8 {
			target := fmt.Sprintf("https://site%d.example/", i)
			pages[target] = goodPage
			targets = append(targets, target)
		}
		fetcher := &fixtureFetcher{pages: pages, delay: 20 * time.Millisecond}

		bp := NewBatchProcessor(func(string) *Pipeline {
			return DefaultPipeline(fetcher, audit.NewAuditor())
		}, WithConcurrency(3))

		if _, err := bp.ProcessBatch(context.Background(), targets); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fetcher.maxSeen > 3 {
			t.Errorf("expected at most 3 concurrent fetches, saw %d", fetcher.maxSeen)
		}
	})

	t.Run("passes target to factory", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		seen := map[string]bool{}
		bp := NewBatchProcessor(func(target string) *Pipeline {
			mu.Lock()
			seen[target] = true
			mu.Unlock()
			return New()
		})

		if _, err := bp.ProcessBatch(context.Background(), []string{"a", "b"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !seen["a"] || !seen["b"] {
			t.Errorf("expected factory to be called per target, got %v", seen)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func(string) *Pipeline { return New() })
		reports, err := bp.ProcessBatch(ctx, []string{"a", "b"})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		for _, r := range reports {
			if !errors.Is(r.Error, context.Canceled) {
				t.Errorf("expected cancelled report, got %v", r.Error)
			}
		}
	})
}

// pageFetcher returns the same page for every target.
type pageFetcher struct {
	page *model.Page
}

func (f pageFetcher) Fetch(context.Context, string) (*model.Page, error) {
	return f.page, nil
}

// TestFetchStepTruncatedPage tests the warning for pages cut at the size limit.
func TestFetchStepTruncatedPage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	page := &model.Page{URL: "https://big.example/", Raw: []byte("<p>"), Truncated: true}

	report := model.NewAuditReport("https://big.example/")
	if err := NewFetchStep(pageFetcher{page: page}, WithFetchLogger(logger)).Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Page != page {
		t.Error("expected page on report")
	}
	if !strings.Contains(buf.String(), "page body truncated") {
		t.Errorf("expected truncation warning, got:\n%s", buf.String())
	}
}
