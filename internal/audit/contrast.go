package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/nao1215/a11yscan/internal/contrast"
	"github.com/nao1215/a11yscan/internal/dom"
	"github.com/nao1215/a11yscan/internal/model"
)

// ContrastOptions configures the contrast check.
type ContrastOptions struct {
	// Level selects the WCAG thresholds (AA: 4.5/3, AAA: 7/4.5).
	Level contrast.Level

	// Normal overrides the threshold for normal text when positive.
	Normal float64

	// Large overrides the threshold for large text when positive.
	Large float64

	// Logger receives debug output about skipped elements.
	Logger *slog.Logger
}

// threshold returns the ratio text must reach.
func (o ContrastOptions) threshold(large bool) float64 {
	switch {
	case large && o.Large > 0:
		return o.Large
	case !large && o.Normal > 0:
		return o.Normal
	default:
		return contrast.Threshold(o.Level, large)
	}
}

// textElements are the elements whose own text is measured.
var textElements = cascadia.MustCompile(
	`p, span, a, button, label, li, td, th, dt, dd, figcaption, blockquote, h1, h2, h3, h4, h5, h6, [role="text"]`)

// ContrastCheck measures the contrast between each text element's
// foreground and effective background color.
type ContrastCheck struct {
	opts ContrastOptions
}

// NewContrastCheck creates a ContrastCheck.
func NewContrastCheck(opts ContrastOptions) *ContrastCheck {
	return &ContrastCheck{opts: opts}
}

// Name returns the check name.
func (c *ContrastCheck) Name() string { return "contrast" }

// Category returns the check category.
func (c *ContrastCheck) Category() string { return CategoryColor }

// Description returns what the check looks for.
func (c *ContrastCheck) Description() string {
	return fmt.Sprintf("text below the WCAG %s contrast minimum", c.opts.Level)
}

// FindingTypes returns the finding types the check reports.
func (c *ContrastCheck) FindingTypes() []string { return []string{model.FindingLowContrast} }

// Check evaluates every text element with its own visible text.
//
// Elements whose colors cannot be parsed, or whose text sits on a
// background image, are counted as skipped and never reported.
func (c *ContrastCheck) Check(ctx context.Context, t *Target) ([]model.Finding, error) {
	if t.Page == nil || t.Page.Document == nil {
		return nil, ErrNoDocument
	}
	if t.Styles == nil {
		return nil, errors.New("contrast check needs a style resolver")
	}
	logger := c.opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stats := t.Stats
	if stats == nil {
		stats = &Stats{}
	}

	var findings []model.Finding
	for i, n := range textElements.MatchAll(t.Page.Document) {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return findings, err
			}
		}
		if !hasOwnText(n) || t.Styles.IsHidden(n) {
			continue
		}

		computed := t.Styles.Compute(n)
		if computed.BackgroundImage {
			stats.ContrastSkipped++
			logger.Debug("contrast not applicable: background image", "path", dom.Path(n))
			continue
		}

		m, err := contrast.Measure(contrast.CSS(computed.Background), contrast.CSS(computed.Foreground))
		if err == nil {
			stats.ContrastEvaluated++
			if f, failed := c.evaluate(t, n, m, computed.LargeText()); failed {
				findings = append(findings, f)
			}
			continue
		}

		stats.ContrastSkipped++
		logger.Debug("contrast not applicable",
			"path", dom.Path(n),
			"foreground", computed.Foreground,
			"background", computed.Background,
			"error", err)
	}
	return findings, nil
}

func (c *ContrastCheck) evaluate(t *Target, n *html.Node, m contrast.Measurement, large bool) (model.Finding, bool) {
	ratio, fg, bg := m.Ratio, m.Foreground, m.Background
	required := c.opts.threshold(large)
	if ratio >= required {
		return model.Finding{}, false
	}

	kind := "normal"
	if large {
		kind = "large"
	}
	msg := fmt.Sprintf("Low contrast ratio %.2f:1 between text %s and background %s; %s text needs at least %.1f:1.",
		ratio, fg.Hex(), bg.Hex(), kind, required)

	f := newFinding(model.FindingLowContrast, msg, t, n)
	f.Contrast = &model.ContrastDetail{
		Ratio:      ratio,
		Required:   required,
		Foreground: fg.Hex(),
		Background: bg.Hex(),
		LargeText:  large,
	}
	return f, true
}

// hasOwnText reports whether n has a non-blank text node as a direct child.
func hasOwnText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}
