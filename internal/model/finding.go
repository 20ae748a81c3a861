package model

import "golang.org/x/net/html"

// Finding is a single accessibility issue attached to one element of a page.
type Finding struct {
	// Type is the finding type identifier.
	// This maps to findingInfoMapping in severity.go.
	Type string `json:"type"`

	// Severity is the impact level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description is the issue message for this particular element.
	Description string `json:"description,omitempty"`

	// Impact explains who is affected and how.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address this finding.
	Recommendation string `json:"recommendation,omitempty"`

	// Reference links to the WCAG document behind the check.
	Reference string `json:"reference,omitempty"`

	// Selector is a CSS selector path that identifies the element.
	Selector string `json:"selector,omitempty"`

	// Snippet is the opening tag of the element, truncated.
	Snippet string `json:"snippet,omitempty"`

	// Location is the URL of the page the element belongs to.
	Location string `json:"location,omitempty"`

	// Contrast holds the measured colors for low contrast findings.
	Contrast *ContrastDetail `json:"contrast,omitempty"`

	// Node is the element in the parsed document. It lets presenters
	// annotate the page and is never serialized.
	Node *html.Node `json:"-"`
}

// ContrastDetail describes a measured text contrast.
type ContrastDetail struct {
	// Ratio is the measured contrast ratio.
	Ratio float64 `json:"ratio"`

	// Required is the minimum ratio the element had to reach.
	Required float64 `json:"required"`

	// Foreground is the resolved text color.
	Foreground string `json:"foreground"`

	// Background is the resolved background color.
	Background string `json:"background"`

	// LargeText is true when the large text threshold applied.
	LargeText bool `json:"large_text"`
}

// NewFinding creates a finding of the given type with severity, title,
// impact, recommendation and reference filled from the catalog.
func NewFinding(findingType, description string) Finding {
	info := GetFindingInfo(findingType)
	return Finding{
		Type:           findingType,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          info.Title,
		Description:    description,
		Impact:         info.Impact,
		Recommendation: info.Recommendation,
		Reference:      info.Reference,
	}
}

// key identifies a finding for deduplication.
func (f Finding) key() string {
	return f.Type + "\x00" + f.Location + "\x00" + f.Selector
}
