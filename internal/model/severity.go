package model

import "strings"

// Severity represents how badly an accessibility issue affects users of
// assistive technology.
type Severity int

const (
	// SeverityInfo indicates markup worth reviewing that is not a failure by
	// itself. Example: aria-hidden="false", which has no effect.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor issues with a limited audience.
	// Example: an empty lang attribute on an inline element.
	SeverityLow

	// SeverityMedium indicates issues that make content harder to use.
	// Examples: missing form labels, iframes without a title.
	SeverityMedium

	// SeverityHigh indicates content that some users cannot perceive.
	// Examples: images without alt text, text below the contrast minimum.
	SeverityHigh

	// SeverityCritical indicates controls that cannot be operated at all with
	// a screen reader. Examples: buttons with no accessible name.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a severity name such as "high" back to a Severity.
// The second return value is false for unknown names.
func ParseSeverity(s string) (Severity, bool) {
	for _, sev := range AllSeverities() {
		if strings.EqualFold(sev.String(), s) {
			return sev, true
		}
	}
	return SeverityInfo, false
}

// AllSeverities returns every severity from most to least severe.
func AllSeverities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
}

// WCAG 2.1 Understanding documents referenced by findings.
const wcagBase = "https://www.w3.org/WAI/WCAG21/Understanding/"

// FindingInfo contains metadata about a finding type including severity,
// impact description, remediation recommendation and the WCAG reference.
type FindingInfo struct {
	Severity       Severity
	Title          string
	Impact         string
	Recommendation string
	Reference      string
}

// Finding types produced by the audit checks.
const (
	FindingImageMissingAlt         = "image_missing_alt"
	FindingFormControlMissingARIA  = "form_control_missing_aria_label"
	FindingRoleAttributeEmpty      = "role_attribute_empty"
	FindingInteractiveNoTabindex   = "interactive_missing_tabindex"
	FindingLowContrast             = "low_contrast"
	FindingEmptyLink               = "empty_link"
	FindingEmptyButton             = "empty_button"
	FindingImageMapAreaMissingAlt  = "image_map_area_missing_alt"
	FindingIframeMissingTitle      = "iframe_missing_title"
	FindingEmptyTableHeader        = "empty_table_header"
	FindingDecorativeImageNoAlt    = "decorative_image_missing_alt"
	FindingLangAttributeEmpty      = "lang_attribute_empty"
	FindingARIAHiddenFalse         = "aria_hidden_false"
	FindingFormControlMissingLabel = "form_control_missing_label"
	FindingImageButtonMissingAlt   = "image_button_missing_alt"
	FindingDocumentMissingLang     = "document_missing_lang"
	FindingDocumentMissingTitle    = "document_missing_title"
)

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping ensures consistent severity assessment across the
// checks and every report format.
var findingInfoMapping = map[string]FindingInfo{
	// CRITICAL - controls without any accessible name
	FindingEmptyButton: {
		Severity:       SeverityCritical,
		Title:          "Empty Button",
		Impact:         "Screen readers announce the button without a name, so users cannot tell what it does.",
		Recommendation: "Put visible text inside the button or give it an aria-label.",
		Reference:      wcagBase + "name-role-value.html",
	},
	FindingImageButtonMissingAlt: {
		Severity:       SeverityCritical,
		Title:          "Image Button Missing Alt Text",
		Impact:         "An image button without alt text has no accessible name and cannot be identified.",
		Recommendation: "Add an alt attribute describing the action of the button.",
		Reference:      wcagBase + "non-text-content.html",
	},

	// HIGH - content that cannot be perceived
	FindingImageMissingAlt: {
		Severity:       SeverityHigh,
		Title:          "Image Missing Alt Text",
		Impact:         "Blind users get no equivalent for the information conveyed by the image.",
		Recommendation: "Add a descriptive alt attribute, or mark the image as decorative with alt=\"\" and role=\"presentation\".",
		Reference:      wcagBase + "images-of-text.html",
	},
	FindingLowContrast: {
		Severity:       SeverityHigh,
		Title:          "Low Color Contrast",
		Impact:         "Text with insufficient contrast is hard or impossible to read for users with low vision or color deficiencies.",
		Recommendation: "Darken the text or lighten the background until the contrast ratio reaches the required minimum.",
		Reference:      wcagBase + "contrast-minimum.html",
	},
	FindingImageMapAreaMissingAlt: {
		Severity:       SeverityHigh,
		Title:          "Image Map Area Missing Alt Text",
		Impact:         "Image map links without alt text are announced as unnamed links.",
		Recommendation: "Add an alt attribute to every area element that has an href.",
		Reference:      wcagBase + "non-text-content.html",
	},

	// MEDIUM - content that is harder to use
	FindingFormControlMissingARIA: {
		Severity:       SeverityMedium,
		Title:          "Form Control Missing ARIA Label",
		Impact:         "Assistive technology may not be able to announce the purpose of the field.",
		Recommendation: "Add aria-label or aria-labelledby, or associate a visible label element.",
		Reference:      wcagBase + "identify-input-purpose.html",
	},
	FindingFormControlMissingLabel: {
		Severity:       SeverityMedium,
		Title:          "Form Control Missing Label",
		Impact:         "Fields without a label element are hard to identify and have a smaller click target.",
		Recommendation: "Wrap the control in a label element or reference it with label for=\"id\".",
		Reference:      wcagBase + "labels-or-instructions.html",
	},
	FindingRoleAttributeEmpty: {
		Severity:       SeverityMedium,
		Title:          "Empty Role Attribute",
		Impact:         "An empty role gives assistive technology no usable semantics for the element.",
		Recommendation: "Set a valid ARIA role or remove the attribute.",
		Reference:      wcagBase + "name-role-value.html",
	},
	FindingEmptyLink: {
		Severity:       SeverityMedium,
		Title:          "Empty Link",
		Impact:         "A link with an empty href does not lead anywhere and confuses keyboard and screen reader users.",
		Recommendation: "Provide a real destination or use a button for in-page actions.",
		Reference:      wcagBase + "link-purpose-in-context.html",
	},
	FindingIframeMissingTitle: {
		Severity:       SeverityMedium,
		Title:          "Iframe Missing Title",
		Impact:         "Screen reader users cannot tell what an untitled frame contains before entering it.",
		Recommendation: "Add a title attribute that describes the frame content.",
		Reference:      wcagBase + "page-titled.html",
	},
	FindingEmptyTableHeader: {
		Severity:       SeverityMedium,
		Title:          "Empty Table Header",
		Impact:         "Data cells lose their header association, so table relationships are not conveyed.",
		Recommendation: "Put header text in every th element, or use td for empty corner cells.",
		Reference:      wcagBase + "info-and-relationships.html",
	},
	FindingDocumentMissingLang: {
		Severity:       SeverityMedium,
		Title:          "Document Language Missing",
		Impact:         "Screen readers may pronounce the content with the wrong language rules.",
		Recommendation: "Set the lang attribute on the html element.",
		Reference:      wcagBase + "language-of-page.html",
	},
	FindingDocumentMissingTitle: {
		Severity:       SeverityMedium,
		Title:          "Page Title Missing",
		Impact:         "Users cannot identify the page from tabs, history or assistive technology.",
		Recommendation: "Add a descriptive title element to the document head.",
		Reference:      wcagBase + "page-titled.html",
	},

	// LOW - limited impact
	FindingDecorativeImageNoAlt: {
		Severity:       SeverityLow,
		Title:          "Decorative Image Missing Alt Attribute",
		Impact:         "Some screen readers fall back to announcing the file name of decorative images without alt.",
		Recommendation: "Add an empty alt attribute (alt=\"\") to decorative images.",
		Reference:      wcagBase + "non-text-content.html",
	},
	FindingLangAttributeEmpty: {
		Severity:       SeverityLow,
		Title:          "Empty Lang Attribute",
		Impact:         "An empty lang resets the language of the passage to unknown.",
		Recommendation: "Set a valid language tag or remove the attribute.",
		Reference:      wcagBase + "language-of-parts.html",
	},
	FindingInteractiveNoTabindex: {
		Severity:       SeverityLow,
		Title:          "Interactive Element Without Tabindex",
		Impact:         "Custom interactive elements may not be reachable with the keyboard.",
		Recommendation: "Use native interactive elements, or add tabindex=\"0\" to custom controls.",
		Reference:      wcagBase + "keyboard.html",
	},

	// INFO - worth reviewing
	FindingARIAHiddenFalse: {
		Severity:       SeverityInfo,
		Title:          "aria-hidden=\"false\" Used",
		Impact:         "aria-hidden=\"false\" does not reveal content hidden by other means and behaves inconsistently across browsers.",
		Recommendation: "Remove the attribute and control visibility with CSS or the hidden attribute.",
		Reference:      wcagBase + "info-and-relationships.html",
	},
}

// GetSeverity returns the severity for a given finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Title:          findingType,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Investigate the finding and assess its impact.",
	}
}

// FindingTypes returns every known finding type.
func FindingTypes() []string {
	types := make([]string, 0, len(findingInfoMapping))
	for t := range findingInfoMapping {
		types = append(types, t)
	}
	return types
}
