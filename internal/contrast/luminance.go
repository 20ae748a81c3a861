package contrast

import (
	"fmt"
	"math"
	"strings"
)

// WCAG 2.1 success criterion thresholds.
const (
	// MinimumNormal is the AA threshold for normal text (1.4.3).
	MinimumNormal = 4.5
	// MinimumLarge is the AA threshold for large text (1.4.3).
	MinimumLarge = 3.0
	// EnhancedNormal is the AAA threshold for normal text (1.4.6).
	EnhancedNormal = 7.0
	// EnhancedLarge is the AAA threshold for large text (1.4.6).
	EnhancedLarge = 4.5
)

// linearThreshold is the channel value at which sRGB gamma correction
// switches from the linear segment to the power curve, as written in WCAG.
const linearThreshold = 0.03928

// RelativeLuminance returns the WCAG relative luminance of c in [0,1].
func RelativeLuminance(c Color) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(channel uint8) float64 {
	v := float64(channel) / 255
	if v <= linearThreshold {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Ratio returns the contrast ratio between a and b. The result is at least
// 1 and does not depend on argument order.
func Ratio(a, b Color) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	bright, dark := math.Max(la, lb), math.Min(la, lb)
	return (bright + 0.05) / (dark + 0.05)
}

// Measurement is a parsed color pair and its contrast ratio.
type Measurement struct {
	Background Color
	Foreground Color
	Ratio      float64
}

// Measure parses a background and a foreground value and computes their
// contrast ratio. Parse failures are wrapped with the side that failed, so
// callers can still test them with errors.Is(err, ErrParse) or
// errors.Is(err, ErrTransparent).
func Measure(background, foreground Source) (Measurement, error) {
	bg, err := Parse(background)
	if err != nil {
		return Measurement{}, fmt.Errorf("background: %w", err)
	}
	fg, err := Parse(foreground)
	if err != nil {
		return Measurement{}, fmt.Errorf("foreground: %w", err)
	}
	return Measurement{Background: bg, Foreground: fg, Ratio: Ratio(bg, fg)}, nil
}

// Evaluate is Measure without the parsed colors.
func Evaluate(background, foreground Source) (float64, error) {
	m, err := Measure(background, foreground)
	if err != nil {
		return 0, err
	}
	return m.Ratio, nil
}

// Level is a WCAG conformance level for contrast.
type Level int

const (
	// LevelAA applies success criterion 1.4.3 (Contrast Minimum).
	LevelAA Level = iota
	// LevelAAA applies success criterion 1.4.6 (Contrast Enhanced).
	LevelAAA
)

// ParseLevel converts "AA" or "AAA" (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AA", "":
		return LevelAA, nil
	case "AAA":
		return LevelAAA, nil
	default:
		return LevelAA, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// String returns "AA" or "AAA".
func (l Level) String() string {
	if l == LevelAAA {
		return "AAA"
	}
	return "AA"
}

// Threshold returns the minimum ratio required at level for normal or
// large text.
func Threshold(level Level, large bool) float64 {
	switch {
	case level == LevelAAA && large:
		return EnhancedLarge
	case level == LevelAAA:
		return EnhancedNormal
	case large:
		return MinimumLarge
	default:
		return MinimumNormal
	}
}

// Passes reports whether ratio meets the threshold for level. WCAG does not
// round ratios, so 4.48 fails a 4.5 requirement.
func Passes(ratio float64, level Level, large bool) bool {
	return ratio >= Threshold(level, large)
}

// Verdict is the outcome of a contrast evaluation against every WCAG
// contrast threshold.
type Verdict struct {
	Ratio     float64 `json:"ratio"`
	AANormal  bool    `json:"aa_normal"`
	AALarge   bool    `json:"aa_large"`
	AAANormal bool    `json:"aaa_normal"`
	AAALarge  bool    `json:"aaa_large"`
}

// Verdict judges the measured ratio against every threshold.
func (m Measurement) Verdict() Verdict {
	return newVerdict(m.Ratio)
}

func newVerdict(r float64) Verdict {
	return Verdict{
		Ratio:     r,
		AANormal:  Passes(r, LevelAA, false),
		AALarge:   Passes(r, LevelAA, true),
		AAANormal: Passes(r, LevelAAA, false),
		AAALarge:  Passes(r, LevelAAA, true),
	}
}
