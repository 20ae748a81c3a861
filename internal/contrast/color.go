package contrast

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is an opaque sRGB color with 8-bit channels.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// RGBA implements color.Color so a Color can be drawn or compared with the
// standard image packages.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// String returns the color in CSS functional notation.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex returns the color as a lowercase #rrggbb string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Source is a color value that can be resolved to a Color.
// The set of implementations is closed: CSS, Pixel and Sample.
type Source interface {
	resolve() (Color, error)
}

// CSS is a textual CSS color such as "rgb(255, 0, 0)", "rgba(0 0 0 / 50%)",
// "#fff" or "navy".
type CSS string

// Pixel is a color sampled from a rendered image at Point.
type Pixel struct {
	Image image.Image
	Point image.Point
}

// Sample wraps an already resolved color value.
type Sample struct {
	color.Color
}

// Parse resolves src to an opaque Color.
//
// Channel values outside [0,255] are clamped. Partial alpha is ignored
// because compositing needs a backdrop the evaluator does not know about;
// alpha zero returns ErrTransparent.
func Parse(src Source) (Color, error) {
	if src == nil {
		return Color{}, fmt.Errorf("%w: no color given", ErrParse)
	}
	return src.resolve()
}

// ParseString is shorthand for Parse(CSS(s)).
func ParseString(s string) (Color, error) {
	return Parse(CSS(s))
}

// MustParse is like ParseString but panics on error. It is meant for
// package-level color constants and tests.
func MustParse(s string) Color {
	c, err := ParseString(s)
	if err != nil {
		panic(fmt.Sprintf("contrast: MustParse(%q): %v", s, err))
	}
	return c
}

func (s CSS) resolve() (Color, error) {
	v := strings.ToLower(strings.TrimSpace(string(s)))
	switch {
	case v == "":
		return Color{}, fmt.Errorf("%w: empty value", ErrParse)
	case v == "transparent":
		return Color{}, ErrTransparent
	case strings.HasPrefix(v, "#"):
		return parseHex(v)
	case strings.HasPrefix(v, "rgb"):
		return parseFunctional(v)
	}

	if named, ok := colornames.Map[v]; ok {
		return Color{R: named.R, G: named.G, B: named.B}, nil
	}
	return Color{}, fmt.Errorf("%w: %q", ErrParse, string(s))
}

func (p Pixel) resolve() (Color, error) {
	if p.Image == nil {
		return Color{}, fmt.Errorf("%w: pixel sample without image", ErrParse)
	}
	if !p.Point.In(p.Image.Bounds()) {
		return Color{}, fmt.Errorf("%w: pixel %v outside image bounds %v", ErrParse, p.Point, p.Image.Bounds())
	}
	return fromColor(p.Image.At(p.Point.X, p.Point.Y))
}

func (s Sample) resolve() (Color, error) {
	if s.Color == nil {
		return Color{}, fmt.Errorf("%w: empty sample", ErrParse)
	}
	return fromColor(s.Color)
}

// fromColor converts an image/color value, un-premultiplying alpha.
func fromColor(c color.Color) (Color, error) {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return Color{}, ErrTransparent
	}
	r, g, b := cf.Clamped().RGB255()
	return Color{R: r, G: g, B: b}, nil
}

func parseHex(v string) (Color, error) {
	digits := v[1:]
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return Color{}, fmt.Errorf("%w: invalid hex color %q", ErrParse, v)
		}
	}

	// #rgba and #rrggbbaa carry an alpha channel go-colorful does not read.
	switch len(digits) {
	case 4:
		if digits[3] == '0' {
			return Color{}, ErrTransparent
		}
		digits = digits[:3]
	case 8:
		if digits[6:] == "00" {
			return Color{}, ErrTransparent
		}
		digits = digits[:6]
	case 3, 6:
	default:
		return Color{}, fmt.Errorf("%w: invalid hex color %q", ErrParse, v)
	}

	cf, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	r, g, b := cf.Clamped().RGB255()
	return Color{R: r, G: g, B: b}, nil
}

var functionalPattern = regexp.MustCompile(`^rgba?\((.*)\)$`)

// parseFunctional handles both the legacy comma syntax
// rgb(r, g, b[, a]) and the space syntax rgb(r g b[ / a]).
func parseFunctional(v string) (Color, error) {
	m := functionalPattern.FindStringSubmatch(v)
	if m == nil {
		return Color{}, fmt.Errorf("%w: %q", ErrParse, v)
	}

	var parts []string
	if strings.Contains(m[1], ",") {
		parts = strings.Split(m[1], ",")
	} else {
		body, alpha, hasAlpha := strings.Cut(m[1], "/")
		parts = strings.Fields(body)
		if hasAlpha {
			parts = append(parts, alpha)
		}
	}
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("%w: expected 3 or 4 components in %q", ErrParse, v)
	}

	var channels [3]uint8
	for i := range 3 {
		ch, err := parseChannel(strings.TrimSpace(parts[i]))
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %v", ErrParse, v, err)
		}
		channels[i] = ch
	}

	if len(parts) == 4 {
		alpha, err := parseAlpha(strings.TrimSpace(parts[3]))
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %v", ErrParse, v, err)
		}
		if alpha <= 0 {
			return Color{}, ErrTransparent
		}
	}
	return Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}

func parseChannel(s string) (uint8, error) {
	percent := strings.HasSuffix(s, "%")
	n, err := parseNumber(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, err
	}
	if percent {
		n = n * 255 / 100
	}
	return clamp(n), nil
}

func parseAlpha(s string) (float64, error) {
	percent := strings.HasSuffix(s, "%")
	n, err := parseNumber(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, err
	}
	if percent {
		n /= 100
	}
	return n, nil
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("missing component")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("component %q is not a number", s)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("component %q is not finite", s)
	}
	return n, nil
}

// clamp rounds n and limits it to the 8-bit channel range.
func clamp(n float64) uint8 {
	switch {
	case n <= 0:
		return 0
	case n >= 255:
		return 255
	default:
		return uint8(math.Round(n))
	}
}
