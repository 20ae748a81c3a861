package style

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

type font struct {
	size   float64
	weight int
}

// User agent defaults for elements that change the font.
var (
	defaultSizeEm = map[string]float64{
		"h1": 2, "h2": 1.5, "h3": 1.17, "h4": 1, "h5": 0.83, "h6": 0.67,
		"small": 0.83, "sub": 0.83, "sup": 0.83,
	}
	defaultBold = map[string]bool{
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"b": true, "strong": true, "th": true,
	}
	absoluteSizes = map[string]float64{
		"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
		"large": 18, "x-large": 24, "xx-large": 32, "xxx-large": 48,
	}
)

// font returns the inherited font size and weight of n.
func (r *Resolver) font(n *html.Node) font {
	if n == nil || n.Type != html.ElementNode {
		return font{size: DefaultFontSize, weight: 400}
	}
	if f, ok := r.fonts[n]; ok {
		return f
	}

	parent := r.font(parentElement(n))
	f := parent
	if em, ok := defaultSizeEm[n.Data]; ok {
		f.size = parent.size * em
	}
	if defaultBold[n.Data] {
		f.weight = 700
	}

	decl := r.cascade(n)
	if v := decl["font-size"].value; v != "" {
		if size, ok := parseFontSize(v, parent.size); ok {
			f.size = size
		}
	}
	if v := decl["font-weight"].value; v != "" {
		f.weight = parseFontWeight(v, parent.weight, f.weight)
	}

	r.fonts[n] = f
	return f
}

// parseFontSize converts a font-size value to pixels.
func parseFontSize(v string, parentSize float64) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if px, ok := absoluteSizes[v]; ok {
		return px, true
	}

	switch v {
	case "larger":
		return parentSize * 1.2, true
	case "smaller":
		return parentSize / 1.2, true
	case "inherit", "unset":
		return parentSize, true
	case "initial":
		return DefaultFontSize, true
	}

	units := []struct {
		suffix string
		scale  func(float64) float64
	}{
		{"px", func(x float64) float64 { return x }},
		{"pt", func(x float64) float64 { return x * 4 / 3 }},
		{"rem", func(x float64) float64 { return x * DefaultFontSize }},
		{"em", func(x float64) float64 { return x * parentSize }},
		{"%", func(x float64) float64 { return x * parentSize / 100 }},
	}
	for _, u := range units {
		if num, ok := strings.CutSuffix(v, u.suffix); ok {
			x, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil || x < 0 {
				return 0, false
			}
			return u.scale(x), true
		}
	}
	return 0, false
}

// parseFontWeight converts a font-weight value to a number.
func parseFontWeight(v string, parentWeight, current int) int {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "normal", "initial":
		return 400
	case "bold":
		return 700
	case "bolder":
		if parentWeight < 600 {
			return 700
		}
		return 900
	case "lighter":
		if parentWeight > 600 {
			return 400
		}
		return 100
	case "inherit", "unset":
		return parentWeight
	}
	if w, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && w >= 1 && w <= 1000 {
		return w
	}
	return current
}

// expandFont turns a font shorthand such as "bold 24px/1.2 serif" into
// font-size and font-weight declarations. The shorthand resets the weight
// to normal when it names none. A shorthand without a size is invalid and
// ignored, as are system font keywords.
func expandFont(d declaration) []declaration {
	sizeDecl, weightDecl := d, d
	sizeDecl.property = "font-size"
	sizeDecl.value = ""
	weightDecl.property = "font-weight"
	weightDecl.value = "normal"

	tokens := strings.Fields(d.value)
	if len(tokens) == 1 {
		switch v := strings.ToLower(tokens[0]); v {
		case "inherit", "initial", "unset":
			sizeDecl.value, weightDecl.value = v, v
			return []declaration{sizeDecl, weightDecl}
		}
	}

	for _, tok := range tokens {
		if size, _, found := strings.Cut(tok, "/"); found {
			tok = size
		}
		if parseFontWeight(tok, 400, -1) != -1 {
			weightDecl.value = tok
			continue
		}
		if _, ok := parseFontSize(tok, DefaultFontSize); ok {
			sizeDecl.value = tok
			// The family follows the size.
			break
		}
	}
	if sizeDecl.value == "" {
		return nil
	}
	return []declaration{sizeDecl, weightDecl}
}
