// Package contrast evaluates WCAG 2.1 text contrast.
//
// The package converts color values into 8-bit RGB triples and
// computes relative luminance and contrast ratios exactly as WCAG 2.1
// defines them:
//
//	L = 0.2126*R + 0.7152*G + 0.0722*B
//	ratio = (L_bright + 0.05) / (L_dark + 0.05)
//
// where each channel is linearized with the 0.03928 threshold from the
// WCAG text (not the 0.04045 value of the sRGB standard).
//
// Color values come in a closed set of shapes, all accepted by Parse:
//   - CSS: a textual color such as "rgb(12, 34, 56)", "#777" or "navy"
//   - Pixel: a sample taken from a rendered image
//   - Sample: an already resolved image/color value
//
// Parse never returns a fallback color on failure. A
// malformed value yields an error wrapping ErrParse so the caller
// can skip the comparison instead of reporting a bogus ratio. Fully
// transparent input yields ErrTransparent, which tells a style resolver to
// keep looking at ancestor backgrounds.
//
// Everything in this package is a pure function and safe for concurrent use.
package contrast
