package contrast

import "errors"

var (
	// ErrParse is returned when a color value cannot be resolved to
	// three channel values. The element being evaluated should be treated as
	// not applicable.
	ErrParse = errors.New("unparsable color")

	// ErrTransparent is returned for fully transparent colors. It is not a
	// failure: a transparent background lets the parent background through.
	ErrTransparent = errors.New("transparent color")

	// ErrUnknownLevel is returned by ParseLevel for anything but AA or AAA.
	ErrUnknownLevel = errors.New("unknown WCAG conformance level: must be AA or AAA")
)
