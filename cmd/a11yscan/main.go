// Package main provides the entry point for the a11yscan CLI.
//
// a11yscan audits HTML pages for common accessibility problems: missing
// text alternatives, unlabeled form controls, empty links and buttons,
// misused ARIA attributes and text below the WCAG contrast minimum.
//
// Usage:
//
//	a11yscan audit <url-or-file>...
//	a11yscan contrast <background> <foreground>
//
// See --help for all available options.
package main

// main is the entry point for a11yscan.
func main() {
	Execute()
}
