// Package style computes the styles the contrast check needs from a parsed
// HTML document without a browser.
//
// A Resolver collects the author stylesheets of a document (<style>
// elements), the inline style attributes and legacy presentational
// attributes, and cascades them per element:
//
//   - !important declarations win over normal ones
//   - inline styles win over stylesheet rules, which win over attributes
//   - higher selector specificity wins, then later source order
//
// From the cascade it derives the effective foreground color (inherited),
// the effective background color (the first non-transparent background on
// the element or its ancestors, falling back to the canvas color) and the
// font size and weight that decide whether WCAG's large text threshold
// applies.
//
// Stylesheets are parsed with github.com/aymerick/douceur
// and selectors are matched with github.com/andybalholm/cascadia. Linked
// stylesheets and scripts are not loaded, so the result approximates what a
// browser computes for server-rendered markup.
package style
