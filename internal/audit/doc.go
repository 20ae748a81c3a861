// Package audit runs accessibility checks against a loaded HTML page.
//
// The Auditor coordinates a set of Check implementations. Each check
// inspects the parsed document for one class of problem and returns
// findings that point at the offending elements:
//
//   - Images: missing alt text on img, area and input[type=image]
//   - Forms: controls without a label or ARIA name
//   - ARIA: empty role attributes, aria-hidden="false"
//   - Keyboard: custom controls that cannot receive focus
//   - Structure: empty links, buttons and table headers, untitled iframes,
//     missing or empty language and page title
//   - Color: text below the WCAG contrast minimum
//
// Checks use CSS selectors (github.com/andybalholm/cascadia)
// to pick candidate elements, the same way the checks would be written
// against a live DOM with querySelectorAll. The predicate deciding whether a
// candidate fails is plain Go code so it can look at ancestors, referenced
// ids and computed styles.
package audit
