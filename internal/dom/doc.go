// Package dom provides small helpers over golang.org/x/net/html trees:
// attribute access, text extraction, ancestor lookup and the selector paths
// and snippets reports use to point at an element.
package dom
