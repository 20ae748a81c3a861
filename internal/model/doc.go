// Package model defines the core data structures used throughout a11yscan.
//
// This package contains the following main types:
//   - Page: A loaded HTML document with its parsed tree
//   - Finding: One accessibility issue tied to one element
//   - AuditReport: The full result of auditing one target
//   - SimpleReport: A sorted, counted view for presentation
//
// Models live in their own package so the audit, pipeline and report
// packages can share them without import cycles.
//
// The models are designed to be serializable to JSON for report output. The
// parsed document and element nodes are excluded from serialization.
package model
