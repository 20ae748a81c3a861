// Package pipeline runs the stages of an audit in sequence.
//
// A target goes through three steps: the fetch step loads and parses the
// page, the audit step runs the accessibility checks against it, and the
// summary step builds the counted view the report writers print. Each step
// receives the report and adds to it.
//
// Several targets are processed concurrently by BatchProcessor using
// errgroup. Targets are independent: there is no crawling between them.
package pipeline
