package report

import "errors"

// ErrNoDocument is returned by AnnotatedWriter for a report whose page
// was never loaded.
var ErrNoDocument = errors.New("report has no parsed page to annotate")
