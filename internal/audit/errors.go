package audit

import "errors"

var (
	// ErrNoDocument is returned when the page has no parsed document.
	ErrNoDocument = errors.New("page has no parsed HTML document")

	// ErrUnknownCheck is returned for a check name that is not registered.
	ErrUnknownCheck = errors.New("unknown check")
)
