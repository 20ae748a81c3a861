package main

import "errors"

var (
	// ErrFindingsAtThreshold is returned when a report has findings at or
	// above the --fail-on severity. It makes the process exit with status 2.
	ErrFindingsAtThreshold = errors.New("findings at or above the fail-on severity")

	// ErrTargetsFailed is returned when at least one target could not be
	// loaded or audited.
	ErrTargetsFailed = errors.New("audit failed")
)
