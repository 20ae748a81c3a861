package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no URL or file is given.
	ErrNoTarget = errors.New("no target specified: provide at least one URL or file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative
	// or above model.MaxPageSize. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be between 0 and 32MB")

	// ErrInvalidThreshold is returned when a contrast threshold override is
	// outside the possible range of ratios (1 to 21).
	ErrInvalidThreshold = errors.New("invalid contrast threshold: must be between 0 and 21")

	// ErrInvalidLevel is returned for a WCAG level other than AA or AAA.
	ErrInvalidLevel = errors.New("invalid WCAG level: must be AA or AAA")

	// ErrInvalidCanvas is returned when the canvas is not an opaque color.
	ErrInvalidCanvas = errors.New("invalid canvas color")

	// ErrInvalidFormat is returned for an unknown report format.
	ErrInvalidFormat = errors.New("invalid report format")

	// ErrInvalidFailOn is returned when --fail-on is not a severity name.
	ErrInvalidFailOn = errors.New("invalid --fail-on severity: must be info, low, medium, high or critical")

	// ErrInvalidProxyAddress is returned when the proxy is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
