package fetcher

import "errors"

var (
	// ErrEmptyTarget is returned when Fetch is called without a target.
	ErrEmptyTarget = errors.New("empty target")

	// ErrUnsupportedScheme is returned for URLs that are neither http(s)
	// nor file.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrNotHTML is returned when the target is not an HTML document.
	ErrNotHTML = errors.New("target is not an HTML document")

	// ErrHTTPStatus is returned when the server answers with a 4xx or 5xx
	// status code.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxyAddress is returned when the proxy address format is
	// invalid. Expected format is "host:port" or "socks5://host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)
