package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNotFound    = errors.New("cache entry not found")
	ErrUnsupported = errors.New("operation not supported by store")
	ErrClosed      = errors.New("cache store closed")
)
