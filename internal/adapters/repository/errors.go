package repository

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrNotFound     = errors.New("keyword not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
