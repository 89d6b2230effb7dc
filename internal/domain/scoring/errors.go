package scoring

import "errors"

// Package error definitions.
var (
	// ErrInvalidSellingPrice indicates a non-positive selling price.
	ErrInvalidSellingPrice = errors.New("selling price must be positive")
	// ErrInvalidProductCost indicates a negative product cost.
	ErrInvalidProductCost = errors.New("product cost must not be negative")
	// ErrEmptyKeyword indicates a signal with no keyword.
	ErrEmptyKeyword = errors.New("keyword must not be empty")
)
