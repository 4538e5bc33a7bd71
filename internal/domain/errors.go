package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart indicates a checkout was attempted on a cart with no line items.
	ErrEmptyCart = errors.New("empty cart")
	// ErrOutOfStock indicates no line item of a checkout could be fulfilled.
	ErrOutOfStock = errors.New("out of stock")
	// ErrValidation indicates malformed or inconsistent input.
	ErrValidation = errors.New("validation failed")
)
