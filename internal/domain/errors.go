package domain

import "errors"

var (
	// ErrInvalidInput marks malformed caller input (NaN, negative price, unknown enum)
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks lookups of unknown ids or tickers
	ErrNotFound = errors.New("not found")
)
