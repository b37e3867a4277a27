package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrInvalidPhase = errors.New("operation not allowed in current phase")
	ErrNoProvider   = errors.New("no task provider configured")
)
