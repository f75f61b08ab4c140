package chunk

import "errors"

var (
	// ErrInvalidSize is returned when the chunk size is not positive.
	ErrInvalidSize = errors.New("chunk size must be positive")

	// ErrInvalidOverlap is returned when the overlap is negative or not
	// strictly below the chunk size.
	ErrInvalidOverlap = errors.New("overlap must be non-negative and below chunk size")
)
