package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrMalformedRow = errors.New("malformed dataset row")
	ErrInvalidRange = errors.New("invalid year range")
)
