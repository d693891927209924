package source

import "errors"

// Sentinel kinds for dataset source errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrOpen          = errors.New("open dataset failed")
	ErrUnknownDriver = errors.New("unknown dataset driver")
)
