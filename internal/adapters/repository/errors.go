package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrInvariant = errors.New("record invariant violated")
)
