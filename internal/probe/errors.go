package probe

import "errors"

// Sentinel error kinds for the probe.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrBadResponse  = errors.New("unexpected response")
	ErrVerification = errors.New("verification failed")
)
