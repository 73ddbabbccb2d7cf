package smoke

import "errors"

// Sentinel errors for smoke runs.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrStatus       = errors.New("unexpected status")
	ErrVerification = errors.New("verification failed")
)
