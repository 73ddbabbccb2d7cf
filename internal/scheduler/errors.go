package scheduler

import "errors"

// Sentinel errors for the scheduler.
var (
	ErrInvalidSchedule = errors.New("invalid refresh schedule")
	ErrNilRefresher    = errors.New("refresher is nil")
)
