package nurture

import "errors"

var (
	ErrTimerActive   = errors.New("a timer is already running")
	ErrNoActiveTimer = errors.New("no active timer")
	ErrInvalidRange  = errors.New("end time must be after start time")
)
