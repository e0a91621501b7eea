package config

import "errors"

var (
	// ErrInvalidConfig is returned when configuration parameters are
	// inconsistent or out of range.
	ErrInvalidConfig = errors.New("invalid configuration parameters")

	// ErrTunerRunning is returned when Start is called on a tuner that is
	// already running.
	ErrTunerRunning = errors.New("adaptive tuner already running")

	// ErrTunerStopped is returned when Stop is called on a tuner that was
	// never started.
	ErrTunerStopped = errors.New("adaptive tuner is not running")
)
