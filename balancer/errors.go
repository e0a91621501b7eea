package balancer

import "errors"

var (
	// ErrAlreadyStarted is returned when Start is called on a balancer
	// whose sampling loop is already running.
	ErrAlreadyStarted = errors.New("balancer already started")

	// ErrNotStarted is returned when Stop is called on a balancer that
	// was never started.
	ErrNotStarted = errors.New("balancer is not running")
)
