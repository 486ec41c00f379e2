package sched

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled reports a run terminated by interrupt or context
	// cancellation before it finished its iterations.
	ErrCancelled = errors.New("execution cancelled")
	// ErrAlreadyRunning reports a second Execute on a busy scheduler.
	ErrAlreadyRunning = errors.New("scheduler already running")
)

// errQuit flows through context cancellation when a cell returns QUIT. It
// never escapes the scheduler.
var errQuit = errors.New("quit requested")

func errUnknownCode(rc any) error {
	return fmt.Errorf("unrecognized return code %v", rc)
}
