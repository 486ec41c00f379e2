package cell

import (
	"errors"
	"fmt"
)

// ErrLifecycle reports a lifecycle hook invoked out of order.
var ErrLifecycle = errors.New("lifecycle violation")

// ErrStopped reports a process call on a cell after RequestStop.
var ErrStopped = errors.New("cell stopped")

// Error wraps a failure raised inside a cell hook with enough context to
// locate the offending cell: the lifecycle phase, the instance name and the
// implementation type.
type Error struct {
	Phase    string
	Cell     string
	TypeName string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cell %q (%s) failed in %s: %v", e.Cell, e.TypeName, e.Phase, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapErr(phase, name, typeName string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Phase: phase, Cell: name, TypeName: typeName, Err: err}
}
