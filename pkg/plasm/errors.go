package plasm

import "errors"

var (
	// ErrUnknownCell reports a lookup or connect naming a cell that was
	// never inserted.
	ErrUnknownCell = errors.New("unknown cell")
	// ErrAlreadyConnected reports a second edge aimed at an input port
	// that already has a producer.
	ErrAlreadyConnected = errors.New("input already connected")
	// ErrNotConnected reports a disconnect of an edge that does not exist.
	ErrNotConnected = errors.New("not connected")
	// ErrCyclic reports a topology whose connections contain a cycle.
	ErrCyclic = errors.New("cyclic topology")
)
