package plasm

import (
	"sync"

	"github.com/calyptra/synapse/pkg/tendril"
)

// Edge is the FIFO conveying values from one output port to one input
// port. A scheduler is the only producer and the only consumer of a given
// edge during a run, but producer and consumer may sit on different
// goroutines, so access is locked.
type Edge struct {
	typ tendril.Type

	mu    sync.Mutex
	queue []any
}

func newEdge(typ tendril.Type) *Edge {
	return &Edge{typ: typ}
}

// Type returns the element type carried by the edge.
func (e *Edge) Type() tendril.Type { return e.typ }

// Push appends a value to the back of the queue.
func (e *Edge) Push(v any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, v)
}

// Front returns the oldest value without removing it.
func (e *Edge) Front() (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return nil, false
	}
	return e.queue[0], true
}

// Pop removes and returns the oldest value.
func (e *Edge) Pop() (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return nil, false
	}
	v := e.queue[0]
	e.queue[0] = nil
	e.queue = e.queue[1:]
	return v, true
}

// Len returns the number of queued values.
func (e *Edge) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Drain discards all queued values.
func (e *Edge) Drain() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = nil
}
