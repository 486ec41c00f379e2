package cell

import "github.com/google/uuid"

// Strand is an affinity token identifying a single threaded execution
// domain. Cells sharing a strand never run concurrently with each other.
// Equality is by identity: two handles are the same strand iff they share
// the same ID.
type Strand struct {
	id uuid.UUID
}

// NewStrand creates a fresh affinity token.
func NewStrand() *Strand {
	return &Strand{id: uuid.New()}
}

// ID returns the strand identity.
func (s *Strand) ID() uuid.UUID { return s.id }

func (s *Strand) String() string { return "strand:" + s.id.String()[:8] }

// sharedStrand serializes every cell whose implementation is not marked
// thread safe.
var sharedStrand = NewStrand()

// SharedStrand returns the process wide strand assigned to cells that are
// not safe for concurrent execution.
func SharedStrand() *Strand { return sharedStrand }
