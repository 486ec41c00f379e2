// Package storage persists serialized topologies so graphs can be shared
// between runs and processes. Adapters implement TopologyStore; the
// contract test in this package pins the behavior they must agree on.
package storage

import (
	"context"
	"errors"

	"github.com/calyptra/synapse/pkg/plasm"
)

// ErrNotFound reports a lookup of a name that was never saved.
var ErrNotFound = errors.New("topology not found")

// TopologyStore is the persistence port for topology documents.
type TopologyStore interface {
	// Save stores doc under name, replacing any previous version.
	Save(ctx context.Context, name string, doc plasm.Document) error
	// Load returns the document stored under name.
	Load(ctx context.Context, name string) (plasm.Document, error)
	// List returns every stored name in lexical order.
	List(ctx context.Context) ([]string, error)
	// Delete removes name. Deleting an absent name is a no-op.
	Delete(ctx context.Context, name string) error
}
