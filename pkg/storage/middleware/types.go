// Package middleware wraps topology stores with cross cutting behavior
// such as encryption at rest.
package middleware

import "github.com/calyptra/synapse/pkg/storage"

// Middleware allows wrapping a TopologyStore to add behavior.
type Middleware func(storage.TopologyStore) storage.TopologyStore
