package storage_test

import (
	"testing"

	"github.com/calyptra/synapse/pkg/storage"
)

func TestMemoryStore_Contract(t *testing.T) {
	storage.RunTopologyStoreContract(t, storage.NewMemoryStore())
}
