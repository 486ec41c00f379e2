package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/synapse/pkg/plasm"
)

// RunTopologyStoreContract verifies that a TopologyStore implementation
// adheres to the interface contract. Adapter test suites call it against
// their own backend.
func RunTopologyStoreContract(t *testing.T, store TopologyStore) {
	ctx := context.Background()
	name := "contract-topology-" + time.Now().Format("20060102150405")

	doc := plasm.Document{
		Cells: []plasm.CellDoc{
			{Name: "gen", Type: "Generate", Params: map[string]any{"start": 1.0, "step": 2.0}},
			{Name: "mul", Type: "Multiply"},
		},
		Connections: []plasm.ConnectionDoc{
			{From: "gen", FromPort: "out", To: "mul", ToPort: "in"},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, doc))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		require.Len(t, loaded.Cells, 2)
		assert.Equal(t, "gen", loaded.Cells[0].Name)
		assert.Equal(t, "Generate", loaded.Cells[0].Type)
		assert.Equal(t, doc.Connections, loaded.Connections)
		// YAML persistence may widen numerics; presence is what matters.
		assert.NotNil(t, loaded.Cells[0].Params["start"])
	})

	t.Run("Save Replaces", func(t *testing.T) {
		smaller := plasm.Document{Cells: doc.Cells[:1]}
		require.NoError(t, store.Save(ctx, name, smaller))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Len(t, loaded.Cells, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "absent-"+name)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, doc))
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting again stays silent.
		assert.NoError(t, store.Delete(ctx, name))
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, id1, doc))
		require.NoError(t, store.Save(ctx, id2, doc))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
