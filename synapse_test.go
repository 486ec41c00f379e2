package synapse_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/synapse"
	"github.com/calyptra/synapse/pkg/cells"
	"github.com/calyptra/synapse/pkg/storage"
)

func buildPipeline(t *testing.T, opts ...synapse.Option) *synapse.Graph {
	t.Helper()
	g := synapse.New(opts...)

	_, err := g.AddType("gen", "Generate")
	require.NoError(t, err)
	_, err = g.AddType("mul", "Multiply")
	require.NoError(t, err)
	_, err = g.AddType("col", "Collect")
	require.NoError(t, err)

	require.NoError(t, g.Connect("gen", "out", "mul", "in"))
	require.NoError(t, g.Connect("mul", "out", "col", "in"))
	return g
}

func collected(t *testing.T, g *synapse.Graph, name string) []any {
	t.Helper()
	c, err := g.Plasm().Cell(name)
	require.NoError(t, err)
	sink, ok := c.Impl().(*cells.Collect)
	require.True(t, ok)
	return sink.Values()
}

func TestGraphRun(t *testing.T) {
	g := buildPipeline(t, synapse.WithName("pipeline"))
	require.NoError(t, g.Run(context.Background(), 3))
	assert.Equal(t, []any{0.0, 2.0, 4.0}, collected(t, g, "col"))
}

func TestGraphRunMultithreaded(t *testing.T) {
	g := buildPipeline(t, synapse.WithThreads(4))
	require.NoError(t, g.Run(context.Background(), 3))
	assert.Equal(t, []any{0.0, 2.0, 4.0}, collected(t, g, "col"))
}

func TestGraphAddCustomImpl(t *testing.T) {
	g := synapse.New()
	_, err := g.Add("id", &cells.Identity{})
	require.NoError(t, err)
	_, err = g.Plasm().Cell("id")
	require.NoError(t, err)
}

func TestGraphConnectUnknownCell(t *testing.T) {
	g := synapse.New()
	require.Error(t, g.Connect("ghost", "out", "also-ghost", "in"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := buildPipeline(t, synapse.WithName("roundtrip"))

	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf))
	assert.Contains(t, buf.String(), "Generate")

	loaded, err := synapse.Load(&buf)
	require.NoError(t, err)
	require.NoError(t, loaded.Run(context.Background(), 2))
	assert.Equal(t, []any{0.0, 2.0}, collected(t, loaded, "col"))
}

func TestStoreFetch(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	g := buildPipeline(t, synapse.WithName("stored"))
	require.NoError(t, g.Store(ctx, store))

	fetched, err := synapse.Fetch(ctx, store, "stored")
	require.NoError(t, err)
	assert.Equal(t, "stored", fetched.Name())
	require.NoError(t, fetched.Run(ctx, 2))
	assert.Equal(t, []any{0.0, 2.0}, collected(t, fetched, "col"))
}

func TestFetchMissing(t *testing.T) {
	_, err := synapse.Fetch(context.Background(), storage.NewMemoryStore(), "absent")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
