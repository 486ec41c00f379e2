package observability_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/cells"
	"github.com/calyptra/synapse/pkg/observability"
	"github.com/calyptra/synapse/pkg/plasm"
	"github.com/calyptra/synapse/pkg/sched"
)

func TestGraphCollector(t *testing.T) {
	reg := cell.NewRegistry()
	cells.RegisterAll(reg)

	p := plasm.New()
	gen, err := reg.Build("Generate", cell.WithName("gen"))
	require.NoError(t, err)
	mul, err := reg.Build("Multiply", cell.WithName("mul"))
	require.NoError(t, err)
	require.NoError(t, p.Connect(gen, "out", mul, "in"))

	require.NoError(t, sched.New(p).Execute(context.Background(), 3))

	collector := observability.NewGraphCollector(p)
	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(collector))

	// Three metrics per cell plus one per edge.
	assert.Equal(t, 7, testutil.CollectAndCount(collector))

	expected := strings.NewReader(`
# HELP synapse_cell_process_calls_total Process invocations per cell.
# TYPE synapse_cell_process_calls_total counter
synapse_cell_process_calls_total{cell="gen",type="Generate"} 3
synapse_cell_process_calls_total{cell="mul",type="Multiply"} 3
`)
	assert.NoError(t, testutil.CollectAndCompare(collector, expected,
		"synapse_cell_process_calls_total"))
}
