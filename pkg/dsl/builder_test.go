package dsl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/synapse/pkg/cells"
	"github.com/calyptra/synapse/pkg/dsl"
	"github.com/calyptra/synapse/pkg/sched"
)

func TestBuilderSimplePipeline(t *testing.T) {
	b := dsl.New(nil)

	b.Cell("gen", "Generate").
		Param("step", 2.0).
		To("mul", "out", "in")

	b.Cell("mul", "Multiply").
		Param("factor", 10.0).
		To("col", "out", "in")

	b.Cell("col", "Collect")

	p, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 3, p.Len())
	require.Len(t, p.Connections(), 2)

	s := sched.New(p)
	require.NoError(t, s.Execute(context.Background(), 3))

	col, err := p.Cell("col")
	require.NoError(t, err)
	sink, ok := col.Impl().(*cells.Collect)
	require.True(t, ok)
	assert.Equal(t, []any{0.0, 20.0, 40.0}, sink.Values())
}

func TestBuilderCellIsIdempotent(t *testing.T) {
	b := dsl.New(nil)
	first := b.Cell("gen", "Generate")
	second := b.Cell("gen", "Generate")
	assert.Same(t, first, second)
}

func TestBuilderUnknownType(t *testing.T) {
	b := dsl.New(nil)
	b.Cell("ghost", "Ghost")
	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `build cell "ghost"`)
}

func TestBuilderUnknownConnection(t *testing.T) {
	b := dsl.New(nil)
	b.Cell("gen", "Generate")
	b.Connect("gen", "out", "missing", "in")
	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestBuilderParamTypeMismatch(t *testing.T) {
	b := dsl.New(nil)
	b.Cell("mul", "Multiply").Param("factor", struct{}{})
	_, err := b.Build()
	require.Error(t, err)
}
