package docs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/synapse/internal/presentation/docs"
	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/cells"
)

func TestCellMarkdown(t *testing.T) {
	reg := cell.NewRegistry()
	cells.RegisterAll(reg)

	c, err := reg.Build("Multiply", cell.WithName("mul"))
	require.NoError(t, err)
	require.NoError(t, c.DeclareParams())
	require.NoError(t, c.DeclareIO())

	md := docs.CellMarkdown(c)
	assert.Contains(t, md, "# Multiply")
	assert.Contains(t, md, "## Parameters")
	assert.Contains(t, md, "`factor`")
	assert.Contains(t, md, "`2`")
	assert.Contains(t, md, "## Inputs")
	assert.Contains(t, md, "yes")
}

func TestRegistryMarkdownCoversAllTags(t *testing.T) {
	reg := cell.NewRegistry()
	cells.RegisterAll(reg)

	md, err := docs.RegistryMarkdown(reg)
	require.NoError(t, err)
	for _, tag := range reg.Tags() {
		assert.Contains(t, md, "# "+tag)
	}
}
