package cells_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/cells"
)

func ready(t *testing.T, impl cell.Impl) *cell.Cell {
	t.Helper()
	c := cell.New(impl)
	require.NoError(t, c.DeclareParams())
	require.NoError(t, c.DeclareIO())
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())
	return c
}

func setIn(t *testing.T, c *cell.Cell, port string, v any) {
	t.Helper()
	tr, err := c.Inputs().At(port)
	require.NoError(t, err)
	require.NoError(t, tr.Set(v))
}

func outVal(t *testing.T, c *cell.Cell, port string) any {
	t.Helper()
	tr, err := c.Outputs().At(port)
	require.NoError(t, err)
	v, err := tr.Get()
	require.NoError(t, err)
	return v
}

func TestGenerateSequence(t *testing.T) {
	impl := &cells.Generate{}
	c := cell.New(impl)
	require.NoError(t, c.DeclareParams())
	require.NoError(t, c.Params().SetValues(map[string]any{"start": 10.0, "step": 5.0}))
	require.NoError(t, c.DeclareIO())
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())

	var got []any
	for i := 0; i < 3; i++ {
		rc, err := c.Process()
		require.NoError(t, err)
		require.Equal(t, cell.OK, rc)
		got = append(got, outVal(t, c, "out"))
	}
	assert.Equal(t, []any{10.0, 15.0, 20.0}, got)
}

func TestAdd(t *testing.T) {
	c := ready(t, cells.Add{})
	setIn(t, c, "left", 2.0)
	setIn(t, c, "right", 2.5)

	rc, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, cell.OK, rc)
	assert.Equal(t, 4.5, outVal(t, c, "out"))
	assert.Nil(t, c.Strand())
}

func TestMultiplyDefaultFactor(t *testing.T) {
	c := ready(t, &cells.Multiply{})
	setIn(t, c, "in", 3.0)

	_, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, 6.0, outVal(t, c, "out"))
}

func TestIdentityForwardsAnything(t *testing.T) {
	c := ready(t, cells.Identity{})
	setIn(t, c, "in", "payload")

	_, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, "payload", outVal(t, c, "out"))
}

func TestDelayBreaksUntilFull(t *testing.T) {
	impl := &cells.Delay{}
	c := cell.New(impl)
	require.NoError(t, c.DeclareParams())
	require.NoError(t, c.Params().SetValues(map[string]any{"ticks": 2}))
	require.NoError(t, c.DeclareIO())
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())

	for i, want := range []cell.ReturnCode{cell.Break, cell.Break, cell.OK} {
		setIn(t, c, "in", i)
		rc, err := c.Process()
		require.NoError(t, err)
		assert.Equal(t, want, rc, "call %d", i)
	}
	assert.Equal(t, 0, outVal(t, c, "out"))
}

func TestQuitAfter(t *testing.T) {
	impl := &cells.QuitAfter{}
	c := cell.New(impl)
	require.NoError(t, c.DeclareParams())
	require.NoError(t, c.Params().SetValues(map[string]any{"after": 2}))
	require.NoError(t, c.DeclareIO())
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())

	setIn(t, c, "in", 1)
	rc, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, cell.OK, rc)

	rc, err = c.Process()
	require.NoError(t, err)
	assert.Equal(t, cell.Quit, rc)
}

func TestPrinterWritesPrefixedLines(t *testing.T) {
	var buf bytes.Buffer
	impl := &cells.Printer{W: &buf}
	c := cell.New(impl)
	require.NoError(t, c.DeclareParams())
	require.NoError(t, c.Params().SetValues(map[string]any{"prefix": "v="}))
	require.NoError(t, c.DeclareIO())
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())

	setIn(t, c, "in", 42)
	_, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, "v=42\n", buf.String())
}

func TestCollectResetsOnStart(t *testing.T) {
	impl := &cells.Collect{}
	c := ready(t, impl)
	setIn(t, c, "in", "a")
	_, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, impl.Values())

	require.NoError(t, c.Stop())
	require.NoError(t, c.Start())
	assert.Empty(t, impl.Values())
}

func TestCounter(t *testing.T) {
	c := ready(t, &cells.Counter{})
	setIn(t, c, "in", "x")
	for i := 1; i <= 3; i++ {
		_, err := c.Process()
		require.NoError(t, err)
		assert.Equal(t, i, outVal(t, c, "count"))
	}
}

func TestRegisterAllTags(t *testing.T) {
	reg := cell.NewRegistry()
	cells.RegisterAll(reg)
	assert.Equal(t, []string{
		"Add", "Collect", "Counter", "Delay", "Generate",
		"Identity", "Multiply", "Printer", "QuitAfter",
	}, reg.Tags())
}
