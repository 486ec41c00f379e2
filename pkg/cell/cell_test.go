package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/synapse/pkg/tendril"
)

type adder struct {
	configured bool
	started    int
	stopped    int
}

func (a *adder) DeclareParams(params *tendril.Tendrils) error {
	_, err := tendril.Declare[float64](params, "bias", "added to every sum", tendril.WithDefault(0.0))
	return err
}

func (a *adder) DeclareIO(params, in, out *tendril.Tendrils) error {
	if _, err := tendril.Declare[float64](in, "left", "", tendril.Required()); err != nil {
		return err
	}
	if _, err := tendril.Declare[float64](in, "right", "", tendril.Required()); err != nil {
		return err
	}
	_, err := tendril.Declare[float64](out, "sum", "")
	return err
}

func (a *adder) Configure(params, in, out *tendril.Tendrils) error {
	a.configured = true
	return nil
}

func (a *adder) Start() error { a.started++; return nil }
func (a *adder) Stop() error  { a.stopped++; return nil }

func (a *adder) Process(in, out *tendril.Tendrils) (ReturnCode, error) {
	l, err := tendril.Bind[float64](in, "left")
	if err != nil {
		return Unknown, err
	}
	r, err := tendril.Bind[float64](in, "right")
	if err != nil {
		return Unknown, err
	}
	s, err := tendril.Bind[float64](out, "sum")
	if err != nil {
		return Unknown, err
	}
	lv, err := l.Get()
	if err != nil {
		return Unknown, err
	}
	rv, err := r.Get()
	if err != nil {
		return Unknown, err
	}
	return OK, s.Set(lv + rv)
}

type panicky struct{}

func (p *panicky) Process(in, out *tendril.Tendrils) (ReturnCode, error) {
	panic("boom")
}

func setupAdder(t *testing.T) *Cell {
	t.Helper()
	c := New(&adder{}, WithName("adder"))
	require.NoError(t, c.DeclareParams())
	require.NoError(t, c.DeclareIO())
	require.NoError(t, c.Configure())
	return c
}

func TestLifecycleHappyPath(t *testing.T) {
	c := setupAdder(t)
	assert.Equal(t, Configured, c.State())
	assert.True(t, c.Impl().(*adder).configured)

	require.NoError(t, c.Start())
	assert.Equal(t, Running, c.State())

	require.NoError(t, mustSet(c.Inputs(), "left", 1.0))
	require.NoError(t, mustSet(c.Inputs(), "right", 2.0))
	rc, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, OK, rc)

	v, err := mustAt(c.Outputs(), "sum").Get()
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	require.NoError(t, c.Stop())
	assert.Equal(t, Configured, c.State())
}

func TestLifecycleOutOfOrder(t *testing.T) {
	c := New(&adder{})

	err := c.Configure()
	assert.ErrorIs(t, err, ErrLifecycle)

	err = c.DeclareIO()
	assert.ErrorIs(t, err, ErrLifecycle)

	_, err = c.Process()
	assert.ErrorIs(t, err, ErrLifecycle)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "process", ce.Phase)
	assert.Equal(t, "adder", ce.TypeName)
}

func TestDeclareParamsTwice(t *testing.T) {
	c := New(&adder{})
	require.NoError(t, c.DeclareParams())
	assert.ErrorIs(t, c.DeclareParams(), ErrLifecycle)
}

func TestStartStopRestart(t *testing.T) {
	c := setupAdder(t)
	require.NoError(t, c.Start())
	require.NoError(t, c.Stop())
	require.NoError(t, c.Start())
	require.NoError(t, c.Stop())

	impl := c.Impl().(*adder)
	assert.Equal(t, 2, impl.started)
	assert.Equal(t, 2, impl.stopped)
}

func TestProcessMissingRequiredInput(t *testing.T) {
	c := setupAdder(t)
	require.NoError(t, c.Start())

	_, err := c.Process()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "left")
}

func TestProcessPanicRecovered(t *testing.T) {
	c := New(&panicky{}, WithName("p"))
	require.NoError(t, c.DeclareParams())
	require.NoError(t, c.DeclareIO())
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())

	rc, err := c.Process()
	assert.Equal(t, Unknown, rc)
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Err.Error(), "boom")
}

func TestRequestStop(t *testing.T) {
	c := setupAdder(t)
	require.NoError(t, c.Start())
	c.RequestStop()

	_, err := c.Process()
	assert.ErrorIs(t, err, ErrStopped)
}

func TestTickCountsSuccessfulCalls(t *testing.T) {
	c := setupAdder(t)
	require.NoError(t, c.Start())
	require.NoError(t, mustSet(c.Inputs(), "left", 1.0))
	require.NoError(t, mustSet(c.Inputs(), "right", 1.0))

	for i := 0; i < 3; i++ {
		_, err := c.Process()
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(3), c.Tick())
	assert.Equal(t, uint64(3), c.Stats().Calls())
}

func TestOnProcessObserver(t *testing.T) {
	c := setupAdder(t)
	var seen []ReturnCode
	c.OnProcess(func(_ *Cell, rc ReturnCode, err error) {
		seen = append(seen, rc)
	})
	require.NoError(t, c.Start())
	require.NoError(t, mustSet(c.Inputs(), "left", 1.0))
	require.NoError(t, mustSet(c.Inputs(), "right", 1.0))
	_, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, []ReturnCode{OK}, seen)
}

func TestSharedStrandForNonThreadSafe(t *testing.T) {
	c := New(&adder{})
	require.NotNil(t, c.Strand())
	assert.Equal(t, SharedStrand().ID(), c.Strand().ID())
}

type safeImpl struct{}

func (safeImpl) Process(in, out *tendril.Tendrils) (ReturnCode, error) { return OK, nil }
func (safeImpl) ThreadSafe() bool                                      { return true }

func TestThreadSafeCellHasNoStrand(t *testing.T) {
	c := New(safeImpl{})
	assert.Nil(t, c.Strand())
}

func TestClone(t *testing.T) {
	c := setupAdder(t)
	clone := c.Clone()
	assert.Equal(t, Created, clone.State())
	assert.Equal(t, c.TypeName(), clone.TypeName())
	assert.NotEqual(t, c.Name(), clone.Name())
	assert.NotSame(t, c.Impl(), clone.Impl())
}

func TestRegistryBuild(t *testing.T) {
	reg := NewRegistry()
	reg.Register("adder", func() Impl { return &adder{} })

	c, err := reg.Build("adder", WithName("a1"))
	require.NoError(t, err)
	assert.Equal(t, "a1", c.Name())

	_, err = reg.Build("ghost")
	assert.Error(t, err)
	assert.Equal(t, []string{"adder"}, reg.Tags())
}

func TestReturnCodeString(t *testing.T) {
	assert.Equal(t, "OK", OK.String())
	assert.Equal(t, "QUIT", Quit.String())
	assert.Equal(t, "BREAK", Break.String())
	assert.Equal(t, "CONTINUE", Continue.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "UNKNOWN", ReturnCode(99).String())
}

func mustSet(ts *tendril.Tendrils, name string, v any) error {
	tr, err := ts.At(name)
	if err != nil {
		return err
	}
	return tr.Set(v)
}

func mustAt(ts *tendril.Tendrils, name string) *tendril.Tendril {
	tr, err := ts.At(name)
	if err != nil {
		panic(err)
	}
	return tr
}
