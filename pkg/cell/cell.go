package cell

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/calyptra/synapse/pkg/tendril"
)

// State tracks how far a cell has advanced through its lifecycle.
type State int

const (
	Created State = iota
	ParamsDeclared
	IODeclared
	Configured
	Running
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case ParamsDeclared:
		return "params-declared"
	case IODeclared:
		return "io-declared"
	case Configured:
		return "configured"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ProcessObserver is notified after every process call. Observers run on
// the scheduler goroutine that executes the cell.
type ProcessObserver func(c *Cell, rc ReturnCode, err error)

// Cell wraps an implementation with ports, lifecycle enforcement and
// bookkeeping. All scheduler facing behavior goes through the wrapper; the
// implementation only sees its tendril collections.
type Cell struct {
	impl     Impl
	typeName string
	name     string

	params  *tendril.Tendrils
	inputs  *tendril.Tendrils
	outputs *tendril.Tendrils

	strand *Strand
	stats  Stats

	mu        sync.Mutex
	state     State
	processMu sync.Mutex
	tick      atomic.Uint64
	stopReq   atomic.Bool

	observers []ProcessObserver
}

// New wraps impl. The cell starts in the Created state; call DeclareParams
// and DeclareIO (or let the graph do it) before configuring.
func New(impl Impl, opts ...CellOption) *Cell {
	tn := typeNameOf(impl)
	c := &Cell{
		impl:     impl,
		typeName: tn,
		name:     defaultName(tn),
		params:   tendril.New(),
		inputs:   tendril.New(),
		outputs:  tendril.New(),
	}
	if !isThreadSafe(impl) {
		c.strand = SharedStrand()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CellOption customizes construction.
type CellOption func(*Cell)

// WithName sets the instance name.
func WithName(name string) CellOption {
	return func(c *Cell) {
		if name != "" {
			c.name = name
		}
	}
}

// WithStrand pins the cell to a specific execution strand.
func WithStrand(s *Strand) CellOption {
	return func(c *Cell) { c.strand = s }
}

func typeNameOf(impl Impl) string {
	rt := reflect.TypeOf(impl)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() == "" {
		return rt.String()
	}
	return rt.Name()
}

func defaultName(typeName string) string {
	return strings.ToLower(typeName) + "-" + uuid.NewString()[:8]
}

// Name returns the instance name.
func (c *Cell) Name() string { return c.name }

// SetName renames the instance. Graph insertion uses this to assign the
// user chosen key.
func (c *Cell) SetName(name string) { c.name = name }

// TypeName returns the implementation type name.
func (c *Cell) TypeName() string { return c.typeName }

// Impl exposes the wrapped implementation.
func (c *Cell) Impl() Impl { return c.impl }

// Params returns the parameter collection.
func (c *Cell) Params() *tendril.Tendrils { return c.params }

// Inputs returns the input port collection.
func (c *Cell) Inputs() *tendril.Tendrils { return c.inputs }

// Outputs returns the output port collection.
func (c *Cell) Outputs() *tendril.Tendrils { return c.outputs }

// Strand returns the affinity token, or nil for thread safe cells.
func (c *Cell) Strand() *Strand { return c.strand }

// Stats returns the execution statistics accumulator.
func (c *Cell) Stats() *Stats { return &c.stats }

// State returns the current lifecycle state.
func (c *Cell) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Tick returns the number of completed process calls in the current run.
func (c *Cell) Tick() uint64 { return c.tick.Load() }

// OnProcess registers an observer invoked after every process call.
func (c *Cell) OnProcess(fn ProcessObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Cell) advance(from, to State, phase string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return &Error{
			Phase:    phase,
			Cell:     c.name,
			TypeName: c.typeName,
			Err:      fmt.Errorf("%w: %s called in state %s, want %s", ErrLifecycle, phase, c.state, from),
		}
	}
	c.state = to
	return nil
}

// DeclareParams runs the implementation's parameter declaration hook.
// Calling it again after declaration already happened is a lifecycle
// violation.
func (c *Cell) DeclareParams() error {
	if err := c.advance(Created, ParamsDeclared, "declare-params"); err != nil {
		return err
	}
	if d, ok := c.impl.(ParamsDeclarer); ok {
		if err := c.guard("declare-params", func() error { return d.DeclareParams(c.params) }); err != nil {
			return err
		}
	}
	return nil
}

// DeclareIO runs the implementation's IO declaration hook. Parameters must
// already be declared so the hook can shape ports from parameter values.
func (c *Cell) DeclareIO() error {
	if err := c.advance(ParamsDeclared, IODeclared, "declare-io"); err != nil {
		return err
	}
	if d, ok := c.impl.(IODeclarer); ok {
		if err := c.guard("declare-io", func() error { return d.DeclareIO(c.params, c.inputs, c.outputs) }); err != nil {
			return err
		}
	}
	return nil
}

// Configure finalizes parameters and runs the configure hook. Every
// required parameter without a value fails the call before the hook runs.
func (c *Cell) Configure() error {
	if err := c.advance(IODeclared, Configured, "configure"); err != nil {
		return err
	}
	if err := c.checkRequired(c.params, "parameter"); err != nil {
		return wrapErr("configure", c.name, c.typeName, err)
	}
	if cf, ok := c.impl.(Configurer); ok {
		if err := c.guard("configure", func() error { return cf.Configure(c.params, c.inputs, c.outputs) }); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cell) checkRequired(ts *tendril.Tendrils, kind string) error {
	var missing []string
	ts.Range(func(name string, t *tendril.Tendril) bool {
		if t.IsRequired() && !t.IsSet() && !t.HasDefault() {
			missing = append(missing, name)
		}
		return true
	})
	if len(missing) > 0 {
		return fmt.Errorf("required %s(s) not set: %s", kind, strings.Join(missing, ", "))
	}
	return nil
}

// Start begins a scheduler run. The cell must be configured; the tick
// counter and stop request are reset.
func (c *Cell) Start() error {
	if err := c.advance(Configured, Running, "start"); err != nil {
		return err
	}
	c.tick.Store(0)
	c.stopReq.Store(false)
	if s, ok := c.impl.(Starter); ok {
		if err := c.guard("start", func() error { return s.Start() }); err != nil {
			c.mu.Lock()
			c.state = Configured
			c.mu.Unlock()
			return err
		}
	}
	return nil
}

// Stop ends a scheduler run and returns the cell to Configured so a later
// run can start again.
func (c *Cell) Stop() error {
	if err := c.advance(Running, Configured, "stop"); err != nil {
		return err
	}
	if s, ok := c.impl.(Stopper); ok {
		if err := c.guard("stop", func() error { return s.Stop() }); err != nil {
			return err
		}
	}
	return nil
}

// RequestStop makes every later Process call fail with ErrStopped until the
// next Start clears the request.
func (c *Cell) RequestStop() { c.stopReq.Store(true) }

// Process runs the implementation hook exactly once. Calls are serialized
// per cell regardless of strand assignment. Required inputs without a value
// fail before the hook runs.
func (c *Cell) Process() (ReturnCode, error) {
	c.mu.Lock()
	if c.state != Running {
		st := c.state
		c.mu.Unlock()
		return Unknown, &Error{
			Phase:    "process",
			Cell:     c.name,
			TypeName: c.typeName,
			Err:      fmt.Errorf("%w: process called in state %s, want %s", ErrLifecycle, st, Running),
		}
	}
	c.mu.Unlock()
	if c.stopReq.Load() {
		return Unknown, wrapErr("process", c.name, c.typeName, ErrStopped)
	}

	c.processMu.Lock()
	defer c.processMu.Unlock()

	if err := c.checkRequired(c.inputs, "input"); err != nil {
		return Unknown, wrapErr("process", c.name, c.typeName, err)
	}

	started := c.stats.begin()
	rc, err := c.safeProcess()
	c.stats.end(started)
	if err == nil {
		c.tick.Add(1)
	}
	err = wrapErr("process", c.name, c.typeName, err)

	c.mu.Lock()
	observers := append([]ProcessObserver(nil), c.observers...)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(c, rc, err)
	}
	return rc, err
}

func (c *Cell) safeProcess() (rc ReturnCode, err error) {
	defer func() {
		if r := recover(); r != nil {
			rc = Unknown
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.impl.Process(c.inputs, c.outputs)
}

// guard runs a lifecycle hook, converting panics into errors and wrapping
// failures with cell context.
func (c *Cell) guard(phase string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = wrapErr(phase, c.name, c.typeName, fmt.Errorf("panic: %v", r))
		}
	}()
	return wrapErr(phase, c.name, c.typeName, fn())
}

// Clone builds a fresh cell around a zero value of the same implementation
// type. Declared state is not copied; the clone starts at Created.
func (c *Cell) Clone() *Cell {
	rt := reflect.TypeOf(c.impl)
	var impl Impl
	if rt.Kind() == reflect.Pointer {
		impl = reflect.New(rt.Elem()).Interface().(Impl)
	} else {
		impl = reflect.Zero(rt).Interface().(Impl)
	}
	return New(impl)
}
