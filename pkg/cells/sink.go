package cells

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/tendril"
)

// Printer writes every input value to a writer, one line each.
type Printer struct {
	// W receives the output. Defaults to stdout.
	W io.Writer

	prefix string
}

func (p *Printer) DeclareParams(params *tendril.Tendrils) error {
	_, err := tendril.Declare[string](params, "prefix", "text printed before each value", tendril.WithDefault(""))
	return err
}

func (p *Printer) DeclareIO(params, in, out *tendril.Tendrils) error {
	_, err := in.DeclareType("in", tendril.Any, tendril.WithDoc("value to print"), tendril.Required())
	return err
}

func (p *Printer) Configure(params, in, out *tendril.Tendrils) error {
	pre, err := tendril.Bind[string](params, "prefix")
	if err != nil {
		return err
	}
	if p.prefix, err = pre.Get(); err != nil {
		return err
	}
	if p.W == nil {
		p.W = os.Stdout
	}
	return nil
}

func (p *Printer) Process(in, out *tendril.Tendrils) (cell.ReturnCode, error) {
	i, err := in.At("in")
	if err != nil {
		return cell.Unknown, err
	}
	v, err := i.Get()
	if err != nil {
		return cell.Unknown, err
	}
	if _, err := fmt.Fprintf(p.W, "%s%v\n", p.prefix, v); err != nil {
		return cell.Unknown, err
	}
	return cell.OK, nil
}

// Collect accumulates every input value. Values() hands back a copy, so
// tests and diagnostics can inspect what flowed through.
type Collect struct {
	mu     sync.Mutex
	values []any
}

func (c *Collect) DeclareIO(params, in, out *tendril.Tendrils) error {
	_, err := in.DeclareType("in", tendril.Any, tendril.WithDoc("value to record"), tendril.Required())
	return err
}

func (c *Collect) Start() error {
	c.mu.Lock()
	c.values = nil
	c.mu.Unlock()
	return nil
}

func (c *Collect) Process(in, out *tendril.Tendrils) (cell.ReturnCode, error) {
	i, err := in.At("in")
	if err != nil {
		return cell.Unknown, err
	}
	v, err := i.Get()
	if err != nil {
		return cell.Unknown, err
	}
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
	return cell.OK, nil
}

// Values returns the recorded values in arrival order.
func (c *Collect) Values() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.values...)
}

// Counter counts the values it sees and republishes the running total.
type Counter struct {
	count int
}

func (c *Counter) DeclareIO(params, in, out *tendril.Tendrils) error {
	if _, err := in.DeclareType("in", tendril.Any, tendril.WithDoc("value to count"), tendril.Required()); err != nil {
		return err
	}
	_, err := tendril.Declare[int](out, "count", "values seen so far")
	return err
}

func (c *Counter) Start() error {
	c.count = 0
	return nil
}

func (c *Counter) Process(in, out *tendril.Tendrils) (cell.ReturnCode, error) {
	o, err := tendril.Bind[int](out, "count")
	if err != nil {
		return cell.Unknown, err
	}
	c.count++
	return cell.OK, o.Set(c.count)
}
