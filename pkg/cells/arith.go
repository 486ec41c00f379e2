package cells

import (
	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/tendril"
)

// Generate emits an arithmetic sequence: start, start+step, and so on, one
// value per process call.
type Generate struct {
	next float64
	step float64
}

func (g *Generate) DeclareParams(params *tendril.Tendrils) error {
	if _, err := tendril.Declare[float64](params, "start", "first value emitted", tendril.WithDefault(0.0)); err != nil {
		return err
	}
	_, err := tendril.Declare[float64](params, "step", "increment between values", tendril.WithDefault(1.0))
	return err
}

func (g *Generate) DeclareIO(params, in, out *tendril.Tendrils) error {
	_, err := tendril.Declare[float64](out, "out", "current value of the sequence")
	return err
}

func (g *Generate) Configure(params, in, out *tendril.Tendrils) error {
	start, err := tendril.Bind[float64](params, "start")
	if err != nil {
		return err
	}
	step, err := tendril.Bind[float64](params, "step")
	if err != nil {
		return err
	}
	if g.next, err = start.Get(); err != nil {
		return err
	}
	g.step, err = step.Get()
	return err
}

func (g *Generate) Process(in, out *tendril.Tendrils) (cell.ReturnCode, error) {
	o, err := tendril.Bind[float64](out, "out")
	if err != nil {
		return cell.Unknown, err
	}
	if err := o.Set(g.next); err != nil {
		return cell.Unknown, err
	}
	g.next += g.step
	return cell.OK, nil
}

// Add sums its two inputs.
type Add struct{}

func (Add) DeclareIO(params, in, out *tendril.Tendrils) error {
	if _, err := tendril.Declare[float64](in, "left", "left operand", tendril.Required()); err != nil {
		return err
	}
	if _, err := tendril.Declare[float64](in, "right", "right operand", tendril.Required()); err != nil {
		return err
	}
	_, err := tendril.Declare[float64](out, "out", "left + right")
	return err
}

func (Add) ThreadSafe() bool { return true }

func (Add) Process(in, out *tendril.Tendrils) (cell.ReturnCode, error) {
	l, err := tendril.Bind[float64](in, "left")
	if err != nil {
		return cell.Unknown, err
	}
	r, err := tendril.Bind[float64](in, "right")
	if err != nil {
		return cell.Unknown, err
	}
	o, err := tendril.Bind[float64](out, "out")
	if err != nil {
		return cell.Unknown, err
	}
	lv, err := l.Get()
	if err != nil {
		return cell.Unknown, err
	}
	rv, err := r.Get()
	if err != nil {
		return cell.Unknown, err
	}
	return cell.OK, o.Set(lv + rv)
}

// Multiply scales its input by a constant factor.
type Multiply struct {
	factor float64
}

func (m *Multiply) DeclareParams(params *tendril.Tendrils) error {
	_, err := tendril.Declare[float64](params, "factor", "multiplier applied to every input", tendril.WithDefault(2.0))
	return err
}

func (m *Multiply) DeclareIO(params, in, out *tendril.Tendrils) error {
	if _, err := tendril.Declare[float64](in, "in", "value to scale", tendril.Required()); err != nil {
		return err
	}
	_, err := tendril.Declare[float64](out, "out", "in * factor")
	return err
}

func (m *Multiply) Configure(params, in, out *tendril.Tendrils) error {
	f, err := tendril.Bind[float64](params, "factor")
	if err != nil {
		return err
	}
	m.factor, err = f.Get()
	return err
}

func (m *Multiply) Process(in, out *tendril.Tendrils) (cell.ReturnCode, error) {
	i, err := tendril.Bind[float64](in, "in")
	if err != nil {
		return cell.Unknown, err
	}
	o, err := tendril.Bind[float64](out, "out")
	if err != nil {
		return cell.Unknown, err
	}
	v, err := i.Get()
	if err != nil {
		return cell.Unknown, err
	}
	return cell.OK, o.Set(v * m.factor)
}
