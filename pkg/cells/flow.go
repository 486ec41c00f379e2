package cells

import (
	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/tendril"
)

// Identity forwards its input unchanged.
type Identity struct{}

func (Identity) DeclareIO(params, in, out *tendril.Tendrils) error {
	if _, err := in.DeclareType("in", tendril.Any, tendril.WithDoc("value to forward"), tendril.Required()); err != nil {
		return err
	}
	_, err := out.DeclareType("out", tendril.Any, tendril.WithDoc("the same value"))
	return err
}

func (Identity) ThreadSafe() bool { return true }

func (Identity) Process(in, out *tendril.Tendrils) (cell.ReturnCode, error) {
	i, err := in.At("in")
	if err != nil {
		return cell.Unknown, err
	}
	o, err := out.At("out")
	if err != nil {
		return cell.Unknown, err
	}
	v, err := i.Get()
	if err != nil {
		return cell.Unknown, err
	}
	return cell.OK, o.Set(v)
}

// Delay buffers its input and emits values ticks calls late. Until the
// buffer is full it returns BREAK so nothing travels downstream.
type Delay struct {
	ticks int
	queue []any
}

func (d *Delay) DeclareParams(params *tendril.Tendrils) error {
	_, err := tendril.Declare[int](params, "ticks", "number of calls to hold a value back", tendril.WithDefault(1))
	return err
}

func (d *Delay) DeclareIO(params, in, out *tendril.Tendrils) error {
	if _, err := in.DeclareType("in", tendril.Any, tendril.WithDoc("value to delay"), tendril.Required()); err != nil {
		return err
	}
	_, err := out.DeclareType("out", tendril.Any, tendril.WithDoc("value received ticks calls ago"))
	return err
}

func (d *Delay) Configure(params, in, out *tendril.Tendrils) error {
	t, err := tendril.Bind[int](params, "ticks")
	if err != nil {
		return err
	}
	if d.ticks, err = t.Get(); err != nil {
		return err
	}
	d.queue = nil
	return nil
}

func (d *Delay) Start() error {
	d.queue = nil
	return nil
}

func (d *Delay) Process(in, out *tendril.Tendrils) (cell.ReturnCode, error) {
	i, err := in.At("in")
	if err != nil {
		return cell.Unknown, err
	}
	v, err := i.Get()
	if err != nil {
		return cell.Unknown, err
	}
	d.queue = append(d.queue, v)
	if len(d.queue) <= d.ticks {
		return cell.Break, nil
	}
	head := d.queue[0]
	d.queue = d.queue[1:]
	o, err := out.At("out")
	if err != nil {
		return cell.Unknown, err
	}
	return cell.OK, o.Set(head)
}

// QuitAfter passes its input through and terminates the run once it has
// processed a fixed number of calls.
type QuitAfter struct {
	after int
	seen  int
}

func (q *QuitAfter) DeclareParams(params *tendril.Tendrils) error {
	_, err := tendril.Declare[int](params, "after", "calls to allow before quitting", tendril.WithDefault(1))
	return err
}

func (q *QuitAfter) DeclareIO(params, in, out *tendril.Tendrils) error {
	if _, err := in.DeclareType("in", tendril.Any, tendril.WithDoc("value to forward"), tendril.Required()); err != nil {
		return err
	}
	_, err := out.DeclareType("out", tendril.Any, tendril.WithDoc("the same value"))
	return err
}

func (q *QuitAfter) Configure(params, in, out *tendril.Tendrils) error {
	a, err := tendril.Bind[int](params, "after")
	if err != nil {
		return err
	}
	q.after, err = a.Get()
	return err
}

func (q *QuitAfter) Start() error {
	q.seen = 0
	return nil
}

func (q *QuitAfter) Process(in, out *tendril.Tendrils) (cell.ReturnCode, error) {
	i, err := in.At("in")
	if err != nil {
		return cell.Unknown, err
	}
	o, err := out.At("out")
	if err != nil {
		return cell.Unknown, err
	}
	v, err := i.Get()
	if err != nil {
		return cell.Unknown, err
	}
	if err := o.Set(v); err != nil {
		return cell.Unknown, err
	}
	q.seen++
	if q.seen >= q.after {
		return cell.Quit, nil
	}
	return cell.OK, nil
}
