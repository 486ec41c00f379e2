package sched

import (
	"context"
	"log/slog"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/plasm"
)

// executeSweeps walks the cells in topological order once per iteration.
// Each step reads the front of every inbound edge into the cell's input
// ports, processes, consumes the fronts once the hook completes, and on OK
// publishes outputs. A cell with any empty inbound edge is unready and sits
// the sweep out.
func (s *Scheduler) executeSweeps(ctx context.Context, niter int) error {
	order, err := s.p.TopologicalOrder()
	if err != nil {
		return err
	}

sweeps:
	for i := 0; niter == 0 || i < niter; i++ {
		select {
		case <-ctx.Done():
			return cancelCause(ctx)
		default:
		}
		for _, c := range order {
			rc, fired, err := s.step(c)
			if err != nil {
				return err
			}
			if !fired {
				s.log.Debug("cell unready", slog.String("cell", c.Name()))
				continue
			}
			switch rc {
			case cell.OK:
			case cell.Quit:
				s.log.Debug("cell requested quit", slog.String("cell", c.Name()))
				return nil
			case cell.Break, cell.Continue:
				// Either way the remaining cells of this sweep are
				// skipped and the next sweep begins.
				continue sweeps
			default:
				return &cell.Error{
					Phase:    "process",
					Cell:     c.Name(),
					TypeName: c.TypeName(),
					Err:      errUnknownCode(rc),
				}
			}
		}
	}
	return nil
}

// step runs one cell once: bind, process, publish. The fired result is
// false when an inbound edge held no value, in which case the cell did
// not process. Skipping without publishing lets the gap flow downstream
// instead of reprocessing a stale input from an earlier tick.
func (s *Scheduler) step(c *cell.Cell) (cell.ReturnCode, bool, error) {
	inbound := s.p.InboundOf(c)
	for _, conn := range inbound {
		if conn.Edge.Len() == 0 {
			return cell.OK, false, nil
		}
	}
	if err := bindFronts(c, inbound); err != nil {
		return cell.Unknown, false, err
	}
	rc, err := c.Process()
	if err != nil {
		return rc, true, err
	}
	// Inputs are consumed whenever the hook completed; outputs only
	// travel on OK.
	consumeFronts(inbound)
	if rc == cell.OK {
		if err := publishOutputs(c, s.p.OutboundOf(c)); err != nil {
			return cell.Unknown, true, err
		}
	}
	return rc, true, nil
}

// bindFronts copies the head of each inbound edge into the matching input
// port. The caller has already verified every edge is non-empty.
func bindFronts(c *cell.Cell, inbound []plasm.Connection) error {
	for _, conn := range inbound {
		v, ok := conn.Edge.Front()
		if !ok {
			continue
		}
		t, err := c.Inputs().At(conn.ToPort)
		if err != nil {
			return err
		}
		if err := t.Set(v); err != nil {
			return err
		}
	}
	return nil
}

func consumeFronts(inbound []plasm.Connection) {
	for _, conn := range inbound {
		conn.Edge.Pop()
	}
}

func publishOutputs(c *cell.Cell, outbound []plasm.Connection) error {
	for _, conn := range outbound {
		t, err := c.Outputs().At(conn.FromPort)
		if err != nil {
			return err
		}
		v, err := t.Get()
		if err != nil {
			continue
		}
		conn.Edge.Push(v)
	}
	return nil
}
