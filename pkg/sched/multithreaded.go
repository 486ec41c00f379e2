package sched

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/plasm"
)

// run carries the shared state of one parallel execution: edge closure,
// strand locks and the condition variable every worker waits on.
type run struct {
	mu     sync.Mutex
	cond   *sync.Cond
	closed map[*plasm.Edge]bool

	strandMu sync.Mutex
	strands  map[uuid.UUID]*sync.Mutex

	sem chan struct{}
}

func newRun(threads int) *run {
	r := &run{
		closed:  make(map[*plasm.Edge]bool),
		strands: make(map[uuid.UUID]*sync.Mutex),
	}
	r.cond = sync.NewCond(&r.mu)
	if threads > 0 {
		r.sem = make(chan struct{}, threads)
	}
	return r
}

func (r *run) strandLock(s *cell.Strand) *sync.Mutex {
	if s == nil {
		return nil
	}
	r.strandMu.Lock()
	defer r.strandMu.Unlock()
	m, ok := r.strands[s.ID()]
	if !ok {
		m = &sync.Mutex{}
		r.strands[s.ID()] = m
	}
	return m
}

func (r *run) broadcast() {
	r.mu.Lock()
	r.cond.Broadcast()
	r.mu.Unlock()
}

func (r *run) closeEdges(conns []plasm.Connection) {
	r.mu.Lock()
	for _, conn := range conns {
		r.closed[conn.Edge] = true
	}
	r.cond.Broadcast()
	r.mu.Unlock()
}

type waitState int

const (
	waitReady waitState = iota
	waitDone
	waitCancelled
)

// await blocks until every inbound edge carries a value, an inbound edge is
// drained and closed, or the run is cancelled.
func (r *run) await(ctx context.Context, inbound []plasm.Connection) waitState {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		if ctx.Err() != nil {
			return waitCancelled
		}
		ready := true
		for _, conn := range inbound {
			if conn.Edge.Len() > 0 {
				continue
			}
			if r.closed[conn.Edge] {
				return waitDone
			}
			ready = false
		}
		if ready {
			return waitReady
		}
		r.cond.Wait()
	}
}

// executeParallel runs every cell on its own goroutine. A cell fires when
// each of its inbound edges holds at least one value; cells sharing a
// strand never overlap; at most s.threads cells process at once.
func (s *Scheduler) executeParallel(ctx context.Context, niter int) error {
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	r := newRun(s.threads)

	// Waiters park on the condition variable; cancellation has to wake
	// them up.
	wakeDone := make(chan struct{})
	defer close(wakeDone)
	go func() {
		select {
		case <-runCtx.Done():
			r.broadcast()
		case <-wakeDone:
		}
	}()

	g, gctx := errgroup.WithContext(runCtx)
	for _, c := range s.p.Cells() {
		c := c
		g.Go(func() error {
			defer r.closeEdges(s.p.OutboundOf(c))
			return s.runCell(gctx, cancel, r, c, niter)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return cancelCause(runCtx)
}

func (s *Scheduler) runCell(ctx context.Context, cancel context.CancelCauseFunc, r *run, c *cell.Cell, niter int) error {
	inbound := s.p.InboundOf(c)
	outbound := s.p.OutboundOf(c)
	lock := r.strandLock(c.Strand())

	for ticks := 0; niter == 0 || ticks < niter; ticks++ {
		switch r.await(ctx, inbound) {
		case waitCancelled:
			return nil
		case waitDone:
			return nil
		}

		if r.sem != nil {
			select {
			case r.sem <- struct{}{}:
			case <-ctx.Done():
				return nil
			}
		}
		if lock != nil {
			lock.Lock()
		}

		rc, err := s.stepParallel(c, inbound, outbound)

		if lock != nil {
			lock.Unlock()
		}
		if r.sem != nil {
			<-r.sem
		}
		r.broadcast()

		if err != nil {
			return err
		}
		switch rc {
		case cell.OK, cell.Break, cell.Continue:
		case cell.Quit:
			s.log.Debug("cell requested quit", slog.String("cell", c.Name()))
			cancel(errQuit)
			return nil
		default:
			return &cell.Error{
				Phase:    "process",
				Cell:     c.Name(),
				TypeName: c.TypeName(),
				Err:      errUnknownCode(rc),
			}
		}
	}
	return nil
}

func (s *Scheduler) stepParallel(c *cell.Cell, inbound, outbound []plasm.Connection) (cell.ReturnCode, error) {
	if err := bindFronts(c, inbound); err != nil {
		return cell.Unknown, err
	}
	rc, err := c.Process()
	if err != nil {
		return rc, err
	}
	consumeFronts(inbound)
	if rc == cell.OK {
		if err := publishOutputs(c, outbound); err != nil {
			return cell.Unknown, err
		}
	}
	return rc, nil
}
