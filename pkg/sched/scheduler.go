package sched

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/plasm"
)

// Scheduler drives a graph. With one thread it sweeps the cells in
// topological order; with more it runs every cell on its own goroutine,
// gated by edge readiness and strand exclusion. A scheduler may be reused
// for consecutive runs but never runs twice concurrently.
type Scheduler struct {
	p       *plasm.Plasm
	log     *slog.Logger
	threads int

	mu        sync.Mutex
	running   bool
	interrupt context.CancelCauseFunc
	done      chan struct{}
	lastErr   error
}

// Option customizes a scheduler.
type Option func(*Scheduler)

// WithLogger routes scheduler diagnostics to log.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithThreads sets the number of cells allowed to process concurrently.
// Values below two select the single threaded sweep policy.
func WithThreads(n int) Option {
	return func(s *Scheduler) { s.threads = n }
}

// New builds a scheduler over p. Diagnostics are discarded unless a logger
// is supplied.
func New(p *plasm.Plasm, opts ...Option) *Scheduler {
	s := &Scheduler{
		p:       p,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		threads: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs the graph for niter sweeps, or until a cell quits, an error
// occurs, or ctx is cancelled. niter of zero runs until quit or cancel.
// Unconfigured cells are configured first and every cell is started before
// and stopped after the run.
func (s *Scheduler) Execute(ctx context.Context, niter int) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancelCause(ctx)
	s.running = true
	s.interrupt = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	err := s.execute(runCtx, niter)
	cancel(nil)

	s.mu.Lock()
	s.running = false
	s.interrupt = nil
	s.lastErr = err
	s.mu.Unlock()
	close(done)
	return err
}

// ExecuteAsync starts Execute on a new goroutine. Use Wait to collect the
// result.
func (s *Scheduler) ExecuteAsync(ctx context.Context, niter int) {
	go func() { _ = s.Execute(ctx, niter) }()
}

// Stop interrupts the current run. The run returns ErrCancelled.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.interrupt
	s.mu.Unlock()
	if cancel != nil {
		cancel(ErrCancelled)
	}
}

// Running reports whether a run is in flight.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Wait blocks until the current run (if any) finishes and returns its
// error.
func (s *Scheduler) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Scheduler) execute(ctx context.Context, niter int) error {
	if err := s.p.Check(); err != nil {
		return err
	}
	if err := s.p.Configure(); err != nil {
		return err
	}

	cells := s.p.Cells()
	started := make([]*cell.Cell, 0, len(cells))
	for _, c := range cells {
		if err := c.Start(); err != nil {
			stopAll(started, s.log)
			return err
		}
		started = append(started, c)
	}
	defer stopAll(started, s.log)

	s.log.Info("execution starting",
		slog.Int("cells", len(cells)),
		slog.Int("niter", niter),
		slog.Int("threads", s.threads))

	var err error
	if s.threads > 1 {
		err = s.executeParallel(ctx, niter)
	} else {
		err = s.executeSweeps(ctx, niter)
	}
	if err != nil {
		s.log.Error("execution failed", slog.String("error", err.Error()))
		return err
	}
	s.log.Info("execution finished")
	return nil
}

func stopAll(cells []*cell.Cell, log *slog.Logger) {
	for _, c := range cells {
		if err := c.Stop(); err != nil {
			log.Error("cell stop failed",
				slog.String("cell", c.Name()),
				slog.String("error", err.Error()))
		}
	}
}

// cancelCause maps a cancelled run context to the scheduler's error
// contract: quit is success, everything else is ErrCancelled.
func cancelCause(ctx context.Context) error {
	cause := context.Cause(ctx)
	switch {
	case cause == nil:
		return nil
	case cause == errQuit:
		return nil
	case cause == ErrCancelled:
		return ErrCancelled
	case cause == ctx.Err():
		return ErrCancelled
	default:
		return cause
	}
}
