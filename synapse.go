// Package synapse is the high level entry point for building and running
// dataflow graphs. It wraps the lower level packages (tendril, cell,
// plasm, sched) behind a compact API: add cells, connect ports, run.
package synapse

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/cells"
	"github.com/calyptra/synapse/pkg/plasm"
	"github.com/calyptra/synapse/pkg/sched"
	"github.com/calyptra/synapse/pkg/storage"
)

// Version is the library version, overridable at build time.
var Version = "0.1.0-dev"

// Graph couples a topology with a scheduler and a cell registry.
type Graph struct {
	name     string
	plasm    *plasm.Plasm
	registry *cell.Registry
	logger   *slog.Logger
	threads  int
	sched    *sched.Scheduler
}

// Option configures a Graph.
type Option func(*Graph)

// WithName labels the graph. The name shows up in logs and persistence.
func WithName(name string) Option {
	return func(g *Graph) { g.name = name }
}

// WithLogger sets a structured logger for the graph and its scheduler.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRegistry replaces the graph's own standard-library registry.
func WithRegistry(reg *cell.Registry) Option {
	return func(g *Graph) { g.registry = reg }
}

// WithThreads sets how many cells may process concurrently during Run.
func WithThreads(n int) Option {
	return func(g *Graph) { g.threads = n }
}

// New creates an empty graph. Without WithRegistry the graph uses a fresh
// registry holding the standard cell library.
func New(opts ...Option) *Graph {
	g := &Graph{
		name:     "plasm",
		plasm:    plasm.New(),
		threads:  1,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.registry == nil {
		reg := cell.NewRegistry()
		cells.RegisterAll(reg)
		g.registry = reg
	}
	g.logger = g.logger.With(slog.String("graph", g.name))
	return g
}

// Name returns the graph label.
func (g *Graph) Name() string { return g.name }

// Plasm exposes the underlying topology.
func (g *Graph) Plasm() *plasm.Plasm { return g.plasm }

// Registry exposes the cell registry.
func (g *Graph) Registry() *cell.Registry { return g.registry }

// Add wraps impl and inserts it under name.
func (g *Graph) Add(name string, impl cell.Impl) (*cell.Cell, error) {
	c := cell.New(impl, cell.WithName(name))
	if err := g.plasm.Insert(c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddType builds a registered cell type and inserts it under name.
func (g *Graph) AddType(name, typeTag string) (*cell.Cell, error) {
	c, err := g.registry.Build(typeTag, cell.WithName(name))
	if err != nil {
		return nil, err
	}
	if err := g.plasm.Insert(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Connect wires fromCell's output port to toCell's input port by name.
func (g *Graph) Connect(fromCell, fromPort, toCell, toPort string) error {
	from, err := g.plasm.Cell(fromCell)
	if err != nil {
		return err
	}
	to, err := g.plasm.Cell(toCell)
	if err != nil {
		return err
	}
	return g.plasm.Connect(from, fromPort, to, toPort)
}

// Scheduler returns the scheduler driving this graph, creating it on
// first use.
func (g *Graph) Scheduler() *sched.Scheduler {
	if g.sched == nil {
		g.sched = sched.New(g.plasm,
			sched.WithLogger(g.logger),
			sched.WithThreads(g.threads),
		)
	}
	return g.sched
}

// Run executes the graph for niter iterations.
func (g *Graph) Run(ctx context.Context, niter int) error {
	return g.Scheduler().Execute(ctx, niter)
}

// Save writes the topology as YAML.
func (g *Graph) Save(w io.Writer) error { return g.plasm.Save(w) }

// Store persists the topology under the graph's name.
func (g *Graph) Store(ctx context.Context, store storage.TopologyStore) error {
	return store.Save(ctx, g.name, g.plasm.Snapshot())
}

// Load reads a YAML topology, rebuilding it through the graph's registry.
func Load(r io.Reader, opts ...Option) (*Graph, error) {
	g := New(opts...)
	p, err := plasm.Load(r, g.registry)
	if err != nil {
		return nil, err
	}
	g.plasm = p
	return g, nil
}

// Fetch retrieves a stored topology by name and rebuilds it.
func Fetch(ctx context.Context, store storage.TopologyStore, name string, opts ...Option) (*Graph, error) {
	doc, err := store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", name, err)
	}
	g := New(append([]Option{WithName(name)}, opts...)...)
	p, err := plasm.FromDocument(doc, g.registry)
	if err != nil {
		return nil, err
	}
	g.plasm = p
	return g, nil
}
