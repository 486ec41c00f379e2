package dsl

import (
	"fmt"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/cells"
	"github.com/calyptra/synapse/pkg/plasm"
)

type connSpec struct {
	from, fromPort, to, toPort string
}

// Builder manages the graph construction.
type Builder struct {
	reg   *cell.Registry
	cells map[string]*CellBuilder
	order []string
	conns []connSpec
}

// New creates a new graph builder. A nil registry selects a fresh registry
// holding the standard cell library.
func New(reg *cell.Registry) *Builder {
	if reg == nil {
		reg = cell.NewRegistry()
		cells.RegisterAll(reg)
	}
	return &Builder{
		reg:   reg,
		cells: make(map[string]*CellBuilder),
	}
}

// Cell declares a cell instance of the given registered type. Declaring
// the same name again returns the existing builder so parameters and
// connections can be added incrementally.
func (b *Builder) Cell(name, typeTag string) *CellBuilder {
	if cb, ok := b.cells[name]; ok {
		return cb
	}
	cb := &CellBuilder{
		name:    name,
		typeTag: typeTag,
		params:  make(map[string]any),
		builder: b,
	}
	b.cells[name] = cb
	b.order = append(b.order, name)
	return cb
}

// Connect wires from's output port to to's input port by name.
func (b *Builder) Connect(from, fromPort, to, toPort string) *Builder {
	b.conns = append(b.conns, connSpec{from, fromPort, to, toPort})
	return b
}

// Build compiles the declarations into a topology. Cells are built in
// declaration order so the execution tie break matches the source.
func (b *Builder) Build() (*plasm.Plasm, error) {
	p := plasm.New()
	for _, name := range b.order {
		cb := b.cells[name]
		c, err := b.reg.Build(cb.typeTag, cell.WithName(name))
		if err != nil {
			return nil, fmt.Errorf("build cell %q: %w", name, err)
		}
		if err := c.DeclareParams(); err != nil {
			return nil, err
		}
		if len(cb.params) > 0 {
			if err := c.Params().SetValues(cb.params); err != nil {
				return nil, fmt.Errorf("cell %q params: %w", name, err)
			}
		}
		if err := p.Insert(c); err != nil {
			return nil, err
		}
	}
	for _, cs := range b.conns {
		from, err := p.Cell(cs.from)
		if err != nil {
			return nil, fmt.Errorf("connect %s[%s] >> %s[%s]: %w",
				cs.from, cs.fromPort, cs.to, cs.toPort, err)
		}
		to, err := p.Cell(cs.to)
		if err != nil {
			return nil, fmt.Errorf("connect %s[%s] >> %s[%s]: %w",
				cs.from, cs.fromPort, cs.to, cs.toPort, err)
		}
		if err := p.Connect(from, cs.fromPort, to, cs.toPort); err != nil {
			return nil, err
		}
	}
	return p, nil
}
