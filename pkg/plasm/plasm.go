package plasm

import (
	"fmt"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/tendril"
)

// Connection identifies one edge of the topology by its endpoints.
type Connection struct {
	From     string
	FromPort string
	To       string
	ToPort   string
	Edge     *Edge
}

func (c Connection) String() string {
	return fmt.Sprintf("%s[%s] >> %s[%s]", c.From, c.FromPort, c.To, c.ToPort)
}

// Plasm is the dataflow graph: cells plus the typed edges between their
// ports. Insertion order is preserved and used as the tie break everywhere
// an ordering is needed.
type Plasm struct {
	mu    sync.Mutex
	cells *orderedmap.OrderedMap[string, *cell.Cell]
	// inputs maps "cellname.port" to the single inbound connection.
	inputs map[string]*Connection
	conns  []*Connection
}

// New returns an empty graph.
func New() *Plasm {
	return &Plasm{
		cells:  orderedmap.New[string, *cell.Cell](),
		inputs: make(map[string]*Connection),
	}
}

// Insert adds c under its instance name, declaring parameters and IO if
// that has not happened yet. Inserting the same cell again is a no-op;
// inserting a different cell under an occupied name fails.
func (p *Plasm) Insert(c *cell.Cell) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.insertLocked(c)
}

func (p *Plasm) insertLocked(c *cell.Cell) error {
	if existing, ok := p.cells.Get(c.Name()); ok {
		if existing == c {
			return nil
		}
		return fmt.Errorf("cell name %q already taken by a %s", c.Name(), existing.TypeName())
	}
	if err := declareThrough(c); err != nil {
		return err
	}
	p.cells.Set(c.Name(), c)
	return nil
}

// declareThrough advances a freshly constructed cell to IODeclared so its
// ports can be inspected and connected.
func declareThrough(c *cell.Cell) error {
	if c.State() == cell.Created {
		if err := c.DeclareParams(); err != nil {
			return err
		}
	}
	if c.State() == cell.ParamsDeclared {
		if err := c.DeclareIO(); err != nil {
			return err
		}
	}
	return nil
}

// Cell returns the cell inserted under name.
func (p *Plasm) Cell(name string) (*cell.Cell, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.cells.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCell, name)
	}
	return c, nil
}

// Cells returns every cell in insertion order.
func (p *Plasm) Cells() []*cell.Cell {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*cell.Cell, 0, p.cells.Len())
	for pair := p.cells.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of cells.
func (p *Plasm) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cells.Len()
}

// Connections returns the edges in creation order.
func (p *Plasm) Connections() []Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Connection, len(p.conns))
	for i, c := range p.conns {
		out[i] = *c
	}
	return out
}

// Connect wires from's output port to to's input port, inserting either
// cell if it is not yet part of the graph. The ports must exist, their
// types must be compatible, and the input port must not already have a
// producer.
func (p *Plasm) Connect(from *cell.Cell, fromPort string, to *cell.Cell, toPort string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.insertLocked(from); err != nil {
		return err
	}
	if err := p.insertLocked(to); err != nil {
		return err
	}

	src, err := from.Outputs().At(fromPort)
	if err != nil {
		return fmt.Errorf("connect %s[%s]: %w", from.Name(), fromPort, err)
	}
	dst, err := to.Inputs().At(toPort)
	if err != nil {
		return fmt.Errorf("connect %s[%s]: %w", to.Name(), toPort, err)
	}
	if !src.Type().Compatible(dst.Type()) {
		return fmt.Errorf("connect %s[%s] >> %s[%s]: %w: %s into %s",
			from.Name(), fromPort, to.Name(), toPort, tendril.ErrTypeMismatch, src.Type(), dst.Type())
	}

	key := inputKey(to.Name(), toPort)
	if existing, ok := p.inputs[key]; ok {
		return fmt.Errorf("connect %s[%s] >> %s[%s]: %w (fed by %s[%s])",
			from.Name(), fromPort, to.Name(), toPort, ErrAlreadyConnected, existing.From, existing.FromPort)
	}

	conn := &Connection{
		From:     from.Name(),
		FromPort: fromPort,
		To:       to.Name(),
		ToPort:   toPort,
		Edge:     newEdge(dst.Type()),
	}
	p.inputs[key] = conn
	p.conns = append(p.conns, conn)
	return nil
}

// Disconnect removes the edge between the named ports.
func (p *Plasm) Disconnect(from *cell.Cell, fromPort string, to *cell.Cell, toPort string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := inputKey(to.Name(), toPort)
	conn, ok := p.inputs[key]
	if !ok || conn.From != from.Name() || conn.FromPort != fromPort {
		return fmt.Errorf("disconnect %s[%s] >> %s[%s]: %w",
			from.Name(), fromPort, to.Name(), toPort, ErrNotConnected)
	}
	delete(p.inputs, key)
	for i, c := range p.conns {
		if c == conn {
			p.conns = append(p.conns[:i], p.conns[i+1:]...)
			break
		}
	}
	return nil
}

// InboundOf returns the connections feeding c's input ports.
func (p *Plasm) InboundOf(c *cell.Cell) []Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Connection
	for _, conn := range p.conns {
		if conn.To == c.Name() {
			out = append(out, *conn)
		}
	}
	return out
}

// OutboundOf returns the connections fed by c's output ports.
func (p *Plasm) OutboundOf(c *cell.Cell) []Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Connection
	for _, conn := range p.conns {
		if conn.From == c.Name() {
			out = append(out, *conn)
		}
	}
	return out
}

// Check verifies that every required port, input and output alike, has an
// edge attached. A stray value poked into an unconnected input does not
// count. A failing check names all offending ports.
func (p *Plasm) Check() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	outConnected := make(map[string]bool, len(p.conns))
	for _, conn := range p.conns {
		outConnected[inputKey(conn.From, conn.FromPort)] = true
	}
	var missing []string
	for pair := p.cells.Oldest(); pair != nil; pair = pair.Next() {
		c := pair.Value
		c.Inputs().Range(func(port string, t *tendril.Tendril) bool {
			if !t.IsRequired() {
				return true
			}
			if _, ok := p.inputs[inputKey(c.Name(), port)]; !ok {
				missing = append(missing, fmt.Sprintf("%s[%s]", c.Name(), port))
			}
			return true
		})
		c.Outputs().Range(func(port string, t *tendril.Tendril) bool {
			if t.IsRequired() && !outConnected[inputKey(c.Name(), port)] {
				missing = append(missing, fmt.Sprintf("%s[%s]", c.Name(), port))
			}
			return true
		})
	}
	if len(missing) > 0 {
		return fmt.Errorf("required port(s) %w: %s", ErrNotConnected, strings.Join(missing, ", "))
	}
	return nil
}

// Configure runs Configure on every cell that has not been configured yet,
// in insertion order.
func (p *Plasm) Configure() error {
	for _, c := range p.Cells() {
		if c.State() != cell.IODeclared {
			continue
		}
		if err := c.Configure(); err != nil {
			return err
		}
	}
	return nil
}

// ResetTicks drains every edge and zeroes the dirty flags on every port so
// a fresh run observes no stale values. Cell tick counters are not touched
// here; Cell.Start zeroes them.
func (p *Plasm) ResetTicks() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, conn := range p.conns {
		conn.Edge.Drain()
	}
	for pair := p.cells.Oldest(); pair != nil; pair = pair.Next() {
		c := pair.Value
		c.Inputs().Range(func(_ string, t *tendril.Tendril) bool {
			t.ClearDirty()
			return true
		})
		c.Outputs().Range(func(_ string, t *tendril.Tendril) bool {
			t.ClearDirty()
			return true
		})
	}
}

func inputKey(cellName, port string) string {
	return cellName + "." + port
}
