package plasm

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/calyptra/synapse/pkg/cell"
)

// Document is the serialized form of a topology. Parameter values survive
// the round trip; port values and edge contents do not.
type Document struct {
	Cells       []CellDoc       `yaml:"cells"`
	Connections []ConnectionDoc `yaml:"connections,omitempty"`
}

// CellDoc describes one cell instance.
type CellDoc struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params,omitempty"`
}

// ConnectionDoc describes one edge by its endpoints.
type ConnectionDoc struct {
	From     string `yaml:"from"`
	FromPort string `yaml:"from_port"`
	To       string `yaml:"to"`
	ToPort   string `yaml:"to_port"`
}

// Snapshot captures the topology as a document.
func (p *Plasm) Snapshot() Document {
	doc := Document{}
	for _, c := range p.Cells() {
		cd := CellDoc{Name: c.Name(), Type: c.TypeName()}
		if vals := c.Params().Values(); len(vals) > 0 {
			cd.Params = vals
		}
		doc.Cells = append(doc.Cells, cd)
	}
	for _, conn := range p.Connections() {
		doc.Connections = append(doc.Connections, ConnectionDoc{
			From: conn.From, FromPort: conn.FromPort,
			To: conn.To, ToPort: conn.ToPort,
		})
	}
	return doc
}

// Save writes the topology as YAML.
func (p *Plasm) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(p.Snapshot()); err != nil {
		return fmt.Errorf("save topology: %w", err)
	}
	return nil
}

// Load reads a YAML topology, rebuilding cells through reg and rewiring
// every connection.
func Load(r io.Reader, reg *cell.Registry) (*Plasm, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("load topology: %w", err)
	}
	return FromDocument(doc, reg)
}

// FromDocument rebuilds a graph from its serialized form.
func FromDocument(doc Document, reg *cell.Registry) (*Plasm, error) {
	p := New()
	for _, cd := range doc.Cells {
		c, err := reg.Build(cd.Type, cell.WithName(cd.Name))
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", cd.Name, err)
		}
		// Parameters must land before DeclareIO runs: port shapes may
		// depend on parameter values.
		if err := c.DeclareParams(); err != nil {
			return nil, err
		}
		if len(cd.Params) > 0 {
			if err := c.Params().SetValues(cd.Params); err != nil {
				return nil, fmt.Errorf("cell %q params: %w", cd.Name, err)
			}
		}
		if err := p.Insert(c); err != nil {
			return nil, err
		}
	}
	for _, conn := range doc.Connections {
		from, err := p.Cell(conn.From)
		if err != nil {
			return nil, err
		}
		to, err := p.Cell(conn.To)
		if err != nil {
			return nil, err
		}
		if err := p.Connect(from, conn.FromPort, to, conn.ToPort); err != nil {
			return nil, err
		}
	}
	return p, nil
}
