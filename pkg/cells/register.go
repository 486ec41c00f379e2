package cells

import "github.com/calyptra/synapse/pkg/cell"

// RegisterAll binds every library cell to its type tag in reg.
func RegisterAll(reg *cell.Registry) {
	reg.Register("Generate", func() cell.Impl { return &Generate{} })
	reg.Register("Add", func() cell.Impl { return Add{} })
	reg.Register("Multiply", func() cell.Impl { return &Multiply{} })
	reg.Register("Identity", func() cell.Impl { return Identity{} })
	reg.Register("Delay", func() cell.Impl { return &Delay{} })
	reg.Register("QuitAfter", func() cell.Impl { return &QuitAfter{} })
	reg.Register("Printer", func() cell.Impl { return &Printer{} })
	reg.Register("Collect", func() cell.Impl { return &Collect{} })
	reg.Register("Counter", func() cell.Impl { return &Counter{} })
}

func init() {
	RegisterAll(cell.DefaultRegistry())
}
