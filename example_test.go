package synapse_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/calyptra/synapse"
	"github.com/calyptra/synapse/pkg/cells"
)

func Example() {
	g := synapse.New(synapse.WithName("doubler"))

	g.AddType("gen", "Generate")
	g.AddType("mul", "Multiply")
	g.AddType("col", "Collect")

	g.Connect("gen", "out", "mul", "in")
	g.Connect("mul", "out", "col", "in")

	if err := g.Run(context.Background(), 3); err != nil {
		fmt.Println("run failed:", err)
		return
	}

	c, _ := g.Plasm().Cell("col")
	sink := c.Impl().(*cells.Collect)
	fmt.Println(sink.Values())
	// Output: [0 2 4]
}

func ExampleLoad() {
	const doc = `
cells:
  - name: gen
    type: Generate
    params:
      step: 3
  - name: col
    type: Collect
connections:
  - from: gen
    from_port: out
    to: col
    to_port: in
`
	g, err := synapse.Load(strings.NewReader(doc))
	if err != nil {
		fmt.Println("load failed:", err)
		return
	}
	if err := g.Run(context.Background(), 3); err != nil {
		fmt.Println("run failed:", err)
		return
	}

	c, _ := g.Plasm().Cell("col")
	sink := c.Impl().(*cells.Collect)
	fmt.Println(sink.Values())
	// Output: [0 3 6]
}
