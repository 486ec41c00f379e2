/*
Package dsl provides a fluent builder for programmatically constructing
synapse topologies.

It allows developers to define graphs in Go instead of external YAML
files, which is useful for dynamic graph generation, unit testing and
IDE autocompletion.

Example usage:

	b := dsl.New(nil)

	b.Cell("gen", "Generate").
		Param("step", 2.0).
		To("mul", "out", "in")

	b.Cell("mul", "Multiply").
		Param("factor", 10.0)

	p, err := b.Build()
	// ... drive p with a sched.Scheduler
*/
package dsl
