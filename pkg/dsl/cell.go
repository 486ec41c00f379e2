package dsl

// CellBuilder provides a fluent API for configuring one cell instance.
type CellBuilder struct {
	name    string
	typeTag string
	params  map[string]any
	builder *Builder
}

// Param sets a parameter value, applied after defaults during Build.
func (cb *CellBuilder) Param(key string, value any) *CellBuilder {
	cb.params[key] = value
	return cb
}

// To connects this cell's fromPort output to target's toPort input.
func (cb *CellBuilder) To(target, fromPort, toPort string) *CellBuilder {
	cb.builder.Connect(cb.name, fromPort, target, toPort)
	return cb
}

// Done returns the parent builder for continued chaining.
func (cb *CellBuilder) Done() *Builder {
	return cb.builder
}
