package cell

import "github.com/calyptra/synapse/pkg/tendril"

// Impl is the minimal contract a cell implementation satisfies. Everything
// beyond Process is optional; the wrapper probes for the capability
// interfaces below and skips phases the implementation does not declare.
type Impl interface {
	Process(in, out *tendril.Tendrils) (ReturnCode, error)
}

// ParamsDeclarer declares configuration parameters before any IO exists.
type ParamsDeclarer interface {
	DeclareParams(params *tendril.Tendrils) error
}

// IODeclarer declares input and output ports, possibly shaped by the
// already populated parameters.
type IODeclarer interface {
	DeclareIO(params, in, out *tendril.Tendrils) error
}

// Configurer performs one time setup after parameters are final.
type Configurer interface {
	Configure(params, in, out *tendril.Tendrils) error
}

// Starter is invoked once when a scheduler run begins.
type Starter interface {
	Start() error
}

// Stopper is invoked once when a scheduler run ends.
type Stopper interface {
	Stop() error
}

// ThreadSafe marks an implementation whose Process may run concurrently
// with itself. Implementations without this marker share a single strand.
type ThreadSafe interface {
	ThreadSafe() bool
}

func isThreadSafe(impl Impl) bool {
	ts, ok := impl.(ThreadSafe)
	return ok && ts.ThreadSafe()
}
