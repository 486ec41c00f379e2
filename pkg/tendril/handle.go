package tendril

import "fmt"

// Handle is a typed view over a tendril. Cells typically bind handles to
// their ports during configure and reuse them in every process call.
type Handle[T any] struct {
	t *Tendril
}

// As binds a typed handle to a tendril, verifying the declared type.
func As[T any](t *Tendril) (Handle[T], error) {
	want := TypeOf[T]()
	if !t.Type().Compatible(want) {
		return Handle[T]{}, fmt.Errorf("%w: handle of %s over %s slot", ErrTypeMismatch, want, t.Type())
	}
	return Handle[T]{t: t}, nil
}

// Bind looks up name in the collection and returns a typed handle to it.
func Bind[T any](ts *Tendrils, name string) (Handle[T], error) {
	t, err := ts.At(name)
	if err != nil {
		return Handle[T]{}, err
	}
	return As[T](t)
}

// Get reads the current value.
func (h Handle[T]) Get() (T, error) {
	var zero T
	v, err := h.t.Get()
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s slot holds %T", ErrTypeMismatch, h.t.Type(), v)
	}
	return typed, nil
}

// Set writes a value.
func (h Handle[T]) Set(v T) error { return h.t.Set(v) }

// Tendril returns the underlying slot.
func (h Handle[T]) Tendril() *Tendril { return h.t }
