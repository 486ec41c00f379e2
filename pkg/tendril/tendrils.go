package tendril

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tendrils is an ordered name to Tendril mapping. Iteration observes
// insertion order. Declaring a name twice with the same type is idempotent;
// with a different type it fails.
type Tendrils struct {
	m *orderedmap.OrderedMap[string, *Tendril]
}

// New returns an empty collection.
func New() *Tendrils {
	return &Tendrils{m: orderedmap.New[string, *Tendril]()}
}

// DeclareType declares (or re-declares) a slot by name with an explicit
// type descriptor. Returns the existing tendril when the name was already
// declared with the same type.
func (ts *Tendrils) DeclareType(name string, typ Type, opts ...Option) (*Tendril, error) {
	if name == "" {
		return nil, fmt.Errorf("tendril name must not be empty")
	}
	if existing, ok := ts.m.Get(name); ok {
		if existing.Type().ID() != typ.ID() {
			return nil, fmt.Errorf("%w: %q already declared as %s, redeclared as %s",
				ErrTypeMismatch, name, existing.Type(), typ)
		}
		return existing, nil
	}
	t, err := newTendril(typ, opts...)
	if err != nil {
		return nil, fmt.Errorf("declare %q: %w", name, err)
	}
	ts.m.Set(name, t)
	return t, nil
}

// Declare declares a slot carrying values of the static type T.
func Declare[T any](ts *Tendrils, name, doc string, opts ...Option) (*Tendril, error) {
	opts = append([]Option{WithDoc(doc)}, opts...)
	return ts.DeclareType(name, TypeOf[T](), opts...)
}

// At returns the tendril declared under name.
func (ts *Tendrils) At(name string) (*Tendril, error) {
	t, ok := ts.m.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPort, name)
	}
	return t, nil
}

// Has reports whether name was declared.
func (ts *Tendrils) Has(name string) bool {
	_, ok := ts.m.Get(name)
	return ok
}

// Len returns the number of declared slots.
func (ts *Tendrils) Len() int { return ts.m.Len() }

// Range walks the slots in insertion order until fn returns false.
func (ts *Tendrils) Range(fn func(name string, t *Tendril) bool) {
	for pair := ts.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Names returns the declared names in insertion order.
func (ts *Tendrils) Names() []string {
	names := make([]string, 0, ts.m.Len())
	ts.Range(func(name string, _ *Tendril) bool {
		names = append(names, name)
		return true
	})
	return names
}

// SetValues writes loosely typed values (for example decoded YAML) into the
// matching slots, coercing each into the declared element type.
func (ts *Tendrils) SetValues(values map[string]any) error {
	for name, raw := range values {
		t, err := ts.At(name)
		if err != nil {
			return err
		}
		if err := t.SetCoerced(raw); err != nil {
			return fmt.Errorf("set %q: %w", name, err)
		}
	}
	return nil
}

// Values returns a name to value snapshot of every slot holding a value or
// a default. The result is a plain map, so it carries no key order.
func (ts *Tendrils) Values() map[string]any {
	out := make(map[string]any, ts.m.Len())
	ts.Range(func(name string, t *Tendril) bool {
		if v, err := t.Get(); err == nil {
			out[name] = v
		}
		return true
	})
	return out
}

// SetCoerced writes a loosely typed value, converting it into the declared
// element type when the dynamic type does not match exactly. Decoded config
// trees frequently carry int where float64 is declared (and vice versa), so
// weak typing is enabled.
func (t *Tendril) SetCoerced(raw any) error {
	if t.typ.IsAny() || t.typ.accepts(raw) {
		return t.Set(raw)
	}
	target := reflect.New(t.typ.GoType())
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target.Interface(),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: cannot coerce %T into %s: %v", ErrTypeMismatch, raw, t.typ, err)
	}
	return t.Set(target.Elem().Interface())
}
