package tendril

import (
	"hash/fnv"
	"reflect"
)

// Type describes the element type a tendril carries. Two ports may be
// connected iff their types are compatible: identical descriptors, or
// either side declared as Any.
type Type struct {
	name string
	id   uint64
	rt   reflect.Type
}

// Any matches every other type. A tendril declared with Any accepts values
// of arbitrary dynamic type; connections to it never fail the type check.
var Any = Type{name: "any", id: hashName("any")}

// TypeOf returns the descriptor for the static type T.
// TypeOf[any]() is equivalent to Any.
func TypeOf[T any]() Type {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	return TypeFor(rt)
}

// TypeFor returns the descriptor for a reflected type.
func TypeFor(rt reflect.Type) Type {
	if rt == nil || (rt.Kind() == reflect.Interface && rt.NumMethod() == 0) {
		return Any
	}
	name := rt.String()
	return Type{name: name, id: hashName(name), rt: rt}
}

// Name returns the human readable type name, e.g. "int" or "[]string".
func (t Type) Name() string { return t.name }

// ID returns the stable hash identifying this type.
func (t Type) ID() uint64 { return t.id }

// IsAny reports whether the descriptor is the wildcard type.
func (t Type) IsAny() bool { return t.rt == nil }

// Compatible reports whether values of this type may flow to (or from) the
// other type.
func (t Type) Compatible(o Type) bool {
	return t.IsAny() || o.IsAny() || t.id == o.id
}

// GoType returns the underlying reflect.Type, or nil for Any.
func (t Type) GoType() reflect.Type { return t.rt }

func (t Type) String() string { return t.name }

// accepts reports whether a concrete value may be stored in a slot of this
// type.
func (t Type) accepts(v any) bool {
	if t.IsAny() {
		return true
	}
	if v == nil {
		// Typed nil slots are only meaningful for nilable kinds.
		switch t.rt.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return true
		}
		return false
	}
	rv := reflect.TypeOf(v)
	if rv == t.rt {
		return true
	}
	if t.rt.Kind() == reflect.Interface && rv.Implements(t.rt) {
		return true
	}
	return false
}

func hashName(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
