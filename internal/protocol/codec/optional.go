package codec

import "reflect"

// optionalNode maps a Go pointer to a value that is either on the wire or
// absent. Absence has no marker: a value is present exactly when the inner
// codec probes successfully at that position.
type optionalNode struct {
	typ  reflect.Type
	elem node
}

// Probe always succeeds because an absent value is a valid outcome. A
// containing record or sequence therefore never stops at an optional
// member; it measures it as zero bytes instead.
func (o *optionalNode) Probe([]byte) bool {
	return true
}

func (o *optionalNode) ExactLength(b []byte) int {
	if !o.elem.Probe(b) {
		return 0
	}
	return o.elem.ExactLength(b)
}

func (o *optionalNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	if !o.elem.Probe(b) {
		dst.SetZero()
		return 0, nil
	}
	p := reflect.New(o.typ.Elem())
	n, err := o.elem.decodeValue(b, p.Elem())
	if err != nil {
		return 0, err
	}
	dst.Set(p)
	return n, nil
}

func (o *optionalNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	if v.IsNil() {
		return dst, nil
	}
	return o.elem.appendValue(dst, v.Elem())
}

// isOptional reports a node whose Probe cannot fail. Nested inside another
// optional it would make absence undetectable.
func isOptional(n node) bool {
	_, ok := n.(*optionalNode)
	return ok
}

// OptionalOf encodes a non-nil pointer as its target and nil as nothing.
// It panics with a KindUnsupported *Error when elem is itself optional.
func OptionalOf[T any](elem Codec[T]) Codec[*T] {
	t := reflect.TypeFor[*T]()
	n := nodeOf(elem)
	if isOptional(n) {
		panic(unsupported(t, nil, "an optional cannot hold another optional"))
	}
	return typed[*T]{&optionalNode{typ: t, elem: n}}
}
