package codec

import "reflect"

// arrayNode encodes exactly n elements with no prefix. typ is either a Go
// array type or a slice type whose length is checked on encode.
type arrayNode struct {
	typ  reflect.Type
	elem node
	n    int
}

func (a *arrayNode) ExactLength(b []byte) int {
	off := 0
	for i := 0; i < a.n; i++ {
		n, ok := measure(a.elem, b[off:])
		if !ok {
			return 0
		}
		off += n
	}
	return off
}

func (a *arrayNode) Probe(b []byte) bool {
	return a.ExactLength(b) != 0
}

func (a *arrayNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	var out reflect.Value
	if a.typ.Kind() == reflect.Array {
		out = reflect.New(a.typ).Elem()
	} else {
		out = reflect.MakeSlice(a.typ, a.n, a.n)
	}
	off := 0
	for i := 0; i < a.n; i++ {
		n, err := a.elem.decodeValue(b[off:], out.Index(i))
		if err != nil {
			return 0, withPath(err, index(i))
		}
		off += n
	}
	dst.Set(out)
	return off, nil
}

func (a *arrayNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	if v.Len() != a.n {
		return dst, newError(OpEncode, KindLength, "fixed array holds %d elements, got %d", a.n, v.Len())
	}
	var err error
	for i := 0; i < a.n; i++ {
		if dst, err = a.elem.appendValue(dst, v.Index(i)); err != nil {
			return dst, withPath(err, index(i))
		}
	}
	return dst, nil
}

// ArrayOf encodes exactly n elements with no count prefix. Encoding a
// slice of any other length fails with KindLength.
func ArrayOf[T any](elem Codec[T], n int) Codec[[]T] {
	return typed[[]T]{&arrayNode{typ: reflect.TypeFor[[]T](), elem: nodeOf(elem), n: max(n, 0)}}
}
