package codec

import "reflect"

// Codec is the wire contract for values of type T.
type Codec[T any] interface {
	Decode(b []byte) (T, int, error)
	Append(dst []byte, v T) ([]byte, error)
	Probe(b []byte) bool
	ExactLength(b []byte) int
}

// Encode returns the encoding of v.
func Encode[T any](c Codec[T], v T) ([]byte, error) {
	return c.Append(nil, v)
}

// Variable is implemented by types that carry their own wire encoding.
// DecodePacket is expected on the pointer receiver. PacketLength must not
// depend on the receiver's value.
type Variable interface {
	AppendPacket(dst []byte) ([]byte, error)
	DecodePacket(b []byte) (int, error)
	PacketLength(b []byte) int
}

// sizer is the length-probing half of the contract, shared by typed codecs
// and compiled plan nodes.
type sizer interface {
	Probe(b []byte) bool
	ExactLength(b []byte) int
}

// node is a compiled plan for one Go type. Nodes decode into and encode
// from reflect values so one plan serves every instantiation.
type node interface {
	sizer
	decodeValue(b []byte, dst reflect.Value) (int, error)
	appendValue(dst []byte, v reflect.Value) ([]byte, error)
}

// measure reports the length of the member at the head of b. ok is false
// when the member cannot be probed or claims more bytes than b holds.
func measure(s sizer, b []byte) (n int, ok bool) {
	if !s.Probe(b) {
		return 0, false
	}
	n = s.ExactLength(b)
	if n > len(b) {
		return 0, false
	}
	return n, true
}

// typed adapts a node to Codec[T].
type typed[T any] struct {
	n node
}

func (c typed[T]) Decode(b []byte) (T, int, error) {
	var v T
	n, err := c.n.decodeValue(b, reflect.ValueOf(&v).Elem())
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return v, n, nil
}

func (c typed[T]) Append(dst []byte, v T) ([]byte, error) {
	return c.n.appendValue(dst, reflect.ValueOf(&v).Elem())
}

func (c typed[T]) Probe(b []byte) bool      { return c.n.Probe(b) }
func (c typed[T]) ExactLength(b []byte) int { return c.n.ExactLength(b) }

// nodeOf unwraps codecs built by this package and bridges foreign ones.
func nodeOf[T any](c Codec[T]) node {
	if t, ok := c.(typed[T]); ok {
		return t.n
	}
	return bridge[T]{c: c}
}

// bridge lets a caller-supplied Codec[T] sit inside compiled plans.
type bridge[T any] struct {
	c Codec[T]
}

func (b bridge[T]) Probe(buf []byte) bool      { return b.c.Probe(buf) }
func (b bridge[T]) ExactLength(buf []byte) int { return b.c.ExactLength(buf) }

func (b bridge[T]) decodeValue(buf []byte, dst reflect.Value) (int, error) {
	v, n, err := b.c.Decode(buf)
	if err != nil {
		return 0, err
	}
	dst.Set(reflect.ValueOf(&v).Elem())
	return n, nil
}

func (b bridge[T]) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	var x T
	reflect.ValueOf(&x).Elem().Set(v)
	return b.c.Append(dst, x)
}

// Erase adapts c to operate on dynamically typed values. Append rejects
// values whose dynamic type is not T.
func Erase[T any](c Codec[T]) Codec[any] {
	return erased[T]{c: c}
}

type erased[T any] struct {
	c Codec[T]
}

func (e erased[T]) Decode(b []byte) (any, int, error) {
	v, n, err := e.c.Decode(b)
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

func (e erased[T]) Append(dst []byte, v any) ([]byte, error) {
	x, ok := v.(T)
	if !ok {
		return dst, typeMismatch(OpEncode, v, reflect.TypeFor[T]())
	}
	return e.c.Append(dst, x)
}

func (e erased[T]) Probe(b []byte) bool      { return e.c.Probe(b) }
func (e erased[T]) ExactLength(b []byte) int { return e.c.ExactLength(b) }

// dynamic is the Codec[any] returned by Compile.
type dynamic struct {
	typ reflect.Type
	n   node
}

func (d dynamic) Decode(b []byte) (any, int, error) {
	v := reflect.New(d.typ).Elem()
	n, err := d.n.decodeValue(b, v)
	if err != nil {
		return nil, 0, err
	}
	return v.Interface(), n, nil
}

func (d dynamic) Append(dst []byte, v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Type() == reflect.PointerTo(d.typ) && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != d.typ {
		return dst, typeMismatch(OpEncode, v, d.typ)
	}
	return d.n.appendValue(dst, rv)
}

func (d dynamic) Probe(b []byte) bool      { return d.n.Probe(b) }
func (d dynamic) ExactLength(b []byte) int { return d.n.ExactLength(b) }
