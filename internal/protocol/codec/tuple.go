package codec

import (
	"reflect"
	"strconv"
)

const (
	MinTupleArity = 2
	MaxTupleArity = 20
)

type tuple struct {
	members []Codec[any]
}

// Tuple encodes a fixed list of positional members back to back. The
// arity must be between MinTupleArity and MaxTupleArity.
func Tuple(members ...Codec[any]) (Codec[[]any], error) {
	if len(members) < MinTupleArity || len(members) > MaxTupleArity {
		return nil, newError(OpCompile, KindUnsupported,
			"tuple arity %d outside %d..%d", len(members), MinTupleArity, MaxTupleArity)
	}
	return &tuple{members: append([]Codec[any](nil), members...)}, nil
}

func (t *tuple) Decode(b []byte) ([]any, int, error) {
	out := make([]any, len(t.members))
	off := 0
	for i, m := range t.members {
		v, n, err := m.Decode(b[off:])
		if err != nil {
			return nil, 0, withPath(err, strconv.Itoa(i))
		}
		out[i] = v
		off += n
	}
	return out, off, nil
}

func (t *tuple) Append(dst []byte, v []any) ([]byte, error) {
	if len(v) != len(t.members) {
		return dst, newError(OpEncode, KindLength, "tuple of arity %d, got %d values", len(t.members), len(v))
	}
	var err error
	for i, m := range t.members {
		if dst, err = m.Append(dst, v[i]); err != nil {
			return dst, withPath(err, strconv.Itoa(i))
		}
	}
	return dst, nil
}

func (t *tuple) Probe(b []byte) bool {
	return t.ExactLength(b) != 0
}

func (t *tuple) ExactLength(b []byte) int {
	off := 0
	for _, m := range t.members {
		n, ok := measure(m, b[off:])
		if !ok {
			return 0
		}
		off += n
	}
	return off
}

// Pair is a typed two-member tuple. Nesting pairs composes wider tuples
// with the same wire layout as a flat Tuple of the same members.
type Pair[A, B any] struct {
	First  A
	Second B
}

func PairOf[A, B any](a Codec[A], b Codec[B]) Codec[Pair[A, B]] {
	return typed[Pair[A, B]]{&recordNode{
		typ: reflect.TypeFor[Pair[A, B]](),
		fields: []fieldPlan{
			{name: "First", index: 0, node: nodeOf(a)},
			{name: "Second", index: 1, node: nodeOf(b)},
		},
	}}
}
