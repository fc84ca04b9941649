package codec

import (
	"reflect"

	"github.com/danmuck/pktvar/internal/protocol/legacy"
)

// readCount reads a collection prefix. A negative count is content the
// encoder can never produce and fails the decode.
func readCount(b []byte) (int, int, error) {
	count, n, err := legacy.ReadLength(b)
	if err != nil {
		return 0, 0, ErrIncomplete
	}
	if count < 0 {
		return 0, 0, newError(OpDecode, KindInvalidData, "negative element count %d", count)
	}
	return int(count), n, nil
}

func appendCount(dst []byte, n int) ([]byte, error) {
	out, err := legacy.AppendLength(dst, n)
	if err != nil {
		return dst, &Error{Op: OpEncode, Kind: KindTooLong, Detail: "element count", Cause: err}
	}
	return out, nil
}

// capHint bounds preallocation by what the buffer could possibly hold.
func capHint(count, remaining int) int {
	return min(count, remaining)
}

// zeroWidth reports an element that consumed no bytes while the count
// claims more elements than bytes remain after the prefix. Such a count is
// bounded by nothing on the wire.
func zeroWidth(consumed, count, avail int) bool {
	return consumed == 0 && count > avail
}

func zeroWidthError(count, avail int) *Error {
	return newError(OpDecode, KindInvalidData,
		"%d zero-width elements exceed %d remaining bytes", count, avail)
}

type sequenceNode struct {
	typ  reflect.Type
	elem node
}

// ExactLength walks the elements in place. A negative count, or a count
// of zero-width elements larger than the bytes left, measures as the
// prefix alone; decode rejects both.
func (s *sequenceNode) ExactLength(b []byte) int {
	count, off, err := legacy.ReadLength(b)
	if err != nil {
		return 0
	}
	prefix, avail := off, len(b)-off
	for i := legacy.Length(0); i < count; i++ {
		n, ok := measure(s.elem, b[off:])
		if !ok {
			return 0
		}
		if zeroWidth(n, int(count), avail) {
			return prefix
		}
		off += n
	}
	return off
}

func (s *sequenceNode) Probe(b []byte) bool {
	return s.ExactLength(b) != 0
}

func (s *sequenceNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	count, off, err := readCount(b)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		dst.SetZero()
		return off, nil
	}
	avail := len(b) - off
	out := reflect.MakeSlice(s.typ, 0, capHint(count, avail))
	elemType := s.typ.Elem()
	for i := 0; i < count; i++ {
		ev := reflect.New(elemType).Elem()
		n, err := s.elem.decodeValue(b[off:], ev)
		if err != nil {
			return 0, withPath(err, index(i))
		}
		if zeroWidth(n, count, avail) {
			return 0, withPath(zeroWidthError(count, avail), index(i))
		}
		out = reflect.Append(out, ev)
		off += n
	}
	dst.Set(out)
	return off, nil
}

func (s *sequenceNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	n := v.Len()
	dst, err := appendCount(dst, n)
	if err != nil {
		return dst, err
	}
	for i := 0; i < n; i++ {
		if dst, err = s.elem.appendValue(dst, v.Index(i)); err != nil {
			return dst, withPath(err, index(i))
		}
	}
	return dst, nil
}

// SequenceOf encodes a slice as a legacy.Length count followed by its
// elements. An empty count decodes as a nil slice.
func SequenceOf[T any](elem Codec[T]) Codec[[]T] {
	return typed[[]T]{&sequenceNode{typ: reflect.TypeFor[[]T](), elem: nodeOf(elem)}}
}
