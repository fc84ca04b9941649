package codec

import (
	"bytes"
	"reflect"
	"slices"

	"github.com/danmuck/pktvar/internal/protocol/legacy"
)

type mappingNode struct {
	typ  reflect.Type
	key  node
	elem node
}

func (m *mappingNode) ExactLength(b []byte) int {
	count, off, err := legacy.ReadLength(b)
	if err != nil {
		return 0
	}
	prefix, avail := off, len(b)-off
	for i := legacy.Length(0); i < count; i++ {
		kn, ok := measure(m.key, b[off:])
		if !ok {
			return 0
		}
		vn, ok := measure(m.elem, b[off+kn:])
		if !ok {
			return 0
		}
		if zeroWidth(kn+vn, int(count), avail) {
			return prefix
		}
		off += kn + vn
	}
	return off
}

func (m *mappingNode) Probe(b []byte) bool {
	return m.ExactLength(b) != 0
}

// decodeValue stores entries in wire order, so a repeated key keeps the
// value that appears last.
func (m *mappingNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	count, off, err := readCount(b)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		dst.SetZero()
		return off, nil
	}
	avail := len(b) - off
	out := reflect.MakeMapWithSize(m.typ, capHint(count, avail))
	keyType, elemType := m.typ.Key(), m.typ.Elem()
	for i := 0; i < count; i++ {
		k := reflect.New(keyType).Elem()
		kn, err := m.key.decodeValue(b[off:], k)
		if err != nil {
			return 0, withPath(err, index(i))
		}
		v := reflect.New(elemType).Elem()
		vn, err := m.elem.decodeValue(b[off+kn:], v)
		if err != nil {
			return 0, withPath(err, index(i))
		}
		if zeroWidth(kn+vn, count, avail) {
			return 0, withPath(zeroWidthError(count, avail), index(i))
		}
		off += kn + vn
		out.SetMapIndex(k, v)
	}
	dst.Set(out)
	return off, nil
}

type entrySpan struct {
	start, keyEnd, end int
}

// appendValue emits entries sorted by their encoded key bytes so equal
// maps always produce identical output.
func (m *mappingNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	dst, err := appendCount(dst, v.Len())
	if err != nil {
		return dst, err
	}
	if v.Len() == 0 {
		return dst, nil
	}
	var scratch []byte
	spans := make([]entrySpan, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		span := entrySpan{start: len(scratch)}
		if scratch, err = m.key.appendValue(scratch, iter.Key()); err != nil {
			return dst, withPath(err, "[key]")
		}
		span.keyEnd = len(scratch)
		if scratch, err = m.elem.appendValue(scratch, iter.Value()); err != nil {
			return dst, withPath(err, "[value]")
		}
		span.end = len(scratch)
		spans = append(spans, span)
	}
	slices.SortFunc(spans, func(a, b entrySpan) int {
		return bytes.Compare(scratch[a.start:a.keyEnd], scratch[b.start:b.keyEnd])
	})
	for _, s := range spans {
		dst = append(dst, scratch[s.start:s.end]...)
	}
	return dst, nil
}

// MapOf encodes a map as a legacy.Length count followed by key/value pairs.
func MapOf[K comparable, V any](key Codec[K], elem Codec[V]) Codec[map[K]V] {
	return typed[map[K]V]{&mappingNode{
		typ:  reflect.TypeFor[map[K]V](),
		key:  nodeOf(key),
		elem: nodeOf(elem),
	}}
}
