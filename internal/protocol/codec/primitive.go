package codec

import (
	"encoding/binary"
	"math"
	"reflect"
)

// fixed implements Probe and ExactLength for fixed-width values.
type fixed int

func (w fixed) Probe(b []byte) bool {
	return len(b) >= int(w)
}

func (w fixed) ExactLength(b []byte) int {
	if len(b) < int(w) {
		return 0
	}
	return int(w)
}

type boolNode struct{ fixed }

func (boolNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	if len(b) < 1 {
		return 0, ErrIncomplete
	}
	dst.SetBool(b[0] != 0)
	return 1, nil
}

func (boolNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	if v.Bool() {
		return append(dst, 1), nil
	}
	return append(dst, 0), nil
}

type uintNode struct{ fixed }

func (n uintNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	w := int(n.fixed)
	if len(b) < w {
		return 0, ErrIncomplete
	}
	dst.SetUint(readUint(b, w))
	return w, nil
}

func (n uintNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	return appendUint(dst, v.Uint(), int(n.fixed)), nil
}

type intNode struct{ fixed }

func (n intNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	w := int(n.fixed)
	if len(b) < w {
		return 0, ErrIncomplete
	}
	u := readUint(b, w)
	var v int64
	switch w {
	case 1:
		v = int64(int8(u))
	case 2:
		v = int64(int16(u))
	case 4:
		v = int64(int32(u))
	default:
		v = int64(u)
	}
	dst.SetInt(v)
	return w, nil
}

func (n intNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	return appendUint(dst, uint64(v.Int()), int(n.fixed)), nil
}

type floatNode struct{ fixed }

func (n floatNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	w := int(n.fixed)
	if len(b) < w {
		return 0, ErrIncomplete
	}
	if w == 4 {
		dst.SetFloat(float64(math.Float32frombits(binary.BigEndian.Uint32(b))))
	} else {
		dst.SetFloat(math.Float64frombits(binary.BigEndian.Uint64(b)))
	}
	return w, nil
}

func (n floatNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	if n.fixed == 4 {
		return binary.BigEndian.AppendUint32(dst, math.Float32bits(float32(v.Float()))), nil
	}
	return binary.BigEndian.AppendUint64(dst, math.Float64bits(v.Float())), nil
}

func readUint(b []byte, w int) uint64 {
	switch w {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(b))
	case 4:
		return uint64(binary.BigEndian.Uint32(b))
	default:
		return binary.BigEndian.Uint64(b)
	}
}

func appendUint(dst []byte, u uint64, w int) []byte {
	switch w {
	case 1:
		return append(dst, byte(u))
	case 2:
		return binary.BigEndian.AppendUint16(dst, uint16(u))
	case 4:
		return binary.BigEndian.AppendUint32(dst, uint32(u))
	default:
		return binary.BigEndian.AppendUint64(dst, u)
	}
}

// Bool encodes true as 1 and false as 0; any non-zero byte decodes as true.
func Bool() Codec[bool] { return typed[bool]{boolNode{1}} }

func Uint8() Codec[uint8]   { return typed[uint8]{uintNode{1}} }
func Uint16() Codec[uint16] { return typed[uint16]{uintNode{2}} }
func Uint32() Codec[uint32] { return typed[uint32]{uintNode{4}} }
func Uint64() Codec[uint64] { return typed[uint64]{uintNode{8}} }

func Int8() Codec[int8]   { return typed[int8]{intNode{1}} }
func Int16() Codec[int16] { return typed[int16]{intNode{2}} }
func Int32() Codec[int32] { return typed[int32]{intNode{4}} }
func Int64() Codec[int64] { return typed[int64]{intNode{8}} }

func Float32() Codec[float32] { return typed[float32]{floatNode{4}} }
func Float64() Codec[float64] { return typed[float64]{floatNode{8}} }
