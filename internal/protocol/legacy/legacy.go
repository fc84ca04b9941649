// Package legacy holds the fixed-width count and identifier fields that
// prefix composite values on the wire.
//
// Both fields are 4-byte big-endian signed integers. The types satisfy
// codec.Variable structurally so they can appear as record fields without
// this package importing the codec package.
package legacy

import (
	"encoding/binary"
	"errors"
	"math"
)

// Width is the encoded size of a Length or ID.
const Width = 4

var (
	ErrShort    = errors.New("legacy: short buffer")
	ErrOverflow = errors.New("legacy: count overflows int32")
)

// Length is an element count prefixed onto sequences and mappings.
type Length int32

func (l Length) AppendPacket(dst []byte) ([]byte, error) {
	return binary.BigEndian.AppendUint32(dst, uint32(l)), nil
}

func (l *Length) DecodePacket(b []byte) (int, error) {
	v, n, err := ReadLength(b)
	if err != nil {
		return 0, err
	}
	*l = v
	return n, nil
}

func (Length) PacketLength(b []byte) int {
	if len(b) < Width {
		return 0
	}
	return Width
}

// ID is a legacy identifier field.
type ID int32

func (id ID) AppendPacket(dst []byte) ([]byte, error) {
	return binary.BigEndian.AppendUint32(dst, uint32(id)), nil
}

func (id *ID) DecodePacket(b []byte) (int, error) {
	if len(b) < Width {
		return 0, ErrShort
	}
	*id = ID(int32(binary.BigEndian.Uint32(b)))
	return Width, nil
}

func (ID) PacketLength(b []byte) int {
	if len(b) < Width {
		return 0
	}
	return Width
}

// ReadLength reads a count prefix from the head of b.
func ReadLength(b []byte) (Length, int, error) {
	if len(b) < Width {
		return 0, 0, ErrShort
	}
	return Length(int32(binary.BigEndian.Uint32(b))), Width, nil
}

// AppendLength appends n as a count prefix.
func AppendLength(dst []byte, n int) ([]byte, error) {
	if n < 0 || n > math.MaxInt32 {
		return dst, ErrOverflow
	}
	return binary.BigEndian.AppendUint32(dst, uint32(n)), nil
}
