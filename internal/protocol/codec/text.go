package codec

import (
	"encoding/binary"
	"math"
	"reflect"
	"unicode/utf8"
)

const textPrefixLen = 2

type textNode struct{}

// ExactLength returns 0 until the whole body is available, so a short
// buffer never reports a length that would over-read it.
func (textNode) ExactLength(b []byte) int {
	if len(b) < textPrefixLen {
		return 0
	}
	n := textPrefixLen + int(binary.BigEndian.Uint16(b))
	if n > len(b) {
		return 0
	}
	return n
}

func (t textNode) Probe(b []byte) bool {
	return t.ExactLength(b) != 0
}

func (t textNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	n := t.ExactLength(b)
	if n == 0 {
		return 0, ErrIncomplete
	}
	body := b[textPrefixLen:n]
	if !utf8.Valid(body) {
		return 0, invalidUTF8(OpDecode, body)
	}
	dst.SetString(string(body))
	return n, nil
}

func (textNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	s := v.String()
	if len(s) > math.MaxUint16 {
		return dst, newError(OpEncode, KindTooLong, "text of %d bytes exceeds %d", len(s), math.MaxUint16)
	}
	if !utf8.ValidString(s) {
		return dst, invalidUTF8(OpEncode, []byte(s))
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(s)))
	return append(dst, s...), nil
}

func invalidUTF8(op Op, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return newError(op, KindInvalidUTF8, "invalid UTF-8 sequence: %x", preview)
}

// Text encodes a string as a 2-byte big-endian length followed by UTF-8 bytes.
func Text() Codec[string] { return typed[string]{textNode{}} }
