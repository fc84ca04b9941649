// Package codec implements the packet-variable wire contract.
//
// Every supported type is handled by a Codec[T] with four operations:
//
//	Decode(b)       value and consumed length from the head of b
//	Append(dst, v)  encoding of v appended to dst
//	Probe(b)        whether a value could begin at the head of b
//	ExactLength(b)  bytes one value occupies, or 0 if b is incomplete
//
// Wire layouts:
//
//	bool              1 byte, 0/1 (any non-zero byte decodes as true)
//	u8..u64, i8..i64  full-width big-endian
//	Uint128, Int128   16 bytes big-endian, two's complement when signed
//	f32, f64          IEEE 754 bits, big-endian
//	string            u16 length, then UTF-8 bytes
//	[]T               legacy.Length count, then count T encodings
//	map[K]V           legacy.Length count, then count K,V pairs
//	[N]T              N T encodings, no prefix
//	*T                T encoding when present, nothing when absent
//	struct            each exported field in declaration order
//
// Struct codecs are compiled once per type by reflection and cached. A
// field tagged `packet:"-"` is not on the wire. Types implementing
// Variable, and types passed to Register, override the built-in layouts.
//
// Two failure modes are kept apart. ErrIncomplete means the buffer ended
// early and the caller may retry with more bytes; any *Error is a content
// violation that no amount of extra input will fix.
package codec
