package packet

import (
	"github.com/danmuck/pktvar/internal/protocol/codec"
)

// Writer accumulates a payload for one header id. A Writer is not safe for
// concurrent use.
type Writer struct {
	id  uint16
	buf []byte
}

func NewWriter(id uint16) *Writer {
	return &Writer{id: id}
}

// Write appends the encoding of v. On error the payload is left as it was
// before the call.
func Write[T any](w *Writer, c codec.Codec[T], v T) error {
	mark := len(w.buf)
	out, err := c.Append(w.buf, v)
	if err != nil {
		w.buf = w.buf[:mark]
		return err
	}
	w.buf = out
	return nil
}

func (w *Writer) HeaderID() uint16 { return w.id }
func (w *Writer) Len() int         { return len(w.buf) }

// Payload returns the headerless bytes written so far. The slice aliases
// the writer's buffer until the next Write or Reset.
func (w *Writer) Payload() []byte { return w.buf }

func (w *Writer) Packet() Packet {
	return Packet{HeaderID: w.id, Payload: w.buf}
}

// Bytes returns the framed packet.
func (w *Writer) Bytes() ([]byte, error) {
	return w.Packet().Bytes()
}

func (w *Writer) Reset(id uint16) {
	w.id = id
	w.buf = w.buf[:0]
}

// Reader is a cursor over one payload. A Reader is not safe for concurrent
// use.
type Reader struct {
	id      uint16
	payload []byte
	pos     int
}

// NewReader parses one framed packet. The reader aliases framed.
func NewReader(framed []byte) (*Reader, error) {
	p, err := Parse(framed)
	if err != nil {
		return nil, err
	}
	return NewPayloadReader(p.HeaderID, p.Payload), nil
}

// NewPayloadReader reads a payload that was never framed.
func NewPayloadReader(id uint16, payload []byte) *Reader {
	return &Reader{id: id, payload: payload}
}

// Read decodes the next value and advances past it. The cursor does not
// move on error.
func Read[T any](r *Reader, c codec.Codec[T]) (T, error) {
	v, n, err := c.Decode(r.payload[r.pos:])
	if err != nil {
		var zero T
		return zero, err
	}
	r.pos += n
	return v, nil
}

// CanRead reports whether a value decodable by c begins at the cursor.
func CanRead[T any](r *Reader, c codec.Codec[T]) bool {
	return c.Probe(r.payload[r.pos:])
}

func (r *Reader) HeaderID() uint16 { return r.id }
func (r *Reader) Pos() int         { return r.pos }
func (r *Reader) Len() int         { return len(r.payload) }
func (r *Reader) Remaining() int   { return len(r.payload) - r.pos }
func (r *Reader) Done() bool       { return r.pos >= len(r.payload) }
func (r *Reader) Reset()           { r.pos = 0 }

// Rest returns the unread bytes without advancing.
func (r *Reader) Rest() []byte { return r.payload[r.pos:] }
