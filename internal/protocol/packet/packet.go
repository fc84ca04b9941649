package packet

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/pktvar/internal/observability"
	"github.com/danmuck/pktvar/internal/protocol/legacy"
)

const (
	LengthLen   = legacy.Width
	HeaderIDLen = 2
	HeaderLen   = LengthLen + HeaderIDLen

	// MaxPayloadLen is the largest payload the int32 length field can carry.
	MaxPayloadLen = math.MaxInt32 - HeaderIDLen
)

var (
	ErrShortHeader     = errors.New("packet: short header")
	ErrInvalidLength   = errors.New("packet: length smaller than header id")
	ErrPayloadTooLarge = errors.New("packet: payload too large")
	ErrTrailingBytes   = errors.New("packet: trailing bytes after packet")
)

// Header is the fixed wire header. Length counts the header id and the
// payload but not itself.
type Header struct {
	Length   int32
	HeaderID uint16
}

func (h Header) PayloadLen() (int, error) {
	if h.Length < HeaderIDLen {
		return 0, ErrInvalidLength
	}
	return int(h.Length) - HeaderIDLen, nil
}

// Packet is one complete wire message.
type Packet struct {
	HeaderID uint16
	Payload  []byte
}

// Limits constrains packet decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 8 * 1024 * 1024}
}

// Check reports whether a payload of n bytes fits the limits and the
// int32 length field. A zero MaxPayloadBytes only applies the latter.
func (l Limits) Check(n int) error {
	if n > MaxPayloadLen || (l.MaxPayloadBytes > 0 && uint64(n) > uint64(l.MaxPayloadBytes)) {
		return ErrPayloadTooLarge
	}
	return nil
}

func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderLen)
	binary.BigEndian.PutUint32(buf[0:4], uint32(h.Length))
	binary.BigEndian.PutUint16(buf[4:6], h.HeaderID)
	return buf
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) != HeaderLen {
		return Header{}, fmt.Errorf("packet: invalid header length: %d", len(b))
	}
	return Header{
		Length:   int32(binary.BigEndian.Uint32(b[0:4])),
		HeaderID: binary.BigEndian.Uint16(b[4:6]),
	}, nil
}

// Append appends the framed packet to dst.
func (p Packet) Append(dst []byte) ([]byte, error) {
	if len(p.Payload) > MaxPayloadLen {
		return dst, ErrPayloadTooLarge
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(p.Payload)+HeaderIDLen))
	dst = binary.BigEndian.AppendUint16(dst, p.HeaderID)
	return append(dst, p.Payload...), nil
}

// Bytes returns the framed packet.
func (p Packet) Bytes() ([]byte, error) {
	return p.Append(make([]byte, 0, HeaderLen+len(p.Payload)))
}

// Length reports the framed size of the packet at the head of b, or 0 when
// b does not yet hold all of it. A malformed header also reports 0; use
// Parse or SplitFunc to surface the error.
func Length(b []byte) int {
	n, err := frameLen(b, Limits{})
	if err != nil {
		return 0
	}
	return n
}

func frameLen(b []byte, limits Limits) (int, error) {
	if len(b) < HeaderLen {
		return 0, nil
	}
	h, err := DecodeHeader(b[:HeaderLen])
	if err != nil {
		return 0, err
	}
	size, err := h.PayloadLen()
	if err != nil {
		return 0, err
	}
	if err := limits.Check(size); err != nil {
		return 0, err
	}
	if len(b) < HeaderLen+size {
		return 0, nil
	}
	return HeaderLen + size, nil
}

// Parse decodes exactly one framed packet from b. The payload aliases b.
func Parse(b []byte) (Packet, error) {
	return ParseWithLimits(b, DefaultLimits())
}

func ParseWithLimits(b []byte, limits Limits) (Packet, error) {
	if len(b) < HeaderLen {
		return Packet{}, readFailed(ErrShortHeader)
	}
	n, err := frameLen(b, limits)
	if err != nil {
		return Packet{}, readFailed(err)
	}
	if n == 0 {
		return Packet{}, readFailed(io.ErrUnexpectedEOF)
	}
	if n != len(b) {
		return Packet{}, readFailed(ErrTrailingBytes)
	}
	observability.RecordPacket(observability.DirectionRead, observability.ResultOK, n)
	return Packet{
		HeaderID: binary.BigEndian.Uint16(b[LengthLen:HeaderLen]),
		Payload:  b[HeaderLen:n],
	}, nil
}

func ReadPacket(r io.Reader, limits Limits) (Packet, error) {
	var hb [HeaderLen]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Packet{}, readFailed(ErrShortHeader)
		}
		return Packet{}, err
	}

	h, err := DecodeHeader(hb[:])
	if err != nil {
		return Packet{}, readFailed(err)
	}
	size, err := h.PayloadLen()
	if err != nil {
		return Packet{}, readFailed(err)
	}
	if err := limits.Check(size); err != nil {
		return Packet{}, readFailed(err)
	}

	payload := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Packet{}, readFailed(err)
		}
	}
	observability.RecordPacket(observability.DirectionRead, observability.ResultOK, HeaderLen+size)
	return Packet{HeaderID: h.HeaderID, Payload: payload}, nil
}

func WritePacket(w io.Writer, p Packet, limits Limits) error {
	if err := limits.Check(len(p.Payload)); err != nil {
		observability.RecordPacket(observability.DirectionWrite, observability.ResultTooLarge, 0)
		log.Debug().Err(err).Uint16("header_id", p.HeaderID).Int("payload", len(p.Payload)).Msg("packet.write rejected")
		return err
	}

	hb := EncodeHeader(Header{Length: int32(len(p.Payload) + HeaderIDLen), HeaderID: p.HeaderID})
	if _, err := w.Write(hb); err != nil {
		return err
	}
	if len(p.Payload) > 0 {
		if _, err := w.Write(p.Payload); err != nil {
			return err
		}
	}
	observability.RecordPacket(observability.DirectionWrite, observability.ResultOK, HeaderLen+len(p.Payload))
	return nil
}

// SplitFunc tokenizes a byte stream into framed packets for bufio.Scanner.
// Each token is one whole packet, header included.
func SplitFunc(limits Limits) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		n, err := frameLen(data, limits)
		if err != nil {
			return 0, nil, readFailed(err)
		}
		if n == 0 {
			if atEOF {
				if len(data) < HeaderLen {
					return 0, nil, readFailed(ErrShortHeader)
				}
				return 0, nil, readFailed(io.ErrUnexpectedEOF)
			}
			return 0, nil, nil
		}
		observability.RecordPacket(observability.DirectionRead, observability.ResultOK, n)
		return n, data[:n], nil
	}
}

func readFailed(err error) error {
	observability.RecordPacket(observability.DirectionRead, resultOf(err), 0)
	log.Debug().Err(err).Msg("packet.read failed")
	return err
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrShortHeader), errors.Is(err, io.ErrUnexpectedEOF):
		return observability.ResultIncomplete
	case errors.Is(err, ErrPayloadTooLarge):
		return observability.ResultTooLarge
	case errors.Is(err, ErrInvalidLength), errors.Is(err, ErrTrailingBytes):
		return observability.ResultInvalid
	default:
		return observability.ResultUnknown
	}
}
