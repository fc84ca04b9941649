package legacy

import (
	"errors"
	"math"
	"testing"
)

func TestLengthRoundTrip(t *testing.T) {
	b, err := Length(2).AppendPacket(nil)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if want := []byte{0, 0, 0, 2}; string(b) != string(want) {
		t.Fatalf("encoded=%v want=%v", b, want)
	}
	var l Length
	n, err := l.DecodePacket(append(b, 0xFF))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if l != 2 || n != Width {
		t.Fatalf("decoded=%d n=%d", l, n)
	}
}

func TestNegativeLengthIsPreserved(t *testing.T) {
	b, _ := Length(-1).AppendPacket(nil)
	v, _, err := ReadLength(b)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != -1 {
		t.Fatalf("expected -1, got %d", v)
	}
}

func TestShortBuffers(t *testing.T) {
	if got := (Length(0)).PacketLength([]byte{0, 0, 0}); got != 0 {
		t.Fatalf("expected 0 for short buffer, got %d", got)
	}
	if got := (ID(0)).PacketLength([]byte{0, 0, 0, 0}); got != Width {
		t.Fatalf("expected %d, got %d", Width, got)
	}
	var id ID
	if _, err := id.DecodePacket([]byte{1}); !errors.Is(err, ErrShort) {
		t.Fatalf("expected ErrShort, got %v", err)
	}
	if _, _, err := ReadLength(nil); !errors.Is(err, ErrShort) {
		t.Fatalf("expected ErrShort, got %v", err)
	}
}

func TestIDRoundTrip(t *testing.T) {
	b, _ := ID(-7).AppendPacket([]byte{0xAA})
	var id ID
	n, err := id.DecodePacket(b[1:])
	if err != nil || n != Width || id != -7 {
		t.Fatalf("id=%d n=%d err=%v", id, n, err)
	}
}

func TestAppendLengthOverflow(t *testing.T) {
	if _, err := AppendLength(nil, math.MaxInt32+1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	b, err := AppendLength(nil, 300)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if want := []byte{0, 0, 1, 0x2C}; string(b) != string(want) {
		t.Fatalf("encoded=%v want=%v", b, want)
	}
}
