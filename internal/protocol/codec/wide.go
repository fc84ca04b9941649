package codec

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

const wideLen = 16

var (
	two64  = new(big.Int).Lsh(big.NewInt(1), 64)
	two127 = new(big.Int).Lsh(big.NewInt(1), 127)
	two128 = new(big.Int).Lsh(big.NewInt(1), 128)
	mask64 = new(big.Int).Sub(two64, big.NewInt(1))
)

// Uint128 is an unsigned 128-bit integer. On the wire it is 16 bytes,
// big-endian, Hi first.
type Uint128 struct {
	Hi, Lo uint64
}

func (u Uint128) AppendPacket(dst []byte) ([]byte, error) {
	dst = binary.BigEndian.AppendUint64(dst, u.Hi)
	return binary.BigEndian.AppendUint64(dst, u.Lo), nil
}

func (u *Uint128) DecodePacket(b []byte) (int, error) {
	if len(b) < wideLen {
		return 0, ErrIncomplete
	}
	u.Hi, u.Lo = binary.BigEndian.Uint64(b), binary.BigEndian.Uint64(b[8:])
	return wideLen, nil
}

func (Uint128) PacketLength(b []byte) int {
	if len(b) < wideLen {
		return 0
	}
	return wideLen
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	x := new(big.Int).SetUint64(u.Hi)
	x.Lsh(x, 64)
	return x.Or(x, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string { return u.Big().String() }

func (u Uint128) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *Uint128) UnmarshalText(text []byte) error {
	x, ok := new(big.Int).SetString(string(text), 0)
	if !ok {
		return fmt.Errorf("codec: invalid u128 %q", text)
	}
	v, err := Uint128FromBig(x)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Uint128FromBig converts x, failing when it is outside [0, 2^128).
func Uint128FromBig(x *big.Int) (Uint128, error) {
	if x.Sign() < 0 || x.Cmp(two128) >= 0 {
		return Uint128{}, fmt.Errorf("codec: %s out of range for u128", x)
	}
	hi, lo := split128(x)
	return Uint128{Hi: hi, Lo: lo}, nil
}

// Int128 is a two's complement signed 128-bit integer, laid out on the
// wire like Uint128.
type Int128 struct {
	Hi int64
	Lo uint64
}

func (i Int128) AppendPacket(dst []byte) ([]byte, error) {
	return Uint128{Hi: uint64(i.Hi), Lo: i.Lo}.AppendPacket(dst)
}

func (i *Int128) DecodePacket(b []byte) (int, error) {
	var u Uint128
	n, err := u.DecodePacket(b)
	if err != nil {
		return 0, err
	}
	i.Hi, i.Lo = int64(u.Hi), u.Lo
	return n, nil
}

func (Int128) PacketLength(b []byte) int {
	return Uint128{}.PacketLength(b)
}

func (i Int128) Big() *big.Int {
	x := big.NewInt(i.Hi)
	x.Lsh(x, 64)
	return x.Add(x, new(big.Int).SetUint64(i.Lo))
}

func (i Int128) String() string { return i.Big().String() }

func (i Int128) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Int128) UnmarshalText(text []byte) error {
	x, ok := new(big.Int).SetString(string(text), 0)
	if !ok {
		return fmt.Errorf("codec: invalid i128 %q", text)
	}
	v, err := Int128FromBig(x)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Int128FromBig converts x, failing when it is outside [-2^127, 2^127).
func Int128FromBig(x *big.Int) (Int128, error) {
	if x.Cmp(new(big.Int).Neg(two127)) < 0 || x.Cmp(two127) >= 0 {
		return Int128{}, fmt.Errorf("codec: %s out of range for i128", x)
	}
	u := x
	if x.Sign() < 0 {
		u = new(big.Int).Add(x, two128)
	}
	hi, lo := split128(u)
	return Int128{Hi: int64(hi), Lo: lo}, nil
}

// split128 returns the high and low words of 0 <= x < 2^128.
func split128(x *big.Int) (hi, lo uint64) {
	lo = new(big.Int).And(x, mask64).Uint64()
	hi = new(big.Int).Rsh(x, 64).Uint64()
	return hi, lo
}

