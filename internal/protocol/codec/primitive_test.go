package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolEncodesOneByte(t *testing.T) {
	b, err := Encode(Bool(), true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, b)

	b, err = Encode(Bool(), false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, b)

	v, n, err := Bool().Decode([]byte{0x01, 0xFF})
	require.NoError(t, err)
	assert.True(t, v)
	assert.Equal(t, 1, n)
}

func TestBoolDecodesAnyNonZeroAsTrue(t *testing.T) {
	for _, raw := range []byte{0x02, 0x7F, 0xFF} {
		v, n, err := Bool().Decode([]byte{raw})
		require.NoError(t, err)
		assert.True(t, v, "byte %#x", raw)
		assert.Equal(t, 1, n)
	}
}

func TestUint16BigEndian(t *testing.T) {
	b, err := Encode(Uint16(), 300)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x2C}, b)

	v, n, err := Uint16().Decode(b)
	require.NoError(t, err)
	assert.Equal(t, uint16(300), v)
	assert.Equal(t, 2, n)
}

func TestSignedIntegersRoundTrip(t *testing.T) {
	b, err := Encode(Int8(), -1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF}, b)

	i16, _, err := Int16().Decode([]byte{0xFF, 0xFE})
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)

	b, err = Encode(Int32(), math.MinInt32)
	require.NoError(t, err)
	i32, n, err := Int32().Decode(b)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), i32)
	assert.Equal(t, 4, n)

	b, err = Encode(Int64(), -42)
	require.NoError(t, err)
	i64, n, err := Int64().Decode(b)
	require.NoError(t, err)
	assert.Equal(t, int64(-42), i64)
	assert.Equal(t, 8, n)
}

func TestUnsignedWidths(t *testing.T) {
	b, err := Encode(Uint32(), 0xDEADBEEF)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, b)

	b, err = Encode(Uint64(), 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, b)

	u8, n, err := Uint8().Decode([]byte{0xAB, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)
	assert.Equal(t, 1, n)
}

func TestFloatsRoundTrip(t *testing.T) {
	b, err := Encode(Float32(), 1.5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x3F, 0xC0, 0x00, 0x00}, b)
	f32, _, err := Float32().Decode(b)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	b, err = Encode(Float64(), -0.25)
	require.NoError(t, err)
	f64, n, err := Float64().Decode(b)
	require.NoError(t, err)
	assert.Equal(t, -0.25, f64)
	assert.Equal(t, 8, n)
}

func TestPrimitiveShortBuffersAreIncomplete(t *testing.T) {
	assert.False(t, Uint32().Probe([]byte{1, 2, 3}))
	assert.Equal(t, 0, Uint32().ExactLength([]byte{1, 2, 3}))
	assert.Equal(t, 4, Uint32().ExactLength([]byte{1, 2, 3, 4, 5}))
	assert.False(t, Bool().Probe(nil))

	_, _, err := Int64().Decode([]byte{1})
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.True(t, IsIncomplete(err))
	assert.False(t, IsFatal(err))
}
