package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapEncodeIsSortedByKeyBytes(t *testing.T) {
	c := MapOf(Text(), Uint8())
	b, err := Encode(c, map[string]uint8{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0, 0, 0, 2,
		0, 1, 'a', 1,
		0, 1, 'b', 2,
	}, b)

	again, err := Encode(c, map[string]uint8{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestMapRoundTrip(t *testing.T) {
	c := MapOf(Uint16(), SequenceOf(Text()))
	in := map[uint16][]string{
		1:   {"alpha"},
		300: {"beta", "gamma"},
	}
	b, err := Encode(c, in)
	require.NoError(t, err)
	assert.Equal(t, len(b), c.ExactLength(b))

	out, n, err := c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, len(b), n)
}

func TestMapRepeatedKeyKeepsLastValue(t *testing.T) {
	b := []byte{0, 0, 0, 2, 1, 10, 1, 20}
	out, n, err := MapOf(Uint8(), Uint8()).Decode(b)
	require.NoError(t, err)
	assert.Equal(t, map[uint8]uint8{1: 20}, out)
	assert.Equal(t, 8, n)
}

func TestMapEmptyAndTruncated(t *testing.T) {
	c := MapOf(Uint8(), Text())
	out, n, err := c.Decode([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 4, n)

	b, err := Encode(c, map[uint8]string{7: "seven"})
	require.NoError(t, err)
	for i := 0; i < len(b); i++ {
		assert.Equal(t, 0, c.ExactLength(b[:i]), "prefix %d", i)
	}
}

func TestMapValueErrorCarriesEntryIndex(t *testing.T) {
	b := []byte{0, 0, 0, 1, 4, 0, 1, 0xFE}
	_, _, err := MapOf(Uint8(), Text()).Decode(b)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindInvalidUTF8, ce.Kind)
	assert.Equal(t, []string{"[0]"}, ce.Path)
}

func TestMapCountOfZeroWidthEntriesIsBounded(t *testing.T) {
	c := MapOf(OptionalOf(Uint8()), OptionalOf(Uint16()))
	b := []byte{0x7F, 0xFF, 0xFF, 0xFF}
	assert.Equal(t, 4, c.ExactLength(b))
	_, _, err := c.Decode(b)
	assert.ErrorIs(t, err, &Error{Op: OpDecode, Kind: KindInvalidData})
}
