package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/pktvar/internal/protocol/codec"
	"github.com/danmuck/pktvar/internal/protocol/legacy"
)

func TestParseTypeScalarsAndComposites(t *testing.T) {
	cases := map[string]reflect.Type{
		"u8":               reflect.TypeFor[uint8](),
		"text":             reflect.TypeFor[string](),
		"id":               reflect.TypeFor[legacy.ID](),
		"seq<i32>":         reflect.TypeFor[[]int32](),
		" opt< f64 > ":     reflect.TypeFor[*float64](),
		"map<text, u16>":   reflect.TypeFor[map[string]uint16](),
		"array<bool;3>":    reflect.TypeFor[[3]bool](),
		"seq<seq<length>>": reflect.TypeFor[[][]legacy.Length](),
	}
	for expr, want := range cases {
		got, err := ParseType(expr)
		require.NoError(t, err, expr)
		assert.Equal(t, want, got, expr)
	}
}

func TestParseTypeTuple(t *testing.T) {
	got, err := ParseType("tuple<id, text, opt<u8>>")
	require.NoError(t, err)
	require.Equal(t, reflect.Struct, got.Kind())
	require.Equal(t, 3, got.NumField())
	assert.Equal(t, reflect.TypeFor[legacy.ID](), got.Field(0).Type)
	assert.Equal(t, reflect.TypeFor[*uint8](), got.Field(2).Type)
	assert.Equal(t, "1", got.Field(1).Tag.Get("yaml"))
}

func TestParseTypeErrors(t *testing.T) {
	for expr, reason := range map[string]string{
		"":                  "expected type",
		"u7":                "unknown type",
		"seq<u8":            "expected '>'",
		"map<seq<u8>, u8>":  "not comparable",
		"tuple<u8>":         "type arguments",
		"array<u8;x>":       "invalid array length",
		"array<u8;9999999>": "invalid array length",
		"u8 u8":             "unexpected",
		"opt<u8, u16>":      "expected 1 type arguments",
	} {
		_, err := ParseType(expr)
		var se SyntaxError
		require.ErrorAs(t, err, &se, expr)
		assert.Contains(t, se.Reason, reason, expr)
	}
}

func TestParseLayoutNamesFields(t *testing.T) {
	typ, err := ParseLayout("user_id:i32, text:text, i32")
	require.NoError(t, err)
	require.Equal(t, 3, typ.NumField())
	assert.Equal(t, "user_id", typ.Field(0).Tag.Get("yaml"))
	assert.Equal(t, "text", typ.Field(1).Tag.Get("json"))
	assert.Equal(t, "f2", typ.Field(2).Tag.Get("yaml"))
	assert.Equal(t, reflect.TypeFor[string](), typ.Field(1).Type)

	again, err := ParseLayout("user_id: i32,text:text,i32")
	require.NoError(t, err)
	assert.Equal(t, typ, again)
}

func TestParseLayoutErrors(t *testing.T) {
	_, err := ParseLayout("")
	assert.Error(t, err)

	_, err = ParseLayout("a:u8, a:u16")
	assert.ErrorContains(t, err, "duplicate field")

	_, err = ParseLayout("a:u8,")
	assert.ErrorContains(t, err, "expected type")

	_, err = ParseLayout("a:u8 b:u8")
	assert.ErrorContains(t, err, "expected ','")
}

func TestCompileLayoutEncodesInFieldOrder(t *testing.T) {
	typ, c, err := CompileLayout("user_id:i32, text:text, bubble:i32")
	require.NoError(t, err)

	v, err := ValueFromYAML(typ, []byte("user_id: 12\ntext: hi\nbubble: 0\n"))
	require.NoError(t, err)
	b, err := c.Append(nil, v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 12, 0, 2, 'h', 'i', 0, 0, 0, 0}, b)

	out, n, err := c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, v, out)
	assert.Equal(t, len(b), n)

	text, err := ValueToYAML(out)
	require.NoError(t, err)
	assert.Equal(t, "user_id: 12\ntext: hi\nbubble: 0\n", string(text))
}

func TestValueFromJSON(t *testing.T) {
	typ, err := ParseLayout("names:seq<text>, grid:array<u8;2>, extra:opt<u16>")
	require.NoError(t, err)

	v, err := ValueFromYAML(typ, []byte(`{"names": ["a", "b"], "grid": [1, 2]}`))
	require.NoError(t, err)
	rv := reflect.ValueOf(v)
	assert.Equal(t, []string{"a", "b"}, rv.Field(0).Interface())
	assert.Equal(t, [2]uint8{1, 2}, rv.Field(1).Interface())
	assert.True(t, rv.Field(2).IsNil())

	_, err = ValueFromYAML(typ, []byte(`{"names": 5}`))
	assert.Error(t, err)
}

func TestParseTypeBoundsNestedArraySize(t *testing.T) {
	_, err := ParseType("array<array<u8;65536>;65536>")
	var se SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Reason, "exceeds")

	_, err = ParseType("tuple<array<array<u64;4096>;512>, u8>")
	assert.ErrorAs(t, err, &se)

	_, err = ParseLayout("a:array<array<u8;4096>;4096>, b:array<u8;1>")
	assert.ErrorAs(t, err, &se)

	got, err := ParseType("array<array<u8;256>;256>")
	require.NoError(t, err)
	assert.Equal(t, uintptr(1<<16), got.Size())
}

func TestWideScalarsFromYAML(t *testing.T) {
	typ, c, err := CompileLayout("big:u128, delta:i128")
	require.NoError(t, err)

	v, err := ValueFromYAML(typ, []byte("big: 340282366920938463463374607431768211455\ndelta: -2\n"))
	require.NoError(t, err)
	rv := reflect.ValueOf(v)
	assert.Equal(t, codec.Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}, rv.Field(0).Interface())
	assert.Equal(t, "-2", rv.Field(1).Interface().(codec.Int128).String())

	b, err := c.Append(nil, v)
	require.NoError(t, err)
	assert.Len(t, b, 32)
	assert.Equal(t, byte(0xFE), b[31])
}
