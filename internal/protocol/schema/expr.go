package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/danmuck/pktvar/internal/protocol/codec"
	"github.com/danmuck/pktvar/internal/protocol/legacy"
)

const (
	// MaxArrayLen bounds a single array<E;N> dimension.
	MaxArrayLen = 1 << 16
	// MaxTypeSize bounds the in-memory size of any array, tuple or layout,
	// since decoding allocates the whole value up front.
	MaxTypeSize = 1 << 24
)

var scalars = map[string]reflect.Type{
	"bool":   reflect.TypeFor[bool](),
	"u8":     reflect.TypeFor[uint8](),
	"i8":     reflect.TypeFor[int8](),
	"u16":    reflect.TypeFor[uint16](),
	"i16":    reflect.TypeFor[int16](),
	"u32":    reflect.TypeFor[uint32](),
	"i32":    reflect.TypeFor[int32](),
	"u64":    reflect.TypeFor[uint64](),
	"i64":    reflect.TypeFor[int64](),
	"u128":   reflect.TypeFor[codec.Uint128](),
	"i128":   reflect.TypeFor[codec.Int128](),
	"f32":    reflect.TypeFor[float32](),
	"f64":    reflect.TypeFor[float64](),
	"text":   reflect.TypeFor[string](),
	"length": reflect.TypeFor[legacy.Length](),
	"id":     reflect.TypeFor[legacy.ID](),
}

type SyntaxError struct {
	Expr   string
	Offset int
	Reason string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("schema: %s at offset %d in %q", e.Reason, e.Offset, e.Expr)
}

// ParseType builds the Go type described by a single type expression.
func ParseType(expr string) (reflect.Type, error) {
	p := &parser{src: expr}
	t, err := p.typ()
	if err != nil {
		return nil, err
	}
	p.space()
	if !p.eof() {
		return nil, p.fail("unexpected %q", p.rest())
	}
	return t, nil
}

// ParseLayout builds a struct type from a comma separated list of
// [name:]type fields. Unnamed fields are called f0, f1, ... by position.
func ParseLayout(layout string) (reflect.Type, error) {
	p := &parser{src: layout}
	var fields []reflect.StructField
	seen := make(map[string]bool)
	for {
		p.space()
		start := p.pos
		name := p.ident()
		p.space()
		if name != "" && p.peek() == ':' {
			p.pos++
		} else {
			name = ""
			p.pos = start
		}
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = "f" + strconv.Itoa(len(fields))
		}
		if seen[name] {
			return nil, SyntaxError{Expr: layout, Offset: start, Reason: "duplicate field " + strconv.Quote(name)}
		}
		seen[name] = true
		fields = append(fields, field(len(fields), name, t))

		p.space()
		if p.eof() {
			break
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
	}
	if err := checkSize(fields); err != nil {
		return nil, SyntaxError{Expr: layout, Offset: 0, Reason: err.Error()}
	}
	return reflect.StructOf(fields), nil
}

// CompileLayout parses layout and compiles a codec for it.
func CompileLayout(layout string) (reflect.Type, codec.Codec[any], error) {
	t, err := ParseLayout(layout)
	if err != nil {
		return nil, nil, err
	}
	c, err := codec.Compile(t)
	if err != nil {
		return nil, nil, err
	}
	return t, c, nil
}

// checkSize sums member sizes before reflect.StructOf lays them out.
// Alignment padding is small next to MaxTypeSize and is ignored.
func checkSize(fields []reflect.StructField) error {
	var total uint64
	for _, f := range fields {
		total += uint64(f.Type.Size())
	}
	if total > MaxTypeSize {
		return fmt.Errorf("%d fields total %d bytes, over %d", len(fields), total, MaxTypeSize)
	}
	return nil
}

func field(i int, name string, t reflect.Type) reflect.StructField {
	return reflect.StructField{
		Name: "F" + strconv.Itoa(i),
		Type: t,
		Tag:  reflect.StructTag(fmt.Sprintf(`json:%q yaml:%q`, name, name)),
	}
}

type parser struct {
	src string
	pos int
}

func (p *parser) typ() (reflect.Type, error) {
	p.space()
	start := p.pos
	name := p.ident()
	if name == "" {
		return nil, p.fail("expected type")
	}
	if t, ok := scalars[name]; ok {
		return t, nil
	}
	switch name {
	case "seq", "opt":
		elem, err := p.args1()
		if err != nil {
			return nil, err
		}
		if name == "seq" {
			return reflect.SliceOf(elem), nil
		}
		return reflect.PointerTo(elem), nil
	case "map":
		args, err := p.args(2, 2)
		if err != nil {
			return nil, err
		}
		if !args[0].Comparable() {
			return nil, SyntaxError{Expr: p.src, Offset: start, Reason: "map key " + args[0].String() + " is not comparable"}
		}
		return reflect.MapOf(args[0], args[1]), nil
	case "array":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.typ()
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		p.space()
		digits := p.number()
		n, err := strconv.Atoi(digits)
		if err != nil || n > MaxArrayLen {
			return nil, p.fail("invalid array length %q", digits)
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		if uint64(elem.Size())*uint64(n) > MaxTypeSize {
			return nil, SyntaxError{Expr: p.src, Offset: start, Reason: fmt.Sprintf("array of %d %s exceeds %d bytes", n, elem, MaxTypeSize)}
		}
		return reflect.ArrayOf(n, elem), nil
	case "tuple":
		args, err := p.args(codec.MinTupleArity, codec.MaxTupleArity)
		if err != nil {
			return nil, err
		}
		fields := make([]reflect.StructField, len(args))
		for i, t := range args {
			fields[i] = field(i, strconv.Itoa(i), t)
		}
		if err := checkSize(fields); err != nil {
			return nil, SyntaxError{Expr: p.src, Offset: start, Reason: err.Error()}
		}
		return reflect.StructOf(fields), nil
	default:
		p.pos = start
		return nil, p.fail("unknown type %q", name)
	}
}

func (p *parser) args1() (reflect.Type, error) {
	args, err := p.args(1, 1)
	if err != nil {
		return nil, err
	}
	return args[0], nil
}

func (p *parser) args(lo, hi int) ([]reflect.Type, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var out []reflect.Type
	for {
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		p.space()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		break
	}
	if len(out) < lo || len(out) > hi {
		if lo == hi {
			return nil, p.fail("expected %d type arguments, got %d", lo, len(out))
		}
		return nil, p.fail("expected %d..%d type arguments, got %d", lo, hi, len(out))
	}
	return out, nil
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *parser) number() string {
	start := p.pos
	for p.pos < len(p.src) && '0' <= p.src[p.pos] && p.src[p.pos] <= '9' {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) expect(c byte) error {
	p.space()
	if p.peek() != c {
		if p.eof() {
			return p.fail("expected %q, got end of input", c)
		}
		return p.fail("expected %q, got %q", c, p.src[p.pos])
	}
	p.pos++
	return nil
}

func (p *parser) space() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) eof() bool    { return p.pos >= len(p.src) }
func (p *parser) rest() string { return p.src[p.pos:] }

func (p *parser) fail(format string, args ...any) error {
	return SyntaxError{Expr: p.src, Offset: p.pos, Reason: fmt.Sprintf(format, args...)}
}
