package codec

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	plans     sync.Map // reflect.Type -> node
	overrides sync.Map // reflect.Type -> node

	variableType = reflect.TypeFor[Variable]()
)

// Register makes c the codec for T wherever T appears inside a compiled
// type. Register before the first compile that reaches T; plans already
// cached keep their earlier resolution.
func Register[T any](c Codec[T]) {
	overrides.Store(reflect.TypeFor[T](), nodeOf(c))
}

// For returns the reflection-compiled codec for T.
func For[T any]() (Codec[T], error) {
	n, err := compileType(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return typed[T]{n}, nil
}

// MustFor is For for package-level declarations; it panics on error.
func MustFor[T any]() Codec[T] {
	c, err := For[T]()
	if err != nil {
		panic(err)
	}
	return c
}

// Compile returns a codec for t that decodes to values of dynamic type t.
func Compile(t reflect.Type) (Codec[any], error) {
	if t == nil {
		return nil, newError(OpCompile, KindUnsupported, "nil type")
	}
	n, err := compileType(t)
	if err != nil {
		return nil, err
	}
	return dynamic{typ: t, n: n}, nil
}

func compileType(t reflect.Type) (node, error) {
	if n, ok := plans.Load(t); ok {
		return n.(node), nil
	}
	c := compiler{building: make(map[reflect.Type]bool)}
	n, err := c.compile(t, nil)
	if err != nil {
		log.Debug().Err(err).Str("type", t.String()).Msg("codec.compile failed")
		return nil, err
	}
	actual, loaded := plans.LoadOrStore(t, n)
	if !loaded {
		log.Debug().Str("type", t.String()).Msg("codec.compile cached plan")
	}
	return actual.(node), nil
}

type compiler struct {
	building map[reflect.Type]bool
}

func (c *compiler) compile(t reflect.Type, path []string) (node, error) {
	if n, ok := overrides.Load(t); ok {
		return n.(node), nil
	}
	if reflect.PointerTo(t).Implements(variableType) {
		return &variableNode{typ: t}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolNode{1}, nil
	case reflect.Uint8:
		return uintNode{1}, nil
	case reflect.Uint16:
		return uintNode{2}, nil
	case reflect.Uint32:
		return uintNode{4}, nil
	case reflect.Uint64:
		return uintNode{8}, nil
	case reflect.Int8:
		return intNode{1}, nil
	case reflect.Int16:
		return intNode{2}, nil
	case reflect.Int32:
		return intNode{4}, nil
	case reflect.Int64:
		return intNode{8}, nil
	case reflect.Float32:
		return floatNode{4}, nil
	case reflect.Float64:
		return floatNode{8}, nil
	case reflect.String:
		return textNode{}, nil
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return nil, unsupported(t, path, "platform-width integers have no fixed wire size")
	case reflect.Slice:
		elem, err := c.compile(t.Elem(), append(path, "[]"))
		if err != nil {
			return nil, err
		}
		return &sequenceNode{typ: t, elem: elem}, nil
	case reflect.Map:
		key, err := c.compile(t.Key(), append(path, "[key]"))
		if err != nil {
			return nil, err
		}
		elem, err := c.compile(t.Elem(), append(path, "[value]"))
		if err != nil {
			return nil, err
		}
		return &mappingNode{typ: t, key: key, elem: elem}, nil
	case reflect.Array:
		elem, err := c.compile(t.Elem(), append(path, "[]"))
		if err != nil {
			return nil, err
		}
		return &arrayNode{typ: t, elem: elem, n: t.Len()}, nil
	case reflect.Pointer:
		elem, err := c.compile(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		if isOptional(elem) {
			return nil, unsupported(t, path, "an optional cannot hold another optional")
		}
		return &optionalNode{typ: t, elem: elem}, nil
	case reflect.Struct:
		return c.compileRecord(t, path)
	case reflect.Interface:
		return nil, unsupported(t, path, "variant types are not supported")
	default:
		return nil, unsupported(t, path, "no wire encoding for kind "+t.Kind().String())
	}
}

// compileRecord walks exported fields in declaration order.
func (c *compiler) compileRecord(t reflect.Type, path []string) (node, error) {
	if n, ok := plans.Load(t); ok {
		return n.(node), nil
	}
	if c.building[t] {
		return nil, unsupported(t, path, "recursive record types are not supported")
	}
	c.building[t] = true
	defer delete(c.building, t)

	r := &recordNode{typ: t, fields: make([]fieldPlan, 0, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Tag.Get("packet") == "-" {
			continue
		}
		fn, err := c.compile(sf.Type, append(append([]string(nil), path...), sf.Name))
		if err != nil {
			return nil, err
		}
		r.fields = append(r.fields, fieldPlan{name: sf.Name, index: i, node: fn})
	}
	actual, _ := plans.LoadOrStore(t, r)
	return actual.(node), nil
}

// variableNode delegates to a type's own Variable methods.
type variableNode struct {
	typ reflect.Type
}

func (v *variableNode) variable() Variable {
	return reflect.New(v.typ).Interface().(Variable)
}

func (v *variableNode) ExactLength(b []byte) int {
	return v.variable().PacketLength(b)
}

func (v *variableNode) Probe(b []byte) bool {
	return v.ExactLength(b) != 0
}

func (v *variableNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	if v.ExactLength(b) == 0 {
		return 0, ErrIncomplete
	}
	p := reflect.New(v.typ)
	n, err := p.Interface().(Variable).DecodePacket(b)
	if err != nil {
		return 0, err
	}
	dst.Set(p.Elem())
	return n, nil
}

func (v *variableNode) appendValue(dst []byte, val reflect.Value) ([]byte, error) {
	p := reflect.New(v.typ)
	p.Elem().Set(val)
	return p.Interface().(Variable).AppendPacket(dst)
}
