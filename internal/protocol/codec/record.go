package codec

import (
	"reflect"
)

type fieldPlan struct {
	name  string
	index int
	node  node
}

// recordNode sequences its fields in declared order.
type recordNode struct {
	typ    reflect.Type
	fields []fieldPlan
}

func (r *recordNode) ExactLength(b []byte) int {
	off := 0
	for _, f := range r.fields {
		n, ok := measure(f.node, b[off:])
		if !ok {
			return 0
		}
		off += n
	}
	return off
}

func (r *recordNode) Probe(b []byte) bool {
	return r.ExactLength(b) != 0
}

func (r *recordNode) decodeValue(b []byte, dst reflect.Value) (int, error) {
	off := 0
	for _, f := range r.fields {
		n, err := f.node.decodeValue(b[off:], dst.Field(f.index))
		if err != nil {
			return 0, withPath(err, f.name)
		}
		off += n
	}
	return off, nil
}

func (r *recordNode) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	var err error
	for _, f := range r.fields {
		if dst, err = f.node.appendValue(dst, v.Field(f.index)); err != nil {
			return dst, withPath(err, f.name)
		}
	}
	return dst, nil
}

// FieldDescriptor names one wire field of a record.
type FieldDescriptor struct {
	Name  string
	Index int
	Type  reflect.Type
}

// Descriptor is the ordered wire layout of a record type.
type Descriptor struct {
	Type   reflect.Type
	Fields []FieldDescriptor
}

// Describe compiles t and reports its wire fields in order.
func Describe(t reflect.Type) (Descriptor, error) {
	n, err := compileType(t)
	if err != nil {
		return Descriptor{}, err
	}
	r, ok := n.(*recordNode)
	if !ok {
		return Descriptor{}, unsupported(t, nil, "not a record type")
	}
	return r.descriptor(), nil
}

func (r *recordNode) descriptor() Descriptor {
	d := Descriptor{Type: r.typ, Fields: make([]FieldDescriptor, 0, len(r.fields))}
	for _, f := range r.fields {
		d.Fields = append(d.Fields, FieldDescriptor{
			Name:  f.name,
			Index: f.index,
			Type:  r.typ.Field(f.index).Type,
		})
	}
	return d
}

// Field binds a struct field to an explicit codec for NewRecord.
type Field struct {
	name string
	typ  reflect.Type
	node node
}

func FieldOf[F any](name string, c Codec[F]) Field {
	return Field{name: name, typ: reflect.TypeFor[F](), node: nodeOf(c)}
}

// NewRecord builds a codec for T from an explicit field list. The wire
// order is the order of fields; struct fields not listed are skipped.
func NewRecord[T any](fields ...Field) (Codec[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, unsupported(t, nil, "records must be structs")
	}
	plans := make([]fieldPlan, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		sf, ok := t.FieldByName(f.name)
		if !ok || len(sf.Index) != 1 || !sf.IsExported() {
			return nil, unsupported(t, []string{f.name}, "no exported field with this name")
		}
		if seen[f.name] {
			return nil, unsupported(t, []string{f.name}, "field listed twice")
		}
		seen[f.name] = true
		if sf.Type != f.typ {
			return nil, &Error{
				Op:     OpCompile,
				Kind:   KindTypeMismatch,
				Path:   []string{f.name},
				GoType: sf.Type.String(),
				Detail: "codec is for " + f.typ.String(),
			}
		}
		plans = append(plans, fieldPlan{name: f.name, index: sf.Index[0], node: f.node})
	}
	return typed[T]{&recordNode{typ: t, fields: plans}}, nil
}
