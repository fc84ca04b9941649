package schema

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// ValueFromYAML decodes YAML (or JSON) text into a new value of type t.
// Layout fields are addressed by their names; tuple members by position.
func ValueFromYAML(t reflect.Type, data []byte) (any, error) {
	ptr := reflect.New(t)
	if err := yaml.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("schema: values for %s: %w", t, err)
	}
	return ptr.Elem().Interface(), nil
}

// ValueToYAML renders a decoded value with its layout field names.
func ValueToYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}
