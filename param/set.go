package param

import (
	"fmt"
	"log"
	"reflect"
)

// Set is a fully resolved and validated parameter assignment. The zero Set
// is empty and belongs to no schema.
type Set struct {
	schema *Schema
	values map[string]any
}

// Schema returns the schema the set was validated against.
func (s Set) Schema() *Schema {
	return s.schema
}

// Value returns the value of a parameter. It panics if the parameter is not
// declared, since getters are only called by core definitions.
func (s Set) Value(name string) any {
	v, ok := s.values[name]
	if !ok {
		log.Panicf("parameter %q is not in the set", name)
	}

	return v
}

// Has tells if the set holds a value for the parameter.
func (s Set) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Int returns the value of an integer parameter.
func (s Set) Int(name string) int {
	v, ok := s.Value(name).(int)
	if !ok {
		log.Panicf("parameter %q is not an integer", name)
	}

	return v
}

// String returns the value of an enum or path parameter.
func (s Set) String(name string) string {
	v, ok := s.Value(name).(string)
	if !ok {
		log.Panicf("parameter %q is not a string", name)
	}

	return v
}

// Bool returns the value of a boolean parameter.
func (s Set) Bool(name string) bool {
	v, ok := s.Value(name).(bool)
	if !ok {
		log.Panicf("parameter %q is not a boolean", name)
	}

	return v
}

// Map returns a copy of the values keyed by parameter name.
func (s Set) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}

	return out
}

// Equal compares two sets value by value.
func (s Set) Equal(o Set) bool {
	return reflect.DeepEqual(s.values, o.values)
}

// Format renders a value the way it appears in generated HDL.
func (s Set) Format(name string) string {
	switch v := s.Value(name).(type) {
	case bool:
		if v {
			return "1"
		}

		return "0"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}
