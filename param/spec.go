// Package param declares the typed configuration knobs of an IP core and
// validates user input against them.
package param

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind is the value type of a parameter.
type Kind int

// All the parameter kinds.
const (
	KindInt Kind = iota
	KindEnum
	KindBool
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindEnum:
		return "enum"
	case KindBool:
		return "bool"
	case KindPath:
		return "path"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Spec is a single configuration knob of a core. Specs are values and are
// never modified after being added to a schema.
type Spec struct {
	Name        string
	Kind        Kind
	Default     any
	Description string

	ranged   bool
	min, max int
	ints     []int
	strs     []string
	exts     []string
}

// IntRange declares an integer parameter that accepts min..max, both ends
// inclusive.
func IntRange(name string, min, max, def int) Spec {
	return Spec{
		Name:    name,
		Kind:    KindInt,
		Default: def,
		ranged:  true,
		min:     min,
		max:     max,
	}
}

// IntChoice declares an integer parameter restricted to an explicit set.
func IntChoice(name string, choices []int, def int) Spec {
	return Spec{
		Name:    name,
		Kind:    KindInt,
		Default: def,
		ints:    append([]int(nil), choices...),
	}
}

// Enum declares a string parameter restricted to an explicit set.
func Enum(name string, choices []string, def string) Spec {
	return Spec{
		Name:    name,
		Kind:    KindEnum,
		Default: def,
		strs:    append([]string(nil), choices...),
	}
}

// Bool declares a boolean parameter.
func Bool(name string, def bool) Spec {
	return Spec{Name: name, Kind: KindBool, Default: def}
}

// Path declares a file path parameter. An empty path means "not set". A
// non-empty path must name an existing regular file and, if exts is given,
// carry one of the extensions.
func Path(name string, def string, exts ...string) Spec {
	return Spec{
		Name:    name,
		Kind:    KindPath,
		Default: def,
		exts:    append([]string(nil), exts...),
	}
}

// WithDescription returns a copy of the spec with the help text set.
func (s Spec) WithDescription(d string) Spec {
	s.Description = d
	return s
}

// Range returns the inclusive bounds of a ranged integer parameter.
func (s Spec) Range() (min, max int, ok bool) {
	return s.min, s.max, s.ranged
}

// IntChoices returns the allowed values of an integer choice parameter.
func (s Spec) IntChoices() []int {
	return append([]int(nil), s.ints...)
}

// EnumChoices returns the allowed values of an enum parameter.
func (s Spec) EnumChoices() []string {
	return append([]string(nil), s.strs...)
}

// Domain describes the allowed values in a human readable form.
func (s Spec) Domain() string {
	switch s.Kind {
	case KindInt:
		if s.ranged {
			return fmt.Sprintf("[%d..%d]", s.min, s.max)
		}

		parts := make([]string, len(s.ints))
		for i, v := range s.ints {
			parts[i] = strconv.Itoa(v)
		}

		return "{" + strings.Join(parts, ", ") + "}"
	case KindEnum:
		return "{" + strings.Join(s.strs, ", ") + "}"
	case KindBool:
		return "{false, true}"
	case KindPath:
		if len(s.exts) == 0 {
			return "existing file"
		}

		return "existing file with extension " + strings.Join(s.exts, "|")
	}

	return "?"
}

// Check coerces a raw value to the kind of the spec and verifies that it lies
// in the domain. The coercion only changes representation (e.g. "32" to 32);
// values are never clamped.
func (s Spec) Check(raw any) (any, error) {
	v, err := s.coerce(raw)
	if err != nil {
		return nil, s.invalid(raw)
	}

	if !s.contains(v) {
		return nil, s.invalid(raw)
	}

	return v, nil
}

func (s Spec) invalid(raw any) error {
	return &InvalidValueError{Name: s.Name, Value: raw, Domain: s.Domain()}
}

func (s Spec) coerce(raw any) (any, error) {
	switch s.Kind {
	case KindInt:
		return toInt(raw)
	case KindBool:
		return toBool(raw)
	case KindEnum, KindPath:
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%v is not a string", raw)
		}

		return str, nil
	}

	return nil, fmt.Errorf("unknown kind %s", s.Kind)
}

func (s Spec) contains(v any) bool {
	switch s.Kind {
	case KindInt:
		n := v.(int)
		if s.ranged {
			return n >= s.min && n <= s.max
		}

		for _, c := range s.ints {
			if c == n {
				return true
			}
		}

		return false
	case KindEnum:
		return hasString(s.strs, v.(string))
	case KindBool:
		return true
	case KindPath:
		return s.pathAllowed(v.(string))
	}

	return false
}

func (s Spec) pathAllowed(p string) bool {
	if p == "" {
		return true
	}

	if len(s.exts) > 0 && !hasString(s.exts, filepath.Ext(p)) {
		return false
	}

	info, err := os.Stat(p)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func hasString(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}

	return false
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}

		return int(v), nil
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, err
		}

		return n, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}

	return 0, fmt.Errorf("%v is not an integer", raw)
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case json.Number:
		return toBool(v.String())
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}

	return false, fmt.Errorf("%v is not a boolean", raw)
}
