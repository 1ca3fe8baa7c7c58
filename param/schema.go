package param

import (
	"fmt"
	"sort"
)

// Constraint is a rule that spans more than one parameter.
type Constraint struct {
	Names  []string
	Reason string
	Check  func(s Set) bool
}

// Schema is the ordered, closed list of parameters of one core.
type Schema struct {
	specs       []Spec
	index       map[string]int
	constraints []Constraint
}

// NewSchema creates a schema. Names must be unique and every default must lie
// in the domain of its own spec.
func NewSchema(specs ...Spec) (*Schema, error) {
	s := &Schema{index: make(map[string]int)}

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("parameter name must not be empty")
		}

		if _, dup := s.index[spec.Name]; dup {
			return nil, fmt.Errorf("parameter %q declared twice", spec.Name)
		}

		if _, err := spec.Check(spec.Default); err != nil {
			return nil, fmt.Errorf("default of %q: %w", spec.Name, err)
		}

		s.index[spec.Name] = len(s.specs)
		s.specs = append(s.specs, spec)
	}

	return s, nil
}

// MustNewSchema is NewSchema that panics on error. It is meant for the
// catalog definitions, where a bad schema is a programming error.
func MustNewSchema(specs ...Spec) *Schema {
	s, err := NewSchema(specs...)
	if err != nil {
		panic(err)
	}

	return s
}

// WithConstraint adds a cross-parameter rule and returns the schema.
func (s *Schema) WithConstraint(c Constraint) *Schema {
	for _, n := range c.Names {
		if _, ok := s.index[n]; !ok {
			panic(fmt.Sprintf("constraint refers to unknown parameter %q", n))
		}
	}

	s.constraints = append(s.constraints, c)

	return s
}

// Specs returns the parameters in declaration order.
func (s *Schema) Specs() []Spec {
	return append([]Spec(nil), s.specs...)
}

// Lookup finds a spec by name.
func (s *Schema) Lookup(name string) (Spec, bool) {
	i, ok := s.index[name]
	if !ok {
		return Spec{}, false
	}

	return s.specs[i], true
}

// Names returns the parameter names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.specs))
	for i, spec := range s.specs {
		names[i] = spec.Name
	}

	return names
}

// Defaults returns the set made of default values only.
func (s *Schema) Defaults() Set {
	set, err := s.Validate(nil)
	if err != nil {
		panic(err)
	}

	return set
}

// Merge overlays raw value maps. Later layers win over earlier ones.
func (s *Schema) Merge(layers ...map[string]any) map[string]any {
	out := make(map[string]any)

	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}

	return out
}

// Validate resolves a parameter set from raw values. Missing values take the
// default. The first violation found is returned and no set is produced.
func (s *Schema) Validate(raw map[string]any) (Set, error) {
	if err := s.rejectUnknown(raw); err != nil {
		return Set{}, err
	}

	values := make(map[string]any, len(s.specs))

	for _, spec := range s.specs {
		v, given := raw[spec.Name]
		if !given {
			v = spec.Default
		}

		checked, err := spec.Check(v)
		if err != nil {
			return Set{}, err
		}

		values[spec.Name] = checked
	}

	set := Set{schema: s, values: values}

	for _, c := range s.constraints {
		if !c.Check(set) {
			return Set{}, &IncompatibleError{Names: c.Names, Reason: c.Reason}
		}
	}

	return set, nil
}

func (s *Schema) rejectUnknown(raw map[string]any) error {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if _, ok := s.index[k]; !ok {
			return &UnknownParameterError{Name: k}
		}
	}

	return nil
}
