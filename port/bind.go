package port

import (
	"fmt"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/param"
)

// UnboundPortError reports a mandatory port that no rule connects. It points
// at a defect in the core's port table, not at user input.
type UnboundPortError struct {
	Port string
}

func (e *UnboundPortError) Error() string {
	return fmt.Sprintf("mandatory port %s has no binding", e.Port)
}

// DuplicatePortError reports a port declared twice in a table.
type DuplicatePortError struct {
	Port string
}

func (e *DuplicatePortError) Error() string {
	return fmt.Sprintf("port %s is declared more than once", e.Port)
}

// WidthMismatchError reports a port whose width differs from its source.
type WidthMismatchError struct {
	Port        string
	Net         string
	PortWidth   int
	SourceWidth int
}

func (e *WidthMismatchError) Error() string {
	return fmt.Sprintf("port %s is %d bits wide but %s is %d bits wide",
		e.Port, e.PortWidth, e.Net, e.SourceWidth)
}

// DirectionMismatchError reports a port whose direction differs from its
// source.
type DirectionMismatchError struct {
	Port string
	Net  string
	Want bus.Direction
	Got  bus.Direction
}

func (e *DirectionMismatchError) Error() string {
	return fmt.Sprintf("port %s is an %s but %s needs an %s",
		e.Port, e.Got, e.Net, e.Want)
}

// InvalidWidthError reports a mandatory port whose width does not evaluate
// to a positive number.
type InvalidWidthError struct {
	Port  string
	Width int
	Expr  string
	Err   error
}

func (e *InvalidWidthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("port %s: width %s: %v", e.Port, e.Expr, e.Err)
	}

	return fmt.Sprintf("port %s: width %s evaluates to %d", e.Port, e.Expr, e.Width)
}

func (e *InvalidWidthError) Unwrap() error {
	return e.Err
}

// Bind resolves every row of a port table against the parameters and the bus
// interfaces of a core. On success it returns exactly one binding per row,
// in table order.
func Bind(params param.Set, ifaces []bus.Interface, table []Spec) ([]Binding, error) {
	if err := mustNotHaveDuplicatedPorts(table); err != nil {
		return nil, err
	}

	byName := make(map[string]bus.Interface, len(ifaces))
	for _, i := range ifaces {
		byName[i.Name()] = i
	}

	bindings := make([]Binding, 0, len(table))

	for _, spec := range table {
		b, err := bindOne(params, byName, spec)
		if err != nil {
			return nil, err
		}

		bindings = append(bindings, b)
	}

	if len(bindings) != len(table) {
		panic("binding count does not match port table")
	}

	return bindings, nil
}

func mustNotHaveDuplicatedPorts(table []Spec) error {
	seen := make(map[string]bool, len(table))

	for _, s := range table {
		if seen[s.Name] {
			return &DuplicatePortError{Port: s.Name}
		}

		seen[s.Name] = true
	}

	return nil
}

func bindOne(
	params param.Set,
	ifaces map[string]bus.Interface,
	spec Spec,
) (Binding, error) {
	width, err := spec.Width.Eval(params)
	if err != nil {
		return Binding{}, &InvalidWidthError{
			Port: spec.Name, Expr: spec.Width.String(), Err: err,
		}
	}

	b := Binding{Port: spec.Name, Dir: spec.Dir, Width: width}

	resolved := false
	if width > 0 && spec.Source.applies(params) {
		resolved, err = resolve(params, ifaces, spec, &b)
		if err != nil {
			return Binding{}, err
		}
	}

	if resolved {
		return b, nil
	}

	if !spec.Optional {
		if width <= 0 {
			return Binding{}, &InvalidWidthError{
				Port: spec.Name, Width: width, Expr: spec.Width.String(),
			}
		}

		return Binding{}, &UnboundPortError{Port: spec.Name}
	}

	b.Kind = SourceOpen
	b.Net = ""

	return b, nil
}

func resolve(
	params param.Set,
	ifaces map[string]bus.Interface,
	spec Spec,
	b *Binding,
) (bool, error) {
	src := spec.Source

	switch src.Kind {
	case SourceBus:
		return resolveBus(ifaces, spec, b)
	case SourceClock, SourceReset:
		if err := mustBeScalarInput(spec, src.Net, b.Width); err != nil {
			return false, err
		}

		b.Kind = src.Kind
		b.Net = src.Net
	case SourcePin:
		b.Kind = SourcePin
		b.Net = src.Net
	case SourceConst:
		if spec.Dir != bus.Input {
			return false, &DirectionMismatchError{
				Port: spec.Name, Net: "literal", Want: bus.Input, Got: spec.Dir,
			}
		}

		v, err := src.Value.Eval(params)
		if err != nil {
			return false, &InvalidWidthError{
				Port: spec.Name, Expr: src.Value.String(), Err: err,
			}
		}

		b.Kind = SourceConst
		b.Value = v
	case SourceOpen:
		b.Kind = SourceOpen
	default:
		return false, nil
	}

	return true, nil
}

func resolveBus(ifaces map[string]bus.Interface, spec Spec, b *Binding) (bool, error) {
	iface, ok := ifaces[spec.Source.Iface]
	if !ok {
		return false, nil
	}

	sig, ok := bus.Find(iface, spec.Source.Signal)
	if !ok {
		return false, nil
	}

	net := bus.PortName(iface, sig.Name)

	if sig.Width != b.Width {
		return false, &WidthMismatchError{
			Port: spec.Name, Net: net, PortWidth: b.Width, SourceWidth: sig.Width,
		}
	}

	dir := bus.DirectionOf(iface, sig)
	if dir != spec.Dir {
		return false, &DirectionMismatchError{
			Port: spec.Name, Net: net, Want: dir, Got: spec.Dir,
		}
	}

	b.Kind = SourceBus
	b.Net = net

	return true, nil
}

func mustBeScalarInput(spec Spec, net string, width int) error {
	if spec.Dir != bus.Input {
		return &DirectionMismatchError{
			Port: spec.Name, Net: net, Want: bus.Input, Got: spec.Dir,
		}
	}

	if width != 1 {
		return &WidthMismatchError{
			Port: spec.Name, Net: net, PortWidth: width, SourceWidth: 1,
		}
	}

	return nil
}
