package port

import (
	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/param"
)

// SourceKind tells what drives or receives a core port.
type SourceKind int

// All the source kinds. SourceNone means the table gives no source.
const (
	SourceNone SourceKind = iota
	SourceBus
	SourceClock
	SourceReset
	SourcePin
	SourceConst
	SourceOpen
)

func (k SourceKind) String() string {
	return [...]string{"none", "bus", "clock", "reset", "pin", "const", "open"}[k]
}

// Predicate decides from the parameters whether a source applies.
type Predicate func(s param.Set) bool

// IfTrue applies when a boolean parameter is set.
func IfTrue(name string) Predicate {
	return func(s param.Set) bool { return s.Bool(name) }
}

// IfEquals applies when an enum parameter has the given value.
func IfEquals(name, value string) Predicate {
	return func(s param.Set) bool { return s.String(name) == value }
}

// Source is the binding rule of a core port.
type Source struct {
	Kind   SourceKind
	Iface  string
	Signal string
	Net    string
	Value  Expr

	when Predicate
}

// FromBus connects a port to a signal of a named interface.
func FromBus(iface, signal string) Source {
	return Source{Kind: SourceBus, Iface: iface, Signal: signal}
}

// Clock connects a port to a wrapper clock input.
func Clock(net string) Source { return Source{Kind: SourceClock, Net: net} }

// Reset connects a port to a wrapper reset input.
func Reset(net string) Source { return Source{Kind: SourceReset, Net: net} }

// Pin passes a port through to a wrapper top-level port of the same
// direction and width.
func Pin(net string) Source { return Source{Kind: SourcePin, Net: net} }

// Tie drives an input port with a literal.
func Tie(v Expr) Source { return Source{Kind: SourceConst, Value: v} }

// Open leaves a port unconnected on purpose.
func Open() Source { return Source{Kind: SourceOpen} }

// When guards the source. A source whose guard is false is treated as if no
// source were given.
func (s Source) When(p Predicate) Source {
	s.when = p
	return s
}

func (s Source) applies(set param.Set) bool {
	return s.Kind != SourceNone && (s.when == nil || s.when(set))
}

// Spec is a row of a core's port table.
type Spec struct {
	Name     string
	Dir      bus.Direction
	Width    Expr
	Optional bool
	Source   Source
}

// In declares an input port.
func In(name string, width Expr, src Source) Spec {
	return Spec{Name: name, Dir: bus.Input, Width: width, Source: src}
}

// Out declares an output port.
func Out(name string, width Expr, src Source) Spec {
	return Spec{Name: name, Dir: bus.Output, Width: width, Source: src}
}

// Opt marks a port as optional. Optional ports without an applicable source
// are bound to the open sentinel.
func (s Spec) Opt() Spec {
	s.Optional = true
	return s
}

// Binding is the resolved connection of one core port.
type Binding struct {
	Port  string
	Dir   bus.Direction
	Width int
	Kind  SourceKind

	// Net is the wrapper-side net for bus, clock, reset and pin bindings.
	Net string

	// Value is the literal of a const binding.
	Value int
}

// IsOpen tells if the port is left unconnected.
func (b Binding) IsOpen() bool {
	return b.Kind == SourceOpen
}
