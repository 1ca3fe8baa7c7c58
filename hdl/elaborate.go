package hdl

import (
	"fmt"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/port"
)

// CoreInstanceName is the instance name of the wrapped core.
const CoreInstanceName = "u_core"

// NetConflictError reports two bindings that drive the same wrapper net with
// different shapes.
type NetConflictError struct {
	Net string
}

func (e *NetConflictError) Error() string {
	return fmt.Sprintf("net %s is bound with different widths or directions", e.Net)
}

// Elaborate builds a wrapper named name that instantiates core with the
// given parameters and connects it according to the bindings.
//
// Clock and reset nets become the first wrapper ports, followed by bus and
// pin nets in binding order. A net shared by several bindings appears once.
func Elaborate(
	name, core string,
	lang Language,
	coreParams []Param,
	bindings []port.Binding,
) (Module, error) {
	if err := ValidateIdentifier(name); err != nil {
		return Module{}, err
	}

	if err := ValidateIdentifier(core); err != nil {
		return Module{}, err
	}

	e := &elaborator{seen: map[string]Port{}}

	for _, b := range bindings {
		if b.Kind != port.SourceClock && b.Kind != port.SourceReset {
			continue
		}

		if err := e.addPort(b); err != nil {
			return Module{}, err
		}
	}

	for _, b := range bindings {
		if b.Kind != port.SourceBus && b.Kind != port.SourcePin {
			continue
		}

		if err := e.addPort(b); err != nil {
			return Module{}, err
		}
	}

	inst := Instance{
		Module:      core,
		Name:        CoreInstanceName,
		Params:      append([]Param(nil), coreParams...),
		Connections: make([]Connection, 0, len(bindings)),
	}

	for _, b := range bindings {
		inst.Connections = append(inst.Connections, Connection{
			Port: b.Port,
			Expr: connectionExpr(b),
		})
	}

	return Module{
		Name:      name,
		Language:  lang,
		Ports:     e.ports,
		Instances: []Instance{inst},
	}, nil
}

type elaborator struct {
	ports []Port
	seen  map[string]Port
}

func (e *elaborator) addPort(b port.Binding) error {
	p := Port{Name: b.Net, Dir: b.Dir, Width: b.Width}

	if old, ok := e.seen[b.Net]; ok {
		if old != p || p.Dir == bus.Output {
			return &NetConflictError{Net: b.Net}
		}

		return nil
	}

	e.seen[b.Net] = p
	e.ports = append(e.ports, p)

	return nil
}

func connectionExpr(b port.Binding) string {
	switch b.Kind {
	case port.SourceConst:
		return Literal(b.Width, b.Value)
	case port.SourceOpen:
		if b.Dir == bus.Input {
			return Literal(b.Width, 0)
		}

		return ""
	}

	return b.Net
}

// Literal renders a sized decimal literal.
func Literal(width, value int) string {
	return fmt.Sprintf("%d'd%d", width, value)
}
