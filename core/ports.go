package core

import (
	"fmt"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

// busPorts declares one core port per signal of a family. Ports are named
// <prefix>_<signal> and bound to the same signal of the interface named
// prefix. Optional signals whose width role has no entry in widths are
// left out, and so are the signals listed in skip.
func busPorts(
	prefix string,
	f bus.Family,
	side bus.Role,
	widths map[bus.WidthRole]port.Expr,
	skip ...string,
) []port.Spec {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}

	var specs []port.Spec

	for _, d := range bus.SignalDefs(f) {
		if skipped[d.Name] {
			continue
		}

		w := port.Const(d.Fixed)
		if d.Width != bus.WidthFixed {
			e, ok := widths[d.Width]
			if !ok && d.Optional {
				continue
			}

			if !ok {
				panic(fmt.Sprintf("no width for %s_%s", prefix, d.Name))
			}

			w = e
		}

		dir := bus.Input
		if d.Driver == side {
			dir = bus.Output
		}

		s := port.Spec{
			Name:   prefix + "_" + d.Name,
			Dir:    dir,
			Width:  w,
			Source: port.FromBus(prefix, d.Name),
		}

		if d.Optional {
			s = s.Opt()
		}

		specs = append(specs, s)
	}

	return specs
}

func clockAndReset() []port.Spec {
	return []port.Spec{
		port.In("clk", port.Const(1), port.Clock("clk")),
		port.In("rst", port.Const(1), port.Reset("rst")),
	}
}

func concat(groups ...[]port.Spec) []port.Spec {
	var all []port.Spec
	for _, g := range groups {
		all = append(all, g...)
	}

	return all
}

// paramsOf maps parameters one to one. Pairs are HDL name, parameter name.
func paramsOf(s param.Set, pairs ...string) []hdl.Param {
	if len(pairs)%2 != 0 {
		panic("paramsOf needs name pairs")
	}

	out := make([]hdl.Param, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, hdl.Param{Name: pairs[i], Value: s.Format(pairs[i+1])})
	}

	return out
}

func intParam(name string, v int) hdl.Param {
	return hdl.Param{Name: name, Value: fmt.Sprint(v)}
}

func enabled(b bool) string {
	if b {
		return "Enabled"
	}

	return "Disabled"
}
