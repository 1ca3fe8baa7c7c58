package bus

import (
	"fmt"
	"math/bits"
)

// Interface is one sided bus connection of a wrapper.
type Interface interface {
	// Name is the port prefix of the interface, e.g. "s_axil".
	Name() string
	Family() Family
	Role() Role

	// Signals returns the signals that are present, in channel order.
	Signals() []Signal

	// Validate checks the width attributes.
	Validate() error
}

// WidthError reports an interface width attribute that the family cannot
// carry.
type WidthError struct {
	Interface string
	Field     string
	Value     int
	Reason    string
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("interface %s: %s = %d: %s",
		e.Interface, e.Field, e.Value, e.Reason)
}

// PortName returns the wrapper port name of a signal.
func PortName(i Interface, signal string) string {
	return i.Name() + "_" + signal
}

// DirectionOf returns the direction of a signal seen from the module that
// owns the interface.
func DirectionOf(i Interface, sig Signal) Direction {
	if sig.Driver == i.Role() {
		return Output
	}

	return Input
}

// Find looks up a present signal by name.
func Find(i Interface, name string) (Signal, bool) {
	for _, sig := range i.Signals() {
		if sig.Name == name {
			return sig, true
		}
	}

	return Signal{}, false
}

func collect(defs []SignalDef, width func(d SignalDef) int) []Signal {
	out := make([]Signal, 0, len(defs))

	for _, d := range defs {
		w := d.Fixed
		if d.Width != WidthFixed || d.Optional {
			w = width(d)
		}

		if w <= 0 {
			continue
		}

		out = append(out, Signal{Name: d.Name, Width: w, Driver: d.Driver})
	}

	return out
}

func isPow2(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

func mustBePositive(iface, field string, v int) error {
	if v <= 0 {
		return &WidthError{iface, field, v, "must be positive"}
	}

	return nil
}

func mustBeByteLanes(iface, field string, v int) error {
	if !isPow2(v) || v < 8 {
		return &WidthError{iface, field, v,
			"must be a power of two and at least 8"}
	}

	return nil
}

func mustNotBeNegative(iface, field string, v int) error {
	if v < 0 {
		return &WidthError{iface, field, v, "must not be negative"}
	}

	return nil
}

// AXI4Interface is a full AXI4 memory-mapped interface.
type AXI4Interface struct {
	Prefix    string
	Side      Role
	DataWidth int
	AddrWidth int

	// IDWidth of zero drops the id signals.
	IDWidth int

	// User widths per channel. Zero drops the signal.
	AWUserWidth int
	WUserWidth  int
	BUserWidth  int
	ARUserWidth int
	RUserWidth  int

	QoS    bool
	Region bool
}

func (i *AXI4Interface) Name() string   { return i.Prefix }
func (i *AXI4Interface) Family() Family { return AXI4 }
func (i *AXI4Interface) Role() Role     { return i.Side }

func (i *AXI4Interface) Signals() []Signal {
	return collect(axi4Defs, func(d SignalDef) int {
		switch d.Name {
		case "awqos", "arqos":
			return flagWidth(i.QoS, d.Fixed)
		case "awregion", "arregion":
			return flagWidth(i.Region, d.Fixed)
		}

		switch d.Width {
		case WidthData:
			return i.DataWidth
		case WidthStrb:
			return i.DataWidth / 8
		case WidthAddr:
			return i.AddrWidth
		case WidthID:
			return i.IDWidth
		case WidthAWUser:
			return i.AWUserWidth
		case WidthWUser:
			return i.WUserWidth
		case WidthBUser:
			return i.BUserWidth
		case WidthARUser:
			return i.ARUserWidth
		case WidthRUser:
			return i.RUserWidth
		}

		return 0
	})
}

func (i *AXI4Interface) Validate() error {
	if err := mustBeByteLanes(i.Prefix, "data width", i.DataWidth); err != nil {
		return err
	}

	if err := mustBePositive(i.Prefix, "address width", i.AddrWidth); err != nil {
		return err
	}

	fields := []struct {
		name string
		v    int
	}{
		{"id width", i.IDWidth},
		{"aw user width", i.AWUserWidth},
		{"w user width", i.WUserWidth},
		{"b user width", i.BUserWidth},
		{"ar user width", i.ARUserWidth},
		{"r user width", i.RUserWidth},
	}

	for _, f := range fields {
		if err := mustNotBeNegative(i.Prefix, f.name, f.v); err != nil {
			return err
		}
	}

	return nil
}

// AXILiteInterface is an AXI4-Lite interface.
type AXILiteInterface struct {
	Prefix    string
	Side      Role
	DataWidth int
	AddrWidth int
}

func (i *AXILiteInterface) Name() string   { return i.Prefix }
func (i *AXILiteInterface) Family() Family { return AXILite }
func (i *AXILiteInterface) Role() Role     { return i.Side }

func (i *AXILiteInterface) Signals() []Signal {
	return collect(axiLiteDefs, func(d SignalDef) int {
		switch d.Width {
		case WidthData:
			return i.DataWidth
		case WidthStrb:
			return i.DataWidth / 8
		case WidthAddr:
			return i.AddrWidth
		}

		return 0
	})
}

func (i *AXILiteInterface) Validate() error {
	if i.DataWidth != 32 && i.DataWidth != 64 {
		return &WidthError{i.Prefix, "data width", i.DataWidth, "must be 32 or 64"}
	}

	return mustBePositive(i.Prefix, "address width", i.AddrWidth)
}

// AXIStreamInterface is an AXI4-Stream interface.
type AXIStreamInterface struct {
	Prefix     string
	Side       Role
	DataWidth  int
	KeepEnable bool
	LastEnable bool

	// Zero drops the signal.
	IDWidth   int
	DestWidth int
	UserWidth int
}

func (i *AXIStreamInterface) Name() string   { return i.Prefix }
func (i *AXIStreamInterface) Family() Family { return AXIStream }
func (i *AXIStreamInterface) Role() Role     { return i.Side }

func (i *AXIStreamInterface) Signals() []Signal {
	return collect(axiStreamDefs, func(d SignalDef) int {
		if d.Name == "tlast" {
			return flagWidth(i.LastEnable, d.Fixed)
		}

		switch d.Width {
		case WidthData:
			return i.DataWidth
		case WidthKeep:
			if !i.KeepEnable {
				return 0
			}

			return i.DataWidth / 8
		case WidthID:
			return i.IDWidth
		case WidthDest:
			return i.DestWidth
		case WidthUser:
			return i.UserWidth
		}

		return 0
	})
}

func (i *AXIStreamInterface) Validate() error {
	if err := mustBePositive(i.Prefix, "data width", i.DataWidth); err != nil {
		return err
	}

	if i.KeepEnable && i.DataWidth%8 != 0 {
		return &WidthError{i.Prefix, "data width", i.DataWidth,
			"must be a multiple of 8 when tkeep is enabled"}
	}

	for _, f := range []struct {
		name string
		v    int
	}{{"id width", i.IDWidth}, {"dest width", i.DestWidth}, {"user width", i.UserWidth}} {
		if err := mustNotBeNegative(i.Prefix, f.name, f.v); err != nil {
			return err
		}
	}

	return nil
}

// APBInterface is an AMBA APB interface.
type APBInterface struct {
	Prefix    string
	Side      Role
	DataWidth int
	AddrWidth int
}

func (i *APBInterface) Name() string   { return i.Prefix }
func (i *APBInterface) Family() Family { return APB }
func (i *APBInterface) Role() Role     { return i.Side }

func (i *APBInterface) Signals() []Signal {
	return collect(apbDefs, func(d SignalDef) int {
		switch d.Width {
		case WidthData:
			return i.DataWidth
		case WidthStrb:
			return i.DataWidth / 8
		case WidthAddr:
			return i.AddrWidth
		}

		return 0
	})
}

func (i *APBInterface) Validate() error {
	if i.DataWidth != 32 && i.DataWidth != 64 {
		return &WidthError{i.Prefix, "data width", i.DataWidth, "must be 32 or 64"}
	}

	return mustBePositive(i.Prefix, "address width", i.AddrWidth)
}

func flagWidth(enabled bool, w int) int {
	if enabled {
		return w
	}

	return 0
}
