package core

import (
	"fmt"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

// AXILiteGPIO is a GPIO block with an AXI4-Lite register interface.
func AXILiteGPIO() Descriptor {
	schema := param.MustNewSchema(
		param.IntChoice("data_width", []int{8, 16, 32}, 32).
			WithDescription("GPIO data width"),
		param.IntRange("addr_width", 8, 16, 16).
			WithDescription("AXI address width"),
	)

	gpio := port.Param("data_width")

	return Descriptor{
		Name:        "axil_gpio",
		Version:     "v1_0",
		Type:        "AXILGPIO",
		Module:      "axil_gpio",
		Language:    hdl.SystemVerilog,
		Description: "AXI4-Lite general purpose I/O",
		Schema:      schema,
		Interfaces: func(s param.Set) []bus.Interface {
			return []bus.Interface{&bus.AXILiteInterface{
				Prefix:    "s_axil",
				Side:      bus.Slave,
				DataWidth: 32,
				AddrWidth: s.Int("addr_width"),
			}}
		},
		Ports: concat(
			clockAndReset(),
			busPorts("s_axil", bus.AXILite, bus.Slave, map[bus.WidthRole]port.Expr{
				bus.WidthAddr: port.Param("addr_width"),
				bus.WidthData: port.Const(32),
				bus.WidthStrb: port.Const(4),
			}),
			[]port.Spec{
				port.In("gpin", gpio, port.Pin("gpin")),
				port.Out("gpout", gpio, port.Pin("gpout")),
				port.Out("gpio_oe", gpio, port.Pin("gpio_oe")),
				port.Out("int_o", port.Const(1), port.Pin("int_o")),
			},
		),
		Parameters: func(s param.Set) []hdl.Param {
			return paramsOf(s,
				"DATA_WIDTH", "data_width",
				"ADDR_WIDTH", "addr_width",
			)
		},
		Summary: func(s param.Set) map[string]string {
			return map[string]string{
				"GPIO Width":        fmt.Sprintf("%d", s.Int("data_width")),
				"AXI Address Width": fmt.Sprintf("%d", s.Int("addr_width")),
			}
		},
	}
}
