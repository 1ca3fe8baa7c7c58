package core

import (
	"fmt"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

// AXILiteUART16550 is a 16550 compatible UART behind AXI4-Lite. The modem
// control pins only appear on the wrapper when modem is set.
func AXILiteUART16550() Descriptor {
	schema := param.MustNewSchema(
		param.IntRange("addr_width", 8, 16, 16).
			WithDescription("AXI address width"),
		param.IntChoice("data_width", []int{32}, 32).
			WithDescription("AXI data width"),
		param.Bool("modem", false).
			WithDescription("Expose the modem control pins"),
	)

	modem := port.IfTrue("modem")
	bit := port.Const(1)

	return Descriptor{
		Name:        "axil_uart16550",
		Version:     "v1_0",
		Type:        "AXILUART",
		Module:      "uart_top",
		Language:    hdl.Verilog,
		Simulation:  true,
		Description: "AXI4-Lite 16550 UART",
		Schema:      schema,
		Interfaces: func(s param.Set) []bus.Interface {
			return []bus.Interface{&bus.AXILiteInterface{
				Prefix:    "s_axil",
				Side:      bus.Slave,
				DataWidth: s.Int("data_width"),
				AddrWidth: s.Int("addr_width"),
			}}
		},
		Ports: concat(
			clockAndReset(),
			busPorts("s_axil", bus.AXILite, bus.Slave, map[bus.WidthRole]port.Expr{
				bus.WidthAddr: port.Param("addr_width"),
				bus.WidthData: port.Param("data_width"),
				bus.WidthStrb: port.Div(port.Param("data_width"), port.Const(8)),
			}),
			[]port.Spec{
				port.In("srx_pad_i", bit, port.Pin("rx")),
				port.Out("stx_pad_o", bit, port.Pin("tx")),
				port.Out("int_o", bit, port.Pin("int_o")),
				port.Out("rts_pad_o", bit, port.Pin("rts_n").When(modem)).Opt(),
				port.In("cts_pad_i", bit, port.Pin("cts_n").When(modem)).Opt(),
				port.Out("dtr_pad_o", bit, port.Pin("dtr_n").When(modem)).Opt(),
				port.In("dsr_pad_i", bit, port.Pin("dsr_n").When(modem)).Opt(),
				port.In("ri_pad_i", bit, port.Pin("ri_n").When(modem)).Opt(),
				port.In("dcd_pad_i", bit, port.Pin("dcd_n").When(modem)).Opt(),
			},
		),
		Parameters: func(s param.Set) []hdl.Param {
			return paramsOf(s,
				"ADDR_WIDTH", "addr_width",
				"DATA_WIDTH", "data_width",
			)
		},
		Summary: func(s param.Set) map[string]string {
			return map[string]string{
				"AXI Address Width": fmt.Sprintf("%d", s.Int("addr_width")),
				"Modem Control":     enabled(s.Bool("modem")),
			}
		},
	}
}
