package core

import (
	"fmt"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

// AXIRAM is a block RAM with an AXI4 slave port. The port carries ids but
// no user, qos, or region signals.
func AXIRAM() Descriptor {
	schema := param.MustNewSchema(
		param.IntChoice("data_width", []int{8, 16, 32, 64, 128, 256}, 32).
			WithDescription("AXI data width"),
		param.IntRange("addr_width", 8, 16, 16).
			WithDescription("AXI address width"),
		param.IntRange("id_width", 1, 32, 8).
			WithDescription("AXI ID width"),
		param.Bool("pipeline_output", false).
			WithDescription("Register the read data"),
		param.Path("file_path", "", ".hex", ".mem", ".bin").
			WithDescription("Memory initialization file"),
	)

	data := port.Param("data_width")

	return Descriptor{
		Name:        "axi_ram",
		Version:     "v1_0",
		Type:        "AXIRAM",
		Module:      "axi_ram",
		Language:    hdl.Verilog,
		Simulation:  true,
		Description: "AXI4 block RAM",
		Schema:      schema,
		Interfaces: func(s param.Set) []bus.Interface {
			return []bus.Interface{&bus.AXI4Interface{
				Prefix:    "s_axi",
				Side:      bus.Slave,
				DataWidth: s.Int("data_width"),
				AddrWidth: s.Int("addr_width"),
				IDWidth:   s.Int("id_width"),
			}}
		},
		Ports: concat(
			clockAndReset(),
			busPorts("s_axi", bus.AXI4, bus.Slave, map[bus.WidthRole]port.Expr{
				bus.WidthData: data,
				bus.WidthStrb: port.Div(data, port.Const(8)),
				bus.WidthAddr: port.Param("addr_width"),
				bus.WidthID:   port.Param("id_width"),
			}, "awqos", "awregion", "arqos", "arregion"),
		),
		Parameters: func(s param.Set) []hdl.Param {
			ps := paramsOf(s,
				"DATA_WIDTH", "data_width",
				"ADDR_WIDTH", "addr_width",
			)
			ps = append(ps, intParam("STRB_WIDTH", s.Int("data_width")/8))
			ps = append(ps, paramsOf(s,
				"ID_WIDTH", "id_width",
				"PIPELINE_OUTPUT", "pipeline_output",
				"INIT_FILE", "file_path",
			)...)

			return ps
		},
		Summary: func(s param.Set) map[string]string {
			init := s.String("file_path")
			if init == "" {
				init = "None"
			}

			return map[string]string{
				"Memory Size":     fmt.Sprintf("%d bytes", 1<<s.Int("addr_width")),
				"AXI Data Width":  fmt.Sprintf("%d", s.Int("data_width")),
				"Pipeline Output": enabled(s.Bool("pipeline_output")),
				"Initialization":  init,
			}
		},
	}
}
