package core

import (
	"fmt"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

// AXIToAXILite converts an AXI4 slave port into an AXI4-Lite master port.
func AXIToAXILite() Descriptor {
	schema := param.MustNewSchema(
		param.IntRange("addr_width", 8, 64, 32).
			WithDescription("Address width"),
		param.IntChoice("axi_data_width", []int{32, 64, 128, 256}, 32).
			WithDescription("AXI data width"),
		param.IntChoice("axil_data_width", []int{32, 64}, 32).
			WithDescription("AXI-Lite data width"),
		param.IntRange("id_width", 1, 32, 8).
			WithDescription("AXI ID width"),
	).WithConstraint(param.Constraint{
		Names:  []string{"axil_data_width", "axi_data_width"},
		Reason: "the AXI-Lite side cannot be wider than the AXI side",
		Check: func(s param.Set) bool {
			return s.Int("axil_data_width") <= s.Int("axi_data_width")
		},
	})

	axiData := port.Param("axi_data_width")
	axilData := port.Param("axil_data_width")
	addr := port.Param("addr_width")

	return Descriptor{
		Name:        "axi2axilite",
		Version:     "v1_0",
		Type:        "AXI2AXIL",
		Module:      "axi_axil_adapter",
		Language:    hdl.Verilog,
		Description: "AXI4 to AXI4-Lite bridge",
		Schema:      schema,
		Interfaces: func(s param.Set) []bus.Interface {
			return []bus.Interface{
				&bus.AXI4Interface{
					Prefix:    "s_axi",
					Side:      bus.Slave,
					DataWidth: s.Int("axi_data_width"),
					AddrWidth: s.Int("addr_width"),
					IDWidth:   s.Int("id_width"),
				},
				&bus.AXILiteInterface{
					Prefix:    "m_axil",
					Side:      bus.Master,
					DataWidth: s.Int("axil_data_width"),
					AddrWidth: s.Int("addr_width"),
				},
			}
		},
		Ports: concat(
			clockAndReset(),
			busPorts("s_axi", bus.AXI4, bus.Slave, map[bus.WidthRole]port.Expr{
				bus.WidthData: axiData,
				bus.WidthStrb: port.Div(axiData, port.Const(8)),
				bus.WidthAddr: addr,
				bus.WidthID:   port.Param("id_width"),
			}, "awqos", "awregion", "arqos", "arregion"),
			busPorts("m_axil", bus.AXILite, bus.Master, map[bus.WidthRole]port.Expr{
				bus.WidthData: axilData,
				bus.WidthStrb: port.Div(axilData, port.Const(8)),
				bus.WidthAddr: addr,
			}),
		),
		Parameters: func(s param.Set) []hdl.Param {
			return []hdl.Param{
				intParam("ADDR_WIDTH", s.Int("addr_width")),
				intParam("AXI_DATA_WIDTH", s.Int("axi_data_width")),
				intParam("AXI_STRB_WIDTH", s.Int("axi_data_width")/8),
				intParam("AXI_ID_WIDTH", s.Int("id_width")),
				intParam("AXIL_DATA_WIDTH", s.Int("axil_data_width")),
				intParam("AXIL_STRB_WIDTH", s.Int("axil_data_width")/8),
			}
		},
		Summary: func(s param.Set) map[string]string {
			return map[string]string{
				"Address Width": fmt.Sprintf("%d", s.Int("addr_width")),
				"Data Width":    fmt.Sprintf("AXI %d, AXI-Lite %d", s.Int("axi_data_width"), s.Int("axil_data_width")),
				"AXI ID Width":  fmt.Sprintf("%d", s.Int("id_width")),
			}
		},
	}
}

// AXILiteToAPB converts an AXI4-Lite slave port into an APB master port.
func AXILiteToAPB() Descriptor {
	schema := param.MustNewSchema(
		param.IntRange("addr_width", 8, 32, 16).
			WithDescription("Address width"),
		param.IntChoice("data_width", []int{32, 64}, 32).
			WithDescription("Data width"),
	)

	data := port.Param("data_width")
	widths := map[bus.WidthRole]port.Expr{
		bus.WidthData: data,
		bus.WidthStrb: port.Div(data, port.Const(8)),
		bus.WidthAddr: port.Param("addr_width"),
	}

	return Descriptor{
		Name:        "axil2apb",
		Version:     "v1_0",
		Type:        "AXIL2APB",
		Module:      "axil2apb",
		Language:    hdl.Verilog,
		Description: "AXI4-Lite to APB bridge",
		Schema:      schema,
		Interfaces: func(s param.Set) []bus.Interface {
			return []bus.Interface{
				&bus.AXILiteInterface{
					Prefix:    "s_axil",
					Side:      bus.Slave,
					DataWidth: s.Int("data_width"),
					AddrWidth: s.Int("addr_width"),
				},
				&bus.APBInterface{
					Prefix:    "m_apb",
					Side:      bus.Master,
					DataWidth: s.Int("data_width"),
					AddrWidth: s.Int("addr_width"),
				},
			}
		},
		Ports: concat(
			clockAndReset(),
			busPorts("s_axil", bus.AXILite, bus.Slave, widths),
			busPorts("m_apb", bus.APB, bus.Master, widths),
		),
		Parameters: func(s param.Set) []hdl.Param {
			return paramsOf(s,
				"ADDR_WIDTH", "addr_width",
				"DATA_WIDTH", "data_width",
			)
		},
		Summary: func(s param.Set) map[string]string {
			return map[string]string{
				"Address Width": fmt.Sprintf("%d", s.Int("addr_width")),
				"Data Width":    fmt.Sprintf("%d", s.Int("data_width")),
			}
		},
	}
}
