package core

import (
	"fmt"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

// AXIStreamFIFO is a FIFO between an AXI4-Stream slave and master. The
// optional sideband signals follow the enable parameters.
func AXIStreamFIFO() Descriptor {
	depths := []int{}
	for d := 16; d <= 32768; d *= 2 {
		depths = append(depths, d)
	}

	schema := param.MustNewSchema(
		param.IntChoice("depth", depths, 4096).
			WithDescription("FIFO depth in words"),
		param.IntRange("data_width", 1, 4096, 8).
			WithDescription("AXI-Stream data width"),
		param.Bool("keep_enable", true).
			WithDescription("Carry tkeep"),
		param.Bool("last_enable", true).
			WithDescription("Carry tlast"),
		param.Bool("id_enable", false).
			WithDescription("Carry tid"),
		param.IntRange("id_width", 1, 32, 8),
		param.Bool("dest_enable", false).
			WithDescription("Carry tdest"),
		param.IntRange("dest_width", 1, 32, 8),
		param.Bool("user_enable", true).
			WithDescription("Carry tuser"),
		param.IntRange("user_width", 1, 4096, 1),
		param.Bool("frame_fifo", false).
			WithDescription("Drop or forward whole frames"),
	).WithConstraint(param.Constraint{
		Names:  []string{"keep_enable", "data_width"},
		Reason: "tkeep needs a data width that is a multiple of 8",
		Check: func(s param.Set) bool {
			return !s.Bool("keep_enable") || s.Int("data_width")%8 == 0
		},
	}).WithConstraint(param.Constraint{
		Names:  []string{"frame_fifo", "last_enable"},
		Reason: "frame mode needs tlast",
		Check: func(s param.Set) bool {
			return !s.Bool("frame_fifo") || s.Bool("last_enable")
		},
	})

	data := port.Param("data_width")
	widths := map[bus.WidthRole]port.Expr{
		bus.WidthData: data,
		bus.WidthKeep: port.Div(port.Add(data, port.Const(7)), port.Const(8)),
		bus.WidthID:   port.Param("id_width"),
		bus.WidthDest: port.Param("dest_width"),
		bus.WidthUser: port.Param("user_width"),
	}
	status := port.Const(1)

	return Descriptor{
		Name:        "axis_fifo",
		Version:     "v1_0",
		Type:        "AXISFIFO",
		Module:      "axis_fifo",
		Language:    hdl.Verilog,
		Simulation:  true,
		Description: "AXI4-Stream FIFO",
		Schema:      schema,
		Interfaces: func(s param.Set) []bus.Interface {
			mk := func(prefix string, side bus.Role) bus.Interface {
				return &bus.AXIStreamInterface{
					Prefix:     prefix,
					Side:       side,
					DataWidth:  s.Int("data_width"),
					KeepEnable: s.Bool("keep_enable"),
					LastEnable: s.Bool("last_enable"),
					IDWidth:    widthIf(s, "id_enable", "id_width"),
					DestWidth:  widthIf(s, "dest_enable", "dest_width"),
					UserWidth:  widthIf(s, "user_enable", "user_width"),
				}
			}

			return []bus.Interface{mk("s_axis", bus.Slave), mk("m_axis", bus.Master)}
		},
		Ports: concat(
			clockAndReset(),
			busPorts("s_axis", bus.AXIStream, bus.Slave, widths),
			busPorts("m_axis", bus.AXIStream, bus.Master, widths),
			[]port.Spec{
				port.Out("status_depth",
					port.Add(port.Log2Ceil(port.Param("depth")), port.Const(1)),
					port.Pin("status_depth")),
				port.Out("status_overflow", status, port.Pin("status_overflow")),
				port.Out("status_bad_frame", status,
					port.Pin("status_bad_frame").When(port.IfTrue("frame_fifo"))).Opt(),
				port.Out("status_good_frame", status,
					port.Pin("status_good_frame").When(port.IfTrue("frame_fifo"))).Opt(),
			},
		),
		Parameters: func(s param.Set) []hdl.Param {
			ps := paramsOf(s,
				"DEPTH", "depth",
				"DATA_WIDTH", "data_width",
				"KEEP_ENABLE", "keep_enable",
			)
			ps = append(ps, intParam("KEEP_WIDTH", (s.Int("data_width")+7)/8))
			ps = append(ps, paramsOf(s,
				"LAST_ENABLE", "last_enable",
				"ID_ENABLE", "id_enable",
				"ID_WIDTH", "id_width",
				"DEST_ENABLE", "dest_enable",
				"DEST_WIDTH", "dest_width",
				"USER_ENABLE", "user_enable",
				"USER_WIDTH", "user_width",
				"FRAME_FIFO", "frame_fifo",
			)...)

			return ps
		},
		Summary: func(s param.Set) map[string]string {
			return map[string]string{
				"FIFO Depth": fmt.Sprintf("%d", s.Int("depth")),
				"Data Width": fmt.Sprintf("%d", s.Int("data_width")),
				"Frame Mode": enabled(s.Bool("frame_fifo")),
				"Sideband Signals": fmt.Sprintf("keep %s, last %s, id %s, dest %s, user %s",
					enabled(s.Bool("keep_enable")), enabled(s.Bool("last_enable")),
					enabled(s.Bool("id_enable")), enabled(s.Bool("dest_enable")),
					enabled(s.Bool("user_enable"))),
			}
		},
	}
}

func widthIf(s param.Set, enable, width string) int {
	if !s.Bool(enable) {
		return 0
	}

	return s.Int(width)
}
