package hdl

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/port"
)

var _ = Describe("Elaborate", func() {
	bindings := []port.Binding{
		{Port: "s_axil_awaddr", Dir: bus.Input, Width: 16, Kind: port.SourceBus, Net: "s_axil_awaddr"},
		{Port: "clk", Dir: bus.Input, Width: 1, Kind: port.SourceClock, Net: "clk"},
		{Port: "s_axil_awready", Dir: bus.Output, Width: 1, Kind: port.SourceBus, Net: "s_axil_awready"},
		{Port: "rst", Dir: bus.Input, Width: 1, Kind: port.SourceReset, Net: "rst"},
		{Port: "mode", Dir: bus.Input, Width: 2, Kind: port.SourceConst, Value: 3},
		{Port: "cts_n", Dir: bus.Input, Width: 1, Kind: port.SourceOpen},
		{Port: "debug", Dir: bus.Output, Width: 8, Kind: port.SourceOpen},
		{Port: "m_clk", Dir: bus.Input, Width: 1, Kind: port.SourceClock, Net: "clk"},
	}

	It("should order clocks and resets first", func() {
		m, err := Elaborate("my_gpio", "axil_gpio", SystemVerilog, nil, bindings)

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Ports).To(Equal([]Port{
			{Name: "clk", Dir: bus.Input, Width: 1},
			{Name: "rst", Dir: bus.Input, Width: 1},
			{Name: "s_axil_awaddr", Dir: bus.Input, Width: 16},
			{Name: "s_axil_awready", Dir: bus.Output, Width: 1},
		}))
		Expect(m.FileName()).To(Equal("my_gpio.sv"))
	})

	It("should connect every core port", func() {
		m, err := Elaborate("my_gpio", "axil_gpio", SystemVerilog,
			[]Param{{Name: "DATA_WIDTH", Value: "32"}}, bindings)

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Instances).To(HaveLen(1))

		inst := m.Instances[0]
		Expect(inst.Module).To(Equal("axil_gpio"))
		Expect(inst.Name).To(Equal(CoreInstanceName))
		Expect(inst.Params).To(Equal([]Param{{Name: "DATA_WIDTH", Value: "32"}}))
		Expect(inst.Connections).To(Equal([]Connection{
			{Port: "s_axil_awaddr", Expr: "s_axil_awaddr"},
			{Port: "clk", Expr: "clk"},
			{Port: "s_axil_awready", Expr: "s_axil_awready"},
			{Port: "rst", Expr: "rst"},
			{Port: "mode", Expr: "2'd3"},
			{Port: "cts_n", Expr: "1'd0"},
			{Port: "debug", Expr: ""},
			{Port: "m_clk", Expr: "clk"},
		}))
	})

	It("should reject nets bound with different widths", func() {
		_, err := Elaborate("top", "core", Verilog, nil, []port.Binding{
			{Port: "a", Dir: bus.Input, Width: 1, Kind: port.SourcePin, Net: "x"},
			{Port: "b", Dir: bus.Input, Width: 2, Kind: port.SourcePin, Net: "x"},
		})

		Expect(err).To(Equal(&NetConflictError{Net: "x"}))
	})

	It("should reject outputs driving the same net", func() {
		_, err := Elaborate("top", "core", Verilog, nil, []port.Binding{
			{Port: "a", Dir: bus.Output, Width: 1, Kind: port.SourcePin, Net: "x"},
			{Port: "b", Dir: bus.Output, Width: 1, Kind: port.SourcePin, Net: "x"},
		})

		Expect(err).To(HaveOccurred())
	})

	It("should reject invalid names", func() {
		_, err := Elaborate("my-gpio", "core", Verilog, nil, nil)

		Expect(err).To(HaveOccurred())
	})

	It("should render the wrapper", func() {
		m, err := Elaborate("my_gpio", "axil_gpio", SystemVerilog,
			[]Param{{Name: "DATA_WIDTH", Value: "32"}}, bindings)
		Expect(err).NotTo(HaveOccurred())

		id := Identity{Type: "AXILGPIO", Version: Version{1, 0}, ID: 0x04f3a7ad}
		text, err := m.WithIdentity(id).Text()

		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring(
			"module my_gpio #(\n    parameter IP_TYPE = \"AXILGPIO\",\n" +
				"    parameter IP_VERSION = 32'h10000,\n" +
				"    parameter IP_ID = 32'h4f3a7ad\n) (\n"))
		Expect(text).To(MatchRegexp(`input\s+wire\s+\[15:0\]\s+s_axil_awaddr,`))
		Expect(text).To(MatchRegexp(`output\s+wire\s+s_axil_awready\n\);`))
		Expect(text).To(ContainSubstring("    axil_gpio #(\n        .DATA_WIDTH(32)\n    ) u_core ("))
		Expect(text).To(ContainSubstring(".mode(2'd3),"))
		Expect(text).To(ContainSubstring(".debug(),"))
		Expect(text).To(ContainSubstring(".m_clk(clk)\n    );"))
		Expect(text).To(HaveSuffix("endmodule\n"))
	})
})
