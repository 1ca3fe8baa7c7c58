package port

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/param"
)

var _ = Describe("Bind", func() {
	var (
		schema *param.Schema
		set    param.Set
		ifaces []bus.Interface
	)

	BeforeEach(func() {
		schema = param.MustNewSchema(
			param.IntRange("addr_width", 8, 16, 16),
			param.Bool("modem", false),
		)
		set = schema.Defaults()
		ifaces = []bus.Interface{
			&bus.AXILiteInterface{Prefix: "s_axil", DataWidth: 32, AddrWidth: 16},
		}
	})

	It("should bind every kind of source in table order", func() {
		table := []Spec{
			In("clk", Const(1), Clock("clk")),
			In("rst", Const(1), Reset("rst")),
			In("s_axil_awaddr", Param("addr_width"), FromBus("s_axil", "awaddr")),
			Out("s_axil_awready", Const(1), FromBus("s_axil", "awready")),
			Out("tx", Const(1), Pin("uart_tx")),
			In("mode", Const(2), Tie(Const(3))),
			Out("debug", Const(8), Open()),
		}

		bs, err := Bind(set, ifaces, table)

		Expect(err).NotTo(HaveOccurred())
		Expect(bs).To(HaveLen(len(table)))
		Expect(bs[0]).To(Equal(Binding{Port: "clk", Dir: bus.Input, Width: 1, Kind: SourceClock, Net: "clk"}))
		Expect(bs[2].Net).To(Equal("s_axil_awaddr"))
		Expect(bs[2].Width).To(Equal(16))
		Expect(bs[3].Kind).To(Equal(SourceBus))
		Expect(bs[4].Net).To(Equal("uart_tx"))
		Expect(bs[5].Kind).To(Equal(SourceConst))
		Expect(bs[5].Value).To(Equal(3))
		Expect(bs[6].IsOpen()).To(BeTrue())
	})

	It("should leave optional ports open when their guard is false", func() {
		table := []Spec{
			In("cts_n", Const(1), Pin("cts_n").When(IfTrue("modem"))).Opt(),
		}

		bs, err := Bind(set, ifaces, table)

		Expect(err).NotTo(HaveOccurred())
		Expect(bs[0].IsOpen()).To(BeTrue())
		Expect(bs[0].Net).To(BeEmpty())
	})

	It("should bind guarded ports when the guard holds", func() {
		set, _ = schema.Validate(map[string]any{"modem": true})
		table := []Spec{
			In("cts_n", Const(1), Pin("cts_n").When(IfTrue("modem"))).Opt(),
		}

		bs, err := Bind(set, ifaces, table)

		Expect(err).NotTo(HaveOccurred())
		Expect(bs[0].Kind).To(Equal(SourcePin))
	})

	It("should leave optional ports open when the bus signal is absent", func() {
		table := []Spec{
			In("s_axi_awid", Const(4), FromBus("s_axi", "awid")).Opt(),
			In("s_axil_awuser", Const(1), FromBus("s_axil", "awuser")).Opt(),
		}

		bs, err := Bind(set, ifaces, table)

		Expect(err).NotTo(HaveOccurred())
		Expect(bs[0].IsOpen()).To(BeTrue())
		Expect(bs[1].IsOpen()).To(BeTrue())
	})

	It("should fail on a mandatory port without source", func() {
		table := []Spec{
			In("s_axil_awaddr", Param("addr_width"), FromBus("s_axil", "awaddr")),
			In("s_axil_awuser", Const(1), FromBus("s_axil", "awuser")),
		}

		_, err := Bind(set, ifaces, table)

		Expect(err).To(Equal(&UnboundPortError{Port: "s_axil_awuser"}))
	})

	It("should fail on a guarded mandatory port whose guard is false", func() {
		table := []Spec{In("cts_n", Const(1), Pin("cts_n").When(IfTrue("modem")))}

		_, err := Bind(set, ifaces, table)

		var unbound *UnboundPortError
		Expect(err).To(BeAssignableToTypeOf(unbound))
	})

	It("should fail on duplicated ports", func() {
		table := []Spec{
			In("clk", Const(1), Clock("clk")),
			In("clk", Const(1), Clock("clk")),
		}

		_, err := Bind(set, ifaces, table)

		Expect(err).To(Equal(&DuplicatePortError{Port: "clk"}))
	})

	It("should fail on width mismatches", func() {
		table := []Spec{In("s_axil_wdata", Const(64), FromBus("s_axil", "wdata"))}

		_, err := Bind(set, ifaces, table)

		Expect(err).To(Equal(&WidthMismatchError{
			Port: "s_axil_wdata", Net: "s_axil_wdata", PortWidth: 64, SourceWidth: 32,
		}))
	})

	It("should fail on direction mismatches", func() {
		table := []Spec{Out("s_axil_wdata", Const(32), FromBus("s_axil", "wdata"))}

		_, err := Bind(set, ifaces, table)

		var dir *DirectionMismatchError
		Expect(err).To(BeAssignableToTypeOf(dir))
	})

	It("should require clocks to be one-bit inputs", func() {
		_, err := Bind(set, ifaces, []Spec{Out("clk", Const(1), Clock("clk"))})
		Expect(err).To(HaveOccurred())

		_, err = Bind(set, ifaces, []Spec{In("clk", Const(2), Clock("clk"))})
		Expect(err).To(HaveOccurred())
	})

	It("should not tie outputs", func() {
		_, err := Bind(set, ifaces, []Spec{Out("x", Const(1), Tie(Const(0)))})

		Expect(err).To(HaveOccurred())
	})

	It("should fail on a mandatory zero-width port", func() {
		_, err := Bind(set, ifaces, []Spec{In("x", Const(0), Pin("x"))})

		var iw *InvalidWidthError
		Expect(err).To(BeAssignableToTypeOf(iw))
	})

	It("should open an optional zero-width port", func() {
		bs, err := Bind(set, ifaces, []Spec{In("x", Const(0), Pin("x")).Opt()})

		Expect(err).NotTo(HaveOccurred())
		Expect(bs[0].IsOpen()).To(BeTrue())
	})

	It("should report width expression errors", func() {
		_, err := Bind(set, ifaces, []Spec{In("x", Param("nope"), Pin("x"))})

		var iw *InvalidWidthError
		Expect(err).To(BeAssignableToTypeOf(iw))
	})
})
