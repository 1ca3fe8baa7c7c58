package port

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ipgen/param"
)

var _ = Describe("Expr", func() {
	var set param.Set

	BeforeEach(func() {
		set = param.MustNewSchema(
			param.IntRange("depth", 1, 65536, 1024),
			param.IntChoice("data_width", []int{8, 32, 64}, 32),
			param.Bool("last_enable", true),
			param.Enum("mode", []string{"a", "b"}, "a"),
		).Defaults()
	})

	DescribeTable("evaluation",
		func(e Expr, want int, text string) {
			got, err := e.Eval(set)

			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
			Expect(e.String()).To(Equal(text))
		},
		Entry("constant", Const(3), 3, "3"),
		Entry("parameter", Param("data_width"), 32, "data_width"),
		Entry("boolean parameter", Param("last_enable"), 1, "last_enable"),
		Entry("log2 of a power of two", Log2Ceil(Param("depth")), 10, "ceil(log2(depth))"),
		Entry("log2 rounding up", Log2Ceil(Const(1025)), 11, "ceil(log2(1025))"),
		Entry("log2 of one", Log2Ceil(Const(1)), 0, "ceil(log2(1))"),
		Entry("strobe width", Div(Param("data_width"), Const(8)), 4, "(data_width/8)"),
		Entry("count width", Add(Log2Ceil(Param("depth")), Const(1)), 11, "(ceil(log2(depth))+1)"),
		Entry("product", Mul(Param("data_width"), Const(2)), 64, "(data_width*2)"),
	)

	It("should fail on undefined parameters", func() {
		_, err := Param("id_width").Eval(set)

		Expect(err).To(HaveOccurred())
	})

	It("should fail on string parameters", func() {
		_, err := Param("mode").Eval(set)

		Expect(err).To(HaveOccurred())
	})

	It("should fail on log2 of zero", func() {
		_, err := Log2Ceil(Const(0)).Eval(set)

		Expect(err).To(HaveOccurred())
	})

	It("should fail on division by zero", func() {
		_, err := Div(Const(8), Const(0)).Eval(set)

		Expect(err).To(HaveOccurred())
	})
})
