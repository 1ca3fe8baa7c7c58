package hdl

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Identity", func() {
	It("should pack a timestamp", func() {
		t := time.Date(2024, time.March, 15, 10, 30, 45, 0, time.UTC)

		Expect(PackID(t)).To(Equal(uint32(0x04f3a7ad)))
	})

	It("should fold the hour into twelve", func() {
		am := time.Date(2024, time.March, 15, 10, 30, 45, 0, time.UTC)
		pm := time.Date(2024, time.March, 15, 22, 30, 45, 0, time.UTC)

		Expect(PackID(pm)).To(Equal(PackID(am)))
	})

	It("should clamp years before 2022", func() {
		t := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

		Expect(PackID(t) >> 25).To(Equal(uint32(0)))
	})

	It("should parse and pack versions", func() {
		v, err := ParseVersion("v1_0")

		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(Version{Major: 1, Minor: 0}))
		Expect(v.String()).To(Equal("v1_0"))
		Expect(v.Pack()).To(Equal(uint32(0x10000)))
	})

	DescribeTable("malformed versions",
		func(s string) {
			_, err := ParseVersion(s)
			Expect(err).To(HaveOccurred())
		},
		Entry("no prefix", "1_0"),
		Entry("no separator", "v10"),
		Entry("not a number", "v1_x"),
		Entry("too large", "v70000_0"),
	)

	It("should render the identity parameters", func() {
		id := Identity{Type: "AXILGPIO", Version: Version{1, 0}, ID: 0x04f3a7ad}

		Expect(id.Params()).To(Equal([]Param{
			{Name: "IP_TYPE", Value: `"AXILGPIO"`},
			{Name: "IP_VERSION", Value: "32'h10000"},
			{Name: "IP_ID", Value: "32'h4f3a7ad"},
		}))
	})

	It("should put the identity first and only once", func() {
		id := Identity{Type: "AXILGPIO", Version: Version{1, 0}}
		m := Module{Name: "top", Params: []Param{{Name: "WIDTH", Value: "8"}}}

		m = m.WithIdentity(id).WithIdentity(id)

		Expect(m.Params).To(HaveLen(4))
		Expect(m.Params[0].Name).To(Equal("IP_TYPE"))
		Expect(m.Params[3].Name).To(Equal("WIDTH"))
	})
})

var _ = Describe("ValidateIdentifier", func() {
	DescribeTable("accepted",
		func(name string) {
			Expect(ValidateIdentifier(name)).To(Succeed())
		},
		Entry("plain", "my_gpio"),
		Entry("leading underscore", "_top"),
		Entry("dollar", "a$b"),
	)

	DescribeTable("rejected",
		func(name string) {
			var ie *InvalidIdentifierError
			Expect(ValidateIdentifier(name)).To(BeAssignableToTypeOf(ie))
		},
		Entry("empty", ""),
		Entry("leading digit", "1gpio"),
		Entry("dash", "my-gpio"),
		Entry("path", "../gpio"),
		Entry("reserved", "module"),
	)
})
