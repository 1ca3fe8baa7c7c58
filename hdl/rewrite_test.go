package hdl

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RewriteHeader", func() {
	id := Identity{Type: "AXIRAM", Version: Version{1, 0}, ID: 1}

	It("should add a parameter list", func() {
		text := "// top\nmodule my_ram (\n    input clk\n);\nendmodule\n"

		out, err := RewriteHeader(text, "my_ram", id)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("// top\nmodule my_ram #(\n" +
			"    parameter IP_TYPE = \"AXIRAM\",\n" +
			"    parameter IP_VERSION = 32'h10000,\n" +
			"    parameter IP_ID = 32'h1\n" +
			") (\n    input clk\n);\nendmodule\n"))
	})

	It("should extend an existing parameter list", func() {
		text := "module my_ram #(\n    parameter W = 8\n) (\n);\nendmodule"

		out, err := RewriteHeader(text, "my_ram", id)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("parameter IP_ID = 32'h1,\n    parameter W = 8\n"))
	})

	It("should extend an inline parameter list", func() {
		text := "module my_ram #(parameter W = 8) (clk);"

		out, err := RewriteHeader(text, "my_ram", id)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveSuffix("parameter IP_ID = 32'h1,\n    parameter W = 8) (clk);"))
	})

	It("should not match a longer module name", func() {
		_, err := RewriteHeader("module my_ram_2 ();", "my_ram", id)

		Expect(err).To(MatchError(ErrModuleNotFound))
	})

	It("should fail when the module is not declared", func() {
		_, err := RewriteHeader("module other ();\nendmodule\n", "my_ram", id)

		Expect(err).To(MatchError(ErrModuleNotFound))
	})

	It("should fail when the module is declared twice", func() {
		_, err := RewriteHeader("module my_ram ();\nmodule my_ram ();", "my_ram", id)

		Expect(err).To(HaveOccurred())
		Expect(err).NotTo(MatchError(ErrModuleNotFound))
	})
})
