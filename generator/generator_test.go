package generator

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing/fstest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/ipgen/build"
	"github.com/sarchlab/ipgen/core"
	"github.com/sarchlab/ipgen/emit"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/hooking"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

var _ = Describe("Generator", func() {
	var (
		mockCtrl *gomock.Controller
		buildDir string
		now      time.Time
		g        *Generator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		buildDir = GinkgoT().TempDir()
		now = time.Date(2024, time.March, 15, 10, 30, 45, 0, time.UTC)

		g = MakeBuilder().
			WithClock(func() time.Time { return now }).
			Build(core.AXILiteGPIO())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("when resolving parameters", func() {
		It("should use defaults", func() {
			set, _, err := g.Resolve(nil, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(set.Int("data_width")).To(Equal(32))
			Expect(set.Int("addr_width")).To(Equal(16))
		})

		It("should let the command line override defaults", func() {
			set, _, err := g.Resolve(map[string]any{"addr_width": "12"}, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(set.Int("addr_width")).To(Equal(12))
		})

		It("should let the JSON descriptor override the command line", func() {
			data := []byte(`{"data_width": 8, "addr_width": 10,
				"build_name": "from_json", "build_dir": "out", "summary": {}}`)

			set, bk, err := g.Resolve(map[string]any{"addr_width": 12}, data)

			Expect(err).NotTo(HaveOccurred())
			Expect(set.Int("addr_width")).To(Equal(10))
			Expect(set.Int("data_width")).To(Equal(8))
			Expect(bk).To(Equal(param.Bookkeeping{BuildName: "from_json", BuildDir: "out"}))
		})

		It("should reject values out of domain", func() {
			_, _, err := g.Resolve(map[string]any{"addr_width": 7}, nil)

			var inv *param.InvalidValueError
			Expect(err).To(BeAssignableToTypeOf(inv))
		})

		It("should reject unknown parameters", func() {
			_, _, err := g.Resolve(map[string]any{"depth": 7}, nil)

			var unknown *param.UnknownParameterError
			Expect(err).To(BeAssignableToTypeOf(unknown))
		})

		It("should reject incomplete JSON descriptors", func() {
			_, _, err := g.Resolve(nil, []byte(`{"data_width": 8}`))

			var malformed *param.MalformedImportError
			Expect(err).To(BeAssignableToTypeOf(malformed))
		})

		It("should reject out of domain JSON values", func() {
			data := []byte(`{"data_width": 8, "addr_width": 7,
				"build_name": "x", "build_dir": ".", "summary": {}}`)

			_, _, err := g.Resolve(nil, data)

			var inv *param.InvalidValueError
			Expect(err).To(BeAssignableToTypeOf(inv))
		})
	})

	Context("when generating", func() {
		It("should produce the wrapper and the synthesis script", func() {
			set, _, err := g.Resolve(map[string]any{"data_width": 32, "addr_width": 16}, nil)
			Expect(err).NotTo(HaveOccurred())

			d, err := g.Generate(set, buildDir, "my_gpio")
			Expect(err).NotTo(HaveOccurred())

			root := filepath.Join(buildDir, "rapidsilicon", "ip", "axil_gpio", "v1_0", "my_gpio")
			top := filepath.Join(root, "src", "my_gpio.sv")
			Expect(d.TopFile).To(Equal(top))

			text, err := os.ReadFile(top)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(text)).To(MatchRegexp(`module my_gpio #\(\s*parameter IP_TYPE`))
			Expect(string(text)).To(ContainSubstring("parameter IP_ID = 32'h4f3a7ad"))

			tcl, err := os.ReadFile(filepath.Join(root, "synth", "raptor.tcl"))
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Split(string(tcl), "\n")).To(ContainElement("set_top_module my_gpio"))
			Expect(strings.Count(string(tcl), "add_design_file")).To(Equal(1))

			for _, dir := range []string{"src", "sim", "synth"} {
				Expect(filepath.Join(root, dir)).To(BeADirectory())
			}
		})

		It("should copy the bundle", func() {
			g = MakeBuilder().
				WithClock(func() time.Time { return now }).
				WithBundle(fstest.MapFS{
					"src/axil_gpio.sv": {Data: []byte("module axil_gpio;\nendmodule\n")},
				}).
				Build(core.AXILiteGPIO())

			d, err := g.Generate(g.Core().Schema.Defaults(), buildDir, "my_gpio")

			Expect(err).NotTo(HaveOccurred())
			Expect(d.Paths.Sources).To(HaveLen(1))
			Expect(filepath.Join(d.Paths.Src, "axil_gpio.sv")).To(BeARegularFile())
		})

		It("should write the template when asked", func() {
			g = MakeBuilder().
				WithClock(func() time.Time { return now }).
				WithTemplate(true).
				Build(core.AXILiteGPIO())
			set := g.Core().Schema.Defaults()

			d, err := g.Generate(set, buildDir, "my_gpio")
			Expect(err).NotTo(HaveOccurred())

			buf, err := os.ReadFile(d.TemplateFile)
			Expect(err).NotTo(HaveOccurred())

			again, bk, err := g.Resolve(nil, buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Equal(set)).To(BeTrue())
			Expect(bk.BuildName).To(Equal("my_gpio"))
		})

		It("should regenerate the same files for the same time", func() {
			set := g.Core().Schema.Defaults()

			first, err := g.Generate(set, buildDir, "my_gpio")
			Expect(err).NotTo(HaveOccurred())
			a, _ := os.ReadFile(first.TopFile)

			second, err := g.Generate(set, buildDir, "my_gpio")
			Expect(err).NotTo(HaveOccurred())
			b, _ := os.ReadFile(second.TopFile)

			Expect(second.TCL).To(Equal(first.TCL))
			Expect(b).To(Equal(a))
		})

		It("should write nothing for an invalid build name", func() {
			_, err := g.Generate(g.Core().Schema.Defaults(), buildDir, "my-gpio")

			var ie *hdl.InvalidIdentifierError
			Expect(err).To(MatchError(ContainSubstring("build name")))
			Expect(errors.As(err, &ie)).To(BeTrue())

			entries, _ := os.ReadDir(buildDir)
			Expect(entries).To(BeEmpty())
		})

		It("should reject the name of the wrapped module", func() {
			g = MakeBuilder().
				WithClock(func() time.Time { return now }).
				WithBundle(fstest.MapFS{
					"src/axil_gpio.sv": {Data: []byte("module axil_gpio;\nendmodule\n")},
				}).
				Build(core.AXILiteGPIO())

			_, err := g.Generate(g.Core().Schema.Defaults(), buildDir, g.Core().Module)

			var me *ModuleNameError
			Expect(errors.As(err, &me)).To(BeTrue())
			Expect(me.Name).To(Equal("axil_gpio"))

			entries, _ := os.ReadDir(buildDir)
			Expect(entries).To(BeEmpty())
		})

		It("should keep bundle sources named like the wrapper", func() {
			rtl := "module my_gpio_core;\nendmodule\n"
			g = MakeBuilder().
				WithClock(func() time.Time { return now }).
				WithBundle(fstest.MapFS{
					"src/axil_gpio.sv": {Data: []byte("module axil_gpio;\nendmodule\n")},
					"src/my_gpio.sv":   {Data: []byte(rtl)},
				}).
				Build(core.AXILiteGPIO())

			_, err := g.Generate(g.Core().Schema.Defaults(), buildDir, "my_gpio")

			var clash *emit.SourceClashError
			Expect(errors.As(err, &clash)).To(BeTrue())

			buf, err := os.ReadFile(clash.Path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(buf)).To(Equal(rtl))
		})

		It("should reject sets of another core", func() {
			set := core.PLL().Schema.Defaults()

			_, err := g.Generate(set, buildDir, "my_gpio")

			Expect(err).To(HaveOccurred())
		})

		It("should stop when the build dir cannot be created", func() {
			file := filepath.Join(buildDir, "file")
			Expect(os.WriteFile(file, nil, 0644)).To(Succeed())

			_, err := g.Generate(g.Core().Schema.Defaults(), file, "my_gpio")

			var ioErr *build.IOError
			Expect(err).To(BeAssignableToTypeOf(ioErr))
		})

		It("should generate every catalogued core", func() {
			for _, d := range core.Default().List() {
				gen := MakeBuilder().WithClock(func() time.Time { return now }).Build(d)

				desc, err := gen.Generate(d.Schema.Defaults(), buildDir, d.Name+"_wrapper")

				Expect(err).NotTo(HaveOccurred(), d.Name)
				Expect(desc.TopFile).To(HaveSuffix(d.Name + "_wrapper" + d.Language.Ext()))
			}
		})
	})

	Context("with hooks", func() {
		It("should invoke the hooks in pipeline order", func() {
			hook := NewMockHook(mockCtrl)
			g = MakeBuilder().
				WithClock(func() time.Time { return now }).
				WithHook(hook).
				Build(core.AXILiteGPIO())

			var positions []*hooking.HookPos
			hook.EXPECT().Func(gomock.Any()).
				Do(func(ctx hooking.HookCtx) {
					positions = append(positions, ctx.Pos)
					Expect(ctx.Domain).To(BeIdenticalTo(g))
					Expect(ctx.Detail).To(BeAssignableToTypeOf(Run{}))
				}).
				Times(4)

			set, _, err := g.Resolve(nil, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = g.Generate(set, buildDir, "my_gpio")
			Expect(err).NotTo(HaveOccurred())

			Expect(positions).To(Equal([]*hooking.HookPos{
				HookPosResolved, HookPosBound, HookPosMaterialized, HookPosEmitted,
			}))
		})

		It("should not invoke hooks after a failure", func() {
			hook := NewMockHook(mockCtrl)
			g = MakeBuilder().WithHook(hook).Build(core.AXILiteGPIO())

			_, _, err := g.Resolve(map[string]any{"addr_width": 7}, nil)

			Expect(err).To(HaveOccurred())
		})

		It("should log every step", func() {
			buf := new(bytes.Buffer)
			g = MakeBuilder().
				WithClock(func() time.Time { return now }).
				WithLogger(log.New(buf, "", 0)).
				Build(core.AXILiteUART16550())

			set, _, err := g.Resolve(nil, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = g.Generate(set, buildDir, "uart0")
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			Expect(lines).To(HaveLen(4))
			Expect(lines[0]).To(Equal("axil_uart16550: resolved 3 parameters"))
			Expect(lines[1]).To(Equal("axil_uart16550: bound 30 ports, 6 left open"))
			Expect(lines[2]).To(ContainSubstring("materialized"))
			Expect(lines[3]).To(ContainSubstring("uart0.v"))
		})
	})
})

var _ = Describe("LogHook", func() {
	It("should ignore foreign contexts", func() {
		buf := new(bytes.Buffer)
		h := NewLogHook(log.New(buf, "", 0))

		h.Func(hooking.HookCtx{Pos: HookPosBound, Item: []port.Binding{}})

		Expect(buf.String()).To(BeEmpty())
	})

	It("should log templates", func() {
		buf := new(bytes.Buffer)
		h := NewLogHook(log.New(buf, "", 0))

		h.Func(hooking.HookCtx{
			Pos:    HookPosEmitted,
			Item:   emit.Descriptor{TopFile: "a.sv", TCLFile: "raptor.tcl", TemplateFile: "a.json"},
			Detail: Run{Core: core.PLL()},
		})

		Expect(buf.String()).To(Equal("pll: wrote a.sv and raptor.tcl\npll: wrote a.json\n"))
	})
})
