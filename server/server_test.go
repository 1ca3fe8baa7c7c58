package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ipgen/core"
	"github.com/sarchlab/ipgen/datarecording"
)

var _ = Describe("Server", func() {
	var (
		s      *Server
		router http.Handler
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		s = NewServer(core.Default())
		router = s.Router()
	})

	It("should fall back to a random port for low port numbers", func() {
		s.WithPortNumber(80)
		Expect(s.portNumber).To(Equal(0))

		s.WithPortNumber(8080)
		Expect(s.portNumber).To(Equal(8080))
	})

	It("should list the cores in name order", func() {
		rec := do(http.MethodGet, "/api/cores", "")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var cores []coreSummary
		Expect(json.Unmarshal(rec.Body.Bytes(), &cores)).To(Succeed())
		Expect(cores).To(HaveLen(7))
		Expect(cores[0].Name).To(Equal("axi2axilite"))
	})

	It("should serve the index page", func() {
		rec := do(http.MethodGet, "/", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`href="/api/core/pll"`))
	})

	It("should describe a core", func() {
		rec := do(http.MethodGet, "/api/core/axil_gpio", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("axil_gpio"))
	})

	It("should flatten a core under its defaults", func() {
		d, _ := core.Default().Lookup("axil_gpio")

		detail, err := describe(d)

		Expect(err).ToNot(HaveOccurred())
		Expect(detail.Language).To(Equal("systemverilog"))
		Expect(detail.Interfaces).To(HaveLen(1))
		Expect(detail.Interfaces[0].Family).To(Equal("AXI4-Lite"))
		Expect(detail.Params).To(HaveLen(2))
	})

	It("should report unknown cores", func() {
		rec := do(http.MethodGet, "/api/core/nope", "")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should validate a parameter set", func() {
		rec := do(http.MethodPost, "/api/core/axil_gpio/validate",
			`{"data_width": 16, "addr_width": 12}`)

		Expect(rec.Code).To(Equal(http.StatusOK))

		rsp := validateRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Params).To(HaveKeyWithValue("addr_width", BeNumerically("==", 12)))
		Expect(rsp.Params).To(HaveKeyWithValue("data_width", BeNumerically("==", 16)))
	})

	It("should reject an out of range parameter", func() {
		rec := do(http.MethodPost, "/api/core/axil_gpio/validate",
			`{"addr_width": 7}`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("addr_width"))
	})

	It("should reject a malformed body", func() {
		rec := do(http.MethodPost, "/api/core/axil_gpio/validate", `{`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should serve the default template", func() {
		rec := do(http.MethodGet, "/api/core/axil_gpio/template", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("axil_gpio_wrapper"))
	})

	It("should report a missing build history", func() {
		rec := do(http.MethodGet, "/api/builds", "")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	Context("with a build history", func() {
		var reader *datarecording.BuildReader

		BeforeEach(func() {
			path := filepath.Join(GinkgoT().TempDir(), "history.sqlite3")

			recorder, err := datarecording.New(path)
			Expect(err).ToNot(HaveOccurred())

			Expect(recorder.CreateTable(datarecording.BuildTable,
				datarecording.BuildEntry{})).To(Succeed())
			Expect(recorder.InsertData(datarecording.BuildTable, datarecording.BuildEntry{
				ID: "1", Core: "pll", Version: "v1_0", BuildName: "pll_wrapper",
				Params: "{}", CreatedAt: 100,
			})).To(Succeed())
			Expect(recorder.InsertData(datarecording.BuildTable, datarecording.BuildEntry{
				ID: "2", Core: "axil_gpio", Version: "v1_0", BuildName: "gpio",
				Params: "{}", CreatedAt: 200,
			})).To(Succeed())
			Expect(recorder.Close()).To(Succeed())

			reader, err = datarecording.OpenBuildReader(path)
			Expect(err).ToNot(HaveOccurred())

			s.WithBuildReader(reader)
		})

		AfterEach(func() {
			Expect(reader.Close()).To(Succeed())
		})

		It("should list builds filtered by core", func() {
			rec := do(http.MethodGet, "/api/builds?core=pll", "")

			Expect(rec.Code).To(Equal(http.StatusOK))

			rsp := buildsRsp{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
			Expect(rsp.Total).To(Equal(1))
			Expect(rsp.Builds).To(HaveLen(1))
			Expect(rsp.Builds[0].BuildName).To(Equal("pll_wrapper"))
		})

		It("should reject a bad limit", func() {
			rec := do(http.MethodGet, "/api/builds?limit=x", "")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("should start and shut down", func() {
		url, err := s.Start()
		Expect(err).ToNot(HaveOccurred())

		rsp, err := http.Get(url + "/api/cores")
		Expect(err).ToNot(HaveOccurred())
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
		Expect(rsp.Body.Close()).To(Succeed())

		Expect(s.Shutdown(context.Background())).To(Succeed())
	})
})
