package core

import (
	"fmt"

	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

// VCO limits of the PLL, in MHz.
const (
	pllVCOMin = 800
	pllVCOMax = 3200
)

// PLL is a clock generator without bus interfaces.
func PLL() Descriptor {
	outDivs := []int{2, 3, 4, 5, 6, 7, 8, 10, 12, 14, 16, 18, 20, 24, 28, 32, 40, 48, 56, 64}

	schema := param.MustNewSchema(
		param.IntRange("ref_clk_freq", 5, 1200, 50).
			WithDescription("Reference clock frequency in MHz"),
		param.Bool("divide_clk_in_by_2", false).
			WithDescription("Halve the reference clock"),
		param.IntRange("pll_mult", 16, 1000, 16).
			WithDescription("Feedback multiplier"),
		param.IntRange("pll_div", 1, 63, 1).
			WithDescription("Reference divider"),
		param.IntChoice("clk_out0_div", outDivs, 2),
		param.IntChoice("clk_out1_div", outDivs, 2),
		param.Bool("clk_out1_enable", false),
		param.Enum("feedback", []string{"INTERNAL", "EXTERNAL"}, "INTERNAL").
			WithDescription("Feedback path"),
	).WithConstraint(param.Constraint{
		Names:  []string{"ref_clk_freq", "divide_clk_in_by_2", "pll_mult", "pll_div"},
		Reason: fmt.Sprintf("VCO frequency must lie in %d..%d MHz", pllVCOMin, pllVCOMax),
		Check: func(s param.Set) bool {
			vco := pllVCO(s)
			return vco >= pllVCOMin && vco <= pllVCOMax
		},
	})

	bit := port.Const(1)
	external := port.IfEquals("feedback", "EXTERNAL")

	return Descriptor{
		Name:        "pll",
		Version:     "v1_0",
		Type:        "PLL",
		Module:      "PLL",
		Language:    hdl.Verilog,
		Description: "Phase-locked loop",
		Schema:      schema,
		Ports: []port.Spec{
			port.In("PLL_EN", bit, port.Pin("pll_en")),
			port.In("CLK_IN", bit, port.Clock("clk_in")),
			port.In("CLK_FB", bit, port.Pin("clk_fb").When(external)).Opt(),
			port.Out("CLK_OUT0", bit, port.Pin("clk_out0")),
			port.Out("CLK_OUT1", bit, port.Pin("clk_out1").When(port.IfTrue("clk_out1_enable"))).Opt(),
			port.Out("LOCK", bit, port.Pin("lock")),
		},
		Parameters: func(s param.Set) []hdl.Param {
			divide := `"FALSE"`
			if s.Bool("divide_clk_in_by_2") {
				divide = `"TRUE"`
			}

			return append([]hdl.Param{
				{Name: "DIVIDE_CLK_IN_BY_2", Value: divide},
			}, paramsOf(s,
				"PLL_MULT", "pll_mult",
				"PLL_DIV", "pll_div",
				"CLK_OUT0_DIV", "clk_out0_div",
				"CLK_OUT1_DIV", "clk_out1_div",
				"FEEDBACK", "feedback",
			)...)
		},
		Summary: func(s param.Set) map[string]string {
			vco := pllVCO(s)

			out := map[string]string{
				"VCO Frequency": fmt.Sprintf("%d MHz", vco),
				"Output 0":      fmt.Sprintf("%d MHz", vco/s.Int("clk_out0_div")),
				"Feedback":      s.String("feedback"),
			}

			if s.Bool("clk_out1_enable") {
				out["Output 1"] = fmt.Sprintf("%d MHz", vco/s.Int("clk_out1_div"))
			}

			return out
		},
	}
}

func pllVCO(s param.Set) int {
	ref := s.Int("ref_clk_freq")
	if s.Bool("divide_clk_in_by_2") {
		ref /= 2
	}

	return ref * s.Int("pll_mult") / s.Int("pll_div")
}
