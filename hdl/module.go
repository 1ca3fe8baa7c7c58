// Package hdl elaborates wrapper modules around external cores and renders
// them as Verilog or SystemVerilog text.
package hdl

import "github.com/sarchlab/ipgen/bus"

// Language is the HDL a wrapper is written in.
type Language int

// The supported languages.
const (
	SystemVerilog Language = iota
	Verilog
)

// Ext returns the file extension of the language, with the leading dot.
func (l Language) Ext() string {
	if l == Verilog {
		return ".v"
	}

	return ".sv"
}

func (l Language) String() string {
	if l == Verilog {
		return "verilog"
	}

	return "systemverilog"
}

// Param is a module or instance parameter. Value is HDL text, e.g. `32` or
// `"AXILGPIO"`.
type Param struct {
	Name  string
	Value string
}

// Port is a top-level port of a module.
type Port struct {
	Name  string
	Dir   bus.Direction
	Width int
}

// Connection connects an instance port to an expression of the parent.
// An empty Expr leaves the port unconnected.
type Connection struct {
	Port string
	Expr string
}

// Instance is a child module instantiated by a wrapper.
type Instance struct {
	Module      string
	Name        string
	Params      []Param
	Connections []Connection
}

// Module is an elaborated wrapper.
type Module struct {
	Name      string
	Language  Language
	Params    []Param
	Ports     []Port
	Instances []Instance
}

// FileName returns the name of the file the module is rendered into.
func (m Module) FileName() string {
	return m.Name + m.Language.Ext()
}

// WithIdentity returns a copy of the module whose parameter list starts with
// the identity parameters.
func (m Module) WithIdentity(id Identity) Module {
	params := make([]Param, 0, len(m.Params)+3)
	params = append(params, id.Params()...)

	for _, p := range m.Params {
		if isIdentityParam(p.Name) {
			continue
		}

		params = append(params, p)
	}

	m.Params = params

	return m
}
