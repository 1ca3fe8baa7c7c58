// Package bus describes the on-chip bus interfaces that wrappers expose.
//
// Each protocol family is a distinct type with a fixed field set. The family
// of an interface is known when it is constructed and is never re-derived
// from which signals happen to be present.
package bus

import "strconv"

// Family enumerates the supported protocol families.
type Family int

// All the bus families.
const (
	AXI4 Family = iota
	AXILite
	AXIStream
	APB
)

func (f Family) String() string {
	switch f {
	case AXI4:
		return "AXI4"
	case AXILite:
		return "AXI4-Lite"
	case AXIStream:
		return "AXI4-Stream"
	case APB:
		return "APB"
	}

	return "Family(" + strconv.Itoa(int(f)) + ")"
}

// Role is the side an interface plays.
type Role int

// Slave and master roles.
const (
	Slave Role = iota
	Master
)

func (r Role) String() string {
	if r == Master {
		return "master"
	}

	return "slave"
}

// Direction is the direction of a port seen from the module that owns it.
type Direction int

// Input and output directions.
const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}

	return "input"
}

// WidthRole says which width attribute of an interface sizes a signal.
type WidthRole int

// All the width roles.
const (
	WidthFixed WidthRole = iota
	WidthData
	WidthStrb
	WidthAddr
	WidthID
	WidthDest
	WidthKeep
	WidthUser
	WidthAWUser
	WidthWUser
	WidthBUser
	WidthARUser
	WidthRUser
)

// SignalDef is one row of a family's channel signal table.
type SignalDef struct {
	Name     string
	Driver   Role
	Width    WidthRole
	Fixed    int
	Optional bool
}

// Signal is a concrete signal of an interface instance.
type Signal struct {
	Name   string
	Width  int
	Driver Role
}

func m(name string, w WidthRole, fixed int) SignalDef {
	return SignalDef{Name: name, Driver: Master, Width: w, Fixed: fixed}
}

func s(name string, w WidthRole, fixed int) SignalDef {
	return SignalDef{Name: name, Driver: Slave, Width: w, Fixed: fixed}
}

func opt(d SignalDef) SignalDef {
	d.Optional = true
	return d
}

var axi4Defs = []SignalDef{
	opt(m("awid", WidthID, 0)),
	m("awaddr", WidthAddr, 0),
	m("awlen", WidthFixed, 8),
	m("awsize", WidthFixed, 3),
	m("awburst", WidthFixed, 2),
	m("awlock", WidthFixed, 1),
	m("awcache", WidthFixed, 4),
	m("awprot", WidthFixed, 3),
	opt(m("awqos", WidthFixed, 4)),
	opt(m("awregion", WidthFixed, 4)),
	opt(m("awuser", WidthAWUser, 0)),
	m("awvalid", WidthFixed, 1),
	s("awready", WidthFixed, 1),
	m("wdata", WidthData, 0),
	m("wstrb", WidthStrb, 0),
	m("wlast", WidthFixed, 1),
	opt(m("wuser", WidthWUser, 0)),
	m("wvalid", WidthFixed, 1),
	s("wready", WidthFixed, 1),
	opt(s("bid", WidthID, 0)),
	s("bresp", WidthFixed, 2),
	opt(s("buser", WidthBUser, 0)),
	s("bvalid", WidthFixed, 1),
	m("bready", WidthFixed, 1),
	opt(m("arid", WidthID, 0)),
	m("araddr", WidthAddr, 0),
	m("arlen", WidthFixed, 8),
	m("arsize", WidthFixed, 3),
	m("arburst", WidthFixed, 2),
	m("arlock", WidthFixed, 1),
	m("arcache", WidthFixed, 4),
	m("arprot", WidthFixed, 3),
	opt(m("arqos", WidthFixed, 4)),
	opt(m("arregion", WidthFixed, 4)),
	opt(m("aruser", WidthARUser, 0)),
	m("arvalid", WidthFixed, 1),
	s("arready", WidthFixed, 1),
	opt(s("rid", WidthID, 0)),
	s("rdata", WidthData, 0),
	s("rresp", WidthFixed, 2),
	s("rlast", WidthFixed, 1),
	opt(s("ruser", WidthRUser, 0)),
	s("rvalid", WidthFixed, 1),
	m("rready", WidthFixed, 1),
}

var axiLiteDefs = []SignalDef{
	m("awaddr", WidthAddr, 0),
	m("awprot", WidthFixed, 3),
	m("awvalid", WidthFixed, 1),
	s("awready", WidthFixed, 1),
	m("wdata", WidthData, 0),
	m("wstrb", WidthStrb, 0),
	m("wvalid", WidthFixed, 1),
	s("wready", WidthFixed, 1),
	s("bresp", WidthFixed, 2),
	s("bvalid", WidthFixed, 1),
	m("bready", WidthFixed, 1),
	m("araddr", WidthAddr, 0),
	m("arprot", WidthFixed, 3),
	m("arvalid", WidthFixed, 1),
	s("arready", WidthFixed, 1),
	s("rdata", WidthData, 0),
	s("rresp", WidthFixed, 2),
	s("rvalid", WidthFixed, 1),
	m("rready", WidthFixed, 1),
}

var axiStreamDefs = []SignalDef{
	m("tdata", WidthData, 0),
	opt(m("tkeep", WidthKeep, 0)),
	m("tvalid", WidthFixed, 1),
	s("tready", WidthFixed, 1),
	opt(m("tlast", WidthFixed, 1)),
	opt(m("tid", WidthID, 0)),
	opt(m("tdest", WidthDest, 0)),
	opt(m("tuser", WidthUser, 0)),
}

var apbDefs = []SignalDef{
	m("paddr", WidthAddr, 0),
	m("pprot", WidthFixed, 3),
	m("psel", WidthFixed, 1),
	m("penable", WidthFixed, 1),
	m("pwrite", WidthFixed, 1),
	m("pwdata", WidthData, 0),
	m("pstrb", WidthStrb, 0),
	s("pready", WidthFixed, 1),
	s("prdata", WidthData, 0),
	s("pslverr", WidthFixed, 1),
}

// SignalDefs returns the channel signal table of a family.
func SignalDefs(f Family) []SignalDef {
	var defs []SignalDef

	switch f {
	case AXI4:
		defs = axi4Defs
	case AXILite:
		defs = axiLiteDefs
	case AXIStream:
		defs = axiStreamDefs
	case APB:
		defs = apbDefs
	}

	return append([]SignalDef(nil), defs...)
}
