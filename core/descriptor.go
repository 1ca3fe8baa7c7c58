// Package core holds the catalog of wrappable cores. A Descriptor tells the
// generator everything it needs to know about one external core: its
// parameters, its bus interfaces, and how its ports are bound.
package core

import (
	"fmt"

	"github.com/sarchlab/ipgen/bus"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

// Descriptor describes one catalogued core.
type Descriptor struct {
	// Name is the catalog name, also used as the IP directory name.
	Name string

	// Version is in the v<major>_<minor> form.
	Version string

	// Type is the short tag written into IP_TYPE.
	Type string

	// Module is the name of the wrapped RTL module.
	Module string

	// Language of the generated wrapper.
	Language hdl.Language

	// Simulation cores carry a litex_sim directory.
	Simulation bool

	Description string

	Schema *param.Schema

	// Interfaces builds the bus interfaces of the wrapper.
	Interfaces func(s param.Set) []bus.Interface

	// Ports is the port table of the wrapped module.
	Ports []port.Spec

	// Parameters maps the parameter set to the parameters of the wrapped
	// module.
	Parameters func(s param.Set) []hdl.Param

	// Summary describes a parameter set in human-readable form.
	Summary func(s param.Set) map[string]string
}

// ParsedVersion returns the version of the core.
func (d Descriptor) ParsedVersion() hdl.Version {
	v, err := hdl.ParseVersion(d.Version)
	if err != nil {
		panic(err)
	}

	return v
}

// Identity returns the identity of the core without a build ID.
func (d Descriptor) Identity() hdl.Identity {
	return hdl.Identity{Type: d.Type, Version: d.ParsedVersion()}
}

// SummaryOf returns the summary of a set, which may be empty.
func (d Descriptor) SummaryOf(s param.Set) map[string]string {
	if d.Summary == nil {
		return map[string]string{}
	}

	return d.Summary(s)
}

// InterfacesOf builds and validates the bus interfaces for a set.
func (d Descriptor) InterfacesOf(s param.Set) ([]bus.Interface, error) {
	if d.Interfaces == nil {
		return nil, nil
	}

	ifaces := d.Interfaces(s)
	for _, i := range ifaces {
		if err := i.Validate(); err != nil {
			return nil, err
		}
	}

	return ifaces, nil
}

// ParametersOf returns the module parameters for a set.
func (d Descriptor) ParametersOf(s param.Set) []hdl.Param {
	if d.Parameters == nil {
		return nil
	}

	return d.Parameters(s)
}

// Bind binds the port table for a set.
func (d Descriptor) Bind(s param.Set) ([]bus.Interface, []port.Binding, error) {
	ifaces, err := d.InterfacesOf(s)
	if err != nil {
		return nil, nil, err
	}

	bindings, err := port.Bind(s, ifaces, d.Ports)
	if err != nil {
		return nil, nil, err
	}

	return ifaces, bindings, nil
}

// Validate checks the descriptor itself. It binds the port table under the
// default parameters, so a table that leaves a mandatory port unbound is
// reported here rather than at generation time.
func (d Descriptor) Validate() error {
	if err := hdl.ValidateIdentifier(d.Name); err != nil {
		return fmt.Errorf("core name: %w", err)
	}

	if err := hdl.ValidateIdentifier(d.Module); err != nil {
		return fmt.Errorf("core %s module: %w", d.Name, err)
	}

	if _, err := hdl.ParseVersion(d.Version); err != nil {
		return fmt.Errorf("core %s: %w", d.Name, err)
	}

	if d.Type == "" {
		return fmt.Errorf("core %s has no type", d.Name)
	}

	if d.Schema == nil {
		return fmt.Errorf("core %s has no schema", d.Name)
	}

	defaults, err := d.Schema.Validate(nil)
	if err != nil {
		return fmt.Errorf("core %s defaults: %w", d.Name, err)
	}

	if _, _, err := d.Bind(defaults); err != nil {
		return fmt.Errorf("core %s: %w", d.Name, err)
	}

	return nil
}
