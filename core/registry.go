package core

import (
	"fmt"
	"sort"
)

// Registry is a set of core descriptors indexed by name.
type Registry struct {
	cores map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cores: make(map[string]Descriptor)}
}

// Register validates and adds a descriptor.
func (r *Registry) Register(d Descriptor) error {
	if _, ok := r.cores[d.Name]; ok {
		return fmt.Errorf("core %s is already registered", d.Name)
	}

	if err := d.Validate(); err != nil {
		return err
	}

	r.cores[d.Name] = d

	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(d Descriptor) *Registry {
	if err := r.Register(d); err != nil {
		panic(err)
	}

	return r
}

// Lookup finds a descriptor by name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.cores[name]
	return d, ok
}

// List returns all descriptors sorted by name.
func (r *Registry) List() []Descriptor {
	list := make([]Descriptor, 0, len(r.cores))
	for _, d := range r.cores {
		list = append(list, d)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	return list
}

// Default returns a registry with the built-in catalog.
func Default() *Registry {
	return NewRegistry().
		MustRegister(AXILiteGPIO()).
		MustRegister(AXILiteUART16550()).
		MustRegister(AXIRAM()).
		MustRegister(AXIStreamFIFO()).
		MustRegister(AXIToAXILite()).
		MustRegister(AXILiteToAPB()).
		MustRegister(PLL())
}
