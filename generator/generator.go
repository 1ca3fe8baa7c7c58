// Package generator runs the generation pipeline of one core: resolve the
// parameters, bind the ports, materialize the build directory, and emit the
// descriptors.
package generator

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/sarchlab/ipgen/build"
	"github.com/sarchlab/ipgen/core"
	"github.com/sarchlab/ipgen/emit"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/hooking"
	"github.com/sarchlab/ipgen/param"
)

// Hook positions of a run, in the order they fire.
var (
	// HookPosResolved fires with the validated param.Set as Item.
	HookPosResolved = &hooking.HookPos{Name: "Resolved"}

	// HookPosBound fires with the []port.Binding as Item.
	HookPosBound = &hooking.HookPos{Name: "Bound"}

	// HookPosMaterialized fires with the build.Paths as Item.
	HookPosMaterialized = &hooking.HookPos{Name: "Materialized"}

	// HookPosEmitted fires with the emit.Descriptor as Item.
	HookPosEmitted = &hooking.HookPos{Name: "Emitted"}
)

// Run is the Detail of every hook invocation.
type Run struct {
	Core      core.Descriptor
	Params    param.Set
	BuildName string
	BuildDir  string
}

// ModuleNameError reports a build name equal to the name of the wrapped
// module. The wrapper would instantiate itself.
type ModuleNameError struct {
	Name string
}

func (e *ModuleNameError) Error() string {
	return fmt.Sprintf("build name %q is the name of the wrapped module", e.Name)
}

// Generator generates builds of one core.
type Generator struct {
	hooking.HookableBase

	core      core.Descriptor
	clock     func() time.Time
	namespace string
	device    string
	bundle    fs.FS
	template  bool
}

// Core returns the descriptor of the generated core.
func (g *Generator) Core() core.Descriptor {
	return g.core
}

// Resolve merges the defaults, the command line values, and an optional
// JSON descriptor, in increasing precedence, and validates the result.
func (g *Generator) Resolve(
	cli map[string]any,
	jsonData []byte,
) (param.Set, param.Bookkeeping, error) {
	schema := g.core.Schema
	bk := param.Bookkeeping{}
	layers := []map[string]any{schema.Defaults().Map(), cli}

	if jsonData != nil {
		imported, importedBK, err := param.ImportJSON(schema, jsonData)
		if err != nil {
			return param.Set{}, bk, err
		}

		bk = importedBK
		layers = append(layers, imported)
	}

	set, err := schema.Validate(schema.Merge(layers...))
	if err != nil {
		return param.Set{}, bk, err
	}

	g.InvokeHook(hooking.HookCtx{
		Domain: g,
		Pos:    HookPosResolved,
		Item:   set,
		Detail: Run{Core: g.core, Params: set},
	})

	return set, bk, nil
}

// Template returns the JSON template of a parameter set.
func (g *Generator) Template(set param.Set, bk param.Bookkeeping) ([]byte, error) {
	if err := g.mustOwn(set); err != nil {
		return nil, err
	}

	return param.ExportJSON(set, bk, g.core.SummaryOf(set))
}

// Generate builds the core under buildDir. Nothing is written before the
// ports are bound and the wrapper is elaborated. A failure stops the run;
// directories created before it are left in place.
func (g *Generator) Generate(
	set param.Set,
	buildDir, buildName string,
) (emit.Descriptor, error) {
	if err := g.mustOwn(set); err != nil {
		return emit.Descriptor{}, err
	}

	if err := hdl.ValidateIdentifier(buildName); err != nil {
		return emit.Descriptor{}, fmt.Errorf("build name: %w", err)
	}

	if buildName == g.core.Module {
		return emit.Descriptor{}, &ModuleNameError{Name: buildName}
	}

	run := Run{Core: g.core, Params: set, BuildName: buildName, BuildDir: buildDir}

	_, bindings, err := g.core.Bind(set)
	if err != nil {
		return emit.Descriptor{}, err
	}

	g.invoke(HookPosBound, bindings, run)

	module, err := hdl.Elaborate(
		buildName,
		g.core.Module,
		g.core.Language,
		g.core.ParametersOf(set),
		bindings,
	)
	if err != nil {
		return emit.Descriptor{}, err
	}

	paths, err := build.Materialize(build.Layout{
		BuildDir:   buildDir,
		Namespace:  g.namespace,
		IPName:     g.core.Name,
		Version:    g.core.Version,
		BuildName:  buildName,
		Simulation: g.core.Simulation,
	}, g.bundle)
	if err != nil {
		return emit.Descriptor{}, err
	}

	g.invoke(HookPosMaterialized, paths, run)

	d, err := emit.Emit(paths, module, set, emit.Options{
		Device:      g.device,
		Identity:    g.core.Identity(),
		Now:         g.clock(),
		Template:    g.template,
		Bookkeeping: param.Bookkeeping{BuildName: buildName, BuildDir: buildDir},
		Summary:     g.core.SummaryOf(set),
	})
	if err != nil {
		return emit.Descriptor{}, err
	}

	g.invoke(HookPosEmitted, d, run)

	return d, nil
}

func (g *Generator) invoke(pos *hooking.HookPos, item any, run Run) {
	g.InvokeHook(hooking.HookCtx{
		Domain: g,
		Pos:    pos,
		Item:   item,
		Detail: run,
	})
}

func (g *Generator) mustOwn(set param.Set) error {
	if set.Schema() != g.core.Schema {
		return fmt.Errorf("parameter set was not resolved for core %s", g.core.Name)
	}

	return nil
}
