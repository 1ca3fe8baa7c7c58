package generator

import (
	"log"

	"github.com/sarchlab/ipgen/build"
	"github.com/sarchlab/ipgen/emit"
	"github.com/sarchlab/ipgen/hooking"
	"github.com/sarchlab/ipgen/param"
	"github.com/sarchlab/ipgen/port"
)

// LogHook writes one line per step of a run.
type LogHook struct {
	hooking.LogHookBase
}

// NewLogHook creates a LogHook that writes to the logger.
func NewLogHook(l *log.Logger) *LogHook {
	h := &LogHook{}
	h.Logger = l

	return h
}

// Func logs the step.
func (h *LogHook) Func(ctx hooking.HookCtx) {
	run, ok := ctx.Detail.(Run)
	if !ok {
		return
	}

	name := run.Core.Name

	switch ctx.Pos {
	case HookPosResolved:
		set := ctx.Item.(param.Set)
		h.Printf("%s: resolved %d parameters", name, len(set.Map()))
	case HookPosBound:
		bindings := ctx.Item.([]port.Binding)

		open := 0
		for _, b := range bindings {
			if b.IsOpen() {
				open++
			}
		}

		h.Printf("%s: bound %d ports, %d left open", name, len(bindings), open)
	case HookPosMaterialized:
		paths := ctx.Item.(build.Paths)
		h.Printf("%s: materialized %s with %d sources", name, paths.Root, len(paths.Sources))
	case HookPosEmitted:
		d := ctx.Item.(emit.Descriptor)
		h.Printf("%s: wrote %s and %s", name, d.TopFile, d.TCLFile)

		if d.TemplateFile != "" {
			h.Printf("%s: wrote %s", name, d.TemplateFile)
		}
	}
}
