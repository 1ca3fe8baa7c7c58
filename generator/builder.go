package generator

import (
	"io/fs"
	"log"
	"time"

	"github.com/sarchlab/ipgen/build"
	"github.com/sarchlab/ipgen/core"
	"github.com/sarchlab/ipgen/emit"
	"github.com/sarchlab/ipgen/hooking"
)

// Builder constructs a Generator for one core.
type Builder struct {
	logger    *log.Logger
	clock     func() time.Time
	namespace string
	device    string
	bundle    fs.FS
	template  bool
	hooks     []hooking.Hook
}

// MakeBuilder returns a Builder with default settings.
func MakeBuilder() Builder {
	return Builder{
		clock:     time.Now,
		namespace: build.DefaultNamespace,
		device:    emit.DefaultDevice,
	}
}

// WithLogger logs every step of a run to the logger.
func (b Builder) WithLogger(l *log.Logger) Builder { b.logger = l; return b }

// WithClock sets where the generation time comes from.
func (b Builder) WithClock(c func() time.Time) Builder { b.clock = c; return b }

// WithNamespace sets the vendor directory of the build layout.
func (b Builder) WithNamespace(ns string) Builder { b.namespace = ns; return b }

// WithDevice sets the target device of the synthesis script.
func (b Builder) WithDevice(d string) Builder { b.device = d; return b }

// WithBundle sets the source bundle of the core. Without a bundle, builds
// only contain the generated files.
func (b Builder) WithBundle(bundle fs.FS) Builder { b.bundle = bundle; return b }

// WithTemplate also writes the JSON template next to every build.
func (b Builder) WithTemplate(t bool) Builder { b.template = t; return b }

// WithHook registers a hook on the generator.
func (b Builder) WithHook(h hooking.Hook) Builder {
	b.hooks = append(append([]hooking.Hook(nil), b.hooks...), h)
	return b
}

// Build creates a generator for the core.
func (b Builder) Build(d core.Descriptor) *Generator {
	g := &Generator{
		core:      d,
		clock:     b.clock,
		namespace: b.namespace,
		device:    b.device,
		bundle:    b.bundle,
		template:  b.template,
	}

	if g.clock == nil {
		g.clock = time.Now
	}

	if b.logger != nil {
		g.AcceptHook(NewLogHook(b.logger))
	}

	for _, h := range b.hooks {
		g.AcceptHook(h)
	}

	return g
}
