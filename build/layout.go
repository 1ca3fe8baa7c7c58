// Package build creates the on-disk layout of a generated IP instance and
// fills it with the sources of the wrapped core.
package build

import (
	"fmt"
	"path/filepath"
)

// DefaultNamespace is the vendor directory every build lives under.
const DefaultNamespace = "rapidsilicon"

// Names of the build subdirectories.
const (
	DirSrc      = "src"
	DirSim      = "sim"
	DirSynth    = "synth"
	DirLitexSim = "litex_sim"
)

// Bundle directories that are copied into a build.
const (
	BundleSrc         = "src"
	BundleLitexSim    = "litex_sim"
	BundleConstraints = "constraints"
)

// Layout locates a build on disk.
type Layout struct {
	BuildDir  string
	Namespace string
	IPName    string
	Version   string
	BuildName string

	// Simulation cores also get a litex_sim directory.
	Simulation bool
}

// Root returns <BuildDir>/<Namespace>/ip/<IPName>/<Version>/<BuildName>.
func (l Layout) Root() string {
	ns := l.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}

	return filepath.Join(l.BuildDir, ns, "ip", l.IPName, l.Version, l.BuildName)
}

// Validate checks that the layout names a build.
func (l Layout) Validate() error {
	for _, f := range []struct{ name, v string }{
		{"ip name", l.IPName},
		{"version", l.Version},
		{"build name", l.BuildName},
	} {
		if f.v == "" {
			return fmt.Errorf("layout has no %s", f.name)
		}

		if filepath.Base(f.v) != f.v || f.v == "." || f.v == ".." {
			return fmt.Errorf("layout %s %q is not a single path element", f.name, f.v)
		}
	}

	return nil
}

// Paths are the directories and files of a materialized build.
type Paths struct {
	Root     string
	Src      string
	Sim      string
	Synth    string
	LitexSim string

	// Manifest is the copied bundle manifest, empty if the bundle has none.
	Manifest string

	// Sources are the files copied into Src, in copy order.
	Sources []string

	// Constraints are the files copied into Synth, in copy order.
	Constraints []string
}

// Dirs lists the subdirectories of the build.
func (p Paths) Dirs() []string {
	dirs := []string{p.Src, p.Sim, p.Synth}
	if p.LitexSim != "" {
		dirs = append(dirs, p.LitexSim)
	}

	return dirs
}
