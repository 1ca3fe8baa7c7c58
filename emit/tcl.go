// Package emit writes the toolchain descriptors of a materialized build: the
// wrapper source, the synthesis script, and the JSON template.
package emit

import (
	"path/filepath"
	"strings"

	"github.com/sarchlab/ipgen/build"
)

// DefaultDevice is the target device when none is configured.
const DefaultDevice = "GEMINI"

// TCLFile is the name of the synthesis script inside synth/.
const TCLFile = "raptor.tcl"

// TCL returns the synthesis commands for a build whose generated top-level
// source is topFile. File references are relative to the synth directory.
func TCL(buildName, device string, p build.Paths, topFile string) []string {
	if device == "" {
		device = DefaultDevice
	}

	cmds := []string{
		"create_design " + buildName,
		"target_device " + device,
		"add_library_path " + relTo(p.Synth, p.Src),
		"add_library_ext .v .sv",
		"add_design_file " + relTo(p.Synth, topFile),
		"set_top_module " + buildName,
	}

	for _, c := range p.Constraints {
		cmds = append(cmds, "add_constraint_file "+relTo(p.Synth, c))
	}

	cmds = append(cmds, "synthesize")

	return cmds
}

func relTo(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}

	return filepath.ToSlash(rel)
}

// JoinTCL joins commands into script text.
func JoinTCL(cmds []string) string {
	return strings.Join(cmds, "\n") + "\n"
}
