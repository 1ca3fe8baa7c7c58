package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sarchlab/ipgen/build"
	"github.com/sarchlab/ipgen/hdl"
	"github.com/sarchlab/ipgen/param"
)

// Options control what Emit writes.
type Options struct {
	// Device is the target device of the synthesis script.
	Device string

	// Identity carries the type and version of the core. Its ID is replaced
	// by one packed from Now.
	Identity hdl.Identity

	// Now is the generation time. Emit never reads the clock itself.
	Now time.Time

	// Template also writes <root>/<build name>.json.
	Template    bool
	Bookkeeping param.Bookkeeping
	Summary     map[string]string
}

// SourceClashError reports a wrapper whose file name is taken by a source
// copied from the bundle.
type SourceClashError struct {
	Path string
}

func (e *SourceClashError) Error() string {
	return fmt.Sprintf("wrapper %s would overwrite a copied source", e.Path)
}

// Descriptor is the set of files a build produced.
type Descriptor struct {
	Paths        build.Paths
	TopFile      string
	TCLFile      string
	TCL          []string
	TemplateFile string
	Identity     hdl.Identity
}

// Emit renders the wrapper with its identity header into src/, writes the
// synthesis script into synth/, and optionally writes the JSON template.
func Emit(
	p build.Paths,
	m hdl.Module,
	set param.Set,
	opts Options,
) (Descriptor, error) {
	id := opts.Identity
	id.ID = hdl.PackID(opts.Now)

	top := m.WithIdentity(id)

	text, err := top.Text()
	if err != nil {
		return Descriptor{}, fmt.Errorf("cannot render %s: %w", top.Name, err)
	}

	d := Descriptor{
		Paths:    p,
		TopFile:  filepath.Join(p.Src, top.FileName()),
		TCLFile:  filepath.Join(p.Synth, TCLFile),
		Identity: id,
	}

	for _, src := range p.Sources {
		if filepath.Clean(src) == d.TopFile {
			return Descriptor{}, &SourceClashError{Path: d.TopFile}
		}
	}

	if err := writeFile(d.TopFile, []byte(text)); err != nil {
		return Descriptor{}, err
	}

	if _, err := os.Stat(d.TopFile); err != nil {
		return Descriptor{}, &build.IOError{Op: "stat", Path: d.TopFile, Err: err}
	}

	d.TCL = TCL(top.Name, opts.Device, p, d.TopFile)
	if err := writeFile(d.TCLFile, []byte(JoinTCL(d.TCL))); err != nil {
		return Descriptor{}, err
	}

	if !opts.Template {
		return d, nil
	}

	buf, err := param.ExportJSON(set, opts.Bookkeeping, opts.Summary)
	if err != nil {
		return Descriptor{}, err
	}

	d.TemplateFile = filepath.Join(p.Root, top.Name+".json")
	if err := writeFile(d.TemplateFile, buf); err != nil {
		return Descriptor{}, err
	}

	return d, nil
}

func writeFile(path string, buf []byte) error {
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return &build.IOError{Op: "write", Path: path, Err: err}
	}

	return nil
}
