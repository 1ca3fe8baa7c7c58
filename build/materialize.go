package build

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Materialize creates the build directories of a layout and copies the
// bundle of the core into them. The bundle may be nil, in which case only
// the directories are created.
//
// Calling Materialize again with the same layout succeeds and overwrites the
// copied files. Nothing is removed on failure.
func Materialize(l Layout, bundle fs.FS) (Paths, error) {
	if err := l.Validate(); err != nil {
		return Paths{}, err
	}

	root := l.Root()
	p := Paths{
		Root:  root,
		Src:   filepath.Join(root, DirSrc),
		Sim:   filepath.Join(root, DirSim),
		Synth: filepath.Join(root, DirSynth),
	}

	if l.Simulation {
		p.LitexSim = filepath.Join(root, DirLitexSim)
	}

	for _, d := range p.Dirs() {
		if err := os.MkdirAll(d, 0755); err != nil {
			return p, &IOError{Op: "mkdir", Path: d, Err: err}
		}
	}

	if bundle == nil {
		return p, nil
	}

	m, raw, hasManifest, err := ReadManifest(bundle)
	if err != nil {
		return p, err
	}

	if hasManifest {
		p.Manifest = filepath.Join(root, ManifestFile)
		if err := writeFile(p.Manifest, raw); err != nil {
			return p, err
		}
	}

	var srcList, constraintList []string
	if hasManifest {
		srcList = m.Sources
		constraintList = m.Constraints
	}

	p.Sources, err = copyTree(bundle, BundleSrc, srcList, p.Src)
	if err != nil {
		return p, err
	}

	p.Constraints, err = copyTree(bundle, BundleConstraints, constraintList, p.Synth)
	if err != nil {
		return p, err
	}

	if l.Simulation {
		if _, err := copyTree(bundle, BundleLitexSim, nil, p.LitexSim); err != nil {
			return p, err
		}
	}

	return p, nil
}

// copyTree copies the files under dir of the bundle into dst. A non-empty
// list restricts and orders the copied files; otherwise every regular file
// is copied in lexical order. A missing dir copies nothing.
func copyTree(bundle fs.FS, dir string, list []string, dst string) ([]string, error) {
	names := list
	if len(names) == 0 {
		var err error

		names, err = listFiles(bundle, dir)
		if err != nil {
			return nil, err
		}
	}

	copied := make([]string, 0, len(names))

	for _, name := range names {
		out := filepath.Join(dst, filepath.FromSlash(name))

		if err := copyFile(bundle, path.Join(dir, name), out); err != nil {
			return copied, err
		}

		copied = append(copied, out)
	}

	return copied, nil
}

func listFiles(bundle fs.FS, dir string) ([]string, error) {
	var names []string

	err := fs.WalkDir(bundle, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel := p[len(dir)+1:]
		names = append(names, rel)

		return nil
	})

	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, &IOError{Op: "walk", Path: dir, Err: err}
	}

	return names, nil
}

func copyFile(bundle fs.FS, src, dst string) error {
	buf, err := fs.ReadFile(bundle, src)
	if err != nil {
		return &IOError{Op: "read", Path: src, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(dst), Err: err}
	}

	return writeFile(dst, buf)
}

func writeFile(dst string, buf []byte) error {
	if err := os.WriteFile(dst, buf, 0644); err != nil {
		return &IOError{Op: "write", Path: dst, Err: err}
	}

	return nil
}
