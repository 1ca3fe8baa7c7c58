package build

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v2"
)

// ManifestFile is the bundle file that describes a core's sources.
const ManifestFile = "sources.yaml"

// Manifest lists the sources of a core bundle.
type Manifest struct {
	Module      string   `yaml:"module"`
	Description string   `yaml:"description"`
	Sources     []string `yaml:"sources"`
	Constraints []string `yaml:"constraints"`
}

// ReadManifest reads the manifest of a bundle. It returns false if the
// bundle has none.
func ReadManifest(bundle fs.FS) (Manifest, []byte, bool, error) {
	m := Manifest{}

	buf, err := fs.ReadFile(bundle, ManifestFile)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil, false, nil
	}

	if err != nil {
		return m, nil, false, &IOError{Op: "read", Path: ManifestFile, Err: err}
	}

	if err := yaml.UnmarshalStrict(buf, &m); err != nil {
		return m, nil, false, fmt.Errorf("cannot parse %s: %w", ManifestFile, err)
	}

	for _, s := range append(append([]string{}, m.Sources...), m.Constraints...) {
		if !fs.ValidPath(s) {
			return m, nil, false, fmt.Errorf("%s: %q is not a relative path", ManifestFile, s)
		}
	}

	return m, buf, true, nil
}
