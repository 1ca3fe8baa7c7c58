// Package config loads the settings shared by all ipgen commands.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sarchlab/ipgen/build"
	"github.com/sarchlab/ipgen/emit"
)

// Setting keys. Each can also be given as IPGEN_<KEY> in the environment.
const (
	KeyBuildDir   = "build_dir"
	KeyNamespace  = "namespace"
	KeyDevice     = "device"
	KeyBundleRoot = "bundle_root"
	KeyRecord     = "record"
	KeyPort       = "port"
)

// Config holds the settings.
type Config struct {
	BuildDir   string `mapstructure:"build_dir"`
	Namespace  string `mapstructure:"namespace"`
	Device     string `mapstructure:"device"`
	BundleRoot string `mapstructure:"bundle_root"`
	Record     string `mapstructure:"record"`
	Port       int    `mapstructure:"port"`
}

// Options tell Load where to look.
type Options struct {
	// File is an explicit config file. When empty, a file named ipgen with
	// any supported extension is searched in SearchPaths.
	File        string
	SearchPaths []string

	// EnvFiles are dotenv files loaded before reading the environment.
	// Missing files are skipped.
	EnvFiles []string
}

// DefaultOptions searches the working directory and $HOME/.config/ipgen, and
// loads .env from the working directory.
func DefaultOptions() Options {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ipgen"))
	}

	return Options{SearchPaths: paths, EnvFiles: []string{".env"}}
}

// Load reads the settings. Environment variables win over the config file,
// which wins over the defaults.
func Load(opts Options) (Config, error) {
	for _, f := range opts.EnvFiles {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	v := viper.New()
	v.SetDefault(KeyBuildDir, ".")
	v.SetDefault(KeyNamespace, build.DefaultNamespace)
	v.SetDefault(KeyDevice, emit.DefaultDevice)
	v.SetDefault(KeyBundleRoot, "./cores")
	v.SetDefault(KeyRecord, "")
	v.SetDefault(KeyPort, 0)

	v.SetEnvPrefix("IPGEN")
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("ipgen")
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	c := Config{}
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// BundleDir returns the bundle directory of a core, or "" if it does not
// exist.
func (c Config) BundleDir(core string) string {
	dir := filepath.Join(c.BundleRoot, core)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}

	return dir
}
