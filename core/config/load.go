package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load reads the configuration from the directory. A missing config file
// yields the built-in defaults so the shell runs without any setup.
func Load(fsys afero.Fs, dir string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(dir) == ConfigurationName {
		dir = filepath.Dir(dir)
	}

	contents, err := afero.ReadFile(fsys, filepath.Join(dir, ConfigurationName))
	if err != nil {
		if os.IsNotExist(err) {
			out := defaultConfig()
			out.configFs = fsys
			out.configDir = dir
			return out, nil
		}
		return nil, err
	}

	var out Configuration
	if err := yaml.UnmarshalStrict(contents, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	out.configFs = fsys
	out.configDir = dir
	return &out, nil
}

// Initialize creates the configuration directory with the default
// config.yaml. Existing files are left alone.
func Initialize(fsys afero.Fs, dir string) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	if _, err := fsys.Stat(configPath); err == nil {
		return nil, fmt.Errorf("%s already exists", configPath)
	}
	if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0o600); err != nil {
		return nil, err
	}

	return Load(fsys, dir)
}
