package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. A directory without a
// configuration file yields the defaults.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	return LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path))
}

// LoadFs loads the configuration from the root of configFs.
func LoadFs(configFs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		configContents = defaultConfigData
	case err != nil:
		return nil, err
	}

	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}
	out.configFs = configFs
	return &out, nil
}

// Initialize writes the default configuration into dir, creating it if
// needed. An existing configuration is never overwritten.
func Initialize(dir string, logger *log.Logger) error {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

// InitializeFs is Initialize on an arbitrary filesystem.
func InitializeFs(base afero.Fs, dir string, logger *log.Logger) error {
	logger.Printf("Initializing configuration in %q\n", dir)
	if err := base.MkdirAll(dir, 0700); err != nil {
		return err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := base.Stat(configPath); {
	case err == nil:
		return fmt.Errorf("%s already exists, not overwriting", configPath)
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	logger.Printf("Writing %q\n", configPath)
	return afero.WriteFile(base, configPath, defaultConfigData, 0600)
}

// WriteDefault writes the built-in configuration to w.
func WriteDefault(w io.Writer) error {
	_, err := w.Write(defaultConfigData)
	return err
}
