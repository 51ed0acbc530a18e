package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/netsweep/netsweep/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".netsweep"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .netsweep configuration file.
// The file supplies defaults for options that rarely change between
// runs; CLI flags always win over file values.
type File struct {
	// Interface is the default network interface to bind masscan to.
	Interface string `yaml:"interface,omitempty"`

	// OutputType is the default enumeration output format.
	OutputType model.OutputFormat `yaml:"outputType,omitempty"`

	// Rate is the default masscan packet rate in packets per second.
	Rate int `yaml:"rate,omitempty"`

	// Workers is the default enumeration worker count.
	Workers int `yaml:"workers,omitempty"`

	// Dir is the default base directory for per-host output.
	Dir string `yaml:"dir,omitempty"`

	// SaveHistory controls whether runs are saved to the history
	// database. Nil means keep the built-in default (enabled).
	SaveHistory *bool `yaml:"saveHistory,omitempty"`
}

// LoadConfigFile loads run defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers
// decide whether that is fatal based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply overlays file values onto the config, leaving any option the
// file does not set untouched. Flags are applied after the file, so
// explicit flags still override.
func (cf *File) Apply(c *Config) {
	if cf.Interface != "" && c.Interface == "" {
		c.Interface = cf.Interface
	}
	if cf.OutputType != "" && c.OutputFormat == "" {
		c.OutputFormat = cf.OutputType
	}
	if cf.Rate > 0 {
		c.Rate = cf.Rate
	}
	if cf.Workers > 0 {
		c.Workers = cf.Workers
	}
	if cf.Dir != "" && c.BaseDir == "" {
		c.BaseDir = cf.Dir
	}
	if cf.SaveHistory != nil {
		c.SaveToDB = *cf.SaveHistory
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .netsweep in the current directory
// 3. Look for .netsweep in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
