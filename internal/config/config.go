// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fquilmes/coma2punto/internal/logging"
)

type Config struct {
	Profiler ProfilerConfig `yaml:"profiler"`
	Annex    AnnexConfig    `yaml:"annex"`
	Logging  logging.Config `yaml:"logging"`
}

// ---- PROFILER ----

type ProfilerConfig struct {
	// Folder the normalized copies are written to. It is also where the
	// first file dialog opens.
	ShareDir   string          `yaml:"share_dir"`
	DateLayout string          `yaml:"date_layout"` // Go time layout
	Machines   []MachineConfig `yaml:"machines"`
	Extensions []string        `yaml:"extensions"`
}

type MachineConfig struct {
	Name       string   `yaml:"name"`
	ArchiveDir string   `yaml:"archive_dir"`
	Options    []string `yaml:"options"`
}

// Machine returns the machine with the given name.
func (p ProfilerConfig) Machine(name string) (MachineConfig, bool) {
	for _, m := range p.Machines {
		if m.Name == name {
			return m, true
		}
	}
	return MachineConfig{}, false
}

// MachineNames returns the machine names in configuration order.
func (p ProfilerConfig) MachineNames() []string {
	names := make([]string, len(p.Machines))
	for i, m := range p.Machines {
		names[i] = m.Name
	}
	return names
}

// ---- ANNEX ----

type AnnexConfig struct {
	PayloadPath string `yaml:"payload_path"`
	Suffix      string `yaml:"suffix"`
}

// Load reads a YAML configuration file. Defaults are applied to fields
// left empty; the result is not validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
