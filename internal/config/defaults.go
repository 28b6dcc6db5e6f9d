// internal/config/defaults.go
package config

import (
	"os"
	"path/filepath"

	"github.com/fquilmes/coma2punto/annex"
)

const (
	DefaultShareDir    = "."
	DefaultDateLayout  = "02_01_2006" // DD_MM_YYYY
	DefaultPayloadName = "annex.bin"
)

// DefaultMachines are the linacs and profiler exports of the department.
var DefaultMachines = []MachineConfig{
	{Name: "Equipo 1", Options: []string{"PyS X06", "EDW X06"}},
	{Name: "Equipo 2", Options: []string{"PyS X06", "EDW X06", "PyS X15", "EDW X15", "PyS E06", "PyS E09", "PyS E12"}},
}

// ApplyDefaults fills empty fields. It is allowed to mutate configuration.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ---- profiler ----
	p := &cfg.Profiler
	if p.ShareDir == "" {
		p.ShareDir = DefaultShareDir
	}
	if p.DateLayout == "" {
		p.DateLayout = DefaultDateLayout
	}
	if len(p.Machines) == 0 {
		p.Machines = make([]MachineConfig, len(DefaultMachines))
		for i, m := range DefaultMachines {
			p.Machines[i] = MachineConfig{
				Name:    m.Name,
				Options: append([]string(nil), m.Options...),
			}
		}
	}
	for i := range p.Machines {
		m := &p.Machines[i]
		if m.ArchiveDir == "" {
			m.ArchiveDir = filepath.Join(p.ShareDir, m.Name+" Subidos a QAT", "Originales")
		}
	}
	if len(p.Extensions) == 0 {
		p.Extensions = []string{".txt"}
	}

	// ---- annex ----
	if cfg.Annex.PayloadPath == "" {
		cfg.Annex.PayloadPath = DefaultPayloadName
		if exe, err := os.Executable(); err == nil {
			cfg.Annex.PayloadPath = filepath.Join(filepath.Dir(exe), DefaultPayloadName)
		}
	}
	if cfg.Annex.Suffix == "" {
		cfg.Annex.Suffix = annex.DefaultSuffix
	}

	// ---- logging ----
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
