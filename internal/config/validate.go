// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	p := cfg.Profiler
	if p.ShareDir == "" {
		return fmt.Errorf("profiler: share_dir is required")
	}

	// date_layout must produce a file-name safe, non-constant string
	ref := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	formatted := ref.Format(p.DateLayout)
	if formatted == p.DateLayout {
		return fmt.Errorf("profiler: date_layout %q has no date fields", p.DateLayout)
	}
	if strings.ContainsAny(formatted, `/\:*?"<>|`) {
		return fmt.Errorf("profiler: date_layout %q yields characters invalid in file names", p.DateLayout)
	}

	if len(p.Machines) == 0 {
		return fmt.Errorf("profiler: at least one machine is required")
	}
	seen := make(map[string]bool)
	for _, m := range p.Machines {
		if m.Name == "" {
			return fmt.Errorf("profiler: machine without name")
		}
		if seen[m.Name] {
			return fmt.Errorf("profiler: duplicate machine %q", m.Name)
		}
		seen[m.Name] = true

		if m.ArchiveDir == "" {
			return fmt.Errorf("machine %q: archive_dir is required", m.Name)
		}
		if len(m.Options) == 0 {
			return fmt.Errorf("machine %q: no options", m.Name)
		}
		opts := make(map[string]bool)
		for _, o := range m.Options {
			if o == "" {
				return fmt.Errorf("machine %q: empty option", m.Name)
			}
			if opts[o] {
				return fmt.Errorf("machine %q: duplicate option %q", m.Name, o)
			}
			opts[o] = true
		}
	}

	for _, ext := range p.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("profiler: extension %q must start with '.'", ext)
		}
	}

	if cfg.Annex.PayloadPath == "" {
		return fmt.Errorf("annex: payload_path is required")
	}
	if cfg.Annex.Suffix == "" {
		return fmt.Errorf("annex: suffix is required")
	}

	switch cfg.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging: unknown format %q", cfg.Logging.Format)
	}
	return nil
}
