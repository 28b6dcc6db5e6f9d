// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coma2punto.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, DefaultShareDir, cfg.Profiler.ShareDir)
	assert.Equal(t, "02_01_2006", cfg.Profiler.DateLayout)
	assert.Equal(t, []string{"Equipo 1", "Equipo 2"}, cfg.Profiler.MachineNames())
	assert.Equal(t, []string{".txt"}, cfg.Profiler.Extensions)
	assert.Equal(t, "_private.dcm", cfg.Annex.Suffix)
	assert.Equal(t, DefaultPayloadName, filepath.Base(cfg.Annex.PayloadPath))

	m, ok := cfg.Profiler.Machine("Equipo 2")
	require.True(t, ok)
	assert.Len(t, m.Options, 7)
	assert.Equal(t, filepath.Join(".", "Equipo 2 Subidos a QAT", "Originales"), m.ArchiveDir)

	_, ok = cfg.Profiler.Machine("Equipo 3")
	assert.False(t, ok)
}

func TestDefaultDoesNotShareMachines(t *testing.T) {
	cfg := Default()
	cfg.Profiler.Machines[0].Options[0] = "changed"
	assert.Equal(t, "PyS X06", DefaultMachines[0].Options[0])
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
profiler:
  share_dir: /srv/profiler
  machines:
    - name: Equipo 1
      archive_dir: /srv/profiler/eq1
      options: [PyS X06]
    - name: Equipo 3
      options: [EDW X10, PyS X10]
annex:
  payload_path: /opt/annex.bin
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "/srv/profiler", cfg.Profiler.ShareDir)
	assert.Equal(t, DefaultDateLayout, cfg.Profiler.DateLayout)
	require.Len(t, cfg.Profiler.Machines, 2)
	assert.Equal(t, "/srv/profiler/eq1", cfg.Profiler.Machines[0].ArchiveDir)
	assert.Equal(t, filepath.Join("/srv/profiler", "Equipo 3 Subidos a QAT", "Originales"), cfg.Profiler.Machines[1].ArchiveDir)
	assert.Equal(t, "/opt/annex.bin", cfg.Annex.PayloadPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "profiler: [not, a, map]"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no share dir", func(c *Config) { c.Profiler.ShareDir = "" }},
		{"constant date layout", func(c *Config) { c.Profiler.DateLayout = "fecha" }},
		{"slashes in date", func(c *Config) { c.Profiler.DateLayout = "02/01/2006" }},
		{"no machines", func(c *Config) { c.Profiler.Machines = nil }},
		{"unnamed machine", func(c *Config) { c.Profiler.Machines[0].Name = "" }},
		{"duplicate machine", func(c *Config) { c.Profiler.Machines[1].Name = c.Profiler.Machines[0].Name }},
		{"no archive dir", func(c *Config) { c.Profiler.Machines[0].ArchiveDir = "" }},
		{"no options", func(c *Config) { c.Profiler.Machines[0].Options = nil }},
		{"empty option", func(c *Config) { c.Profiler.Machines[0].Options[0] = "" }},
		{"duplicate option", func(c *Config) { c.Profiler.Machines[0].Options[1] = c.Profiler.Machines[0].Options[0] }},
		{"bad extension", func(c *Config) { c.Profiler.Extensions = []string{"txt"} }},
		{"no payload", func(c *Config) { c.Annex.PayloadPath = "" }},
		{"no suffix", func(c *Config) { c.Annex.Suffix = "" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
