package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRunID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger, id := Wrap(zap.New(core)).WithRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	logger.LogFileEvent("normalized", "/tmp/a.txt", zap.String("machine", "Equipo 1"))
	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, id, fields["run_id"])
	assert.Equal(t, "normalized", fields["event"])
	assert.Equal(t, "/tmp/a.txt", fields["path"])
	assert.Equal(t, "Equipo 1", fields["machine"])
}

func TestWithField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Wrap(zap.New(core)).WithField("command", "annex").Debug("start")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "annex", logs.All()[0].ContextMap()["command"])
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := NewLogger(Config{Level: "warn", Format: "json", OutputPath: path})
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept", zap.String("k", "v"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"kept"`)
	assert.Contains(t, lines[0], `"k":"v"`)
}

func TestNewLoggerBadLevel(t *testing.T) {
	logger, err := NewLogger(Config{Level: "loud"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewDefaultLogger(t *testing.T) {
	assert.NotNil(t, NewDefaultLogger())
	assert.NotNil(t, NewNop())
}
