// Package logging provides structured logging for the coma2punto commands
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger wraps zap.Logger with run-scoped helpers
type Logger struct {
	*zap.Logger
}

// Config holds logging configuration
type Config struct {
	Level       string `yaml:"level" json:"level"`
	Format      string `yaml:"format" json:"format"` // "json" or "console"
	OutputPath  string `yaml:"output_path" json:"output_path"`
	Development bool   `yaml:"development" json:"development"`
}

// NewLogger creates a new structured logger
func NewLogger(config Config) (*Logger, error) {
	var zapConfig zap.Config

	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	// Set log level
	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	// Set output format
	if config.Format == "json" {
		zapConfig.Encoding = "json"
	} else {
		zapConfig.Encoding = "console"
	}

	// Logs go to stderr unless redirected; stdout belongs to command output.
	zapConfig.OutputPaths = []string{"stderr"}
	if config.OutputPath != "" {
		zapConfig.OutputPaths = []string{config.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// NewDefaultLogger creates a logger with sensible defaults
func NewDefaultLogger() *Logger {
	logger, err := NewLogger(Config{Level: "info", Format: "console"})
	if err != nil {
		// Fallback to basic logger
		zapLogger, _ := zap.NewProduction()
		return &Logger{Logger: zapLogger}
	}
	return logger
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Wrap adapts an existing zap logger.
func Wrap(l *zap.Logger) *Logger {
	return &Logger{Logger: l}
}

// WithField adds a field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Logger: l.Logger.With(zap.Any(key, value))}
}

// WithRunID tags every entry with a fresh run_id and returns the id.
func (l *Logger) WithRunID() (*Logger, string) {
	id := uuid.NewString()
	return &Logger{Logger: l.Logger.With(zap.String("run_id", id))}, id
}

// LogFileEvent logs an action performed on a file
func (l *Logger) LogFileEvent(event, path string, fields ...zap.Field) {
	l.Info("File event", append([]zap.Field{
		zap.String("event", event),
		zap.String("path", path),
	}, fields...)...)
}
