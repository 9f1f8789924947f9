// Package logger builds the file-backed zap logger. The TUI owns the
// terminal, so logs never go to stdout.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a JSON logger appending to the file at path. When the file
// cannot be opened (read-only home, missing directory) a nop logger is
// returned so the application still runs.
func New(path, level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = zapcore.InfoLevel
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zap.NewNop()
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(f),
		lvl,
	)
	return zap.New(core)
}

// DefaultPath returns ~/.config/invoice-db-visualizer/idv.log.
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "invoice-db-visualizer", "idv.log"), nil
}
