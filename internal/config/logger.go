package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Build returns the configured zap logger for the session. Level "none"
// yields a nop logger; otherwise log lines go to the configured file, or a
// file under the user config dir when none is set.
func (lc LoggingConfig) Build() (*zap.Logger, error) {
	var level zapcore.Level
	switch lc.Level {
	case "debug":
		level = zap.DebugLevel
	case "normal":
		level = zap.InfoLevel
	default:
		return zap.NewNop(), nil
	}

	dest := lc.File
	if dest == "" {
		dir, err := userConfigDir()
		if err != nil {
			return nil, err
		}
		dest = filepath.Join(dir, appName, appName+".log")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log destination %s: %w", dest, err)
	}

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller()).Named(appName), nil
}
