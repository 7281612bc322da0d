package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadExplicitFile(t *testing.T) {
	path := writeConfig(t, `
max_text_width: 100
history_path: /tmp/lectern-test/history.db
logging:
  level: debug
  file: /tmp/lectern-test/app.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.MaxTextWidth)
	assert.Equal(t, "/tmp/lectern-test/history.db", cfg.HistoryPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/lectern-test/app.log", cfg.Logging.File)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxTextWidth, cfg.MaxTextWidth)
	assert.Equal(t, "none", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.HistoryPath)
	assert.Equal(t, "history.db", filepath.Base(cfg.HistoryPath))
}

func TestLoadClampsNarrowWidth(t *testing.T) {
	cfg, err := Load(writeConfig(t, "max_text_width: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTextWidth, cfg.MaxTextWidth)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err, "an explicitly named config file must exist")
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "max_text_width: [not an int\n"))
	assert.Error(t, err)
}

func TestBuildNopLogger(t *testing.T) {
	log, err := LoggingConfig{Level: "none"}.Build()
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestBuildFileLogger(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := LoggingConfig{Level: "debug", File: dest}.Build()
	require.NoError(t, err)

	log.Debug("hello")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
