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
	path := filepath.Join(t.TempDir(), "icalfmt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
max_depth: 8
product_id: "-//Example//Test//EN"
log_level: debug
simple_errors: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		MaxDepth:     8,
		ProductID:    "-//Example//Test//EN",
		LogLevel:     "debug",
		SimpleErrors: true,
	}, cfg)
}

func TestLoadPartial(t *testing.T) {
	path := writeConfig(t, "max_depth: -3\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, defaultProductID, cfg.ProductID)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "max_depth: [1, 2\n"))
	assert.Error(t, err)
}
