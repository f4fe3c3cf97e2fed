package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`overrides:
  - overrides/extended.yaml
  - overrides/full.yaml
verification_date: "2026-02-14"
base_dir: /data
dry_run: true
format: yaml
`), 0o644))

	config, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"overrides/extended.yaml", "overrides/full.yaml"}, config.Overrides)
	assert.Equal(t, "2026-02-14", config.VerificationDate)
	assert.Equal(t, "/data", config.BaseDir)
	assert.True(t, config.DryRun)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, path, config.ConfigFile)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := loadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("CARDMAP_BASE_DIR", "/srv/cards")
	t.Setenv("CARDMAP_DRY_RUN", "true")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/srv/cards", config.BaseDir)
	assert.True(t, config.DryRun)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json", LogLevel: "info"}
	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "info", config.LogLevel)

	config.UpdateFromFlags(false, true, false, "table", "error")
	assert.Equal(t, "table", config.Format)
	assert.Equal(t, "error", config.LogLevel)
}
