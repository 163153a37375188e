package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "data", config.Storage.Path)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NotNil(t, config.Tokens)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
environment = "production"

[server]
port = 9090

[logging]
level = "debug"

[tokens]
"So11111111111111111111111111111111111111112" = "SOL"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "debug", config.Logging.Level)
	// Unset fields keep their defaults.
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "SOL", config.Tokens["So11111111111111111111111111111111111111112"])
}

func TestLoadConfig_MissingFileIsSkipped(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CHAINFOLIO_ENV", "production")
	t.Setenv("CHAINFOLIO_PORT", "7777")
	t.Setenv("CHAINFOLIO_LOG_LEVEL", "warn")
	t.Setenv("CHAINFOLIO_DATA_PATH", "/tmp/chainfolio")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 7777, config.Server.Port)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, "/tmp/chainfolio", config.Storage.Path)
}

func TestIsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"production", true},
		{"prod", true},
		{"Production ", true},
		{"development", false},
		{"", false},
	}
	for _, tt := range tests {
		c := &Config{Environment: tt.env}
		assert.Equal(t, tt.want, c.IsProduction(), tt.env)
	}
}
