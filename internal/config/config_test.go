package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ba0f3/leafstat/internal/percentile"
)

func TestLoadSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LEAFSTAT_CONFIG_DIR", tmpDir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultLeavesDir, cfg.LeavesDir)
	assert.Equal(t, 3, cfg.NGramLength)

	cfg.LeavesDir = "/srv/index/leaves"
	cfg.Overflow = "keep"
	cfg.Pattern = "*.json"
	require.NoError(t, SaveConfig(cfg))

	path, err := GetConfigFilePath()
	require.NoError(t, err)
	assert.FileExists(t, path)

	cfg2, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/index/leaves", cfg2.LeavesDir)
	assert.Equal(t, percentile.OverflowKeep, cfg2.OverflowPolicy())
	assert.Equal(t, "*.json", cfg2.Pattern)
}

func TestLoadTOMLConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LEAFSTAT_CONFIG_DIR", tmpDir)

	data := "leaves_dir = \"/data/leaves\"\nngram_length = 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "index.toml"), []byte(data), 0644))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/data/leaves", cfg.LeavesDir)
	assert.Equal(t, 4, cfg.NGramLength)
	assert.Equal(t, DefaultPattern, cfg.Pattern)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"overflow":     func(c *Config) { c.Overflow = "wrap" },
		"ngram length": func(c *Config) { c.NGramLength = 0 },
		"log format":   func(c *Config) { c.LogFormat = "xml" },
		"pattern":      func(c *Config) { c.Pattern = " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
	assert.NoError(t, Default().Validate())
}
