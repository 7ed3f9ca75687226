package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ba0f3/leafstat/internal/percentile"
)

var CurrentIndexName = "index"

// ErrInvalid marks a config value that failed validation.
var ErrInvalid = errors.New("invalid config")

// Defaults matching the layout the index builder writes.
const (
	DefaultLeavesDir   = "index/leaves"
	DefaultPattern     = "*"
	DefaultNGramLength = 3
)

// Default returns a config populated with repository defaults.
func Default() *Config {
	return &Config{
		LeavesDir:   DefaultLeavesDir,
		Pattern:     DefaultPattern,
		Overflow:    percentile.OverflowClamp.String(),
		NGramLength: DefaultNGramLength,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

func GetConfigDir() (string, error) {
	if dir := os.Getenv("LEAFSTAT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "leafstat"), nil
}

// GetConfigFilePath returns the YAML path for the current index. SaveConfig
// always writes here.
func GetConfigFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s.yml", CurrentIndexName)), nil
}

func getTOMLFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s.toml", CurrentIndexName)), nil
}

func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// LoadConfig reads <index>.yml, falling back to <index>.toml. Missing files
// yield defaults; fields absent from the file keep their defaults.
func LoadConfig() (*Config, error) {
	cfg := Default()

	path, err := GetConfigFilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return cfg, cfg.Validate()
	case !os.IsNotExist(err):
		return nil, err
	}

	tomlPath, err := getTOMLFilePath()
	if err != nil {
		return nil, err
	}
	data, err = os.ReadFile(tomlPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", tomlPath, err)
	}
	return cfg, cfg.Validate()
}

func SaveConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := GetConfigFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	if _, err := percentile.ParseOverflow(c.Overflow); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.NGramLength <= 0 {
		return fmt.Errorf("%w: ngram_length must be positive, got %d", ErrInvalid, c.NGramLength)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "text", "console", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalid, c.LogFormat)
	}
	if strings.TrimSpace(c.Pattern) == "" {
		return fmt.Errorf("%w: pattern is empty", ErrInvalid)
	}
	return nil
}

// OverflowPolicy returns the parsed overflow setting.
func (c *Config) OverflowPolicy() percentile.Overflow {
	o, _ := percentile.ParseOverflow(c.Overflow)
	return o
}
