package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor BOSSBAR_CONFIG is set.
const DefaultPath = "bossbar.toml"

// Load reads config from path, applying defaults for missing values.
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return cfg, nil
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrCreate loads config or creates default if missing
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		return cfg, Save(path, cfg)
	}
	return Load(path)
}

// Save writes config to path
func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if isYAML(path) {
		encoder := yaml.NewEncoder(f)
		defer encoder.Close()
		return encoder.Encode(cfg)
	}

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// LoadDotEnv loads a .env file from the working directory when one exists.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

// PathFromEnv returns BOSSBAR_CONFIG when set, otherwise fallback.
func PathFromEnv(fallback string) string {
	if p := os.Getenv("BOSSBAR_CONFIG"); p != "" {
		return p
	}
	return fallback
}

// ApplyEnv overrides settings from BOSSBAR_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("BOSSBAR_BOSS_TEAM_NAMES"); ok {
		c.BossTeamNames = strings.Split(v, ",")
	}
	if v, ok := os.LookupEnv("BOSSBAR_INTERVAL"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BOSSBAR_INTERVAL: %w", err)
		}
		c.Interval = n
	}
	if v, ok := os.LookupEnv("BOSSBAR_STATUS_LISTEN"); ok {
		c.Status.Listen = v
	}
	if v, ok := os.LookupEnv("BOSSBAR_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv("BOSSBAR_LOG_FILE"); ok {
		c.Logging.File = v
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
