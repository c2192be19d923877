package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bossbar.toml")
	configContent := `
boss-team-names = [" Boss ", "Raid Boss"]
interval = 500
health-bar-size = 30
announce-timeout = 60
announce-health-change = 0.25
announce-require-time-and-health-change = true

[status]
listen = ":8089"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Interval)
	assert.Equal(t, 30, cfg.HealthBarSize)
	assert.Equal(t, 60.0, cfg.AnnounceTimeout)
	assert.Equal(t, 0.25, cfg.AnnounceHealthChange)
	assert.True(t, cfg.RequireBoth)
	assert.Equal(t, ":8089", cfg.Status.Listen)
	assert.Equal(t, []string{"boss", "raid boss"}, cfg.BossTeams())

	// untouched keys keep their defaults
	assert.Equal(t, 100, cfg.QueryTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bossbar.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(""), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Interval)
	assert.Equal(t, 20, cfg.HealthBarSize)
	assert.Equal(t, []string{"boss"}, cfg.BossTeams())
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bossbar.yaml")
	content := "boss-team-names: [Titan]\nmiddle-print: true\nhealth-bar-size: 12\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"titan"}, cfg.BossTeams())
	assert.True(t, cfg.MiddlePrint)
	assert.Equal(t, 12, cfg.HealthBarSize)
	assert.Equal(t, 1000, cfg.Interval)
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bossbar.toml")

	cfg, err := LoadOrCreate(configPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	reloaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"blank team names", func(c *Config) { c.BossTeamNames = []string{"  ", ""} }, false},
		{"zero interval", func(c *Config) { c.Interval = 0 }, false},
		{"zero bar", func(c *Config) { c.HealthBarSize = 0 }, false},
		{"negative timeout", func(c *Config) { c.AnnounceTimeout = -1 }, false},
		{"health change above one", func(c *Config) { c.AnnounceHealthChange = 1.5 }, false},
		{"health change of one", func(c *Config) { c.AnnounceHealthChange = 1 }, true},
		{"zero query timeout", func(c *Config) { c.QueryTimeout = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnnounceTimeout = 1.5
	cfg.AnnounceHealthChange = 0.2
	cfg.RequireBoth = true

	p := cfg.Policy()
	assert.Equal(t, 1500*time.Millisecond, p.Timeout)
	assert.Equal(t, 0.2, p.HealthChange)
	assert.True(t, p.RequireBoth)
}

func TestApplyJSON(t *testing.T) {
	cfg := DefaultConfig()
	raw := json.RawMessage(`{"boss-team-names":["Dragon"],"middle-print":true}`)

	require.NoError(t, cfg.ApplyJSON(raw))
	assert.Equal(t, []string{"dragon"}, cfg.BossTeams())
	assert.True(t, cfg.MiddlePrint)
	assert.Equal(t, 1000, cfg.Interval)

	require.NoError(t, cfg.ApplyJSON(nil))
	require.NoError(t, cfg.ApplyJSON(json.RawMessage("null")))
	assert.Error(t, cfg.ApplyJSON(json.RawMessage(`{"interval":"fast"}`)))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BOSSBAR_BOSS_TEAM_NAMES", "Boss,Titan")
	t.Setenv("BOSSBAR_INTERVAL", "250")
	t.Setenv("BOSSBAR_STATUS_LISTEN", "127.0.0.1:9000")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, []string{"boss", "titan"}, cfg.BossTeams())
	assert.Equal(t, 250, cfg.Interval)
	assert.Equal(t, "127.0.0.1:9000", cfg.Status.Listen)

	t.Setenv("BOSSBAR_INTERVAL", "soon")
	assert.Error(t, cfg.ApplyEnv())
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("BOSSBAR_CONFIG", "")
	assert.Equal(t, DefaultPath, PathFromEnv(DefaultPath))

	t.Setenv("BOSSBAR_CONFIG", "/etc/bossbar.yaml")
	assert.Equal(t, "/etc/bossbar.yaml", PathFromEnv(DefaultPath))
}
