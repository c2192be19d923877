package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gabe/bossbar/internal/tracker"
)

// Config holds the plugin configuration. Keys match the option names the
// plugin host passes in its init request, so the same struct decodes from
// TOML, YAML and JSON.
type Config struct {
	BossTeamNames        []string `toml:"boss-team-names" yaml:"boss-team-names" json:"boss-team-names"`
	Interval             int      `toml:"interval" yaml:"interval" json:"interval"`
	HealthBarSize        int      `toml:"health-bar-size" yaml:"health-bar-size" json:"health-bar-size"`
	MiddlePrint          bool     `toml:"middle-print" yaml:"middle-print" json:"middle-print"`
	AnnounceTimeout      float64  `toml:"announce-timeout" yaml:"announce-timeout" json:"announce-timeout"`
	AnnounceHealthChange float64  `toml:"announce-health-change" yaml:"announce-health-change" json:"announce-health-change"`
	RequireBoth          bool     `toml:"announce-require-time-and-health-change" yaml:"announce-require-time-and-health-change" json:"announce-require-time-and-health-change"`
	QueryTimeout         int      `toml:"query-timeout" yaml:"query-timeout" json:"query-timeout"`

	Status  StatusConfig  `toml:"status" yaml:"status" json:"status"`
	Logging LoggingConfig `toml:"logging" yaml:"logging" json:"logging"`
}

type StatusConfig struct {
	Listen string `toml:"listen" yaml:"listen" json:"listen"`
}

type LoggingConfig struct {
	Level string `toml:"level" yaml:"level" json:"level"`
	File  string `toml:"file" yaml:"file" json:"file"`
}

// Validate reports the first setting the daemon cannot run with.
func (c *Config) Validate() error {
	if len(c.BossTeams()) == 0 {
		return fmt.Errorf("boss-team-names: at least one non-empty name is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval: must be positive, got %d", c.Interval)
	}
	if c.HealthBarSize <= 0 {
		return fmt.Errorf("health-bar-size: must be positive, got %d", c.HealthBarSize)
	}
	if c.AnnounceTimeout < 0 {
		return fmt.Errorf("announce-timeout: must not be negative, got %v", c.AnnounceTimeout)
	}
	if c.AnnounceHealthChange < 0 || c.AnnounceHealthChange > 1 {
		return fmt.Errorf("announce-health-change: must be within [0,1], got %v", c.AnnounceHealthChange)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query-timeout: must be positive, got %d", c.QueryTimeout)
	}
	return nil
}

// BossTeams returns the configured team names trimmed and lowercased, in
// configured order, with blanks and duplicates dropped.
func (c *Config) BossTeams() []string {
	seen := make(map[string]bool, len(c.BossTeamNames))
	var names []string
	for _, n := range c.BossTeamNames {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names
}

// Policy builds the announcement policy from the announce-* settings.
func (c *Config) Policy() tracker.Policy {
	return tracker.Policy{
		Timeout:      time.Duration(c.AnnounceTimeout * float64(time.Second)),
		HealthChange: c.AnnounceHealthChange,
		RequireBoth:  c.RequireBoth,
	}
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Interval) * time.Millisecond
}

func (c *Config) QueryTimeoutDuration() time.Duration {
	return time.Duration(c.QueryTimeout) * time.Millisecond
}

// ApplyJSON overlays the keys present in raw onto c. Keys missing from raw
// keep their current values.
func (c *Config) ApplyJSON(raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to apply host config: %w", err)
	}
	return nil
}
