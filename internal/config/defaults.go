package config

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BossTeamNames:        []string{"boss"},
		Interval:             1000,
		HealthBarSize:        20,
		MiddlePrint:          false,
		AnnounceTimeout:      10,
		AnnounceHealthChange: 0.1,
		RequireBoth:          false,
		QueryTimeout:         100,
		Status: StatusConfig{
			Listen: "",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "bossbar.log",
		},
	}
}
