package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabe/bossbar/internal/config"
	"github.com/gabe/bossbar/internal/logging"
	"github.com/gabe/bossbar/internal/plugin"
	"github.com/spf13/cobra"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Run as an Omegga plugin on stdio",
	Long: `Serve the Omegga JSON-RPC plugin protocol on stdin and stdout.
Stdout belongs to the protocol, so logs go to the configured log file
(and stderr with --debug).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, closeLog, err := logging.New(cfg.Logging.Level, cfg.Logging.File, debug)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Infow("starting plugin", "config", configPath)
		if err := plugin.Run(ctx, cfg, os.Stdin, os.Stdout, logger); err != nil {
			logger.Errorw("plugin exited", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pluginCmd)
}

// loadConfig reads the config file, creating it with defaults when missing,
// and applies environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}
