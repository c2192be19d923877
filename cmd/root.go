package cmd

import (
	"github.com/gabe/bossbar/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "bossbar",
	Short: "Bossbar - boss health bars for Brickadia minigames",
	Long: `An Omegga plugin that tracks the boss of every minigame with a boss team
and shows its health to the minigame's players.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		if !cmd.Flags().Changed("config") {
			configPath = config.PathFromEnv(config.DefaultPath)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "config file (TOML, or YAML by extension)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level and mirror logs to stderr")
}

func Execute() error {
	return rootCmd.Execute()
}
