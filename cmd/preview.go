package cmd

import (
	"github.com/gabe/bossbar/internal/preview"
	"github.com/spf13/cobra"
)

var watchConfig bool

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview the health bar in the terminal",
	Long:  `Render the boss health display under the current config. Arrow keys change the sample health.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		watchPath := ""
		if watchConfig {
			watchPath = configPath
		}
		return preview.Run(cmd.Context(), cfg, watchPath)
	},
}

func init() {
	previewCmd.Flags().BoolVarP(&watchConfig, "watch", "w", false, "reload the config file when it changes")
	rootCmd.AddCommand(previewCmd)
}
