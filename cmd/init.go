package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/gabe/bossbar/internal/config"
	"github.com/spf13/cobra"
)

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7fd88f"))

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long:  `Write the default configuration to the config path unless a file already exists there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, leaving it alone\n", configPath)
			return nil
		}
		if _, err := config.LoadOrCreate(configPath); err != nil {
			return fmt.Errorf("failed to write %s: %w", configPath, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("wrote "+configPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
