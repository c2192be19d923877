package cmd

import (
	"fmt"

	"github.com/gabe/bossbar/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "bossbar version %s\n", version.Version)
		fmt.Fprintf(out, "  commit: %s\n", version.GitCommit)
		fmt.Fprintf(out, "  built:  %s\n", version.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
