package cli

import (
	"github.com/spf13/cobra"
)

// createRootCommand creates the root command with global flags
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docktop",
		Short: "Terminal dashboard core for a local container engine",
		Long: `docktop monitors and controls containers through a local
Docker-compatible engine daemon. It keeps a live container listing, streams
logs and stats for the focused container, and runs lifecycle commands
(start, stop, create, build, compose up, cleanup) on a serialized worker.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to showing help if no subcommand
			return cmd.Help()
		},
	}

	return rootCmd
}
