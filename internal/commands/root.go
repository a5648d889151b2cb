package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsona-dev/finsona/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "finsona",
		Short:   "Deterministic financial persona classification",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newEvaluateCommand())
	rootCmd.AddCommand(newRegistryCommand())

	return rootCmd
}
