package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finsona-dev/finsona/internal/registry"
)

func newRegistryCommand() *cobra.Command {
	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "Persona registry operations",
	}
	registryCmd.AddCommand(newRegistryValidateCommand())
	registryCmd.AddCommand(newRegistryShowCommand())
	return registryCmd
}

func newRegistryValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a persona registry file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			reg, err := registry.Load(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d personas, version %d\n", reg.Len(), reg.Version())
			return nil
		},
	}
}

func newRegistryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Show registered personas in priority order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			reg, err := registry.Load(path)
			if err != nil {
				return err
			}

			for _, p := range reg.Personas() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %-24s %s\n", p.Priority, p.ID, registry.Describe(p.Criteria))
			}
			return nil
		},
	}
}
