package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finsona-dev/finsona/internal/config"
	"github.com/finsona-dev/finsona/internal/store"
)

// samplePersonas is the starter registry written by init. Rank 1 is
// the most urgent archetype.
const samplePersonas = `version: 1
personas:
  - id: high_utilization
    name: High Credit Utilization
    priority: 1
    criteria:
      signal: credit_max_utilization_pct
      op: ">"
      value: 70
  - id: paycheck_to_paycheck
    name: Paycheck to Paycheck
    priority: 2
    criteria:
      all:
        - signal: has_regular_income
          op: "=="
          value: true
        - signal: cash_flow_buffer_months
          op: "<"
          value: 1
  - id: subscription_heavy
    name: Subscription Heavy
    priority: 3
    criteria:
      signal: subscription_share
      op: ">"
      value: 0.25
  - id: consistent_saver
    name: Consistent Saver
    priority: 4
    criteria:
      all:
        - signal: has_savings_accounts
          op: "=="
          value: true
        - signal: savings_growth_rate
          op: ">="
          value: 0.05
`

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finsona workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir)
		},
	}

	return cmd
}

func runInit(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}

	cfg := config.Default()
	if err := config.Save(filepath.Join(dir, "finsona.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := store.Init(filepath.Join(dir, cfg.DataDir)); err != nil {
		return fmt.Errorf("writing data files: %w", err)
	}

	registryPath := filepath.Join(dir, cfg.Registry)
	if _, err := os.Stat(registryPath); os.IsNotExist(err) {
		if err := os.WriteFile(registryPath, []byte(samplePersonas), 0o644); err != nil {
			return fmt.Errorf("writing persona registry: %w", err)
		}
	}

	fmt.Printf("Initialized finsona workspace in %s\n", dir)
	return nil
}
