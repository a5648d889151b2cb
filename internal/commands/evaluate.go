package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/finsona-dev/finsona/internal/auditlog"
	"github.com/finsona-dev/finsona/internal/config"
	"github.com/finsona-dev/finsona/internal/engine"
	"github.com/finsona-dev/finsona/internal/registry"
	"github.com/finsona-dev/finsona/internal/signal"
	"github.com/finsona-dev/finsona/internal/store"
)

func newEvaluateCommand() *cobra.Command {
	var (
		userID     string
		dateStr    string
		windowDays int
		workDir    string
		externals  []string
		noLog      bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Classify a user's financial persona",
		Long: `Evaluate runs the signal detectors over the user's transaction
history, matches every registered persona, and prints the full decision
record as JSON. The decision is appended to logs/decisions.csv unless
--no-log is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("parsing --date: %w", err)
			}

			external, err := parseExternalSignals(externals)
			if err != nil {
				return err
			}

			absDir, err := filepath.Abs(workDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runEvaluate(cmd, absDir, userID, reference, windowDays, external, !noLog)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to evaluate (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&dateStr, "date", time.Now().UTC().Format("2006-01-02"), "reference date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&windowDays, "window", 180, "window length in days (30 or 180)")
	cmd.Flags().StringVar(&workDir, "dir", ".", "workspace directory containing finsona.yaml")
	cmd.Flags().StringArrayVar(&externals, "signal", nil, "external signal as name=value (repeatable)")
	cmd.Flags().BoolVar(&noLog, "no-log", false, "skip appending to the decision log")

	return cmd
}

func runEvaluate(cmd *cobra.Command, dir, userID string, reference time.Time, windowDays int, external signal.Map, logDecision bool) error {
	cfg, err := config.Load(filepath.Join(dir, "finsona.yaml"))
	if err != nil {
		return err
	}

	reg, err := registry.Load(filepath.Join(dir, cfg.Registry))
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)
	st := store.NewCSVStore(filepath.Join(dir, cfg.DataDir))
	eng := engine.New(st, reg, cfg.Detect(), log)

	record, err := eng.Evaluate(userID, reference, windowDays, external)
	if err != nil {
		return err
	}

	out, err := record.MarshalIndent()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if logDecision {
		a := record.Assignment
		priority := 0
		if a.Priority != nil {
			priority = *a.Priority
		}
		entry := auditlog.Entry{
			Timestamp:       a.AssignedAt,
			RunRef:          record.RunRef,
			UserID:          userID,
			PersonaID:       a.PersonaID,
			Priority:        priority,
			QualifyingCount: len(a.Qualifying),
			Reason:          a.Reason,
			RegistryVersion: record.RegistryVersion,
		}
		if err := auditlog.Append(dir, []auditlog.Entry{entry}); err != nil {
			return fmt.Errorf("recording decision: %w", err)
		}
	}

	return nil
}

// parseExternalSignals converts name=value flags into signal values:
// booleans and numbers are detected, anything else is categorical.
func parseExternalSignals(pairs []string) (signal.Map, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(signal.Map, len(pairs))
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid --signal %q: want name=value", pair)
		}

		switch {
		case raw == "true" || raw == "false":
			out[name] = signal.Bool(raw == "true")
		default:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				out[name] = signal.Number(f)
			} else {
				out[name] = signal.Category(raw)
			}
		}
	}
	return out, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
