// Package engine wires the persona pipeline together: time window →
// detectors → summary → matcher → prioritizer → recorder. One Evaluate
// call is a pure function of the injected store, the immutable
// registry, and the inputs; evaluations for different users share no
// state and may run concurrently.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finsona-dev/finsona/internal/assign"
	"github.com/finsona-dev/finsona/internal/detect"
	"github.com/finsona-dev/finsona/internal/id"
	"github.com/finsona-dev/finsona/internal/match"
	"github.com/finsona-dev/finsona/internal/registry"
	"github.com/finsona-dev/finsona/internal/signal"
	"github.com/finsona-dev/finsona/internal/summary"
	"github.com/finsona-dev/finsona/internal/window"
)

// Caller-contract violations. These are programming errors on the
// caller side; retrying cannot fix them.
var (
	ErrUnsupportedWindow   = errors.New("unsupported window length")
	ErrReferenceBeforeData = errors.New("reference date predates all known data")
)

// Engine evaluates users against a loaded persona registry.
type Engine struct {
	provider *window.Provider
	registry *registry.Registry
	cfg      detect.Config
	log      zerolog.Logger
	now      func() time.Time
}

// New creates an Engine over a storage collaborator and an immutable
// registry.
func New(store window.Store, reg *registry.Registry, cfg detect.Config, log zerolog.Logger) *Engine {
	return &Engine{
		provider: window.NewProvider(store),
		registry: reg,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the assignment timestamp source. Tests use this;
// the decision itself never depends on the clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Evaluate classifies one user over a trailing window ending at the
// reference date. External signals (e.g. credit utilization, computed
// by collaborators outside this core) are merged into the behavioral
// summary before matching. The returned record is the caller's to
// persist; nothing is stored here.
func (e *Engine) Evaluate(userID string, reference time.Time, windowDays int, external signal.Map) (*assign.Record, error) {
	if windowDays != 30 && windowDays != 180 {
		return nil, fmt.Errorf("%w: %d days (want 30 or 180)", ErrUnsupportedWindow, windowDays)
	}

	runID := uuid.NewString()
	log := e.log.With().
		Str("run_id", runID).
		Str("user_id", userID).
		Int("window_days", windowDays).
		Logger()

	snap, err := e.provider.GetWindow(userID, reference, windowDays)
	if err != nil {
		return nil, err
	}
	if !snap.EarliestKnown.IsZero() && reference.Before(snap.EarliestKnown) {
		return nil, fmt.Errorf("%w: reference %s, earliest transaction %s",
			ErrReferenceBeforeData,
			reference.Format("2006-01-02"), snap.EarliestKnown.Format("2006-01-02"))
	}

	// The subscription detector has its own lookback, independent of
	// the evaluation window.
	lookback, err := e.provider.GetWindow(userID, reference, e.cfg.SubscriptionLookbackDays)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("transactions", len(snap.Transactions)).
		Int("accounts", len(snap.Accounts)).
		Bool("window_complete", snap.Complete).
		Msg("window loaded")

	subs := detect.Subscriptions(lookback, e.cfg)
	savings := detect.Savings(snap)
	income := detect.Income(snap, e.cfg)

	behavioral, err := summary.Assemble(userID, snap.Window, snap.Complete, subs, savings, income, external)
	if err != nil {
		return nil, err
	}

	matches := match.Personas(behavioral.Signals, e.registry)
	assignment, err := assign.Prioritize(matches, e.now().UTC())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("persona", assignment.PersonaID).
		Int("qualifying", len(assignment.Qualifying)).
		Str("reason", assignment.Reason).
		Msg("evaluation complete")

	runRef := id.FormatRunRef(userID, reference, windowDays)
	return assign.NewRecord(runRef, e.registry.Version(), behavioral, matches, assignment), nil
}
