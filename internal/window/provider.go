// Package window provides the time-window view over a user's account
// and transaction history that every detector consumes.
package window

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/finsona-dev/finsona/internal/model"
)

// Store is the storage collaborator. Records are pre-validated
// upstream; this core does not re-check record structure.
type Store interface {
	ListAccounts(userID string) ([]model.Account, error)
	ListTransactions(userID string) ([]model.Transaction, error)
}

// ErrInvalidWindow marks caller-contract violations on window parameters.
var ErrInvalidWindow = errors.New("invalid window")

// Snapshot is the filtered view for one (user, reference, days) triple.
// Empty Transactions means the data is unavailable for the window, not
// that activity was zero.
type Snapshot struct {
	Window       model.TimeWindow
	Accounts     []model.Account
	Transactions []model.Transaction

	// Complete is true only when the earliest known transaction
	// predates the window start, i.e. the window is fully covered
	// by history rather than truncated by it.
	Complete bool

	// EarliestKnown is the earliest transaction date across the full
	// history, zero when the user has no transactions at all.
	EarliestKnown time.Time
}

// Provider filters full user history down to a time window. Pure:
// identical inputs yield identical snapshots, so callers may cache
// per (userID, reference, days).
type Provider struct {
	store Store
}

// NewProvider creates a Provider over the given store.
func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

// GetWindow returns the user's accounts and in-window transactions plus
// completeness metadata. The interval is start-exclusive and
// reference-inclusive; transactions after the reference date are never
// included.
func (p *Provider) GetWindow(userID string, reference time.Time, days int) (*Snapshot, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: window length %d must be positive", ErrInvalidWindow, days)
	}
	if reference.IsZero() {
		return nil, fmt.Errorf("%w: reference date is zero", ErrInvalidWindow)
	}

	accounts, err := p.store.ListAccounts(userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts for %s: %w", userID, err)
	}
	history, err := p.store.ListTransactions(userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions for %s: %w", userID, err)
	}

	w := model.NewTimeWindow(reference, days)
	snap := &Snapshot{Window: w, Accounts: accounts}

	for _, tx := range history {
		if snap.EarliestKnown.IsZero() || tx.Date.Before(snap.EarliestKnown) {
			snap.EarliestKnown = tx.Date
		}
		if w.Contains(tx.Date) {
			snap.Transactions = append(snap.Transactions, tx)
		}
	}

	// Stable order regardless of how the store interleaves accounts.
	sort.SliceStable(snap.Transactions, func(i, j int) bool {
		return snap.Transactions[i].Date.Before(snap.Transactions[j].Date)
	})

	snap.Complete = !snap.EarliestKnown.IsZero() && snap.EarliestKnown.Before(w.Start())
	return snap, nil
}
