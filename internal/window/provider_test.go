package window

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsona-dev/finsona/internal/model"
)

type memStore struct {
	accounts     []model.Account
	transactions []model.Transaction
}

func (s *memStore) ListAccounts(string) ([]model.Account, error) {
	return s.accounts, nil
}

func (s *memStore) ListTransactions(string) ([]model.Transaction, error) {
	return s.transactions, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(id string, day time.Time, amount string) model.Transaction {
	return model.Transaction{
		ID:        id,
		AccountID: "acct-1",
		Date:      day,
		Amount:    decimal.RequireFromString(amount),
	}
}

func TestGetWindow_FiltersToInterval(t *testing.T) {
	ref := date(2025, 6, 30)
	store := &memStore{transactions: []model.Transaction{
		tx("before", date(2025, 5, 31), "-10.00"), // exactly at start: excluded
		tx("inside", date(2025, 6, 1), "-20.00"),
		tx("edge", ref, "-30.00"), // reference date itself: included
		tx("after", date(2025, 7, 1), "-40.00"),
	}}

	snap, err := NewProvider(store).GetWindow("u1", ref, 30)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, "inside", snap.Transactions[0].ID)
	assert.Equal(t, "edge", snap.Transactions[1].ID)
}

func TestGetWindow_Completeness(t *testing.T) {
	ref := date(2025, 6, 30)

	t.Run("history predates start", func(t *testing.T) {
		store := &memStore{transactions: []model.Transaction{
			tx("old", date(2024, 1, 1), "-5.00"),
			tx("new", date(2025, 6, 15), "-5.00"),
		}}
		snap, err := NewProvider(store).GetWindow("u1", ref, 30)
		require.NoError(t, err)
		assert.True(t, snap.Complete)
		assert.Equal(t, date(2024, 1, 1), snap.EarliestKnown)
	})

	t.Run("history starts mid-window", func(t *testing.T) {
		store := &memStore{transactions: []model.Transaction{
			tx("new", date(2025, 6, 15), "-5.00"),
		}}
		snap, err := NewProvider(store).GetWindow("u1", ref, 30)
		require.NoError(t, err)
		assert.False(t, snap.Complete)
	})

	t.Run("no history at all", func(t *testing.T) {
		snap, err := NewProvider(&memStore{}).GetWindow("u1", ref, 30)
		require.NoError(t, err)
		assert.False(t, snap.Complete)
		assert.Empty(t, snap.Transactions)
		assert.True(t, snap.EarliestKnown.IsZero())
	})
}

func TestGetWindow_SortsByDate(t *testing.T) {
	ref := date(2025, 6, 30)
	store := &memStore{transactions: []model.Transaction{
		tx("b", date(2025, 6, 20), "-1.00"),
		tx("a", date(2025, 6, 10), "-1.00"),
		tx("c", date(2025, 6, 25), "-1.00"),
	}}

	snap, err := NewProvider(store).GetWindow("u1", ref, 30)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 3)
	assert.Equal(t, "a", snap.Transactions[0].ID)
	assert.Equal(t, "b", snap.Transactions[1].ID)
	assert.Equal(t, "c", snap.Transactions[2].ID)
}

func TestGetWindow_RejectsBadParams(t *testing.T) {
	p := NewProvider(&memStore{})

	_, err := p.GetWindow("u1", date(2025, 6, 30), -30)
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = p.GetWindow("u1", date(2025, 6, 30), 0)
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = p.GetWindow("u1", time.Time{}, 30)
	require.ErrorIs(t, err, ErrInvalidWindow)
}
