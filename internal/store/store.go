// Package store implements the storage collaborator over local CSV
// exports (accounts.csv, transactions.csv). It exists for the CLI
// host; the engine only sees the window.Store interface.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/finsona-dev/finsona/internal/model"
)

const (
	accountsFile     = "accounts.csv"
	transactionsFile = "transactions.csv"
)

// CSVStore reads account and transaction exports from a directory.
// Missing files behave as empty data sets: data absence is the
// dominant expected case, not an error.
type CSVStore struct {
	dir string
}

// NewCSVStore creates a store over the given data directory.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

// ListAccounts returns the user's accounts.
func (s *CSVStore) ListAccounts(userID string) ([]model.Account, error) {
	all, err := s.readAccounts()
	if err != nil {
		return nil, err
	}

	var out []model.Account
	for _, acct := range all {
		if acct.UserID == userID {
			out = append(out, acct)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListTransactions returns the user's transactions in non-decreasing
// date order.
func (s *CSVStore) ListTransactions(userID string) ([]model.Transaction, error) {
	accounts, err := s.ListAccounts(userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(accounts))
	for _, acct := range accounts {
		owned[acct.ID] = true
	}

	path := filepath.Join(s.dir, transactionsFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	all, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var out []model.Transaction
	for _, tx := range all {
		if owned[tx.AccountID] {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *CSVStore) readAccounts() ([]model.Account, error) {
	path := filepath.Join(s.dir, accountsFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	accounts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return accounts, nil
}

// Init writes empty CSV files with headers into dir.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	acctPath := filepath.Join(dir, accountsFile)
	if _, err := os.Stat(acctPath); errors.Is(err, fs.ErrNotExist) {
		f, err := os.Create(acctPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", acctPath, err)
		}
		if err := WriteAccounts(f, nil); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	txPath := filepath.Join(dir, transactionsFile)
	if _, err := os.Stat(txPath); errors.Is(err, fs.ErrNotExist) {
		f, err := os.Create(txPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", txPath, err)
		}
		if err := WriteTransactions(f, nil); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
