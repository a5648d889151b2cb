package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsona-dev/finsona/internal/model"
)

const dateFormat = "2006-01-02"

// accounts.csv columns.
const (
	acctNumFields  = 7
	acctColID      = 0
	acctColUser    = 1
	acctColType    = 2
	acctColSubtype = 3
	acctColBalance = 4
	acctColLimit   = 5
	acctColCcy     = 6
)

// AccountsHeader is the CSV header for accounts.csv.
var AccountsHeader = []string{"account_id", "user_id", "type", "subtype", "current_balance", "credit_limit", "currency"}

// transactions.csv columns.
const (
	txNumFields   = 7
	txColID       = 0
	txColAcct     = 1
	txColDate     = 2
	txColAmount   = 3
	txColMerchant = 4
	txColCategory = 5
	txColPending  = 6
)

// TransactionsHeader is the CSV header for transactions.csv.
var TransactionsHeader = []string{"transaction_id", "account_id", "date", "amount", "merchant", "category", "pending"}

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = acctNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv (including header).
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(AccountsHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, acctNumFields)
	row[acctColID] = acct.ID
	row[acctColUser] = acct.UserID
	row[acctColType] = string(acct.Type)
	row[acctColSubtype] = string(acct.Subtype)
	row[acctColBalance] = acct.CurrentBalance.String()
	if acct.CreditLimit != nil {
		row[acctColLimit] = acct.CreditLimit.String()
	}
	row[acctColCcy] = acct.Currency
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != acctNumFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", acctNumFields, len(record))
	}

	balance, err := decimal.NewFromString(record[acctColBalance])
	if err != nil {
		return model.Account{}, fmt.Errorf("invalid balance %q: %w", record[acctColBalance], err)
	}

	acct := model.Account{
		ID:             record[acctColID],
		UserID:         record[acctColUser],
		Type:           model.AccountType(record[acctColType]),
		Subtype:        model.AccountSubtype(record[acctColSubtype]),
		CurrentBalance: balance,
		Currency:       record[acctColCcy],
	}

	if record[acctColLimit] != "" {
		limit, err := decimal.NewFromString(record[acctColLimit])
		if err != nil {
			return model.Account{}, fmt.Errorf("invalid credit limit %q: %w", record[acctColLimit], err)
		}
		acct.CreditLimit = &limit
	}
	return acct, nil
}

// ReadTransactions reads transactions.csv.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = txNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes transactions.csv (including header).
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(TransactionsHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, txNumFields)
	row[txColID] = tx.ID
	row[txColAcct] = tx.AccountID
	row[txColDate] = tx.Date.Format(dateFormat)
	row[txColAmount] = tx.Amount.String()
	row[txColMerchant] = tx.Merchant
	row[txColCategory] = tx.Category
	row[txColPending] = strconv.FormatBool(tx.Pending)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != txNumFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", txNumFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[txColDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid date %q: %w", record[txColDate], err)
	}
	amount, err := decimal.NewFromString(record[txColAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount %q: %w", record[txColAmount], err)
	}
	pending, err := strconv.ParseBool(record[txColPending])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid pending flag %q: %w", record[txColPending], err)
	}

	return model.Transaction{
		ID:        record[txColID],
		AccountID: record[txColAcct],
		Date:      date,
		Amount:    amount,
		Merchant:  record[txColMerchant],
		Category:  record[txColCategory],
		Pending:   pending,
	}, nil
}
