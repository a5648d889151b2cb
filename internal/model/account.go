package model

import "github.com/shopspring/decimal"

// AccountType classifies the top-level nature of an account.
type AccountType string

const (
	AccountTypeDepository AccountType = "depository"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeLoan       AccountType = "loan"
)

// AccountSubtype is the finer-grained product classification.
type AccountSubtype string

const (
	SubtypeChecking      AccountSubtype = "checking"
	SubtypeSavings       AccountSubtype = "savings"
	SubtypeMoneyMarket   AccountSubtype = "money_market"
	SubtypeCD            AccountSubtype = "cd"
	SubtypeHealthSavings AccountSubtype = "health_savings"
	SubtypeCredit        AccountSubtype = "credit"
	SubtypeLoan          AccountSubtype = "loan"
)

// Account represents one financial account owned by a user.
// Balances and limits are non-negative with fixed decimal precision;
// records arrive pre-validated from the storage collaborator.
type Account struct {
	ID             string
	UserID         string
	Type           AccountType
	Subtype        AccountSubtype
	CurrentBalance decimal.Decimal
	CreditLimit    *decimal.Decimal // nil for accounts without a limit
	Currency       string
}

// IsSavings reports whether the account counts toward savings signals.
func (a Account) IsSavings() bool {
	switch a.Subtype {
	case SubtypeSavings, SubtypeMoneyMarket, SubtypeCD, SubtypeHealthSavings:
		return true
	}
	return false
}

// IsLiquid reports whether the account balance counts toward the
// cash-flow buffer (checking plus savings subtypes).
func (a Account) IsLiquid() bool {
	return a.Subtype == SubtypeChecking || a.IsSavings()
}
