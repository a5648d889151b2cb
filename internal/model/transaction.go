package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryIncome is the category tag the upstream enrichment pipeline
// assigns to payroll-like deposits.
const CategoryIncome = "income"

// Transaction represents one posted or pending account transaction.
// Amount sign follows the upstream convention: positive = inflow,
// negative = outflow.
type Transaction struct {
	ID        string
	AccountID string
	Date      time.Time
	Amount    decimal.Decimal
	Merchant  string
	Category  string
	Pending   bool
}

// IsInflow reports whether money moved into the account.
func (t Transaction) IsInflow() bool {
	return t.Amount.IsPositive()
}

// IsOutflow reports whether money moved out of the account.
func (t Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// Outflow returns the absolute outflow amount, or zero for inflows.
func (t Transaction) Outflow() decimal.Decimal {
	if t.IsOutflow() {
		return t.Amount.Neg()
	}
	return decimal.Zero
}
