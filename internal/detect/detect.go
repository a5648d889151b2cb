// Package detect turns windowed account and transaction records into
// named behavioral signals. Every detector is a pure function of its
// snapshot plus a Config: no clock access, no I/O, no shared state.
package detect

import "github.com/shopspring/decimal"

// Cadence classifies the regularity of a recurring charge or deposit
// from the distribution of inter-event gaps.
type Cadence string

const (
	CadenceWeekly      Cadence = "weekly"
	CadenceBiweekly    Cadence = "biweekly"
	CadenceSemiMonthly Cadence = "semi_monthly"
	CadenceMonthly     Cadence = "monthly"
	CadenceIrregular   Cadence = "irregular"
)

// Config carries the detector thresholds. Defaults match the observed
// behavior of real transaction feeds; hosts may override via finsona.yaml.
type Config struct {
	// SubscriptionLookbackDays is the trailing period the subscription
	// detector inspects, independent of the evaluation window.
	SubscriptionLookbackDays int

	// RecurringMinCount is the minimum charge count for a merchant to
	// flag as recurring.
	RecurringMinCount int

	// AmountTolerance is the allowed relative deviation of each charge
	// from the merchant's median charge (0.20 = ±20%).
	AmountTolerance float64

	// MinIncomeAmount filters out trivial inflows (refunds, cashback)
	// from income candidacy.
	MinIncomeAmount decimal.Decimal
}

// DefaultConfig returns the standard detector thresholds.
func DefaultConfig() Config {
	return Config{
		SubscriptionLookbackDays: 90,
		RecurringMinCount:        3,
		AmountTolerance:          0.20,
		MinIncomeAmount:          decimal.NewFromInt(100),
	}
}
