package detect

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsona-dev/finsona/internal/model"
	"github.com/finsona-dev/finsona/internal/signal"
	"github.com/finsona-dev/finsona/internal/window"
)

// IncomeResult carries the income signals plus the payroll dates
// retained for the audit trail.
type IncomeResult struct {
	Signals      signal.Map
	PayrollDates []time.Time
}

// Income derives income-pattern signals from the snapshot. A candidate
// income transaction is a non-pending inflow tagged with the income
// category at or above the configured minimum amount. Fewer than two
// candidates means no pattern can be established: has_regular_income is
// false and every frequency/variability signal is absent.
//
// The pattern is reported over the full window as-is; a mid-window job
// change shows up as irregular cadence or high variability rather than
// being segmented out.
func Income(snap *window.Snapshot, cfg Config) IncomeResult {
	var candidates []incomeCandidate
	for _, tx := range snap.Transactions {
		if tx.Pending || !tx.IsInflow() {
			continue
		}
		if !strings.EqualFold(tx.Category, model.CategoryIncome) {
			continue
		}
		if tx.Amount.LessThan(cfg.MinIncomeAmount) {
			continue
		}
		candidates = append(candidates, incomeCandidate{date: tx.Date, amount: tx.Amount})
	}

	result := IncomeResult{Signals: signal.Map{}}
	for _, c := range candidates {
		result.PayrollDates = append(result.PayrollDates, c.date)
	}

	if len(candidates) < 2 {
		result.Signals[signal.HasRegularIncome] = signal.Bool(false)
		return result
	}

	amounts := make([]float64, len(candidates))
	dates := make([]time.Time, len(candidates))
	total := decimal.Zero
	for i, c := range candidates {
		amounts[i], _ = c.amount.Float64()
		dates[i] = c.date
		total = total.Add(c.amount)
	}

	freq := classifyDepositCadence(median(gapsInDays(dates)))
	mean, std := meanStdDev(amounts)
	avg, _ := total.Div(decimal.NewFromInt(int64(len(candidates)))).Float64()

	result.Signals[signal.HasRegularIncome] = signal.Bool(freq != CadenceIrregular)
	result.Signals[signal.IncomeFrequency] = signal.Category(string(freq))
	result.Signals[signal.IncomeTransactionCount] = signal.Number(float64(len(candidates)))
	result.Signals[signal.AverageIncomeAmount] = signal.Number(avg)
	if mean > 0 {
		result.Signals[signal.IncomeVariability] = signal.Number(std / mean)
	}

	liquid := decimal.Zero
	totalOutflow := decimal.Zero
	for _, acct := range snap.Accounts {
		if acct.IsLiquid() {
			liquid = liquid.Add(acct.CurrentBalance)
		}
	}
	for _, tx := range snap.Transactions {
		if !tx.Pending {
			totalOutflow = totalOutflow.Add(tx.Outflow())
		}
	}
	if months, ok := monthsOfExpenseCovered(liquid, totalOutflow, snap.Window.Days); ok {
		result.Signals[signal.CashFlowBufferMonths] = signal.Number(months)
	}

	return result
}

// classifyDepositCadence buckets a median inter-deposit gap. The
// biweekly and semi-monthly bands overlap on 13–16 days; biweekly is
// checked first so the overlap classifies deterministically.
func classifyDepositCadence(medianGap float64) Cadence {
	switch {
	case medianGap >= 5 && medianGap <= 9:
		return CadenceWeekly
	case medianGap >= 12 && medianGap <= 16:
		return CadenceBiweekly
	case medianGap >= 13 && medianGap <= 17:
		return CadenceSemiMonthly
	case medianGap >= 28 && medianGap <= 32:
		return CadenceMonthly
	default:
		return CadenceIrregular
	}
}

type incomeCandidate struct {
	date   time.Time
	amount decimal.Decimal
}
