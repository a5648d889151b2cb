package detect

import (
	"github.com/shopspring/decimal"

	"github.com/finsona-dev/finsona/internal/signal"
	"github.com/finsona-dev/finsona/internal/window"
)

// Savings derives savings-behavior signals from the snapshot. When the
// user has no savings-subtype accounts, has_savings_accounts is false
// and every other savings signal is absent rather than zero.
//
// The starting balance is an approximation: no point-in-time balance
// history is available, so start ≈ current balance − net in-window
// inflow. The growth rate is reported absent whenever that estimate is
// not positive, which covers the zero-start case without dividing by
// zero.
func Savings(snap *window.Snapshot) signal.Map {
	savingsIDs := make(map[string]bool)
	totalBalance := decimal.Zero
	for _, acct := range snap.Accounts {
		if acct.IsSavings() {
			savingsIDs[acct.ID] = true
			totalBalance = totalBalance.Add(acct.CurrentBalance)
		}
	}

	if len(savingsIDs) == 0 {
		return signal.Map{signal.HasSavingsAccounts: signal.Bool(false)}
	}

	netInflow := decimal.Zero
	totalOutflow := decimal.Zero
	for _, tx := range snap.Transactions {
		if tx.Pending {
			continue
		}
		totalOutflow = totalOutflow.Add(tx.Outflow())
		if savingsIDs[tx.AccountID] {
			netInflow = netInflow.Add(tx.Amount)
		}
	}

	balanceF, _ := totalBalance.Float64()
	netInflowF, _ := netInflow.Float64()

	out := signal.Map{
		signal.HasSavingsAccounts:  signal.Bool(true),
		signal.TotalSavingsBalance: signal.Number(balanceF),
		signal.SavingsNetInflow:    signal.Number(netInflowF),
	}

	estStart := totalBalance.Sub(netInflow)
	if estStart.IsPositive() {
		growth, _ := netInflow.Div(estStart).Float64()
		out[signal.SavingsGrowthRate] = signal.Number(growth)
	}

	if months, ok := monthsOfExpenseCovered(totalBalance, totalOutflow, snap.Window.Days); ok {
		out[signal.EmergencyFundMonths] = signal.Number(months)
	}

	return out
}

// monthsOfExpenseCovered returns balance ÷ average monthly expense,
// where the average monthly expense is total outflow over the window
// normalized to 30-day months. Zero expense means the ratio is
// undefined and the signal stays absent.
func monthsOfExpenseCovered(balance, totalOutflow decimal.Decimal, windowDays int) (float64, bool) {
	if !totalOutflow.IsPositive() {
		return 0, false
	}
	months := decimal.NewFromInt(int64(windowDays)).Div(decimal.NewFromInt(30))
	avgMonthly := totalOutflow.Div(months)
	covered, _ := balance.Div(avgMonthly).Float64()
	return covered, true
}
