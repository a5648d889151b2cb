package detect

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsona-dev/finsona/internal/model"
	"github.com/finsona-dev/finsona/internal/signal"
	"github.com/finsona-dev/finsona/internal/window"
)

// DetectedSubscription is one recurring merchant charge pattern. The
// list is part of the audit trail; staleness interpretation is left to
// consumers.
type DetectedSubscription struct {
	Merchant      string          `json:"merchant"`
	Cadence       Cadence         `json:"cadence"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	Count         int             `json:"count"`
	LastCharge    time.Time       `json:"last_charge"`
}

// SubscriptionResult carries the subscription signals plus the detected
// list for audit consumers.
type SubscriptionResult struct {
	Signals       signal.Map
	Subscriptions []DetectedSubscription
}

// Subscriptions identifies recurring merchant charges over the snapshot
// (a lookback window ending at the reference date) and their share of
// total outflow. The subscription signals are always present: when
// nothing recurs they are explicit zeros, since "no subscriptions" is
// an observation, not missing data.
func Subscriptions(snap *window.Snapshot, cfg Config) SubscriptionResult {
	type merchantGroup struct {
		display string
		charges []model.Transaction
	}

	groups := make(map[string]*merchantGroup)
	totalOutflow := decimal.Zero

	for _, tx := range snap.Transactions {
		if tx.Pending || !tx.IsOutflow() {
			continue
		}
		totalOutflow = totalOutflow.Add(tx.Outflow())

		key := normalizeMerchant(tx.Merchant)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &merchantGroup{display: strings.TrimSpace(tx.Merchant)}
			groups[key] = g
		}
		g.charges = append(g.charges, tx)
	}

	// Deterministic merchant order regardless of map iteration.
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		detected       []DetectedSubscription
		recurringSpend decimal.Decimal
		monthlySpend   float64
	)

	for _, key := range keys {
		g := groups[key]
		if len(g.charges) < cfg.RecurringMinCount {
			continue
		}

		amounts := make([]decimal.Decimal, len(g.charges))
		dates := make([]time.Time, len(g.charges))
		total := decimal.Zero
		for i, tx := range g.charges {
			amounts[i] = tx.Outflow()
			dates[i] = tx.Date
			total = total.Add(amounts[i])
		}

		if !amountsConsistent(amounts, cfg.AmountTolerance) {
			continue
		}

		medianGap := median(gapsInDays(dates))
		avg := total.Div(decimal.NewFromInt(int64(len(amounts))))

		detected = append(detected, DetectedSubscription{
			Merchant:      g.display,
			Cadence:       classifyChargeCadence(medianGap),
			AverageAmount: avg.Round(2),
			Count:         len(g.charges),
			LastCharge:    lastDate(dates),
		})

		recurringSpend = recurringSpend.Add(total)
		monthlySpend += monthlyEquivalent(avg, medianGap)
	}

	share := 0.0
	if totalOutflow.IsPositive() {
		share, _ = recurringSpend.Div(totalOutflow).Float64()
	}

	return SubscriptionResult{
		Signals: signal.Map{
			signal.SubscriptionCount:     signal.Number(float64(len(detected))),
			signal.RecurringMonthlySpend: signal.Number(monthlySpend),
			signal.SubscriptionShare:     signal.Number(share),
		},
		Subscriptions: detected,
	}
}

// classifyChargeCadence buckets a median inter-charge gap. Boundaries
// are inclusive: 25 and 35 days are both monthly.
func classifyChargeCadence(medianGap float64) Cadence {
	switch {
	case medianGap >= 25 && medianGap <= 35:
		return CadenceMonthly
	case medianGap >= 5 && medianGap <= 9:
		return CadenceWeekly
	default:
		return CadenceIrregular
	}
}

// amountsConsistent reports whether every charge sits within tolerance
// of the median charge. A merchant whose amounts swing wider is spend,
// not a subscription.
func amountsConsistent(amounts []decimal.Decimal, tolerance float64) bool {
	floats := make([]float64, len(amounts))
	for i, a := range amounts {
		floats[i], _ = a.Float64()
	}
	med := median(floats)
	if med <= 0 {
		return false
	}
	band := med * tolerance
	for _, v := range floats {
		if v < med-band || v > med+band {
			return false
		}
	}
	return true
}

// monthlyEquivalent normalizes a recurring charge to monthly spend.
// Falls back to the plain average when the gap is degenerate
// (same-day duplicate charges).
func monthlyEquivalent(avg decimal.Decimal, medianGap float64) float64 {
	f, _ := avg.Float64()
	if medianGap <= 0 {
		return f
	}
	return f * 30 / medianGap
}

func normalizeMerchant(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func lastDate(dates []time.Time) time.Time {
	var last time.Time
	for _, d := range dates {
		if d.After(last) {
			last = d
		}
	}
	return last
}
