// Package summary assembles detector outputs and externally supplied
// signals into one flat behavioral summary per (user, window).
package summary

import (
	"errors"
	"fmt"
	"time"

	"github.com/finsona-dev/finsona/internal/detect"
	"github.com/finsona-dev/finsona/internal/model"
	"github.com/finsona-dev/finsona/internal/signal"
)

// ErrSignalCollision marks a caller-supplied signal that clashes with a
// detector-produced name. The caller owns its namespace; silently
// overwriting a detector signal would corrupt the audit trail.
var ErrSignalCollision = errors.New("signal name collision")

// Summary is the complete behavioral picture for one evaluation.
type Summary struct {
	UserID         string                        `json:"user_id"`
	Window         model.TimeWindow              `json:"window"`
	WindowComplete bool                          `json:"window_complete"`
	Signals        signal.Map                    `json:"signals"`
	Subscriptions  []detect.DetectedSubscription `json:"subscriptions"`
	PayrollDates   []time.Time                   `json:"payroll_dates"`
}

// Assemble merges the detector results plus external signals into one
// summary. Detector namespaces are disjoint by construction; an
// external signal reusing a detector name is rejected.
func Assemble(
	userID string,
	w model.TimeWindow,
	complete bool,
	subs detect.SubscriptionResult,
	savings signal.Map,
	income detect.IncomeResult,
	external signal.Map,
) (*Summary, error) {
	merged := make(signal.Map)
	for _, part := range []signal.Map{subs.Signals, savings, income.Signals} {
		for _, name := range part.Names() {
			merged[name] = part.Get(name)
		}
	}

	for _, name := range external.Names() {
		if _, taken := merged[name]; taken {
			return nil, fmt.Errorf("%w: external signal %q is produced by a detector", ErrSignalCollision, name)
		}
		merged[name] = external.Get(name)
	}

	return &Summary{
		UserID:         userID,
		Window:         w,
		WindowComplete: complete,
		Signals:        merged,
		Subscriptions:  subs.Subscriptions,
		PayrollDates:   income.PayrollDates,
	}, nil
}
