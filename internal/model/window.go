package model

import (
	"fmt"
	"time"
)

// Supported window lengths at the evaluation surface.
const (
	WindowShortDays = 30
	WindowLongDays  = 180
)

// TimeWindow is a fixed-length trailing period ending at a reference
// date. The interval is start-exclusive and reference-inclusive: a
// transaction belongs to the window when start < date <= reference.
type TimeWindow struct {
	Reference time.Time `json:"reference"`
	Days      int       `json:"days"`
}

// NewTimeWindow builds a window of the given length ending at reference.
func NewTimeWindow(reference time.Time, days int) TimeWindow {
	return TimeWindow{Reference: reference, Days: days}
}

// Start returns the exclusive lower bound of the window.
func (w TimeWindow) Start() time.Time {
	return w.Reference.AddDate(0, 0, -w.Days)
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return t.After(w.Start()) && !t.After(w.Reference)
}

// String renders the window for logs and audit reasons.
func (w TimeWindow) String() string {
	return fmt.Sprintf("%dd ending %s", w.Days, w.Reference.Format("2006-01-02"))
}
