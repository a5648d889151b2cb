package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const refDateFormat = "2006-01-02"

// FormatRunRef returns a deterministic evaluation reference like
// "2025-06-30-u123-w180". Identical evaluation inputs produce the same
// reference, so re-runs are trivially correlatable in audit logs.
func FormatRunRef(userID string, reference time.Time, windowDays int) string {
	return fmt.Sprintf("%s-%s-w%d", reference.Format(refDateFormat), userID, windowDays)
}

// ParseRunRef parses a reference like "2025-06-30-u123-w180" back into
// its parts.
func ParseRunRef(ref string) (userID string, reference time.Time, windowDays int, err error) {
	cut := strings.LastIndex(ref, "-w")
	if cut < 0 {
		return "", time.Time{}, 0, fmt.Errorf("invalid run ref format: %q", ref)
	}

	windowDays, err = strconv.Atoi(ref[cut+2:])
	if err != nil {
		return "", time.Time{}, 0, fmt.Errorf("invalid window in run ref %q: %w", ref, err)
	}

	rest := ref[:cut]
	if len(rest) < len(refDateFormat)+1 {
		return "", time.Time{}, 0, fmt.Errorf("invalid run ref format: %q", ref)
	}

	reference, err = time.Parse(refDateFormat, rest[:len(refDateFormat)])
	if err != nil {
		return "", time.Time{}, 0, fmt.Errorf("invalid date in run ref %q: %w", ref, err)
	}

	userID = rest[len(refDateFormat)+1:]
	if userID == "" {
		return "", time.Time{}, 0, fmt.Errorf("missing user in run ref %q", ref)
	}

	return userID, reference, windowDays, nil
}
