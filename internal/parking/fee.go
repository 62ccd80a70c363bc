package parking

import (
	"fmt"
	"time"
)

// Accepted timestamp layouts. Clients historically sent bare ISO 8601
// without a zone designator; those are interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseTime parses a request timestamp as a UTC instant.
func ParseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid entry or exit time format, use ISO 8601 (e.g. 2025-05-20T14:00:00)", ErrValidation)
}

// Fee computes the parking amount for a time window: every started hour is
// billed at the full hourly rate.
func Fee(entry, exit time.Time, hourlyRate int64) int64 {
	d := exit.Sub(entry)
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours * hourlyRate
}
