// Package appointment models booking dates as the numeric YYYYMMDD
// values the booking site exposes in its slot-suggestion forms.
package appointment

import (
	"fmt"
	"time"
)

// Date is a calendar date encoded as a YYYYMMDD integer, e.g. 20260210.
// Numeric order equals chronological order, so the earliest of a set of
// dates is simply its minimum. The zero value means "no date".
type Date int

// ParseDate parses a raw input value from the booking page. Only
// non-empty, purely numeric strings are accepted; anything else returns
// (0, false) so malformed inputs are skipped rather than failing a scrape.
func ParseDate(s string) (Date, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return Date(n), true
}

// Earliest returns the minimum of the given dates. ok is false for an
// empty set.
func Earliest(dates []Date) (earliest Date, ok bool) {
	for _, d := range dates {
		if !ok || d < earliest {
			earliest = d
			ok = true
		}
	}
	return earliest, ok
}

// IsZero reports whether d carries no date.
func (d Date) IsZero() bool { return d == 0 }

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d < other }

// String returns the raw YYYYMMDD form, as shown in notifications.
func (d Date) String() string { return fmt.Sprintf("%d", int(d)) }

// Time converts d to a time.Time at midnight UTC. Returns the zero
// time if d does not decode as a valid calendar date.
func (d Date) Time() time.Time {
	t, err := time.Parse("20060102", fmt.Sprintf("%08d", int(d)))
	if err != nil {
		return time.Time{}
	}
	return t
}
