// Package timeconv converts the source platform's local (date, time)
// representation into UTC instants.
package timeconv

import (
	"time"
)

// InstantLayout is how instants are rendered for the CMS (UTC with millis)
const InstantLayout = "2006-01-02T15:04:05.000Z"

var dateLayouts = []string{"2006-01-02"}

var clockLayouts = []string{"15:04:05", "15:04"}

// Policy holds the normalization defaults. When no explicit timezone is
// supplied, a naive local timestamp is treated as US Central using a
// month-window approximation of the DST rules: UTC = local + DSTOffset for
// months inside [DSTStartMonth, DSTEndMonth], local + StdOffset otherwise.
// The window is calendar-month granular, not the real day-of-week transition
// rule, so conversions within a few days of a DST boundary can be off by an
// hour.
type Policy struct {
	// DefaultDuration is applied when the source event has no end
	DefaultDuration time.Duration
	DSTStartMonth   time.Month
	DSTEndMonth     time.Month
	DSTOffset       time.Duration
	StdOffset       time.Duration
}

// DefaultPolicy matches the historical behavior: March through November
// inclusive is treated as DST (+5h to UTC), the rest of the year as
// standard time (+6h), and events without an end run two hours.
func DefaultPolicy() *Policy {
	return &Policy{
		DefaultDuration: 2 * time.Hour,
		DSTStartMonth:   time.March,
		DSTEndMonth:     time.November,
		DSTOffset:       5 * time.Hour,
		StdOffset:       6 * time.Hour,
	}
}

// Normalize converts a local calendar date and time-of-day into a UTC
// instant. tz may name an explicit IANA timezone; when empty the policy's
// fixed-offset heuristic applies. Missing or unparsable input yields nil,
// never an error: callers treat nil as "unknown, do not publish".
func (p *Policy) Normalize(date, clock, tz string) *time.Time {
	if date == "" || clock == "" {
		return nil
	}

	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil
		}
		for _, dl := range dateLayouts {
			for _, cl := range clockLayouts {
				if t, err := time.ParseInLocation(dl+"T"+cl, date+"T"+clock, loc); err == nil {
					utc := t.UTC()
					return &utc
				}
			}
		}
		return nil
	}

	local := parseNaive(date, clock)
	if local == nil {
		return nil
	}

	offset := p.StdOffset
	if p.inDSTWindow(local.Month()) {
		offset = p.DSTOffset
	}
	utc := local.Add(offset)
	return &utc
}

// DefaultEnd returns the policy end instant for an event with no explicit
// end: start plus the default duration
func (p *Policy) DefaultEnd(start *time.Time) *time.Time {
	if start == nil {
		return nil
	}
	end := start.Add(p.DefaultDuration)
	return &end
}

func (p *Policy) inDSTWindow(m time.Month) bool {
	return m >= p.DSTStartMonth && m <= p.DSTEndMonth
}

// parseNaive parses the date+clock pair as if it were already UTC; the
// caller shifts it by the policy offset afterwards
func parseNaive(date, clock string) *time.Time {
	for _, dl := range dateLayouts {
		for _, cl := range clockLayouts {
			if t, err := time.Parse(dl+"T"+cl, date+"T"+clock); err == nil {
				return &t
			}
		}
	}
	return nil
}

// Format renders an instant in the CMS layout; nil renders as the empty
// string so unknown instants are simply not published
func Format(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(InstantLayout)
}
