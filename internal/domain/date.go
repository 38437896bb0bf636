package domain

import "time"

// DayFormat is the wire format for calendar days attached to stages and
// accommodations. The zero-padded form sorts chronologically under plain
// string comparison, which the itinerary grouping relies on.
const DayFormat = "2006-01-02"

// ParseDay parses a "YYYY-MM-DD" string into a UTC midnight time.Time.
// It is strict: partial dates, time-of-day suffixes, and out-of-range
// components are all rejected.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// ValidDay reports whether s is a well-formed "YYYY-MM-DD" calendar day.
func ValidDay(s string) bool {
	_, err := ParseDay(s)
	return err == nil
}
