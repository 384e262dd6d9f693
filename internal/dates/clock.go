package dates

import (
	"strings"
	"time"
)

// Clock supplies the reference instant for relative date expressions.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}

// LoadLocation resolves a timezone name, accepting "" and "Local" for the
// process timezone and falling back to UTC for unknown names.
func LoadLocation(name string) (*time.Location, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "local":
		return time.Local, nil
	case "utc":
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}

// SplitDateTime splits a provider timestamp such as "2026-02-16T08:45:00"
// into its date and HH:MM parts. Missing parts come back empty.
func SplitDateTime(ts string) (date, clock string) {
	if len(ts) >= 10 {
		date = ts[:10]
	}
	if len(ts) > 16 {
		clock = ts[11:16]
	}
	return date, clock
}

// Human formats a YYYY-MM-DD date as "Feb 16, 2026", returning the input
// unchanged when it is not a valid date.
func Human(date string) string {
	t, err := time.Parse(Layout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}
