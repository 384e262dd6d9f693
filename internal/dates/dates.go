package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layout is the calendar date format used across the search pipeline.
const Layout = "2006-01-02"

// Resolution is a resolved calendar date plus a human-auditable reason.
type Resolution struct {
	Date   string
	Reason string
}

var weekdayNames = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tues": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thurs": time.Thursday, "thur": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

var (
	weekdayPattern = regexp.MustCompile(`\b(?:(this|next)\s+)?(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)\b`)
	ordinalPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Tried in order; the first layout that parses wins.
var absoluteLayouts = []string{
	Layout,
	"2006/1/2",
	"1/2/2006",
	"2/1/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
	"2 January",
	"2 Jan",
	"1/2",
}

// Resolve turns a natural-language date expression into a YYYY-MM-DD date
// relative to ref. It never fails: unparseable input falls back to ref + 7 days.
func Resolve(expr string, ref time.Time) Resolution {
	s := normalize(expr)
	today := truncate(ref)

	switch s {
	case "today", "tonight":
		return resolved(today, "today")
	case "tomorrow":
		return resolved(today.AddDate(0, 0, 1), "tomorrow (+1 day)")
	}

	if strings.Contains(s, "weekend") {
		if strings.Contains(s, "next") {
			return resolved(followingWeek(today, time.Saturday), "next weekend (Saturday of the following week)")
		}
		return resolved(upcoming(today, time.Saturday, true), "weekend (upcoming Saturday)")
	}

	switch s {
	case "next week":
		return resolved(today.AddDate(0, 0, 7), "next week (+7 days)")
	case "next month":
		return resolved(today.AddDate(0, 0, 30), "next month (+30 days)")
	}

	if m := weekdayPattern.FindStringSubmatch(s); m != nil {
		// "Friday, March 13, 2026" names a calendar date; the weekday is decoration.
		if rest := strings.Trim(weekdayPattern.ReplaceAllString(s, ""), " ,"); rest != "" {
			if t, layout, ok := parseAbsolute(rest, today); ok {
				return resolved(t, "absolute date ("+layout+")")
			}
		}
		qualifier, day := m[1], weekdayNames[m[2]]
		switch qualifier {
		case "next":
			return resolved(followingWeek(today, day), fmt.Sprintf("next %s (following week)", day))
		case "this":
			return resolved(upcoming(today, day, true), fmt.Sprintf("this %s", day))
		default:
			return resolved(upcoming(today, day, false), fmt.Sprintf("%s (nearest upcoming)", day))
		}
	}

	if t, layout, ok := parseAbsolute(s, today); ok {
		return resolved(t, "absolute date ("+layout+")")
	}

	if len(s) == len(Layout) && s[4] == '-' && s[7] == '-' {
		return Resolution{Date: s, Reason: "passed through as YYYY-MM-DD"}
	}

	return resolved(today.AddDate(0, 0, 7), fmt.Sprintf("could not parse %q, defaulting to +7 days", expr))
}

// ResolveDate is Resolve without the reason.
func ResolveDate(expr string, ref time.Time) string {
	return Resolve(expr, ref).Date
}

func normalize(expr string) string {
	s := strings.ToLower(strings.TrimSpace(expr))
	s = spacePattern.ReplaceAllString(s, " ")
	s = strings.TrimPrefix(s, "on ")
	s = ordinalPattern.ReplaceAllString(s, "$1")
	return s
}

// parseAbsolute tries the layouts on s, then on s with commas dropped.
func parseAbsolute(s string, today time.Time) (time.Time, string, bool) {
	if t, layout, ok := parseLayouts(s, today); ok {
		return t, layout, true
	}
	if strings.Contains(s, ",") {
		bare := spacePattern.ReplaceAllString(strings.ReplaceAll(s, ",", " "), " ")
		return parseLayouts(strings.TrimSpace(bare), today)
	}
	return time.Time{}, "", false
}

func parseLayouts(s string, today time.Time) (time.Time, string, bool) {
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location()), layout, true
		}
	}

	for _, layout := range yearlessLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return nextOccurrence(t.Month(), t.Day(), today), layout, true
	}

	return time.Time{}, "", false
}

// nextOccurrence is the first month/day on or after today. February 29
// skips ahead to the next leap year instead of spilling into March.
func nextOccurrence(month time.Month, day int, today time.Time) time.Time {
	for year := today.Year(); ; year++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
		if d.Day() == day && !d.Before(today) {
			return d
		}
	}
}

// mondayIndex counts days since Monday (Monday=0 ... Sunday=6).
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// upcoming returns the nearest occurrence of day on or after today. A match
// on today itself only counts when includeToday is set.
func upcoming(today time.Time, day time.Weekday, includeToday bool) time.Time {
	delta := (mondayIndex(day) - mondayIndex(today.Weekday()) + 7) % 7
	if delta == 0 && !includeToday {
		delta = 7
	}
	return today.AddDate(0, 0, delta)
}

// followingWeek returns day within the Monday-based week after today's week.
func followingWeek(today time.Time, day time.Weekday) time.Time {
	monday := today.AddDate(0, 0, -mondayIndex(today.Weekday()))
	return monday.AddDate(0, 0, 7+mondayIndex(day))
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func resolved(t time.Time, reason string) Resolution {
	return Resolution{Date: t.Format(Layout), Reason: reason}
}
