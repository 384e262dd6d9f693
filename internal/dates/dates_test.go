package dates

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2026-02-02 is a Monday.
var monday = time.Date(2026, time.February, 2, 9, 30, 0, 0, time.UTC)

func day(t time.Time, offset int) string {
	return t.AddDate(0, 0, offset).Format(Layout)
}

func TestResolve_Keywords(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		ref      time.Time
		expected string
	}{
		{name: "today", expr: "today", ref: monday, expected: "2026-02-02"},
		{name: "tonight", expr: "Tonight", ref: monday, expected: "2026-02-02"},
		{name: "tomorrow", expr: "tomorrow", ref: monday, expected: "2026-02-03"},
		{name: "tomorrow across month end", expr: "tomorrow", ref: time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC), expected: "2026-02-01"},
		{name: "next week", expr: "next week", ref: monday, expected: "2026-02-09"},
		{name: "next month", expr: "next month", ref: monday, expected: "2026-03-04"},
		{name: "surrounding whitespace", expr: "  TOMORROW  ", ref: monday, expected: "2026-02-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDate(tt.expr, tt.ref))
		})
	}
}

func TestResolve_Weekend(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)
	sunday := monday.AddDate(0, 0, 6)

	tests := []struct {
		name     string
		expr     string
		ref      time.Time
		expected string
	}{
		{name: "weekend from monday", expr: "weekend", ref: monday, expected: "2026-02-07"},
		{name: "this weekend from monday", expr: "this weekend", ref: monday, expected: "2026-02-07"},
		{name: "weekend on saturday is today", expr: "weekend", ref: saturday, expected: "2026-02-07"},
		{name: "next weekend on saturday is +7", expr: "next weekend", ref: saturday, expected: "2026-02-14"},
		{name: "next weekend from monday", expr: "next weekend", ref: monday, expected: "2026-02-14"},
		{name: "weekend from sunday", expr: "the weekend", ref: sunday, expected: "2026-02-14"},
		{name: "next weekend from sunday", expr: "next weekend", ref: sunday, expected: "2026-02-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDate(tt.expr, tt.ref))
		})
	}
}

func TestResolve_WeekdayOffsetsFromMonday(t *testing.T) {
	names := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

	for offset, name := range names {
		t.Run(name, func(t *testing.T) {
			bare := offset
			if offset == 0 {
				bare = 7
			}
			assert.Equal(t, day(monday, bare), ResolveDate(name, monday), "bare %s", name)
			assert.Equal(t, day(monday, offset), ResolveDate("this "+name, monday), "this %s", name)
			assert.Equal(t, day(monday, 7+offset), ResolveDate("next "+name, monday), "next %s", name)
		})
	}
}

func TestResolve_NextFridayFromEveryWeekday(t *testing.T) {
	// Every reference day in the week of 2026-02-02 resolves "next friday"
	// to the Friday of the following week, never the same week.
	for offset := 0; offset <= 6; offset++ {
		ref := monday.AddDate(0, 0, offset)
		t.Run(ref.Weekday().String(), func(t *testing.T) {
			assert.Equal(t, "2026-02-13", ResolveDate("next Friday", ref))
		})
	}
}

func TestResolve_BareAndThisFridayFromEveryWeekday(t *testing.T) {
	tests := []struct {
		ref          time.Time
		bareExpected string
		thisExpected string
	}{
		{ref: monday, bareExpected: "2026-02-06", thisExpected: "2026-02-06"},
		{ref: monday.AddDate(0, 0, 1), bareExpected: "2026-02-06", thisExpected: "2026-02-06"},
		{ref: monday.AddDate(0, 0, 2), bareExpected: "2026-02-06", thisExpected: "2026-02-06"},
		{ref: monday.AddDate(0, 0, 3), bareExpected: "2026-02-06", thisExpected: "2026-02-06"},
		{ref: monday.AddDate(0, 0, 4), bareExpected: "2026-02-13", thisExpected: "2026-02-06"},
		{ref: monday.AddDate(0, 0, 5), bareExpected: "2026-02-13", thisExpected: "2026-02-13"},
		{ref: monday.AddDate(0, 0, 6), bareExpected: "2026-02-13", thisExpected: "2026-02-13"},
	}

	for _, tt := range tests {
		t.Run(tt.ref.Weekday().String(), func(t *testing.T) {
			assert.Equal(t, tt.bareExpected, ResolveDate("friday", tt.ref))
			assert.Equal(t, tt.thisExpected, ResolveDate("this friday", tt.ref))
		})
	}
}

func TestResolve_NextWeekdayAlreadyPassed(t *testing.T) {
	wednesday := monday.AddDate(0, 0, 2)

	assert.Equal(t, "2026-02-09", ResolveDate("next monday", wednesday))
	assert.Equal(t, "2026-02-11", ResolveDate("next wednesday", wednesday))
	assert.Equal(t, "2026-02-09", ResolveDate("monday", wednesday))
}

func TestResolve_WeekdayVariants(t *testing.T) {
	assert.Equal(t, "2026-02-13", ResolveDate("next fri", monday))
	assert.Equal(t, "2026-02-05", ResolveDate("thurs", monday))
	assert.Equal(t, "2026-02-13", ResolveDate("on next Friday", monday))
	assert.Equal(t, "2026-02-13", ResolveDate("next friday morning", monday))
}

func TestResolve_AbsoluteFormats(t *testing.T) {
	tests := []struct {
		expr     string
		expected string
	}{
		{expr: "2026-03-06", expected: "2026-03-06"},
		{expr: "2026/03/06", expected: "2026-03-06"},
		{expr: "03/06/2026", expected: "2026-03-06"},
		{expr: "25/12/2026", expected: "2026-12-25"},
		{expr: "March 6, 2026", expected: "2026-03-06"},
		{expr: "Mar 6, 2026", expected: "2026-03-06"},
		{expr: "March 6 2026", expected: "2026-03-06"},
		{expr: "mar 6 2026", expected: "2026-03-06"},
		{expr: "6 March 2026", expected: "2026-03-06"},
		{expr: "6 Mar 2026", expected: "2026-03-06"},
		{expr: "March 15th, 2026", expected: "2026-03-15"},
		{expr: "15 march, 2026", expected: "2026-03-15"},
		{expr: "15 Mar, 2026", expected: "2026-03-15"},
		{expr: "15th March, 2026", expected: "2026-03-15"},
		{expr: "Friday, March 13, 2026", expected: "2026-03-13"},
		{expr: "Fri 13 March 2026", expected: "2026-03-13"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res := Resolve(tt.expr, monday)
			assert.Equal(t, tt.expected, res.Date)
			assert.True(t, strings.HasPrefix(res.Reason, "absolute date"), res.Reason)
		})
	}
}

func TestResolve_YearlessDates(t *testing.T) {
	tests := []struct {
		expr     string
		expected string
	}{
		{expr: "March 15", expected: "2026-03-15"},
		{expr: "15 March", expected: "2026-03-15"},
		{expr: "mar 15", expected: "2026-03-15"},
		{expr: "3/15", expected: "2026-03-15"},
		{expr: "February 2", expected: "2026-02-02"},
		{expr: "January 10", expected: "2027-01-10"},
		{expr: "Feb 1st", expected: "2027-02-01"},
		{expr: "Feb 29", expected: "2028-02-29"},
		{expr: "29 February", expected: "2028-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDate(tt.expr, monday))
		})
	}
}

func TestResolve_PassThroughAndFallback(t *testing.T) {
	res := Resolve("2026-02-30", monday)
	assert.Equal(t, "2026-02-30", res.Date)
	assert.Contains(t, res.Reason, "passed through")

	res = Resolve("whenever is cheapest", monday)
	assert.Equal(t, "2026-02-09", res.Date)
	assert.Contains(t, res.Reason, "+7 days")

	assert.Equal(t, "2026-02-09", ResolveDate("", monday))
}

func TestResolve_Deterministic(t *testing.T) {
	for _, expr := range []string{"next friday", "weekend", "March 15", "tomorrow", "gibberish"} {
		first := Resolve(expr, monday)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Resolve(expr, monday))
		}
	}
}

func TestResolve_UsesReferenceLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2026-02-02 20:00 UTC is already Tuesday in Tokyo.
	ref := time.Date(2026, time.February, 2, 20, 0, 0, 0, time.UTC).In(tokyo)

	assert.Equal(t, "2026-02-03", ResolveDate("today", ref))
}

func TestSplitDateTime(t *testing.T) {
	date, clock := SplitDateTime("2026-02-16T08:45:00")
	assert.Equal(t, "2026-02-16", date)
	assert.Equal(t, "08:45", clock)

	date, clock = SplitDateTime("2026-02-16")
	assert.Equal(t, "2026-02-16", date)
	assert.Empty(t, clock)

	date, clock = SplitDateTime("")
	assert.Empty(t, date)
	assert.Empty(t, clock)
}

func TestHuman(t *testing.T) {
	assert.Equal(t, "Feb 16, 2026", Human("2026-02-16"))
	assert.Equal(t, "not-a-date", Human("not-a-date"))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	assert.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadLocation("UTC")
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = LoadLocation("Not/AZone")
	assert.Error(t, err)
	assert.Equal(t, time.UTC, loc)
}
