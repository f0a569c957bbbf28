// Package dateutil fixes the calendar-day boundary used for all streak and
// completion math. Days roll over at midnight Japan Standard Time regardless
// of where the server or the client runs; moving this boundary would silently
// change historical point totals.
package dateutil

import (
	"fmt"
	"time"
)

// ReferenceZone is the single timezone all day identifiers are computed in.
// JST has no daylight saving, so a fixed offset is exact.
var ReferenceZone = time.FixedZone("JST", 9*60*60)

const dayLayout = "2006-01-02"

// DayID returns the YYYY-MM-DD identifier for the given instant under the
// reference timezone.
func DayID(t time.Time) string {
	return t.In(ReferenceZone).Format(dayLayout)
}

// WeekdayIndex returns the day of week (0=Sunday .. 6=Saturday) for the given
// instant under the reference timezone.
func WeekdayIndex(t time.Time) int {
	return int(t.In(ReferenceZone).Weekday())
}

// ParseDayID parses a YYYY-MM-DD identifier into midnight of that day in the
// reference timezone.
func ParseDayID(day string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, day, ReferenceZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", day, err)
	}
	return t, nil
}

// WeekdayOfDay returns the weekday index of a day identifier. It recomputes
// from the string rather than trusting a caller-supplied index.
func WeekdayOfDay(day string) (int, error) {
	t, err := ParseDayID(day)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// YesterdayOf returns the day identifier immediately before the given instant.
func YesterdayOf(t time.Time) string {
	return DayID(t.In(ReferenceZone).AddDate(0, 0, -1))
}

// MonthDays returns every day identifier of the given month in order.
func MonthDays(year int, month time.Month) []string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, ReferenceZone)
	n := first.AddDate(0, 1, -1).Day()
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = first.AddDate(0, 0, i).Format(dayLayout)
	}
	return days
}
