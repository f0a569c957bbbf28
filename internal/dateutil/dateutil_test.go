package dateutil

import (
	"testing"
	"time"
)

func TestDayIDCrossesMidnightInReferenceZone(t *testing.T) {
	// 15:30 UTC on Jan 14 is 00:30 JST on Jan 15.
	instant := time.Date(2024, 1, 14, 15, 30, 0, 0, time.UTC)
	if got := DayID(instant); got != "2024-01-15" {
		t.Errorf("DayID = %q, want %q", got, "2024-01-15")
	}

	// 14:30 UTC is still 23:30 JST the same day.
	instant = time.Date(2024, 1, 14, 14, 30, 0, 0, time.UTC)
	if got := DayID(instant); got != "2024-01-14" {
		t.Errorf("DayID = %q, want %q", got, "2024-01-14")
	}
}

func TestDayIDIndependentOfInputZone(t *testing.T) {
	ny := time.FixedZone("EST", -5*60*60)
	a := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	b := a.In(ny)
	if DayID(a) != DayID(b) {
		t.Errorf("DayID differs across input zones: %q vs %q", DayID(a), DayID(b))
	}
}

func TestWeekdayIndex(t *testing.T) {
	// 2024-01-14 JST is a Sunday.
	sun := time.Date(2024, 1, 14, 0, 0, 0, 0, ReferenceZone)
	if got := WeekdayIndex(sun); got != 0 {
		t.Errorf("WeekdayIndex(Sunday) = %d, want 0", got)
	}
	sat := sun.AddDate(0, 0, 6)
	if got := WeekdayIndex(sat); got != 6 {
		t.Errorf("WeekdayIndex(Saturday) = %d, want 6", got)
	}
}

func TestWeekdayOfDay(t *testing.T) {
	// 2024-01-15 is a Monday.
	got, err := WeekdayOfDay("2024-01-15")
	if err != nil {
		t.Fatalf("WeekdayOfDay: %v", err)
	}
	if got != 1 {
		t.Errorf("WeekdayOfDay = %d, want 1", got)
	}

	if _, err := WeekdayOfDay("not-a-day"); err == nil {
		t.Error("expected error for malformed day identifier")
	}
}

func TestYesterdayOf(t *testing.T) {
	// 00:30 JST on Jan 15 — yesterday must be Jan 14, not the UTC day.
	instant := time.Date(2024, 1, 14, 15, 30, 0, 0, time.UTC)
	if got := YesterdayOf(instant); got != "2024-01-14" {
		t.Errorf("YesterdayOf = %q, want %q", got, "2024-01-14")
	}
}

func TestMonthDays(t *testing.T) {
	days := MonthDays(2024, time.February)
	if len(days) != 29 {
		t.Fatalf("len = %d, want 29 (leap year)", len(days))
	}
	if days[0] != "2024-02-01" {
		t.Errorf("first = %q, want 2024-02-01", days[0])
	}
	if days[28] != "2024-02-29" {
		t.Errorf("last = %q, want 2024-02-29", days[28])
	}
}
