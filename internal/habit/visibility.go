package habit

import (
	"github.com/tsumuapp/tsumu/internal/dateutil"
	"github.com/tsumuapp/tsumu/internal/model"
)

// IsVisibleOn reports whether the habit has an occurrence on the given
// calendar day. Daily habits occur every day; weekly habits occur only on
// their configured weekdays. A weekly habit with no weekdays configured is
// visible on no day.
func IsVisibleOn(h model.Habit, day string) bool {
	if h.Schedule == model.ScheduleDaily {
		return true
	}

	dow, err := dateutil.WeekdayOfDay(day)
	if err != nil {
		return false
	}
	for _, d := range h.DaysOfWeek {
		if d == dow {
			return true
		}
	}
	return false
}
