package habit

import (
	"testing"

	"github.com/tsumuapp/tsumu/internal/model"
)

func TestDailyStats(t *testing.T) {
	habits := []model.Habit{
		{
			Schedule: model.ScheduleDaily,
			PointHistory: []model.PointEntry{
				{Day: "2024-01-15", Points: 1},
				{Day: "2024-01-16", Points: 1},
			},
		},
		{
			// Mondays only; 2024-01-15 is a Monday.
			Schedule:   model.ScheduleWeekly,
			DaysOfWeek: []int{1},
			PointHistory: []model.PointEntry{
				{Day: "2024-01-15", Points: 1},
			},
		},
	}

	stats := DailyStats(habits, []string{"2024-01-15", "2024-01-16", "2024-01-17"})
	if len(stats) != 3 {
		t.Fatalf("len = %d, want 3", len(stats))
	}

	// Monday: both habits visible, both done.
	if stats[0].Total != 2 || stats[0].DoneCount != 2 || stats[0].Rate != 100 {
		t.Errorf("monday = %+v, want total 2 done 2 rate 100", stats[0])
	}
	// Tuesday: only the daily habit, done.
	if stats[1].Total != 1 || stats[1].DoneCount != 1 || stats[1].Rate != 100 {
		t.Errorf("tuesday = %+v, want total 1 done 1 rate 100", stats[1])
	}
	// Wednesday: only the daily habit, not done.
	if stats[2].Total != 1 || stats[2].DoneCount != 0 || stats[2].Rate != 0 {
		t.Errorf("wednesday = %+v, want total 1 done 0 rate 0", stats[2])
	}
}

func TestDailyStatsNoHabits(t *testing.T) {
	stats := DailyStats(nil, []string{"2024-01-15"})
	if stats[0].Rate != 0 || stats[0].Total != 0 {
		t.Errorf("empty day = %+v, want zeroes", stats[0])
	}
}

func TestDailyStatsRounding(t *testing.T) {
	habits := []model.Habit{
		{Schedule: model.ScheduleDaily, PointHistory: []model.PointEntry{{Day: "2024-01-15", Points: 1}}},
		{Schedule: model.ScheduleDaily},
		{Schedule: model.ScheduleDaily},
	}
	stats := DailyStats(habits, []string{"2024-01-15"})
	if stats[0].Rate != 33 {
		t.Errorf("rate = %d, want 33", stats[0].Rate)
	}

	habits = []model.Habit{habits[0], habits[0], habits[1]}
	stats = DailyStats(habits, []string{"2024-01-15"})
	if stats[0].Rate != 67 {
		t.Errorf("rate = %d, want 67 (2/3 rounded)", stats[0].Rate)
	}
}

func TestConsecutivePerfectDays(t *testing.T) {
	stats := []DayStat{
		{Rate: 100}, {Rate: 100}, {Rate: 50}, {Rate: 100},
	}
	if got := ConsecutivePerfectDays(stats); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
	if got := ConsecutivePerfectDays(nil); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
