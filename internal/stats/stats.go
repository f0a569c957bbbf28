// Package stats implements the caller-side bookkeeping around title
// evaluation: login-day counting, snapshot reconciliation against live
// counts, and the per-day creation limits. Everything here is a pure
// function over model.Stats; the profile store persists the results.
package stats

import (
	"time"

	"github.com/tsumuapp/tsumu/internal/model"
	"github.com/tsumuapp/tsumu/internal/title"
)

// Creation limits. The daily cap applies per kind per calendar day; the
// totals cap the number of live records.
const (
	DailyAddLimit = 50

	MaxGoals  = 200
	MaxTodos  = 200
	MaxHabits = 50
)

// GoalAchievedBonus is awarded per achieved goal when totalling points.
const GoalAchievedBonus = 100

// Kind selects which creation counter an operation touches.
type Kind string

const (
	KindGoal  Kind = "goals"
	KindTodo  Kind = "todos"
	KindHabit Kind = "habits"
)

// ApplyLogin rolls the stats forward for the first action on a new day:
// login days increase, the continuous run extends only when the previous
// action day was yesterday, and the per-day creation counters reset.
// It returns the input unchanged if today was already recorded.
func ApplyLogin(st model.Stats, today, yesterday string) (model.Stats, bool) {
	if st.LastActionDate == today {
		return st, false
	}

	continuous := 1
	if st.LastActionDate == yesterday {
		continuous = st.ContinuousLoginDays + 1
	}

	st.LastActionDate = today
	st.LoginDays++
	st.ContinuousLoginDays = continuous
	if continuous > st.MaxContinuousLoginDays {
		st.MaxContinuousLoginDays = continuous
	}
	st.GoalsAddedToday = 0
	st.TodosAddedToday = 0
	st.HabitsAddedToday = 0
	return st, true
}

// CanAdd reports whether another record of the given kind may be created
// today. liveCount is the current number of stored records of that kind.
func CanAdd(st model.Stats, kind Kind, liveCount int, today string) bool {
	var max, addedToday int
	switch kind {
	case KindGoal:
		max, addedToday = MaxGoals, st.GoalsAddedToday
	case KindTodo:
		max, addedToday = MaxTodos, st.TodosAddedToday
	case KindHabit:
		max, addedToday = MaxHabits, st.HabitsAddedToday
	default:
		return false
	}
	if liveCount >= max {
		return false
	}
	if st.LastActionDate != today {
		addedToday = 0
	}
	return addedToday < DailyAddLimit
}

// RecordAdd bumps the creation counters for the given kind. The per-day
// counter restarts when the last action day is not today.
func RecordAdd(st model.Stats, kind Kind, today string) model.Stats {
	if st.LastActionDate != today {
		st.GoalsAddedToday = 0
		st.TodosAddedToday = 0
		st.HabitsAddedToday = 0
		st.LastActionDate = today
	}
	switch kind {
	case KindGoal:
		st.GoalsAddedToday++
		st.GoalsCreatedCount++
	case KindTodo:
		st.TodosAddedToday++
	case KindHabit:
		st.HabitsAddedToday++
		st.HabitsCreatedCount++
	}
	return st
}

// RecordStreak keeps the best habit streak monotone.
func RecordStreak(st model.Stats, streak int) model.Stats {
	if streak > st.MaxStreak {
		st.MaxStreak = streak
	}
	return st
}

// Totals breaks down a user's grand point total.
type Totals struct {
	HabitPoints int `json:"habit_points"`
	GoalBonus   int `json:"goal_bonus"`
	TitleBonus  int `json:"title_bonus"`
	Total       int `json:"total"`
	Level       int `json:"level"`
}

// ComputeTotals assembles the grand total from fresh inputs: summed habit
// points, the per-achieved-goal bonus, and the stored title bonus.
func ComputeTotals(habitPoints, achievedGoals, titleBonus int) Totals {
	total := habitPoints + achievedGoals*GoalAchievedBonus + titleBonus
	return Totals{
		HabitPoints: habitPoints,
		GoalBonus:   achievedGoals * GoalAchievedBonus,
		TitleBonus:  titleBonus,
		Total:       total,
		Level:       title.Level(total),
	}
}

// Reconcile builds the snapshot the title evaluator sees. Created counts are
// maxed against live counts to absorb counter drift, and the point total is
// freshly computed rather than read back from storage.
func Reconcile(st model.Stats, totals Totals, liveHabits, liveGoals, achievedGoals int, firstLoginAt time.Time, now time.Time) title.Snapshot {
	habitsCreated := st.HabitsCreatedCount
	if liveHabits > habitsCreated {
		habitsCreated = liveHabits
	}
	goalsCreated := st.GoalsCreatedCount
	if liveGoals > goalsCreated {
		goalsCreated = liveGoals
	}
	goalsAchieved := st.GoalsAchievedCount
	if achievedGoals > goalsAchieved {
		goalsAchieved = achievedGoals
	}

	return title.Snapshot{
		TotalPoints:         totals.Total,
		LoginDays:           st.LoginDays,
		ContinuousLoginDays: st.ContinuousLoginDays,
		MaxStreak:           st.MaxStreak,
		GoalsCreatedCount:   goalsCreated,
		HabitsCreatedCount:  habitsCreated,
		GoalsAchievedCount:  goalsAchieved,
		FirstLoginAt:        firstLoginAt,
		Now:                 now,
	}
}
