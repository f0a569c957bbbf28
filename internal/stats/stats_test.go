package stats

import (
	"testing"
	"time"

	"github.com/tsumuapp/tsumu/internal/model"
)

const (
	today     = "2024-01-15"
	yesterday = "2024-01-14"
)

func TestApplyLoginFirstEver(t *testing.T) {
	st, changed := ApplyLogin(model.Stats{}, today, yesterday)
	if !changed {
		t.Fatal("expected change")
	}
	if st.LoginDays != 1 || st.ContinuousLoginDays != 1 || st.MaxContinuousLoginDays != 1 {
		t.Errorf("stats = %+v, want all counters at 1", st)
	}
	if st.LastActionDate != today {
		t.Errorf("lastActionDate = %q, want today", st.LastActionDate)
	}
}

func TestApplyLoginContinuous(t *testing.T) {
	st := model.Stats{
		LoginDays:              5,
		ContinuousLoginDays:    3,
		MaxContinuousLoginDays: 4,
		LastActionDate:         yesterday,
		GoalsAddedToday:        7,
	}
	st, changed := ApplyLogin(st, today, yesterday)
	if !changed {
		t.Fatal("expected change")
	}
	if st.LoginDays != 6 {
		t.Errorf("loginDays = %d, want 6", st.LoginDays)
	}
	if st.ContinuousLoginDays != 4 {
		t.Errorf("continuous = %d, want 4", st.ContinuousLoginDays)
	}
	if st.MaxContinuousLoginDays != 4 {
		t.Errorf("maxContinuous = %d, want 4", st.MaxContinuousLoginDays)
	}
	if st.GoalsAddedToday != 0 {
		t.Error("per-day counters should reset on a new day")
	}
}

func TestApplyLoginGapResetsRun(t *testing.T) {
	st := model.Stats{
		LoginDays:              10,
		ContinuousLoginDays:    9,
		MaxContinuousLoginDays: 9,
		LastActionDate:         "2024-01-10",
	}
	st, _ = ApplyLogin(st, today, yesterday)
	if st.ContinuousLoginDays != 1 {
		t.Errorf("continuous = %d, want 1 after a gap", st.ContinuousLoginDays)
	}
	if st.MaxContinuousLoginDays != 9 {
		t.Errorf("maxContinuous = %d, want 9 preserved", st.MaxContinuousLoginDays)
	}
}

func TestApplyLoginSameDayNoop(t *testing.T) {
	st := model.Stats{LoginDays: 3, LastActionDate: today}
	got, changed := ApplyLogin(st, today, yesterday)
	if changed {
		t.Error("same-day login should not change stats")
	}
	if got.LoginDays != 3 {
		t.Errorf("loginDays = %d, want 3", got.LoginDays)
	}
}

func TestCanAddLimits(t *testing.T) {
	st := model.Stats{LastActionDate: today, HabitsAddedToday: DailyAddLimit - 1}
	if !CanAdd(st, KindHabit, 0, today) {
		t.Error("one below the daily limit should be allowed")
	}

	st.HabitsAddedToday = DailyAddLimit
	if CanAdd(st, KindHabit, 0, today) {
		t.Error("at the daily limit should be refused")
	}

	// A new day resets the per-day count even before ApplyLogin runs.
	st.LastActionDate = yesterday
	if !CanAdd(st, KindHabit, 0, today) {
		t.Error("stale per-day counter should not block a new day")
	}

	if CanAdd(model.Stats{}, KindHabit, MaxHabits, today) {
		t.Error("total habit cap should be enforced")
	}
	if CanAdd(model.Stats{}, KindGoal, MaxGoals, today) {
		t.Error("total goal cap should be enforced")
	}
}

func TestRecordAdd(t *testing.T) {
	st := model.Stats{LastActionDate: today, GoalsAddedToday: 2, GoalsCreatedCount: 10}
	st = RecordAdd(st, KindGoal, today)
	if st.GoalsAddedToday != 3 || st.GoalsCreatedCount != 11 {
		t.Errorf("stats = %+v, want addedToday 3 createdCount 11", st)
	}

	// Todos have no cumulative created counter.
	st = RecordAdd(st, KindTodo, today)
	if st.TodosAddedToday != 1 {
		t.Errorf("todosAddedToday = %d, want 1", st.TodosAddedToday)
	}

	// Day rollover resets per-day counters before counting.
	st = RecordAdd(st, KindHabit, "2024-01-16")
	if st.GoalsAddedToday != 0 || st.HabitsAddedToday != 1 {
		t.Errorf("stats after rollover = %+v", st)
	}
}

func TestRecordStreakMonotone(t *testing.T) {
	st := RecordStreak(model.Stats{MaxStreak: 5}, 3)
	if st.MaxStreak != 5 {
		t.Errorf("maxStreak = %d, want 5", st.MaxStreak)
	}
	st = RecordStreak(st, 8)
	if st.MaxStreak != 8 {
		t.Errorf("maxStreak = %d, want 8", st.MaxStreak)
	}
}

func TestComputeTotals(t *testing.T) {
	tot := ComputeTotals(42, 3, 100)
	if tot.Total != 442 {
		t.Errorf("total = %d, want 442", tot.Total)
	}
	if tot.GoalBonus != 300 {
		t.Errorf("goalBonus = %d, want 300", tot.GoalBonus)
	}
	if tot.Level != 5 {
		t.Errorf("level = %d, want 5", tot.Level)
	}
}

func TestReconcileMaxesLiveCounts(t *testing.T) {
	st := model.Stats{HabitsCreatedCount: 2, GoalsCreatedCount: 9, GoalsAchievedCount: 1}
	now := time.Now()

	snap := Reconcile(st, ComputeTotals(10, 2, 0), 5, 4, 2, time.Time{}, now)
	if snap.HabitsCreatedCount != 5 {
		t.Errorf("habitsCreated = %d, want live 5", snap.HabitsCreatedCount)
	}
	if snap.GoalsCreatedCount != 9 {
		t.Errorf("goalsCreated = %d, want recorded 9", snap.GoalsCreatedCount)
	}
	if snap.GoalsAchievedCount != 2 {
		t.Errorf("goalsAchieved = %d, want live 2", snap.GoalsAchievedCount)
	}
	if snap.TotalPoints != 210 {
		t.Errorf("totalPoints = %d, want 210", snap.TotalPoints)
	}
}
