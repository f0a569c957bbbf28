package store

import (
	"testing"

	"github.com/tsumuapp/tsumu/internal/database"
	"github.com/tsumuapp/tsumu/internal/model"
)

func setupHabitTestDB(t *testing.T) (*HabitStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewHabitStore(db), NewUserStore(db)
}

func TestHabitCRUD(t *testing.T) {
	hs, us := setupHabitTestDB(t)
	u, _ := us.Create("rin@example.com", "h")

	habit, err := hs.Create(u.ID, "朝のストレッチ", model.ScheduleWeekly, []int{1, 3, 5})
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
	if habit.PublicID == "" {
		t.Error("expected non-empty public id")
	}
	if habit.Schedule != model.ScheduleWeekly {
		t.Errorf("schedule = %q, want %q", habit.Schedule, model.ScheduleWeekly)
	}
	if len(habit.DaysOfWeek) != 3 || habit.DaysOfWeek[0] != 1 || habit.DaysOfWeek[2] != 5 {
		t.Errorf("days_of_week = %v, want [1 3 5]", habit.DaysOfWeek)
	}
	if habit.DailyStreak != 0 || habit.Point != 0 {
		t.Errorf("new habit streak/point = %d/%d, want 0/0", habit.DailyStreak, habit.Point)
	}

	got, err := hs.GetByPublicID(u.ID, habit.PublicID)
	if err != nil {
		t.Fatalf("get habit: %v", err)
	}
	if got.Text != "朝のストレッチ" {
		t.Errorf("text = %q, want %q", got.Text, "朝のストレッチ")
	}

	updated, err := hs.Update(u.ID, habit.PublicID, "夜のストレッチ", model.ScheduleDaily, nil)
	if err != nil {
		t.Fatalf("update habit: %v", err)
	}
	if updated.Text != "夜のストレッチ" {
		t.Errorf("updated text = %q", updated.Text)
	}
	if updated.Schedule != model.ScheduleDaily {
		t.Errorf("updated schedule = %q, want daily", updated.Schedule)
	}
	if len(updated.DaysOfWeek) != 0 {
		t.Errorf("updated days_of_week = %v, want empty", updated.DaysOfWeek)
	}

	if err := hs.Delete(u.ID, habit.PublicID); err != nil {
		t.Fatalf("delete habit: %v", err)
	}
	got, err = hs.GetByPublicID(u.ID, habit.PublicID)
	if err != nil {
		t.Fatalf("get deleted habit: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted habit")
	}
}

func TestHabitScopedToOwner(t *testing.T) {
	hs, us := setupHabitTestDB(t)
	owner, _ := us.Create("owner@example.com", "h")
	other, _ := us.Create("other@example.com", "h")

	habit, _ := hs.Create(owner.ID, "読書", model.ScheduleDaily, nil)

	got, err := hs.GetByPublicID(other.ID, habit.PublicID)
	if err != nil {
		t.Fatalf("get as other user: %v", err)
	}
	if got != nil {
		t.Error("expected nil when fetching another user's habit")
	}
}

func TestHabitApplyCheckAndUncheck(t *testing.T) {
	hs, us := setupHabitTestDB(t)
	u, _ := us.Create("rin@example.com", "h")
	habit, _ := hs.Create(u.ID, "ランニング", model.ScheduleDaily, nil)

	if err := hs.ApplyCheck(habit.ID, 1, "2024-01-15", 1, "2024-01-15", 1); err != nil {
		t.Fatalf("apply check: %v", err)
	}
	if err := hs.ApplyCheck(habit.ID, 2, "2024-01-16", 2, "2024-01-16", 1); err != nil {
		t.Fatalf("apply second check: %v", err)
	}

	got, _ := hs.GetByPublicID(u.ID, habit.PublicID)
	if got.DailyStreak != 2 {
		t.Errorf("streak = %d, want 2", got.DailyStreak)
	}
	if got.LastCompletedDate != "2024-01-16" {
		t.Errorf("last_completed_date = %q, want 2024-01-16", got.LastCompletedDate)
	}
	if got.Point != 2 {
		t.Errorf("point = %d, want 2", got.Point)
	}
	if len(got.PointHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(got.PointHistory))
	}
	if got.PointHistory[0].Day != "2024-01-15" || got.PointHistory[1].Day != "2024-01-16" {
		t.Errorf("history order = %v", got.PointHistory)
	}

	// Uncheck removes today's entry and points but keeps the streak fields.
	if err := hs.ApplyUncheck(habit.ID, 1, "2024-01-16"); err != nil {
		t.Fatalf("apply uncheck: %v", err)
	}
	got, _ = hs.GetByPublicID(u.ID, habit.PublicID)
	if got.Point != 1 {
		t.Errorf("point after uncheck = %d, want 1", got.Point)
	}
	if len(got.PointHistory) != 1 || got.PointHistory[0].Day != "2024-01-15" {
		t.Errorf("history after uncheck = %v", got.PointHistory)
	}
	if got.DailyStreak != 2 || got.LastCompletedDate != "2024-01-16" {
		t.Errorf("streak fields changed on uncheck: %d %q", got.DailyStreak, got.LastCompletedDate)
	}
}

func TestHabitSumPoints(t *testing.T) {
	hs, us := setupHabitTestDB(t)
	u, _ := us.Create("rin@example.com", "h")
	h1, _ := hs.Create(u.ID, "A", model.ScheduleDaily, nil)
	h2, _ := hs.Create(u.ID, "B", model.ScheduleDaily, nil)

	hs.ApplyCheck(h1.ID, 1, "2024-01-15", 3, "2024-01-15", 3)
	hs.ApplyCheck(h2.ID, 1, "2024-01-15", 6, "2024-01-15", 6)

	total, err := hs.SumPoints(u.ID)
	if err != nil {
		t.Fatalf("sum points: %v", err)
	}
	if total != 9 {
		t.Errorf("total = %d, want 9", total)
	}

	count, err := hs.CountByUser(u.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestHabitListByUser(t *testing.T) {
	hs, us := setupHabitTestDB(t)
	u, _ := us.Create("rin@example.com", "h")
	hs.Create(u.ID, "first", model.ScheduleDaily, nil)
	hs.Create(u.ID, "second", model.ScheduleDaily, nil)

	habits, err := hs.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
	// Newest first, like the habit screen renders them.
	if habits[0].Text != "second" {
		t.Errorf("habits[0].Text = %q, want %q", habits[0].Text, "second")
	}
	if habits[1].Text != "first" {
		t.Errorf("habits[1].Text = %q, want %q", habits[1].Text, "first")
	}
}
