package store

import (
	"testing"
	"time"

	"github.com/tsumuapp/tsumu/internal/database"
	"github.com/tsumuapp/tsumu/internal/model"
)

func setupProfileTestDB(t *testing.T) (*ProfileStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProfileStore(db), NewUserStore(db)
}

func TestProfileEnsureAndGet(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, _ := us.Create("nao@example.com", "h")

	if err := ps.Ensure(u.ID); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	// Idempotent
	if err := ps.Ensure(u.ID); err != nil {
		t.Fatalf("ensure again: %v", err)
	}

	p, err := ps.Get(u.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil {
		t.Fatal("expected profile, got nil")
	}
	if p.IsPublic {
		t.Error("new profile should be private")
	}
	if p.FirstLoginAt != nil {
		t.Error("new profile should have nil first_login_at")
	}
}

func TestProfileSave(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, _ := us.Create("nao@example.com", "h")
	ps.Ensure(u.ID)

	p, err := ps.Save(u.ID, "なお", "female", "世界一周", true, true, false, true)
	if err != nil {
		t.Fatalf("save profile: %v", err)
	}
	if p.Name != "なお" || p.Dream != "世界一周" {
		t.Errorf("saved = %q %q", p.Name, p.Dream)
	}
	if !p.IsPublic || !p.ShowDream || p.ShowGoal || !p.ShowLastLogin {
		t.Errorf("visibility flags = %v %v %v %v", p.IsPublic, p.ShowDream, p.ShowGoal, p.ShowLastLogin)
	}
}

func TestProfileSaveStatsRoundTrip(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, _ := us.Create("nao@example.com", "h")
	ps.Ensure(u.ID)

	st := model.Stats{
		LoginDays:              12,
		ContinuousLoginDays:    4,
		MaxContinuousLoginDays: 7,
		MaxStreak:              9,
		GoalsCreatedCount:      3,
		HabitsCreatedCount:     2,
		GoalsAchievedCount:     1,
		LastActionDate:         "2024-01-15",
		GoalsAddedToday:        1,
		TodosAddedToday:        5,
		HabitsAddedToday:       0,
	}
	if err := ps.SaveStats(u.ID, st); err != nil {
		t.Fatalf("save stats: %v", err)
	}

	p, _ := ps.Get(u.ID)
	if p.Stats != st {
		t.Errorf("stats = %+v, want %+v", p.Stats, st)
	}
}

func TestProfileRecordLogin(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, _ := us.Create("nao@example.com", "h")
	ps.Ensure(u.ID)

	first := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	if err := ps.RecordLogin(u.ID, first); err != nil {
		t.Fatalf("record login: %v", err)
	}
	p, _ := ps.Get(u.ID)
	if p.FirstLoginAt == nil || !p.FirstLoginAt.Equal(first) {
		t.Fatalf("first_login_at = %v, want %v", p.FirstLoginAt, first)
	}

	// A later login must not move first_login_at.
	second := first.Add(48 * time.Hour)
	if err := ps.RecordLogin(u.ID, second); err != nil {
		t.Fatalf("record second login: %v", err)
	}
	p, _ = ps.Get(u.ID)
	if !p.FirstLoginAt.Equal(first) {
		t.Errorf("first_login_at moved to %v", p.FirstLoginAt)
	}
	if p.LastLoginAt == nil || !p.LastLoginAt.Equal(second) {
		t.Errorf("last_login_at = %v, want %v", p.LastLoginAt, second)
	}
}

func TestProfileBonusAndDream(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, _ := us.Create("nao@example.com", "h")
	ps.Ensure(u.ID)
	ps.Save(u.ID, "なお", "", "富士山に登る", false, false, false, false)

	if err := ps.SetBonusPoints(u.ID, 130); err != nil {
		t.Fatalf("set bonus: %v", err)
	}
	if err := ps.AchieveDream(u.ID); err != nil {
		t.Fatalf("achieve dream: %v", err)
	}

	p, _ := ps.Get(u.ID)
	if p.BonusPoints != 130 {
		t.Errorf("bonus = %d, want 130", p.BonusPoints)
	}
	if p.Dream != "" {
		t.Errorf("dream = %q, want empty after achieve", p.Dream)
	}
	if p.DreamAchievedCount != 1 {
		t.Errorf("dream_achieved_count = %d, want 1", p.DreamAchievedCount)
	}
}

func TestProfileSetRecentAction(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, _ := us.Create("nao@example.com", "h")
	ps.Ensure(u.ID)

	if err := ps.SetRecentAction(u.ID, model.ActionGoal, "TOEIC 800点"); err != nil {
		t.Fatalf("set recent action: %v", err)
	}
	p, _ := ps.Get(u.ID)
	if p.RecentActionType != model.ActionGoal || p.RecentActionText != "TOEIC 800点" {
		t.Errorf("recent action = %q %q", p.RecentActionType, p.RecentActionText)
	}
	if p.RecentActionAt == nil {
		t.Error("expected recent_action_at set")
	}
}

func TestProfileSearchPublic(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	me, _ := us.Create("me@example.com", "h")
	pub, _ := us.Create("pub@example.com", "h")
	hidden, _ := us.Create("hidden@example.com", "h")
	private, _ := us.Create("private@example.com", "h")

	for _, id := range []int64{me.ID, pub.ID, hidden.ID, private.ID} {
		ps.Ensure(id)
	}
	ps.Save(me.ID, "はるか", "", "", true, false, false, false)
	ps.Save(pub.ID, "はるこ", "", "", true, false, false, false)
	// Dream matches but is not shared, so the dream must not match the term.
	ps.Save(hidden.ID, "けんた", "", "はるかな空", true, false, false, false)
	ps.Save(private.ID, "はるお", "", "", false, false, false, false)

	got, err := ps.SearchPublic("はる", me.ID, 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].UserID != pub.ID {
		t.Errorf("result user = %d, want %d", got[0].UserID, pub.ID)
	}

	// Sharing the dream makes it searchable.
	ps.Save(hidden.ID, "けんた", "", "はるかな空", true, true, false, false)
	got, err = ps.SearchPublic("はる", me.ID, 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 results, got %d", len(got))
	}
}

func TestProfileGetPublic(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, _ := us.Create("nao@example.com", "h")
	ps.Ensure(u.ID)

	p, err := ps.GetPublic(u.ID)
	if err != nil {
		t.Fatalf("get public: %v", err)
	}
	if p != nil {
		t.Error("expected nil for private profile")
	}

	ps.Save(u.ID, "なお", "", "", true, false, false, false)
	p, err = ps.GetPublic(u.ID)
	if err != nil {
		t.Fatalf("get public: %v", err)
	}
	if p == nil {
		t.Fatal("expected profile after going public")
	}
}
