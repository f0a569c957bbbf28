package handler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tsumuapp/tsumu/internal/model"
	"github.com/tsumuapp/tsumu/internal/push"
	"github.com/tsumuapp/tsumu/internal/stats"
	"github.com/tsumuapp/tsumu/internal/store"
	"github.com/tsumuapp/tsumu/internal/title"
	"github.com/tsumuapp/tsumu/internal/websocket"
)

// Awarder runs the title award pass after any action that can change the
// numbers titles are judged on. It reconciles stored counters against live
// counts, evaluates the catalog, persists what changed, and announces new
// titles over the user's websocket and push subscriptions.
type Awarder struct {
	habits   *store.HabitStore
	goals    *store.GoalStore
	profiles *store.ProfileStore
	titles   *store.TitleStore
	hub      *websocket.Hub
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewAwarder(
	hs *store.HabitStore,
	gs *store.GoalStore,
	ps *store.ProfileStore,
	ts *store.TitleStore,
	hub *websocket.Hub,
	notifier *push.Notifier,
	logger *slog.Logger,
) *Awarder {
	return &Awarder{
		habits:   hs,
		goals:    gs,
		profiles: ps,
		titles:   ts,
		hub:      hub,
		notifier: notifier,
		logger:   logger,
	}
}

// AwardOutcome is what one pass produced, for handlers that echo it back.
type AwardOutcome struct {
	Totals      stats.Totals       `json:"totals"`
	NewlyEarned []title.Definition `json:"newly_earned"`
}

// Run performs one award pass for the user. It never invents failures for
// the caller's main operation: persistence errors are returned, but an
// unchanged evaluation is a successful no-op. One exception to the no-op
// rule: when the stored bonus_points disagrees with the evaluated total
// (drift), the pass persists the corrected value even with no new titles.
func (a *Awarder) Run(userID int64, now time.Time) (*AwardOutcome, error) {
	p, err := a.profiles.Get(userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("no profile for user %d", userID)
	}

	totals, snap, err := a.snapshot(userID, p, now)
	if err != nil {
		return nil, err
	}

	earned, err := a.titles.ListEarnedIDs(userID)
	if err != nil {
		return nil, err
	}

	result := title.Evaluate(earned, snap)
	if !result.Changed && result.TotalBonus == p.BonusPoints {
		return &AwardOutcome{Totals: totals}, nil
	}

	newIDs := make([]string, 0, len(result.NewlyEarned))
	for _, def := range result.NewlyEarned {
		newIDs = append(newIDs, def.ID)
	}
	if err := a.titles.AddEarned(userID, newIDs); err != nil {
		return nil, err
	}
	if err := a.profiles.SetBonusPoints(userID, result.TotalBonus); err != nil {
		return nil, err
	}

	// The bonus moved, so the grand total (and possibly level) did too.
	habitPoints, err := a.habits.SumPoints(userID)
	if err != nil {
		return nil, err
	}
	achieved, err := a.goals.CountAchieved(userID)
	if err != nil {
		return nil, err
	}
	totals = stats.ComputeTotals(habitPoints, achieved, result.TotalBonus)

	for _, def := range result.NewlyEarned {
		a.hub.SendToUser(userID, websocket.NewMessage("title", "earned", def.ID, map[string]any{
			"name":  def.Name,
			"bonus": def.BonusPoints,
		}))
		go a.notifier.NotifyTitleEarned(userID, def.Name, def.BonusPoints)
	}

	return &AwardOutcome{Totals: totals, NewlyEarned: result.NewlyEarned}, nil
}

// snapshot assembles the reconciled aggregate the evaluator judges.
func (a *Awarder) snapshot(userID int64, p *model.Profile, now time.Time) (stats.Totals, title.Snapshot, error) {
	habitPoints, err := a.habits.SumPoints(userID)
	if err != nil {
		return stats.Totals{}, title.Snapshot{}, err
	}
	achieved, err := a.goals.CountAchieved(userID)
	if err != nil {
		return stats.Totals{}, title.Snapshot{}, err
	}
	liveGoals, err := a.goals.CountByUser(userID)
	if err != nil {
		return stats.Totals{}, title.Snapshot{}, err
	}
	liveHabits, err := a.habits.CountByUser(userID)
	if err != nil {
		return stats.Totals{}, title.Snapshot{}, err
	}

	totals := stats.ComputeTotals(habitPoints, achieved, p.BonusPoints)

	firstLogin := now
	if p.FirstLoginAt != nil {
		firstLogin = *p.FirstLoginAt
	}
	snap := stats.Reconcile(p.Stats, totals, liveHabits, liveGoals, achieved, firstLogin, now)
	return totals, snap, nil
}

// TouchDay applies the day rollover for the user's first action of a new
// day and persists it. Returns the stats as of after the rollover.
func (a *Awarder) TouchDay(userID int64, now time.Time) (model.Stats, error) {
	p, err := a.profiles.Get(userID)
	if err != nil {
		return model.Stats{}, err
	}
	if p == nil {
		return model.Stats{}, fmt.Errorf("no profile for user %d", userID)
	}

	today, yesterday := dayPair(now)
	st, changed := stats.ApplyLogin(p.Stats, today, yesterday)
	if changed {
		if err := a.profiles.SaveStats(userID, st); err != nil {
			return model.Stats{}, err
		}
	}
	return st, nil
}
