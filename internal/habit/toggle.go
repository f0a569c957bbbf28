// Package habit holds the pure scoring rules for habit completions: the
// toggle state transition, schedule visibility, and calendar aggregation.
// Nothing here touches the clock or the database; callers supply day
// identifiers computed under the fixed reference timezone and persist
// whatever comes back.
package habit

import (
	"fmt"

	"github.com/tsumuapp/tsumu/internal/model"
)

// ToggleKind tags which branch a toggle took.
type ToggleKind string

const (
	ToggleCheck   ToggleKind = "check"
	ToggleUncheck ToggleKind = "uncheck"
)

// Streak milestones that award bonus points on top of the 1-point base.
// These values are a compatibility contract: changing them would rewrite
// the meaning of already-stored point histories.
const (
	basePoint = 1

	milestone1      = 3
	milestone1Bonus = 5
	milestone2      = 7
	milestone2Bonus = 20
	milestone3      = 30
	milestone3Bonus = 100
)

// ToggleResult carries the fields to persist after a checkbox toggle.
// For a check, all fields are set; for an uncheck, DailyStreak and
// LastCompletedDate keep their prior values (the streak is deliberately not
// rolled back when today's completion is undone).
type ToggleResult struct {
	Kind              ToggleKind
	DailyStreak       int
	LastCompletedDate string
	Point             int
	PointHistory      []model.PointEntry
	PointDelta        int
	// Milestone is a user-facing message set only when a check lands exactly
	// on a bonus streak.
	Milestone string
}

// BonusPoint returns the extra points awarded for reaching exactly the given
// streak. Streaks between milestones earn no bonus.
func BonusPoint(streak int) int {
	switch streak {
	case milestone1:
		return milestone1Bonus
	case milestone2:
		return milestone2Bonus
	case milestone3:
		return milestone3Bonus
	default:
		return 0
	}
}

// CalcToggle computes the state transition for "the user toggled today's
// completion checkbox". It is total over well-formed input; malformed
// history entries are the storage layer's problem, not ours.
func CalcToggle(h model.Habit, today, yesterday string) ToggleResult {
	history := h.PointHistory

	var todayEntry *model.PointEntry
	for i := range history {
		if history[i].Day == today {
			todayEntry = &history[i]
			break
		}
	}

	// Undo path: drop today's entry and its points. The streak and
	// last-completed date stay where the check left them.
	if todayEntry != nil {
		minus := todayEntry.Points
		newHistory := make([]model.PointEntry, 0, len(history)-1)
		for _, e := range history {
			if e.Day != today {
				newHistory = append(newHistory, e)
			}
		}
		return ToggleResult{
			Kind:              ToggleUncheck,
			DailyStreak:       h.DailyStreak,
			LastCompletedDate: h.LastCompletedDate,
			Point:             h.Point - minus,
			PointHistory:      newHistory,
			PointDelta:        -minus,
		}
	}

	// Complete path: the streak extends only when yesterday was completed,
	// otherwise it restarts at 1.
	newStreak := 1
	if h.LastCompletedDate == yesterday {
		newStreak = h.DailyStreak + 1
	}

	earned := basePoint + BonusPoint(newStreak)

	newHistory := make([]model.PointEntry, len(history), len(history)+1)
	copy(newHistory, history)
	newHistory = append(newHistory, model.PointEntry{Day: today, Points: earned})

	var milestone string
	if newStreak == milestone1 || newStreak == milestone2 || newStreak == milestone3 {
		milestone = fmt.Sprintf("🏆 %s：%d日達成！", h.Text, newStreak)
	}

	return ToggleResult{
		Kind:              ToggleCheck,
		DailyStreak:       newStreak,
		LastCompletedDate: today,
		Point:             h.Point + earned,
		PointHistory:      newHistory,
		PointDelta:        earned,
		Milestone:         milestone,
	}
}
