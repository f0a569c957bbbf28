package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tsumuapp/tsumu/internal/auth"
	"github.com/tsumuapp/tsumu/internal/habit"
	"github.com/tsumuapp/tsumu/internal/model"
	"github.com/tsumuapp/tsumu/internal/push"
	"github.com/tsumuapp/tsumu/internal/stats"
	"github.com/tsumuapp/tsumu/internal/store"
	"github.com/tsumuapp/tsumu/internal/websocket"
)

type HabitHandler struct {
	habitStore   *store.HabitStore
	profileStore *store.ProfileStore
	awarder      *Awarder
	hub          *websocket.Hub
	notifier     *push.Notifier
	logger       *slog.Logger
}

func NewHabitHandler(
	hs *store.HabitStore,
	ps *store.ProfileStore,
	awarder *Awarder,
	hub *websocket.Hub,
	notifier *push.Notifier,
	logger *slog.Logger,
) *HabitHandler {
	return &HabitHandler{
		habitStore:   hs,
		profileStore: ps,
		awarder:      awarder,
		hub:          hub,
		notifier:     notifier,
		logger:       logger,
	}
}

type habitRequest struct {
	Text       string `json:"text"`
	Schedule   string `json:"schedule"`
	DaysOfWeek []int  `json:"days_of_week"`
}

func (req *habitRequest) validate() string {
	if req.Text == "" {
		return "text is required"
	}
	if req.Schedule == "" {
		req.Schedule = model.ScheduleDaily
	}
	if req.Schedule != model.ScheduleDaily && req.Schedule != model.ScheduleWeekly {
		return "schedule must be daily or weekly"
	}
	for _, d := range req.DaysOfWeek {
		if d < 0 || d > 6 {
			return "days_of_week entries must be 0-6"
		}
	}
	if req.Schedule == model.ScheduleWeekly && len(req.DaysOfWeek) == 0 {
		return "weekly habits need at least one weekday"
	}
	return ""
}

// List handles GET /api/habits
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	habits, err := h.habitStore.ListByUser(userID)
	if err != nil {
		h.logger.Error("list habits", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list habits"})
		return
	}

	today, _ := dayPair(time.Now())
	type habitView struct {
		model.Habit
		VisibleToday bool `json:"visible_today"`
		DoneToday    bool `json:"done_today"`
	}
	views := make([]habitView, 0, len(habits))
	for _, hb := range habits {
		views = append(views, habitView{
			Habit:        hb,
			VisibleToday: habit.IsVisibleOn(hb, today),
			DoneToday:    hb.DoneOn(today),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// Create handles POST /api/habits
func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	now := time.Now()

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	st, err := h.awarder.TouchDay(userID, now)
	if err != nil {
		h.logger.Error("day rollover", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create habit"})
		return
	}

	count, err := h.habitStore.CountByUser(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create habit"})
		return
	}
	today, _ := dayPair(now)
	if !stats.CanAdd(st, stats.KindHabit, count, today) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "habit limit reached"})
		return
	}

	created, err := h.habitStore.Create(userID, req.Text, req.Schedule, req.DaysOfWeek)
	if err != nil {
		h.logger.Error("create habit", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create habit"})
		return
	}

	st = stats.RecordAdd(st, stats.KindHabit, today)
	if err := h.profileStore.SaveStats(userID, st); err != nil {
		h.logger.Error("save stats", "error", err)
	}
	if _, err := h.awarder.Run(userID, now); err != nil {
		h.logger.Error("award pass", "error", err)
	}

	h.hub.SendToUser(userID, websocket.NewMessage("habit", "created", created.PublicID, nil))
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/habits/{id}
func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	publicID := r.PathValue("id")

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	updated, err := h.habitStore.Update(userID, publicID, req.Text, req.Schedule, req.DaysOfWeek)
	if err != nil {
		h.logger.Error("update habit", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update habit"})
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("habit", "updated", publicID, nil))
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/habits/{id}
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	publicID := r.PathValue("id")

	existing, err := h.habitStore.GetByPublicID(userID, publicID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete habit"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return
	}

	if err := h.habitStore.Delete(userID, publicID); err != nil {
		h.logger.Error("delete habit", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete habit"})
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("habit", "deleted", publicID, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /api/habits/{id}/toggle
func (h *HabitHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	publicID := r.PathValue("id")
	now := time.Now()

	hb, err := h.habitStore.GetByPublicID(userID, publicID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle habit"})
		return
	}
	if hb == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return
	}

	today, yesterday := dayPair(now)
	result := habit.CalcToggle(*hb, today, yesterday)

	switch result.Kind {
	case habit.ToggleCheck:
		err = h.habitStore.ApplyCheck(hb.ID, result.DailyStreak, result.LastCompletedDate, result.Point, today, result.PointDelta)
	case habit.ToggleUncheck:
		err = h.habitStore.ApplyUncheck(hb.ID, result.Point, today)
	}
	if err != nil {
		h.logger.Error("persist toggle", "error", err, "kind", string(result.Kind))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle habit"})
		return
	}

	if result.Kind == habit.ToggleCheck {
		st, err := h.awarder.TouchDay(userID, now)
		if err == nil {
			st = stats.RecordStreak(st, result.DailyStreak)
			if err := h.profileStore.SaveStats(userID, st); err != nil {
				h.logger.Error("save stats", "error", err)
			}
		} else {
			h.logger.Error("day rollover", "error", err)
		}
		if _, err := h.awarder.Run(userID, now); err != nil {
			h.logger.Error("award pass", "error", err)
		}
		if result.Milestone != "" {
			go h.notifier.NotifyStreakMilestone(userID, hb.Text, result.DailyStreak)
		}
	}

	updated, err := h.habitStore.GetByPublicID(userID, publicID)
	if err != nil || updated == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle habit"})
		return
	}

	action := "checked"
	if result.Kind == habit.ToggleUncheck {
		action = "unchecked"
	}
	extra := map[string]any{
		"streak":      result.DailyStreak,
		"point_delta": result.PointDelta,
	}
	if result.Milestone != "" {
		extra["milestone"] = result.Milestone
	}
	h.hub.SendToUser(userID, websocket.NewMessage("habit", action, publicID, extra))

	writeJSON(w, http.StatusOK, map[string]any{
		"habit":       updated,
		"kind":        result.Kind,
		"point_delta": result.PointDelta,
		"milestone":   result.Milestone,
	})
}
