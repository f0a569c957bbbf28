package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tsumuapp/tsumu/internal/auth"
	"github.com/tsumuapp/tsumu/internal/model"
	"github.com/tsumuapp/tsumu/internal/stats"
	"github.com/tsumuapp/tsumu/internal/store"
	"github.com/tsumuapp/tsumu/internal/websocket"
)

type GoalHandler struct {
	goalStore    *store.GoalStore
	profileStore *store.ProfileStore
	awarder      *Awarder
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewGoalHandler(
	gs *store.GoalStore,
	ps *store.ProfileStore,
	awarder *Awarder,
	hub *websocket.Hub,
	logger *slog.Logger,
) *GoalHandler {
	return &GoalHandler{
		goalStore:    gs,
		profileStore: ps,
		awarder:      awarder,
		hub:          hub,
		logger:       logger,
	}
}

type goalRequest struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
}

// List handles GET /api/goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	goals, err := h.goalStore.ListByUser(userID)
	if err != nil {
		h.logger.Error("list goals", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list goals"})
		return
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

// Create handles POST /api/goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	now := time.Now()

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	st, err := h.awarder.TouchDay(userID, now)
	if err != nil {
		h.logger.Error("day rollover", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create goal"})
		return
	}

	count, err := h.goalStore.CountByUser(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create goal"})
		return
	}
	today, _ := dayPair(now)
	if !stats.CanAdd(st, stats.KindGoal, count, today) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "goal limit reached"})
		return
	}

	created, err := h.goalStore.Create(userID, req.Title, req.Deadline)
	if err != nil {
		h.logger.Error("create goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create goal"})
		return
	}

	st = stats.RecordAdd(st, stats.KindGoal, today)
	if err := h.profileStore.SaveStats(userID, st); err != nil {
		h.logger.Error("save stats", "error", err)
	}
	if _, err := h.awarder.Run(userID, now); err != nil {
		h.logger.Error("award pass", "error", err)
	}

	h.hub.SendToUser(userID, websocket.NewMessage("goal", "created", created.PublicID, nil))
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/goals/{id}
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	publicID := r.PathValue("id")

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	updated, err := h.goalStore.Update(userID, publicID, req.Title, req.Deadline)
	if err != nil {
		h.logger.Error("update goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update goal"})
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("goal", "updated", publicID, nil))
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/goals/{id}
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	publicID := r.PathValue("id")

	existing, err := h.goalStore.GetByPublicID(userID, publicID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete goal"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	if err := h.goalStore.Delete(userID, publicID); err != nil {
		h.logger.Error("delete goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete goal"})
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("goal", "deleted", publicID, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /api/goals/{id}/toggle. Flipping a goal to done awards
// the flat goal bonus through the recomputed total and counts toward the
// achieved-goals stat; flipping it back does not revoke the stat.
func (h *GoalHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	publicID := r.PathValue("id")
	now := time.Now()

	existing, err := h.goalStore.GetByPublicID(userID, publicID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle goal"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	updated, err := h.goalStore.SetDone(userID, publicID, !existing.Done)
	if err != nil {
		h.logger.Error("toggle goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle goal"})
		return
	}

	if updated.Done {
		st, err := h.awarder.TouchDay(userID, now)
		if err == nil {
			st.GoalsAchievedCount++
			if err := h.profileStore.SaveStats(userID, st); err != nil {
				h.logger.Error("save stats", "error", err)
			}
		} else {
			h.logger.Error("day rollover", "error", err)
		}
		if err := h.profileStore.SetRecentAction(userID, model.ActionGoal, updated.Title); err != nil {
			h.logger.Error("set recent action", "error", err)
		}
		if _, err := h.awarder.Run(userID, now); err != nil {
			h.logger.Error("award pass", "error", err)
		}
	}

	action := "achieved"
	if !updated.Done {
		action = "reopened"
	}
	h.hub.SendToUser(userID, websocket.NewMessage("goal", action, publicID, nil))
	writeJSON(w, http.StatusOK, updated)
}
