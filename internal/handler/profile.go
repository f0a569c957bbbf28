package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tsumuapp/tsumu/internal/auth"
	"github.com/tsumuapp/tsumu/internal/model"
	"github.com/tsumuapp/tsumu/internal/store"
	"github.com/tsumuapp/tsumu/internal/websocket"
)

// maxDreamAchievements caps how many times a dream can be marked achieved.
const maxDreamAchievements = 5

type ProfileHandler struct {
	profileStore *store.ProfileStore
	awarder      *Awarder
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewProfileHandler(
	ps *store.ProfileStore,
	awarder *Awarder,
	hub *websocket.Hub,
	logger *slog.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profileStore: ps,
		awarder:      awarder,
		hub:          hub,
		logger:       logger,
	}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	p, err := h.profileStore.Get(userID)
	if err != nil || p == nil {
		h.logger.Error("get profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}

	outcome, err := h.awarder.Run(userID, time.Now())
	if err != nil {
		h.logger.Error("award pass", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile": p,
		"totals":  outcome.Totals,
	})
}

type profileRequest struct {
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	Dream         string `json:"dream"`
	IsPublic      bool   `json:"is_public"`
	ShowDream     bool   `json:"show_dream"`
	ShowGoal      bool   `json:"show_goal"`
	ShowLastLogin bool   `json:"show_last_login"`
}

// Save handles PUT /api/profile
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.IsPublic && req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "public profiles need a name"})
		return
	}

	p, err := h.profileStore.Save(userID, req.Name, req.Gender, req.Dream, req.IsPublic, req.ShowDream, req.ShowGoal, req.ShowLastLogin)
	if err != nil {
		h.logger.Error("save profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save profile"})
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("profile", "updated", "", nil))
	writeJSON(w, http.StatusOK, p)
}

// AchieveDream handles POST /api/profile/dream/achieve
func (h *ProfileHandler) AchieveDream(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	p, err := h.profileStore.Get(userID)
	if err != nil || p == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}
	if p.Dream == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no dream is set"})
		return
	}
	if p.DreamAchievedCount >= maxDreamAchievements {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "dream achievement limit reached"})
		return
	}

	dream := p.Dream
	if err := h.profileStore.AchieveDream(userID); err != nil {
		h.logger.Error("achieve dream", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record achievement"})
		return
	}
	if err := h.profileStore.SetRecentAction(userID, model.ActionDream, dream); err != nil {
		h.logger.Error("set recent action", "error", err)
	}

	updated, err := h.profileStore.Get(userID)
	if err != nil || updated == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("profile", "dream_achieved", "", map[string]any{
		"dream": dream,
		"count": updated.DreamAchievedCount,
	}))
	writeJSON(w, http.StatusOK, updated)
}

// Stats handles GET /api/stats
func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	p, err := h.profileStore.Get(userID)
	if err != nil || p == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
		return
	}

	totals, snap, err := h.awarder.snapshot(userID, p, time.Now())
	if err != nil {
		h.logger.Error("stats snapshot", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":    p.Stats,
		"totals":   totals,
		"snapshot": snap,
	})
}
