package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tsumuapp/tsumu/internal/auth"
	"github.com/tsumuapp/tsumu/internal/model"
	"github.com/tsumuapp/tsumu/internal/store"
	"github.com/tsumuapp/tsumu/internal/title"
)

type TitleHandler struct {
	titleStore *store.TitleStore
	awarder    *Awarder
	logger     *slog.Logger
}

func NewTitleHandler(ts *store.TitleStore, awarder *Awarder, logger *slog.Logger) *TitleHandler {
	return &TitleHandler{titleStore: ts, awarder: awarder, logger: logger}
}

// List handles GET /api/titles: the full catalog plus the user's earned set.
func (h *TitleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	earned, err := h.titleStore.ListEarned(userID)
	if err != nil {
		h.logger.Error("list earned titles", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list titles"})
		return
	}
	if earned == nil {
		earned = []model.EarnedTitle{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"catalog": title.Catalog,
		"earned":  earned,
	})
}

// Evaluate handles POST /api/titles/evaluate: an explicit award pass.
func (h *TitleHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	outcome, err := h.awarder.Run(userID, time.Now())
	if err != nil {
		h.logger.Error("award pass", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "evaluation failed"})
		return
	}
	if outcome.NewlyEarned == nil {
		outcome.NewlyEarned = []title.Definition{}
	}
	writeJSON(w, http.StatusOK, outcome)
}
