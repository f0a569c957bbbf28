package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tsumuapp/tsumu/internal/auth"
	"github.com/tsumuapp/tsumu/internal/model"
	"github.com/tsumuapp/tsumu/internal/store"
)

const searchLimit = 20

type SocialHandler struct {
	profileStore *store.ProfileStore
	titleStore   *store.TitleStore
	socialStore  *store.SocialStore
	logger       *slog.Logger
}

func NewSocialHandler(
	ps *store.ProfileStore,
	ts *store.TitleStore,
	ss *store.SocialStore,
	logger *slog.Logger,
) *SocialHandler {
	return &SocialHandler{
		profileStore: ps,
		titleStore:   ts,
		socialStore:  ss,
		logger:       logger,
	}
}

// publicView applies the profile's visibility flags before it leaves the
// server. EarnedTitles is never nil so clients can range without checking.
func publicView(p model.Profile, titles []string, following bool) model.PublicProfile {
	if titles == nil {
		titles = []string{}
	}
	view := model.PublicProfile{
		UserID:             p.UserID,
		Name:               p.Name,
		Gender:             p.Gender,
		DreamAchievedCount: p.DreamAchievedCount,
		EarnedTitles:       titles,
		Following:          following,
	}
	if p.ShowDream {
		view.Dream = p.Dream
	}
	if p.ShowLastLogin {
		view.LastLoginAt = p.LastLoginAt
	}

	show := false
	switch p.RecentActionType {
	case model.ActionDream:
		show = p.ShowDream
	case model.ActionGoal:
		show = p.ShowGoal
	}
	if show {
		view.RecentActionType = p.RecentActionType
		view.RecentActionText = p.RecentActionText
		view.RecentActionAt = p.RecentActionAt
	}
	return view
}

// Search handles GET /api/users/search?q=
func (h *SocialHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}

	profiles, err := h.profileStore.SearchPublic(q, userID, searchLimit)
	if err != nil {
		h.logger.Error("search profiles", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}

	results := make([]model.PublicProfile, 0, len(profiles))
	for _, p := range profiles {
		titles, err := h.titleStore.ListEarnedIDs(p.UserID)
		if err != nil {
			h.logger.Error("list titles for search", "error", err)
			titles = nil
		}
		following, err := h.socialStore.IsFollowing(userID, p.UserID)
		if err != nil {
			h.logger.Error("check following", "error", err)
		}
		results = append(results, publicView(p, titles, following))
	}
	writeJSON(w, http.StatusOK, results)
}

// Following handles GET /api/following
func (h *SocialHandler) Following(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	ids, err := h.socialStore.Following(userID)
	if err != nil {
		h.logger.Error("list following", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list following"})
		return
	}

	results := make([]model.PublicProfile, 0, len(ids))
	for _, id := range ids {
		p, err := h.profileStore.GetPublic(id)
		if err != nil {
			h.logger.Error("get followed profile", "error", err)
			continue
		}
		if p == nil {
			// The profile went private after the follow; skip it.
			continue
		}
		titles, err := h.titleStore.ListEarnedIDs(id)
		if err != nil {
			titles = nil
		}
		results = append(results, publicView(*p, titles, true))
	}
	writeJSON(w, http.StatusOK, results)
}

// Follow handles POST /api/following/{uid}
func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	targetID, err := strconv.ParseInt(r.PathValue("uid"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}
	if targetID == userID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cannot follow yourself"})
		return
	}

	target, err := h.profileStore.GetPublic(targetID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to follow"})
		return
	}
	if target == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	if err := h.socialStore.Follow(userID, targetID); err != nil {
		h.logger.Error("follow", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to follow"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unfollow handles DELETE /api/following/{uid}
func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	targetID, err := strconv.ParseInt(r.PathValue("uid"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	if err := h.socialStore.Unfollow(userID, targetID); err != nil {
		h.logger.Error("unfollow", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to unfollow"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
