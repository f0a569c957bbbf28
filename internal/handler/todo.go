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

type TodoHandler struct {
	todoStore    *store.TodoStore
	profileStore *store.ProfileStore
	awarder      *Awarder
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewTodoHandler(
	ts *store.TodoStore,
	ps *store.ProfileStore,
	awarder *Awarder,
	hub *websocket.Hub,
	logger *slog.Logger,
) *TodoHandler {
	return &TodoHandler{
		todoStore:    ts,
		profileStore: ps,
		awarder:      awarder,
		hub:          hub,
		logger:       logger,
	}
}

type todoRequest struct {
	Text string `json:"text"`
}

// List handles GET /api/todos
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	todos, err := h.todoStore.ListByUser(userID)
	if err != nil {
		h.logger.Error("list todos", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list todos"})
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

// Create handles POST /api/todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	now := time.Now()

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	st, err := h.awarder.TouchDay(userID, now)
	if err != nil {
		h.logger.Error("day rollover", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create todo"})
		return
	}

	count, err := h.todoStore.CountByUser(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create todo"})
		return
	}
	today, _ := dayPair(now)
	if !stats.CanAdd(st, stats.KindTodo, count, today) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "todo limit reached"})
		return
	}

	created, err := h.todoStore.Create(userID, req.Text)
	if err != nil {
		h.logger.Error("create todo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create todo"})
		return
	}

	st = stats.RecordAdd(st, stats.KindTodo, today)
	if err := h.profileStore.SaveStats(userID, st); err != nil {
		h.logger.Error("save stats", "error", err)
	}

	h.hub.SendToUser(userID, websocket.NewMessage("todo", "created", created.PublicID, nil))
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/todos/{id}
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	publicID := r.PathValue("id")

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	updated, err := h.todoStore.UpdateText(userID, publicID, req.Text)
	if err != nil {
		h.logger.Error("update todo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update todo"})
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "todo not found"})
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("todo", "updated", publicID, nil))
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/todos/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	publicID := r.PathValue("id")

	existing, err := h.todoStore.GetByPublicID(userID, publicID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete todo"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "todo not found"})
		return
	}

	if err := h.todoStore.Delete(userID, publicID); err != nil {
		h.logger.Error("delete todo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete todo"})
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("todo", "deleted", publicID, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /api/todos/{id}/toggle
func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	publicID := r.PathValue("id")

	existing, err := h.todoStore.GetByPublicID(userID, publicID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle todo"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "todo not found"})
		return
	}

	updated, err := h.todoStore.SetDone(userID, publicID, !existing.Done)
	if err != nil {
		h.logger.Error("toggle todo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle todo"})
		return
	}

	action := "completed"
	if !updated.Done {
		action = "reopened"
	}
	h.hub.SendToUser(userID, websocket.NewMessage("todo", action, publicID, nil))
	writeJSON(w, http.StatusOK, updated)
}
