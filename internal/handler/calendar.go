package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tsumuapp/tsumu/internal/auth"
	"github.com/tsumuapp/tsumu/internal/dateutil"
	"github.com/tsumuapp/tsumu/internal/habit"
	"github.com/tsumuapp/tsumu/internal/store"
)

type CalendarHandler struct {
	habitStore *store.HabitStore
	logger     *slog.Logger
}

func NewCalendarHandler(hs *store.HabitStore, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{habitStore: hs, logger: logger}
}

// Month handles GET /api/calendar?month=YYYY-MM. Without the parameter it
// serves the current month in the reference timezone.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	now := time.Now().In(dateutil.ReferenceZone)
	year, month := now.Year(), now.Month()
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := time.ParseInLocation("2006-01", m, dateutil.ReferenceZone)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be YYYY-MM"})
			return
		}
		year, month = parsed.Year(), parsed.Month()
	}

	habits, err := h.habitStore.ListByUser(userID)
	if err != nil {
		h.logger.Error("list habits for calendar", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load calendar"})
		return
	}

	days := dateutil.MonthDays(year, month)
	stats := habit.DailyStats(habits, days)

	writeJSON(w, http.StatusOK, map[string]any{
		"month": fmt.Sprintf("%04d-%02d", year, int(month)),
		"days":  stats,
	})
}
