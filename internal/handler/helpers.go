package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tsumuapp/tsumu/internal/dateutil"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// dayPair returns the current and previous day identifiers in the app's
// reference timezone. All streak and limit decisions run on these.
func dayPair(now time.Time) (today, yesterday string) {
	return dateutil.DayID(now), dateutil.YesterdayOf(now)
}
