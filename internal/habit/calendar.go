package habit

import "github.com/tsumuapp/tsumu/internal/model"

// DayStat is the completion summary for one calendar day.
type DayStat struct {
	Day       string `json:"day"`
	Total     int    `json:"total"`
	DoneCount int    `json:"done_count"`
	Rate      int    `json:"rate"`
}

// DailyStats buckets habit completions over the given days. For each day it
// counts the habits visible on that day and how many of them record a
// completion, yielding a 0-100 rate. Days with no visible habits have rate 0.
func DailyStats(habits []model.Habit, days []string) []DayStat {
	stats := make([]DayStat, 0, len(days))
	for _, day := range days {
		total := 0
		done := 0
		for _, h := range habits {
			if !IsVisibleOn(h, day) {
				continue
			}
			total++
			if h.DoneOn(day) {
				done++
			}
		}
		rate := 0
		if total > 0 {
			rate = (done*100 + total/2) / total // round to nearest
		}
		stats = append(stats, DayStat{Day: day, Total: total, DoneCount: done, Rate: rate})
	}
	return stats
}

// ConsecutivePerfectDays counts the run of days from the start of stats on
// which every visible habit was completed. Days with no visible habits break
// the run.
func ConsecutivePerfectDays(stats []DayStat) int {
	count := 0
	for _, s := range stats {
		if s.Rate == 100 {
			count++
		} else {
			break
		}
	}
	return count
}
