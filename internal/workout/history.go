package workout

import (
	"encoding/json"

	"github.com/ashureev/superset/internal/domain"
)

// thisWeekWindow is how many of the most recent history entries count as
// "this week". The history endpoint carries no dates.
const thisWeekWindow = 7

// HistoryEntry is one completed workout from the history endpoint.
type HistoryEntry struct {
	Coach     string            `json:"coach"`
	Exercises []domain.Exercise `json:"exercises"`
}

// HistorySummary aggregates the workout history.
type HistorySummary struct {
	Total    int `json:"total"`
	ThisWeek int `json:"this_week"`
	// AvgRPE is always nil: history payloads carry no per-workout RPE.
	AvgRPE *float64 `json:"avg_rpe,omitempty"`
}

// HistoryEntries normalizes raw history workouts, most recent first.
func HistoryEntries(raw []json.RawMessage) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		p := DecodePayload(raw[i])
		if p == nil {
			p = &Payload{}
		}
		entries = append(entries, HistoryEntry{
			Coach:     Coach(p),
			Exercises: Normalize(p),
		})
	}
	return entries
}

// SummarizeHistory computes the history totals shown next to the list.
func SummarizeHistory(entries []HistoryEntry) HistorySummary {
	return HistorySummary{
		Total:    len(entries),
		ThisWeek: min(len(entries), thisWeekWindow),
	}
}
