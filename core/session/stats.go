package session

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type (
	SpeakerCount struct {
		Speaker string `json:"ponente"`
		Count   int    `json:"total"`
	}

	Stats struct {
		Total     int            `json:"total"`
		Pending   int            `json:"pendientes"`
		Confirmed int            `json:"confirmadas"`
		Completed int            `json:"realizadas"`
		Cancelled int            `json:"anuladas"`
		Overdue   int            `json:"atrasadas"`
		ByGroup   map[string]int `json:"por_grupo"`
		// BySpeaker is sorted by count, then by name.
		BySpeaker []SpeakerCount `json:"por_ponente"`
	}

	Dashboard struct {
		Total     int       `json:"total"`
		Completed int       `json:"realizadas"`
		Pending   int       `json:"pendientes"` // pendiente + fecha confirmada
		Overdue   int       `json:"atrasadas"`
		Upcoming  []Session `json:"proximas"`
	}
)

// IsOverdue reports whether s is still pending although its scheduled date is before today.
func (s Session) IsOverdue(today string) bool {
	return s.Status == StatusPending && s.ScheduledDate != "" && s.ScheduledDate < today
}

// ComputeStats aggregates sessions. Every known group is present in ByGroup, even at zero.
func ComputeStats(sessions []Session, today string) Stats {
	stats := Stats{
		Total:   len(sessions),
		ByGroup: make(map[string]int, len(Groups)),
	}
	for _, g := range Groups {
		stats.ByGroup[g] = 0
	}

	speakers := make(map[string]int)
	for _, s := range sessions {
		switch s.Status {
		case StatusPending:
			stats.Pending++
		case StatusConfirmed:
			stats.Confirmed++
		case StatusCompleted:
			stats.Completed++
		case StatusCancelled:
			stats.Cancelled++
		}
		if _, ok := stats.ByGroup[s.Group]; ok {
			stats.ByGroup[s.Group]++
		}
		if s.Speaker != "" {
			speakers[s.Speaker]++
		}
		if s.IsOverdue(today) {
			stats.Overdue++
		}
	}

	stats.BySpeaker = make([]SpeakerCount, 0, len(speakers))
	for name, n := range speakers {
		stats.BySpeaker = append(stats.BySpeaker, SpeakerCount{Speaker: name, Count: n})
	}
	coll := collate.New(language.Spanish, collate.IgnoreCase)
	sort.Slice(stats.BySpeaker, func(i, j int) bool {
		a, b := stats.BySpeaker[i], stats.BySpeaker[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if c := coll.CompareString(a.Speaker, b.Speaker); c != 0 {
			return c < 0
		}
		return a.Speaker < b.Speaker
	})
	return stats
}
