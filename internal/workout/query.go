package workout

import (
	"github.com/elliotchance/pie/v2"
)

// GroupSummary is the compact view of a group used for assistant context:
// names only, no weights or history.
type GroupSummary struct {
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
}

// Find returns the group with the given id.
func Find(c Collection, groupID string) (Group, bool) {
	idx := groupIndex(c, groupID)
	if idx < 0 {
		return Group{}, false
	}
	return c[idx], true
}

// FindExercise returns the exercise with the given id inside the group.
func FindExercise(c Collection, groupID, exerciseID string) (Exercise, bool) {
	g, ok := Find(c, groupID)
	if !ok {
		return Exercise{}, false
	}
	idx := exerciseIndex(g, exerciseID)
	if idx < 0 {
		return Exercise{}, false
	}
	return g.Exercises[idx], true
}

// IndexOf returns the position of the group, or -1.
func IndexOf(c Collection, groupID string) int {
	return groupIndex(c, groupID)
}

// ExerciseIndexOf returns the position of the exercise inside its group, or -1.
func ExerciseIndexOf(c Collection, groupID, exerciseID string) int {
	g, ok := Find(c, groupID)
	if !ok {
		return -1
	}
	return exerciseIndex(g, exerciseID)
}

// SortedHistory returns a copy of the exercise history ordered newest date
// first. Entries on the same date keep their insertion order.
func SortedHistory(ex Exercise) []HistoryEntry {
	out := make([]HistoryEntry, len(ex.History))
	copy(out, ex.History)
	return pie.SortStableUsing(out, func(a, b HistoryEntry) bool {
		return a.Date > b.Date
	})
}

// Summarize reduces the collection to group and exercise names.
func Summarize(c Collection) []GroupSummary {
	out := make([]GroupSummary, 0, len(c))
	for _, g := range c {
		names := pie.Map(g.Exercises, func(ex Exercise) string { return ex.Name })
		if names == nil {
			names = []string{}
		}
		out = append(out, GroupSummary{Name: g.Name, Exercises: names})
	}
	return out
}
