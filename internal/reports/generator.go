package reports

import (
	"strconv"
	"strings"
	"time"

	"liftlog/internal/workout"

	"github.com/elliotchance/pie/v2"
)

// Generate builds the progress report for c.
func Generate(c workout.Collection, now time.Time) *ProgressReport {
	groups := pie.Map(c, groupProgress)
	if groups == nil {
		groups = []GroupProgress{}
	}
	return &ProgressReport{
		GeneratedAt: now,
		Totals: Totals{
			Groups:         len(c),
			Exercises:      c.ExerciseCount(),
			HistoryEntries: c.HistoryCount(),
		},
		Groups: groups,
	}
}

func groupProgress(g workout.Group) GroupProgress {
	exercises := pie.Map(g.Exercises, exerciseProgress)
	if exercises == nil {
		exercises = []ExerciseProgress{}
	}
	return GroupProgress{ID: g.ID, Name: g.Name, Exercises: exercises}
}

func exerciseProgress(ex workout.Exercise) ExerciseProgress {
	p := ExerciseProgress{
		ID:            ex.ID,
		Name:          ex.Name,
		Sets:          ex.Sets,
		Reps:          ex.Reps,
		CurrentWeight: ex.CurrentTargetWeight,
		Entries:       len(ex.History),
	}

	// Newest first; the oldest entry is the baseline.
	history := workout.SortedHistory(ex)
	if len(history) == 0 {
		return p
	}
	first := history[len(history)-1]
	last := history[0]
	p.FirstWeight = first.Weight
	p.FirstDate = first.Date
	p.LastLogged = last.Date
	p.Change = weightChange(first.Weight, last.Weight)
	return p
}

// weightChange formats to-from with an explicit sign. Weights are free text,
// so a decimal comma is accepted and anything else yields "".
func weightChange(from, to string) string {
	a, okA := parseWeight(from)
	b, okB := parseWeight(to)
	if !okA || !okB {
		return ""
	}
	d := b - a
	s := strconv.FormatFloat(d, 'f', -1, 64)
	if d > 0 {
		return "+" + s
	}
	return s
}

func parseWeight(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "kg"))
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return v, err == nil
}
