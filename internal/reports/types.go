// Package reports summarizes logged progress per workout group and
// exercise, for export as Markdown or JSON.
package reports

import "time"

// ProgressReport covers the whole collection.
type ProgressReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Totals      Totals          `json:"totals"`
	Groups      []GroupProgress `json:"groups"`
}

// Totals counts the collection.
type Totals struct {
	Groups         int `json:"groups"`
	Exercises      int `json:"exercises"`
	HistoryEntries int `json:"history_entries"`
}

// GroupProgress lists the exercises of one group.
type GroupProgress struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Exercises []ExerciseProgress `json:"exercises"`
}

// ExerciseProgress compares the first and latest logged weights.
type ExerciseProgress struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Sets          string `json:"sets"`
	Reps          string `json:"reps"`
	CurrentWeight string `json:"current_weight"`
	FirstWeight   string `json:"first_weight,omitempty"`
	// Change is the latest minus the first logged weight, signed ("+5",
	// "-2.5", "0"). It is empty when either weight is not a number.
	Change     string `json:"change,omitempty"`
	Entries    int    `json:"entries"`
	FirstDate  string `json:"first_logged,omitempty"`
	LastLogged string `json:"last_logged,omitempty"`
}
