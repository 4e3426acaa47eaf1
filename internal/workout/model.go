// Package workout holds the workout domain: groups of exercises with a
// per-exercise weight history, and the pure transitions over them.
//
// Every transition takes a Collection and returns a new one. Unmodified
// groups and exercises may be shared between the old and the new value, but
// nothing reachable from the input is ever written to.
package workout

// HistoryEntry is one dated weight registration.
type HistoryEntry struct {
	Date   string `json:"date"`   // YYYY-MM-DD
	Weight string `json:"weight"` // numeric text, e.g. "82.5"
}

// Exercise is a named movement with its target and weight log.
//
// When History is non-empty, CurrentTargetWeight equals the weight of the
// last appended entry. History is in insertion order, not date order.
type Exercise struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Sets                string         `json:"sets"`
	Reps                string         `json:"reps"`
	CurrentTargetWeight string         `json:"currentTargetWeight"`
	History             []HistoryEntry `json:"history"`
}

// Group is a named, ordered set of exercises (a training day).
type Group struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// Collection is the whole workout state, in display order.
type Collection []Group

// ExerciseSpec describes an exercise to be created.
type ExerciseSpec struct {
	Name                string
	Sets                string
	Reps                string
	CurrentTargetWeight string
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	out := e
	if e.History != nil {
		out.History = make([]HistoryEntry, len(e.History))
		copy(out.History, e.History)
	}
	return out
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	out := g
	if g.Exercises != nil {
		out.Exercises = make([]Exercise, len(g.Exercises))
		for i, ex := range g.Exercises {
			out.Exercises[i] = ex.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, g := range c {
		out[i] = g.Clone()
	}
	return out
}

// ExerciseCount returns the number of exercises across all groups.
func (c Collection) ExerciseCount() int {
	n := 0
	for _, g := range c {
		n += len(g.Exercises)
	}
	return n
}

// HistoryCount returns the number of history entries across all exercises.
func (c Collection) HistoryCount() int {
	n := 0
	for _, g := range c {
		for _, ex := range g.Exercises {
			n += len(ex.History)
		}
	}
	return n
}
