package workout

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

// =============================================================================
// Groups
// =============================================================================

// AddGroup appends a new group and returns it along with the new group id.
//
// Initial exercises always start at weight "0" with a single "0" history
// entry dated today, whatever weight the caller supplied. The user sets real
// weights afterwards through AppendWeight.
func (f *Factory) AddGroup(c Collection, name string, initial []ExerciseSpec) (Collection, string) {
	today := f.Today()
	g := Group{
		ID:        f.id("group"),
		Name:      name,
		Exercises: make([]Exercise, 0, len(initial)),
	}
	for _, spec := range initial {
		g.Exercises = append(g.Exercises, Exercise{
			ID:                  f.id("ex"),
			Name:                spec.Name,
			Sets:                spec.Sets,
			Reps:                spec.Reps,
			CurrentTargetWeight: "0",
			History:             []HistoryEntry{{Date: today, Weight: "0"}},
		})
	}

	out := make(Collection, 0, len(c)+1)
	out = append(out, c...)
	out = append(out, g)
	return out, g.ID
}

// DeleteGroup removes the group. ok is false (and c is returned as is) when
// no group has that id.
func DeleteGroup(c Collection, groupID string) (Collection, bool) {
	idx := groupIndex(c, groupID)
	if idx < 0 {
		return c, false
	}
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:idx]...)
	out = append(out, c[idx+1:]...)
	return out, true
}

// RenameGroup sets the group's name.
func RenameGroup(c Collection, groupID, name string) (Collection, bool) {
	return updateGroup(c, groupID, func(g Group) Group {
		g.Name = name
		return g
	})
}

// InsertGroup puts g back at index (clamped to the collection bounds). It is
// the inverse of DeleteGroup and refuses a group whose id is already present.
func InsertGroup(c Collection, index int, g Group) (Collection, bool) {
	if g.ID == "" || groupIndex(c, g.ID) >= 0 {
		return c, false
	}
	index = clamp(index, 0, len(c))
	out := make(Collection, 0, len(c)+1)
	out = append(out, c[:index]...)
	out = append(out, g.Clone())
	out = append(out, c[index:]...)
	return out, true
}

// =============================================================================
// Exercises
// =============================================================================

// AddExercise appends a new exercise to the group and returns its id. When
// spec.CurrentTargetWeight is non-empty it also becomes the first history
// entry, dated today. The returned id is empty when the group is unknown.
func (f *Factory) AddExercise(c Collection, groupID string, spec ExerciseSpec) (Collection, string) {
	ex := Exercise{
		ID:                  f.id("ex"),
		Name:                spec.Name,
		Sets:                spec.Sets,
		Reps:                spec.Reps,
		CurrentTargetWeight: spec.CurrentTargetWeight,
		History:             []HistoryEntry{},
	}
	if strings.TrimSpace(spec.CurrentTargetWeight) != "" {
		ex.History = append(ex.History, HistoryEntry{Date: f.Today(), Weight: spec.CurrentTargetWeight})
	}

	out, ok := updateGroup(c, groupID, func(g Group) Group {
		exercises := make([]Exercise, 0, len(g.Exercises)+1)
		exercises = append(exercises, g.Exercises...)
		g.Exercises = append(exercises, ex)
		return g
	})
	if !ok {
		return c, ""
	}
	return out, ex.ID
}

// DeleteExercise removes the exercise from the group.
func DeleteExercise(c Collection, groupID, exerciseID string) (Collection, bool) {
	found := false
	out, ok := updateGroup(c, groupID, func(g Group) Group {
		idx := exerciseIndex(g, exerciseID)
		if idx < 0 {
			return g
		}
		found = true
		exercises := make([]Exercise, 0, len(g.Exercises)-1)
		exercises = append(exercises, g.Exercises[:idx]...)
		g.Exercises = append(exercises, g.Exercises[idx+1:]...)
		return g
	})
	if !ok || !found {
		return c, false
	}
	return out, true
}

// UpdateExercise replaces the name, sets, reps and target weight of the
// exercise with updated.ID. A nil updated.History keeps the stored history;
// a non-nil one replaces it. It must not be used to register new weights.
func UpdateExercise(c Collection, groupID string, updated Exercise) (Collection, bool) {
	return updateExercise(c, groupID, updated.ID, func(ex Exercise) Exercise {
		ex.Name = updated.Name
		ex.Sets = updated.Sets
		ex.Reps = updated.Reps
		ex.CurrentTargetWeight = updated.CurrentTargetWeight
		if updated.History != nil {
			ex.History = make([]HistoryEntry, len(updated.History))
			copy(ex.History, updated.History)
		}
		return ex
	})
}

// AppendWeight registers weight for today: it becomes the current target
// and is appended to the history. This is the only transition that grows
// history.
func (f *Factory) AppendWeight(c Collection, groupID, exerciseID, weight string) (Collection, bool) {
	entry := HistoryEntry{Date: f.Today(), Weight: weight}
	return updateExercise(c, groupID, exerciseID, func(ex Exercise) Exercise {
		history := make([]HistoryEntry, 0, len(ex.History)+1)
		history = append(history, ex.History...)
		ex.History = append(history, entry)
		ex.CurrentTargetWeight = weight
		return ex
	})
}

// InsertExercise puts ex back into the group at index (clamped). It is the
// inverse of DeleteExercise.
func InsertExercise(c Collection, groupID string, index int, ex Exercise) (Collection, bool) {
	if ex.ID == "" {
		return c, false
	}
	inserted := false
	out, ok := updateGroup(c, groupID, func(g Group) Group {
		if exerciseIndex(g, ex.ID) >= 0 {
			return g
		}
		inserted = true
		index = clamp(index, 0, len(g.Exercises))
		exercises := make([]Exercise, 0, len(g.Exercises)+1)
		exercises = append(exercises, g.Exercises[:index]...)
		exercises = append(exercises, ex.Clone())
		g.Exercises = append(exercises, g.Exercises[index:]...)
		return g
	})
	if !ok || !inserted {
		return c, false
	}
	return out, true
}

// =============================================================================
// Helpers
// =============================================================================

// updateGroup copies the collection spine and replaces the matching group
// with fn's result. fn receives a shallow copy and must copy any slice it
// changes.
func updateGroup(c Collection, groupID string, fn func(Group) Group) (Collection, bool) {
	idx := groupIndex(c, groupID)
	if idx < 0 {
		return c, false
	}
	out := make(Collection, len(c))
	copy(out, c)
	out[idx] = fn(c[idx])
	return out, true
}

func updateExercise(c Collection, groupID, exerciseID string, fn func(Exercise) Exercise) (Collection, bool) {
	found := false
	out, ok := updateGroup(c, groupID, func(g Group) Group {
		idx := exerciseIndex(g, exerciseID)
		if idx < 0 {
			return g
		}
		found = true
		exercises := make([]Exercise, len(g.Exercises))
		copy(exercises, g.Exercises)
		exercises[idx] = fn(g.Exercises[idx])
		g.Exercises = exercises
		return g
	})
	if !ok || !found {
		return c, false
	}
	return out, true
}

func groupIndex(c Collection, groupID string) int {
	return pie.FindFirstUsing(c, func(g Group) bool { return g.ID == groupID })
}

func exerciseIndex(g Group, exerciseID string) int {
	return pie.FindFirstUsing(g.Exercises, func(ex Exercise) bool { return ex.ID == exerciseID })
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
