// Package importer brings workout groups in from files: a document in the
// persisted format (for example another device's workoutGroups.json) or a
// CSV sheet with one exercise per row.
package importer

import (
	"fmt"
	"io"
	"strings"

	"liftlog/internal/workout"

	"github.com/elliotchance/pie/v2"
)

// Target receives imported groups. *storage.Store implements it.
type Target interface {
	Snapshot() workout.Collection
	AddGroup(name string, initial []workout.ExerciseSpec) string
	AddExercise(groupID string, spec workout.ExerciseSpec) string
	UpdateExercise(groupID string, updated workout.Exercise) bool
}

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Groups         int      // Groups created
	Exercises      int      // Exercises added, to new or existing groups
	HistoryEntries int      // Logged weights carried over
	Skipped        int      // Exercises already present in their group
	Errors         []string // Rows or items that could not be read
}

// PreviewGroup is a group as read from the file.
type PreviewGroup struct {
	Name      string
	Exercises []workout.Exercise
}

// Importer reads one file format.
type Importer interface {
	// Preview parses the input without importing. Row-level problems are
	// returned as warnings; err is set only when nothing can be read.
	Preview(r io.Reader) (groups []PreviewGroup, warnings []string, err error)

	// Name returns the format name.
	Name() string
}

// GetImporter returns the importer for format, or nil.
func GetImporter(format string) Importer {
	switch strings.ToLower(format) {
	case "json":
		return &JSONImporter{}
	case "csv":
		return &CSVImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"json", "csv"}
}

// Import parses r with imp and adds the result to dst. Groups whose name
// matches an existing group (ignoring case) are merged into it; exercises
// whose name already exists in that group are skipped.
func Import(imp Importer, r io.Reader, dst Target) (*ImportResult, error) {
	groups, warnings, err := imp.Preview(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: warnings}
	for _, pg := range groups {
		apply(pg, dst, result)
	}
	return result, nil
}

func apply(pg PreviewGroup, dst Target, result *ImportResult) {
	existing, found := findGroupByName(dst.Snapshot(), pg.Name)
	groupID := existing.ID
	if !found {
		groupID = dst.AddGroup(pg.Name, nil)
		result.Groups++
	}

	known := pie.Map(existing.Exercises, func(ex workout.Exercise) string { return normalize(ex.Name) })
	for _, ex := range pg.Exercises {
		if pie.Contains(known, normalize(ex.Name)) {
			result.Skipped++
			continue
		}
		n, ok := addExercise(dst, groupID, ex)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: group %q disappeared during import", ex.Name, pg.Name))
			continue
		}
		result.HistoryEntries += n
		known = append(known, normalize(ex.Name))
		result.Exercises++
	}
}

// addExercise adds ex to the group and returns how many history entries it
// got. Without a history the weight is registered as today's entry, as in
// the app; a given history is kept as is.
func addExercise(dst Target, groupID string, ex workout.Exercise) (int, bool) {
	spec := workout.ExerciseSpec{Name: ex.Name, Sets: ex.Sets, Reps: ex.Reps}
	if ex.History == nil {
		spec.CurrentTargetWeight = ex.CurrentTargetWeight
		if dst.AddExercise(groupID, spec) == "" {
			return 0, false
		}
		if strings.TrimSpace(ex.CurrentTargetWeight) == "" {
			return 0, true
		}
		return 1, true
	}

	id := dst.AddExercise(groupID, spec)
	if id == "" {
		return 0, false
	}
	dst.UpdateExercise(groupID, workout.Exercise{
		ID:                  id,
		Name:                ex.Name,
		Sets:                ex.Sets,
		Reps:                ex.Reps,
		CurrentTargetWeight: ex.CurrentTargetWeight,
		History:             ex.History,
	})
	return len(ex.History), true
}

func findGroupByName(c workout.Collection, name string) (workout.Group, bool) {
	i := pie.FindFirstUsing(c, func(g workout.Group) bool {
		return normalize(g.Name) == normalize(name)
	})
	if i < 0 {
		return workout.Group{}, false
	}
	return c[i], true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
