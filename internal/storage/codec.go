package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"liftlog/internal/workout"
)

// The wire types use pointers so a missing field can be told apart from an
// empty one.
type wireHistory struct {
	Date   *string `json:"date"`
	Weight *string `json:"weight"`
}

type wireExercise struct {
	ID                  *string        `json:"id"`
	Name                *string        `json:"name"`
	Sets                *string        `json:"sets"`
	Reps                *string        `json:"reps"`
	CurrentTargetWeight *string        `json:"currentTargetWeight"`
	History             *[]wireHistory `json:"history"`
}

type wireGroup struct {
	ID        *string         `json:"id"`
	Name      *string         `json:"name"`
	Exercises *[]wireExercise `json:"exercises"`
}

// Encode serializes the collection in the persisted format. Nil slices are
// written as empty arrays.
func Encode(c workout.Collection) ([]byte, error) {
	out := make(workout.Collection, len(c))
	for i, g := range c {
		if g.Exercises == nil {
			g.Exercises = []workout.Exercise{}
		}
		exercises := make([]workout.Exercise, len(g.Exercises))
		for j, ex := range g.Exercises {
			if ex.History == nil {
				ex.History = []workout.HistoryEntry{}
			}
			exercises[j] = ex
		}
		g.Exercises = exercises
		out[i] = g
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize workouts: %w", err)
	}
	return data, nil
}

// Decode parses a persisted collection. It is strict: the root must be an
// array, every field must be present and no unknown field or trailing data
// is accepted.
func Decode(data []byte) (workout.Collection, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("document is empty")
	}
	if trimmed[0] != '[' {
		return nil, errors.New("document root is not an array")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var groups []wireGroup
	if err := dec.Decode(&groups); err != nil {
		return nil, fmt.Errorf("parse workouts: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after document")
	}

	out := make(workout.Collection, 0, len(groups))
	for i, wg := range groups {
		g, err := wg.toGroup()
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func (wg wireGroup) toGroup() (workout.Group, error) {
	if wg.ID == nil || wg.Name == nil || wg.Exercises == nil {
		return workout.Group{}, errors.New("missing id, name or exercises")
	}
	g := workout.Group{
		ID:        *wg.ID,
		Name:      *wg.Name,
		Exercises: make([]workout.Exercise, 0, len(*wg.Exercises)),
	}
	for j, we := range *wg.Exercises {
		ex, err := we.toExercise()
		if err != nil {
			return workout.Group{}, fmt.Errorf("exercise %d: %w", j, err)
		}
		g.Exercises = append(g.Exercises, ex)
	}
	return g, nil
}

func (we wireExercise) toExercise() (workout.Exercise, error) {
	if we.ID == nil || we.Name == nil || we.Sets == nil || we.Reps == nil ||
		we.CurrentTargetWeight == nil || we.History == nil {
		return workout.Exercise{}, errors.New("missing exercise field")
	}
	ex := workout.Exercise{
		ID:                  *we.ID,
		Name:                *we.Name,
		Sets:                *we.Sets,
		Reps:                *we.Reps,
		CurrentTargetWeight: *we.CurrentTargetWeight,
		History:             make([]workout.HistoryEntry, 0, len(*we.History)),
	}
	for k, wh := range *we.History {
		if wh.Date == nil || wh.Weight == nil {
			return workout.Exercise{}, fmt.Errorf("history %d: missing date or weight", k)
		}
		ex.History = append(ex.History, workout.HistoryEntry{Date: *wh.Date, Weight: *wh.Weight})
	}
	return ex, nil
}
