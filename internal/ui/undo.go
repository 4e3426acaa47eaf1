// Package ui provides the terminal user interface for liftlog.
// This file implements the undo/redo system using a command pattern with
// captured state snapshots for each undoable operation.
package ui

import (
	"errors"
	"sync"

	"liftlog/internal/storage"
	"liftlog/internal/workout"

	"github.com/mattn/go-runewidth"
)

// maxHistorySize limits the undo stack to prevent unbounded memory growth.
const maxHistorySize = 50

// errStale is returned when an undo or redo targets an item that no longer
// exists in the store.
var errStale = errors.New("item no longer exists")

// UndoableAction represents an action that can be undone.
// It captures the state needed to reverse the operation.
type UndoableAction struct {
	Description string       // Human-readable description for status messages
	Undo        func() error // Function to reverse the action
	Redo        func() error // Function to redo the action (optional)
}

// UndoManager maintains the undo/redo history stacks.
type UndoManager struct {
	mu        sync.Mutex
	undoStack []*UndoableAction
	redoStack []*UndoableAction
}

// NewUndoManager creates a new UndoManager instance.
func NewUndoManager() *UndoManager {
	return &UndoManager{
		undoStack: make([]*UndoableAction, 0, maxHistorySize),
		redoStack: make([]*UndoableAction, 0, maxHistorySize),
	}
}

// Push adds an undoable action to the history and clears the redo stack.
func (m *UndoManager) Push(action *UndoableAction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// A new action invalidates everything that was undone
	m.redoStack = m.redoStack[:0]

	// Enforce max size (drop the oldest if full)
	if len(m.undoStack) >= maxHistorySize {
		m.undoStack = m.undoStack[1:]
	}

	m.undoStack = append(m.undoStack, action)
}

// CanUndo returns true if there are actions to undo.
func (m *UndoManager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack) > 0
}

// CanRedo returns true if there are actions to redo.
func (m *UndoManager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack) > 0
}

// Undo reverses the most recent action and returns its description.
// Returns empty string and nil error if nothing to undo.
func (m *UndoManager) Undo() (string, error) {
	m.mu.Lock()
	if len(m.undoStack) == 0 {
		m.mu.Unlock()
		return "", nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.mu.Unlock()

	// Execute undo
	if err := action.Undo(); err != nil {
		// Push back on failure (nothing was undone)
		m.mu.Lock()
		m.undoStack = append(m.undoStack, action)
		m.mu.Unlock()
		return "", err
	}

	// Only actions that know how to redo go on the redo stack
	if action.Redo != nil {
		m.mu.Lock()
		m.redoStack = append(m.redoStack, action)
		m.mu.Unlock()
	}

	return action.Description, nil
}

// Redo reapplies the most recently undone action and returns its description.
// Returns empty string and nil error if nothing to redo.
func (m *UndoManager) Redo() (string, error) {
	m.mu.Lock()
	if len(m.redoStack) == 0 {
		m.mu.Unlock()
		return "", nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.mu.Unlock()

	// Execute redo
	if err := action.Redo(); err != nil {
		// Push back on failure
		m.mu.Lock()
		m.redoStack = append(m.redoStack, action)
		m.mu.Unlock()
		return "", err
	}

	// Redone actions can be undone again
	m.mu.Lock()
	m.undoStack = append(m.undoStack, action)
	m.mu.Unlock()

	return action.Description, nil
}

// Clear removes all undo/redo history.
func (m *UndoManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoStack = m.undoStack[:0]
	m.redoStack = m.redoStack[:0]
}

// =============================================================================
// Undoable Action Factories
// =============================================================================

// okOrStale turns a store mutator result into an error.
func okOrStale(ok bool) error {
	if !ok {
		return errStale
	}
	return nil
}

// NewDeleteGroupAction creates an undoable action for group deletion.
// The group and its position are captured so it can be put back in place.
func NewDeleteGroupAction(store *storage.Store, index int, g workout.Group) *UndoableAction {
	return &UndoableAction{
		Description: "Deleted group: " + truncateText(g.Name, 20),
		Undo: func() error {
			return okOrStale(store.RestoreGroup(index, g))
		},
		Redo: func() error {
			return okOrStale(store.DeleteGroup(g.ID))
		},
	}
}

// NewDeleteExerciseAction creates an undoable action for exercise deletion,
// history included.
func NewDeleteExerciseAction(store *storage.Store, groupID string, index int, ex workout.Exercise) *UndoableAction {
	return &UndoableAction{
		Description: "Deleted exercise: " + truncateText(ex.Name, 20),
		Undo: func() error {
			return okOrStale(store.RestoreExercise(groupID, index, ex))
		},
		Redo: func() error {
			return okOrStale(store.DeleteExercise(groupID, ex.ID))
		},
	}
}

// NewRenameGroupAction creates an undoable action for a group rename.
func NewRenameGroupAction(store *storage.Store, groupID, oldName, newName string) *UndoableAction {
	return &UndoableAction{
		Description: "Renamed group: " + truncateText(newName, 20),
		Undo: func() error {
			return okOrStale(store.RenameGroup(groupID, oldName))
		},
		Redo: func() error {
			return okOrStale(store.RenameGroup(groupID, newName))
		},
	}
}

// NewEditExerciseAction creates an undoable action for an exercise edit.
// Only name, sets and reps are swapped back; weights logged in between stay.
func NewEditExerciseAction(store *storage.Store, groupID string, before, after workout.Exercise) *UndoableAction {
	apply := func(fields workout.Exercise) error {
		current, ok := workout.FindExercise(store.Snapshot(), groupID, fields.ID)
		if !ok {
			return errStale
		}
		current.Name = fields.Name
		current.Sets = fields.Sets
		current.Reps = fields.Reps
		return okOrStale(store.UpdateExercise(groupID, current))
	}
	return &UndoableAction{
		Description: "Edited exercise: " + truncateText(after.Name, 20),
		Undo:        func() error { return apply(before) },
		Redo:        func() error { return apply(after) },
	}
}

// truncateText shortens text to maxLen with ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}
