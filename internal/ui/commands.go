// Package ui provides the terminal user interface for liftlog.
// This file contains tea.Cmd factories that wrap store mutations and
// assistant turns. Each command runs off the event loop and returns a
// corresponding message type defined in messages.go.
package ui

import (
	"context"
	"time"

	"liftlog/internal/chat"
	"liftlog/internal/storage"
	"liftlog/internal/workout"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// toastDuration is how long the "Changes saved" toast stays visible.
const toastDuration = 2 * time.Second

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// =============================================================================
// Store Event Commands
// =============================================================================

// storeEvents bridges store callbacks, which run on other goroutines, into
// the Bubble Tea event loop.
type storeEvents struct {
	changed chan struct{}
	saved   chan storage.SaveEvent
	cancel  func()
}

// watchStore subscribes to store changes and save results. Change signals
// coalesce; save events are dropped when the UI falls far behind.
func watchStore(store *storage.Store) *storeEvents {
	ev := &storeEvents{
		changed: make(chan struct{}, 1),
		saved:   make(chan storage.SaveEvent, 16),
	}
	ev.cancel = store.Subscribe(func(storage.Change) {
		select {
		case ev.changed <- struct{}{}:
		default:
		}
	})
	store.SetOnSaved(func(e storage.SaveEvent) {
		e.Collection = nil
		select {
		case ev.saved <- e:
		default:
		}
	})
	return ev
}

// waitForChange returns a command that blocks until the store changes.
func waitForChange(ev *storeEvents) tea.Cmd {
	return func() tea.Msg {
		<-ev.changed
		return storeChangedMsg{}
	}
}

// waitForSave returns a command that blocks until the next write finishes.
func waitForSave(ev *storeEvents) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{event: <-ev.saved}
	}
}

// expireToastCmd hides toast number seq after toastDuration.
func expireToastCmd(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// tickCmd returns a command that ticks every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// =============================================================================
// Workout Commands
// =============================================================================

// addGroupCmd returns a command that creates an empty group.
func addGroupCmd(store *storage.Store, name string) tea.Cmd {
	return func() tea.Msg {
		id := store.AddGroup(name, nil)
		return groupAddedMsg{id: id, name: name}
	}
}

// deleteGroupCmd returns a command that removes a group.
// Captures the group and its position before deletion for undo.
func deleteGroupCmd(store *storage.Store, id string) tea.Cmd {
	return func() tea.Msg {
		c := store.Snapshot()
		g, _ := workout.Find(c, id)
		index := workout.IndexOf(c, id)
		ok := store.DeleteGroup(id)
		return groupDeletedMsg{group: g, index: index, ok: ok}
	}
}

// renameGroupCmd returns a command that renames a group.
func renameGroupCmd(store *storage.Store, id, oldName, newName string) tea.Cmd {
	return func() tea.Msg {
		ok := store.RenameGroup(id, newName)
		return groupRenamedMsg{id: id, oldName: oldName, newName: newName, ok: ok}
	}
}

// addExerciseCmd returns a command that adds an exercise to a group.
func addExerciseCmd(store *storage.Store, groupID string, spec workout.ExerciseSpec) tea.Cmd {
	return func() tea.Msg {
		id := store.AddExercise(groupID, spec)
		return exerciseAddedMsg{groupID: groupID, id: id, name: spec.Name}
	}
}

// deleteExerciseCmd returns a command that removes an exercise.
// Captures the full exercise and its position before deletion for undo.
func deleteExerciseCmd(store *storage.Store, groupID, exerciseID string) tea.Cmd {
	return func() tea.Msg {
		c := store.Snapshot()
		ex, _ := workout.FindExercise(c, groupID, exerciseID)
		index := workout.ExerciseIndexOf(c, groupID, exerciseID)
		ok := store.DeleteExercise(groupID, exerciseID)
		return exerciseDeletedMsg{groupID: groupID, exercise: ex, index: index, ok: ok}
	}
}

// updateExerciseCmd returns a command that edits an exercise's name, sets
// and reps. History is left alone.
func updateExerciseCmd(store *storage.Store, groupID string, before, after workout.Exercise) tea.Cmd {
	return func() tea.Msg {
		updated := after
		updated.History = nil
		ok := store.UpdateExercise(groupID, updated)
		return exerciseUpdatedMsg{groupID: groupID, before: before, after: after, ok: ok}
	}
}

// logWeightCmd returns a command that registers a weight for today.
func logWeightCmd(store *storage.Store, groupID, exerciseID, name, weight string) tea.Cmd {
	return func() tea.Msg {
		ok := store.AppendWeight(groupID, exerciseID, weight)
		return weightLoggedMsg{name: name, weight: weight, ok: ok}
	}
}

// =============================================================================
// Chat Commands
// =============================================================================

// completeTurnCmd returns a command that waits for the assistant's reply.
func completeTurnCmd(turn *chat.Turn) tea.Cmd {
	return func() tea.Msg {
		return chatReplyMsg{outcome: turn.Complete(context.Background())}
	}
}

// copyCmd returns a command that copies text to the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: copyToClipboard(text)}
	}
}

// =============================================================================
// Undo/Redo Commands
// =============================================================================

func undoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := manager.Undo()
		return undoResultMsg{desc: desc, err: err}
	}
}

func redoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := manager.Redo()
		return redoResultMsg{desc: desc, err: err}
	}
}

// emit wraps msg in a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// statusCmd returns a command that shows a status line.
func statusCmd(text string, isErr bool) tea.Cmd {
	return emit(statusMsg{text: text, isErr: isErr})
}
