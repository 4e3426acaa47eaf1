// Package ui provides the terminal user interface for liftlog.
// This file defines message types for async operations using the Bubble Tea
// command pattern. Store mutations and assistant turns return these messages
// to keep the event loop non-blocking.
package ui

import (
	"liftlog/internal/chat"
	"liftlog/internal/storage"
	"liftlog/internal/workout"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Undo/Redo Messages
// =============================================================================

// undoResultMsg is sent when an undo operation completes.
type undoResultMsg struct {
	desc string
	err  error
}

// redoResultMsg is sent when a redo operation completes.
type redoResultMsg struct {
	desc string
	err  error
}

// =============================================================================
// Store Messages
// =============================================================================

// storeChangedMsg is sent after one or more committed changes. The collection
// is re-read from the store on receipt.
type storeChangedMsg struct{}

// savedMsg reports the outcome of a background write.
type savedMsg struct {
	event storage.SaveEvent
}

// toastExpiredMsg hides the save toast unless a newer one replaced it.
type toastExpiredMsg struct {
	seq int
}

// =============================================================================
// Workout Messages
// =============================================================================

// groupAddedMsg is sent when a new group is created.
type groupAddedMsg struct {
	id   string
	name string
}

// groupDeletedMsg is sent when a group is removed.
type groupDeletedMsg struct {
	group workout.Group // Full group for restoration on undo
	index int
	ok    bool
}

// groupRenamedMsg is sent when a group gets a new name.
type groupRenamedMsg struct {
	id      string
	oldName string
	newName string
	ok      bool
}

// exerciseAddedMsg is sent when an exercise is added to a group.
type exerciseAddedMsg struct {
	groupID string
	id      string
	name    string
}

// exerciseDeletedMsg is sent when an exercise is removed.
type exerciseDeletedMsg struct {
	groupID  string
	exercise workout.Exercise // Full exercise, history included, for undo
	index    int
	ok       bool
}

// exerciseUpdatedMsg is sent when an exercise's name, sets or reps change.
type exerciseUpdatedMsg struct {
	groupID string
	before  workout.Exercise
	after   workout.Exercise
	ok      bool
}

// weightLoggedMsg is sent when a weight is registered for today.
type weightLoggedMsg struct {
	name   string
	weight string
	ok     bool
}

// =============================================================================
// Chat Messages
// =============================================================================

// chatReplyMsg is sent when an assistant turn completes.
type chatReplyMsg struct {
	outcome chat.Outcome
}

// clipboardMsg reports the result of a copy to the system clipboard.
type clipboardMsg struct {
	err error
}

// tickMsg refreshes the clock and expires status messages.
type tickMsg struct{}

// =============================================================================
// Pane Requests
// =============================================================================

// statusMsg asks the app to show a status line.
type statusMsg struct {
	text  string
	isErr bool
}

// confirmDeleteMsg asks the app to run cmd, after confirmation when
// deletions are configured to be confirmed.
type confirmDeleteMsg struct {
	title string
	body  string
	cmd   tea.Cmd
}

// openProgressMsg asks the app to show the progress overlay.
type openProgressMsg struct {
	groupID    string
	exerciseID string
}

// openVideoMsg asks the app to show the video overlay.
type openVideoMsg struct {
	videoID string
}
