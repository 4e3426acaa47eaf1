// This file contains tests for the main App model: view routing, the
// workout editing flows and the chat integration.
package ui

import (
	"errors"
	"strings"
	"testing"

	"liftlog/internal/config"
	"liftlog/internal/storage"
	"liftlog/internal/workout"

	tea "github.com/charmbracelet/bubbletea"
)

// stubClipboard replaces the clipboard writer for the test and returns a
// pointer to the last copied text.
func stubClipboard(t *testing.T) *string {
	t.Helper()
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { copyToClipboard = orig })
	return &copied
}

// TestApp_DefaultView verifies the workouts view renders groups, exercises
// and the empty-group notice.
func TestApp_DefaultView(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	if app.ActiveView() != ViewWorkouts {
		t.Fatalf("default view = %v, want ViewWorkouts", app.ActiveView())
	}

	view := app.View()
	for _, want := range []string{
		"WORKOUTS",
		"Push Day",
		"Bench Press",
		"4x8",
		"60 kg",
		"Leg Day",
		"No exercises in this group yet.",
		"Groups: 2  Exercises: 2",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

// TestApp_EmptyState verifies the empty collection message.
func TestApp_EmptyState(t *testing.T) {
	store, _ := createTestStore(t, "[]")
	app := createTestApp(t, store, nil, nil)

	if !strings.Contains(app.View(), "Your gym is empty!") {
		t.Error("empty collection should show the empty state")
	}

	press(app, "e")
	if !strings.Contains(app.status, "Add a workout group first") {
		t.Errorf("status = %q, want hint to add a group", app.status)
	}
}

// TestApp_WelcomeOnFirstRun verifies the onboarding overlay appears only
// when the example groups were loaded.
func TestApp_WelcomeOnFirstRun(t *testing.T) {
	store := storage.Open(storage.NewMemoryKV())
	t.Cleanup(func() { _ = store.Shutdown() })
	app := createTestApp(t, store, nil, nil)

	if !strings.Contains(app.View(), "Welcome to liftlog") {
		t.Fatal("first run should show the welcome overlay")
	}

	// The dismissing key is not acted on.
	press(app, "q")
	if app.quitting {
		t.Error("dismissing the welcome screen should not quit")
	}
	if app.showWelcome {
		t.Error("any key should dismiss the welcome screen")
	}

	loaded, _ := createTestStore(t, seededCollection)
	if createTestApp(t, loaded, nil, nil).showWelcome {
		t.Error("welcome should not show for a stored collection")
	}
}

// TestApp_ViewSwitching verifies tab and the number keys change views.
func TestApp_ViewSwitching(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	press(app, "tab")
	if app.ActiveView() != ViewChat {
		t.Fatalf("after tab view = %v, want ViewChat", app.ActiveView())
	}
	if !strings.Contains(app.View(), "CHAT WITH ASTRA") {
		t.Error("chat view should render the chat pane")
	}

	press(app, "tab")
	if app.ActiveView() != ViewWorkouts {
		t.Errorf("second tab view = %v, want ViewWorkouts", app.ActiveView())
	}

	press(app, "2")
	if app.ActiveView() != ViewChat {
		t.Errorf("2 should open chat, got %v", app.ActiveView())
	}
}

// TestApp_ChatTextKeysDoNotTriggerGlobals verifies typing in chat never
// quits or toggles help.
func TestApp_ChatTextKeysDoNotTriggerGlobals(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)
	press(app, "2")

	typeText(app, "q1u? ")
	if app.quitting || app.showHelp {
		t.Fatalf("typing triggered a global: quitting=%v help=%v", app.quitting, app.showHelp)
	}
	if app.ActiveView() != ViewChat {
		t.Error("typing 1 in chat should not switch views")
	}
	if got := app.chatPane.input.Value(); got != "q1u? " {
		t.Errorf("chat input = %q, want %q", got, "q1u? ")
	}
}

// TestApp_AddGroup verifies the add-group form creates and selects a group.
func TestApp_AddGroup(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	press(app, "a")
	if !app.workoutsPane.IsEditing() {
		t.Fatal("a should open the add group form")
	}

	// Empty names are rejected and the form stays open.
	press(app, "enter")
	if !app.workoutsPane.IsEditing() {
		t.Fatal("empty name should keep the form open")
	}
	if !strings.Contains(app.View(), "Name is required") {
		t.Error("form should report the missing name")
	}

	typeText(app, "Pull Day")
	press(app, "enter")

	c := store.Snapshot()
	if len(c) != 3 || c[2].Name != "Pull Day" {
		t.Fatalf("collection after add = %+v", c)
	}
	if app.workoutsPane.IsEditing() {
		t.Error("form should close after submit")
	}
	if row, _ := app.workoutsPane.selected(); row.groupID != c[2].ID {
		t.Errorf("selected row = %+v, want new group", row)
	}
	if !strings.Contains(app.status, "Added group: Pull Day") {
		t.Errorf("status = %q", app.status)
	}
}

// TestApp_AddExercise verifies the exercise form and the initial history
// entry for a starting weight.
func TestApp_AddExercise(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	press(app, "G") // Leg Day, the last row
	press(app, "e")
	for _, v := range []string{"Squat", "5", "5", "100"} {
		typeText(app, v)
		press(app, "enter")
	}

	g, _ := workout.Find(store.Snapshot(), "g2")
	if len(g.Exercises) != 1 {
		t.Fatalf("Leg Day exercises = %d, want 1", len(g.Exercises))
	}
	ex := g.Exercises[0]
	if ex.Name != "Squat" || ex.Sets != "5" || ex.Reps != "5" || ex.CurrentTargetWeight != "100" {
		t.Errorf("exercise = %+v", ex)
	}
	if len(ex.History) != 1 || ex.History[0].Date != "2024-03-05" {
		t.Errorf("history = %+v, want one entry dated 2024-03-05", ex.History)
	}
}

// TestApp_DeleteGroupConfirmAndUndo verifies delete asks first, then undo
// restores the group with its exercises.
func TestApp_DeleteGroupConfirmAndUndo(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	press(app, "x")
	if app.confirmDel == nil {
		t.Fatal("x should ask for confirmation")
	}
	view := app.View()
	if !strings.Contains(view, "Delete workout group?") || !strings.Contains(view, "2 exercise(s)") {
		t.Errorf("confirm view = %q", view)
	}

	press(app, "y")
	if _, ok := workout.Find(store.Snapshot(), "g1"); ok {
		t.Fatal("group should be deleted after y")
	}
	if !strings.Contains(app.status, "u to undo") {
		t.Errorf("status = %q, want undo hint", app.status)
	}

	press(app, "u")
	c := store.Snapshot()
	if workout.IndexOf(c, "g1") != 0 {
		t.Fatalf("undo should restore group at index 0, collection = %+v", c)
	}
	if g, _ := workout.Find(c, "g1"); len(g.Exercises) != 2 {
		t.Errorf("restored group exercises = %d, want 2", len(g.Exercises))
	}
	if !strings.HasPrefix(app.status, "Undid: Deleted group") {
		t.Errorf("status = %q", app.status)
	}

	press(app, "ctrl+y")
	if _, ok := workout.Find(store.Snapshot(), "g1"); ok {
		t.Error("redo should delete the group again")
	}
}

// TestApp_CancelDelete verifies n keeps the item.
func TestApp_CancelDelete(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	press(app, "j")
	press(app, "x")
	press(app, "n")

	if app.confirmDel != nil {
		t.Error("n should close the confirmation")
	}
	if _, ok := workout.FindExercise(store.Snapshot(), "g1", "e1"); !ok {
		t.Error("exercise should survive a canceled delete")
	}
	if app.status != "Canceled" {
		t.Errorf("status = %q, want Canceled", app.status)
	}
}

// TestApp_DeleteWithoutConfirmation verifies deletes run directly when
// confirmations are off.
func TestApp_DeleteWithoutConfirmation(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, &AppConfig{Keys: &config.KeysConfig{}})

	press(app, "j")
	press(app, "x")

	if app.confirmDel != nil {
		t.Error("no confirmation expected")
	}
	if _, ok := workout.FindExercise(store.Snapshot(), "g1", "e1"); ok {
		t.Error("exercise should be deleted immediately")
	}
}

// TestApp_RenameGroupUndo verifies renaming through the form and undoing it.
func TestApp_RenameGroupUndo(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	press(app, "r")
	typeText(app, " B")
	press(app, "enter")

	if g, _ := workout.Find(store.Snapshot(), "g1"); g.Name != "Push Day B" {
		t.Fatalf("name after rename = %q", g.Name)
	}

	press(app, "ctrl+z")
	if g, _ := workout.Find(store.Snapshot(), "g1"); g.Name != "Push Day" {
		t.Errorf("name after undo = %q", g.Name)
	}
}

// TestApp_ProgressLogWeight verifies the progress overlay shows history and
// records a new weight.
func TestApp_ProgressLogWeight(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	// Enter on a group row does nothing.
	press(app, "enter")
	if app.progress != nil {
		t.Fatal("progress should not open for a group")
	}

	press(app, "j")
	press(app, "enter")
	if app.progress == nil {
		t.Fatal("enter on an exercise should open progress")
	}
	view := app.View()
	for _, want := range []string{"Bench Press", "Weight history", "2024-03-04", "latest", "Register new weight"} {
		if !strings.Contains(view, want) {
			t.Errorf("progress view should contain %q", want)
		}
	}

	// Blank input is ignored.
	press(app, "enter")
	if ex, _ := workout.FindExercise(store.Snapshot(), "g1", "e1"); len(ex.History) != 2 {
		t.Fatalf("blank weight changed history: %+v", ex.History)
	}

	typeText(app, "62.5")
	press(app, "enter")

	ex, _ := workout.FindExercise(store.Snapshot(), "g1", "e1")
	if ex.CurrentTargetWeight != "62.5" || len(ex.History) != 3 {
		t.Fatalf("after log exercise = %+v", ex)
	}
	if app.progress == nil {
		t.Fatal("overlay should stay open after logging")
	}
	if !strings.Contains(app.View(), "62.5 kg") {
		t.Error("overlay should show the new weight")
	}
	if !strings.Contains(app.status, "Logged 62.5 kg for Bench Press") {
		t.Errorf("status = %q", app.status)
	}

	press(app, "esc")
	if app.progress != nil {
		t.Error("esc should close progress")
	}
}

// TestApp_ProgressClosesWhenExerciseRemoved verifies the overlay closes when
// its exercise disappears from the store.
func TestApp_ProgressClosesWhenExerciseRemoved(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)
	app.Update(openProgressMsg{groupID: "g1", exerciseID: "e2"})

	store.DeleteExercise("g1", "e2")
	app.Update(storeChangedMsg{})

	if app.progress != nil {
		t.Error("progress should close for a removed exercise")
	}
}

// TestApp_SaveToast verifies save results update the title bar or status.
func TestApp_SaveToast(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	app.Update(savedMsg{event: storage.SaveEvent{}})
	if !strings.Contains(app.renderTitleBar(), "✓ Changes saved") {
		t.Error("title bar should show the saved toast")
	}

	// A stale expiry does not clear a newer toast.
	app.Update(toastExpiredMsg{seq: app.toastSeq - 1})
	if app.toast == "" {
		t.Error("stale expiry cleared the toast")
	}
	app.Update(toastExpiredMsg{seq: app.toastSeq})
	if app.toast != "" {
		t.Error("toast should clear on its own expiry")
	}

	app.Update(savedMsg{event: storage.SaveEvent{Err: errors.New("disk full")}})
	if !app.statusErr || !strings.Contains(app.status, "Save failed: disk full") {
		t.Errorf("status = %q (err=%v)", app.status, app.statusErr)
	}
}

// TestApp_ChatCreatesWorkout verifies a structured reply creates a group and
// switches to the workouts view with it selected.
func TestApp_ChatCreatesWorkout(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	gen := stubGenerator{reply: "```json\n" +
		`{"groupName":"Treino B","exercises":[{"name":"Remada","sets":4,"reps":"10"}]}` +
		"\n```"}
	app := createTestApp(t, store, gen, nil)

	press(app, "2")
	typeText(app, "monte um treino de costas")
	press(app, "enter")

	c := store.Snapshot()
	if len(c) != 3 || c[2].Name != "Treino B" {
		t.Fatalf("collection after chat = %+v", c)
	}
	if c[2].Exercises[0].Sets != "4" || c[2].Exercises[0].CurrentTargetWeight != "" {
		t.Errorf("created exercise = %+v", c[2].Exercises[0])
	}
	if app.ActiveView() != ViewWorkouts {
		t.Error("a created group should switch to the workouts view")
	}
	if row, _ := app.workoutsPane.selected(); row.groupID != c[2].ID {
		t.Errorf("selected row = %+v, want created group", row)
	}

	reply, _ := app.session.LastReply()
	if !strings.Contains(reply.Text, `"Treino B"`) {
		t.Errorf("assistant reply = %q", reply.Text)
	}
}

// TestApp_ChatPlainReply verifies a plain reply stays in chat and can be
// copied.
func TestApp_ChatPlainReply(t *testing.T) {
	copied := stubClipboard(t)
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, stubGenerator{reply: "Rest 90 seconds between sets."}, nil)

	press(app, "2")
	// Copy before any reply only reports.
	press(app, "ctrl+k")
	if app.status != "Nothing to copy yet" {
		t.Errorf("status = %q", app.status)
	}

	typeText(app, "how long should I rest?")
	press(app, "enter")

	if app.ActiveView() != ViewChat {
		t.Fatal("plain reply should stay in chat")
	}
	if len(store.Snapshot()) != 2 {
		t.Error("plain reply must not change the collection")
	}
	view := app.View()
	if !strings.Contains(view, "Rest 90 seconds") || !strings.Contains(view, "You") {
		t.Errorf("chat view missing conversation: %q", view)
	}

	press(app, "ctrl+k")
	if *copied != "Rest 90 seconds between sets." {
		t.Errorf("copied = %q", *copied)
	}
	if app.status != "Copied to clipboard" {
		t.Errorf("status = %q", app.status)
	}
}

// TestApp_ChatFailedReply verifies a provider error becomes an apology.
func TestApp_ChatFailedReply(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, stubGenerator{err: errors.New("quota exceeded")}, nil)

	press(app, "2")
	typeText(app, "hello")
	press(app, "enter")

	reply, ok := app.session.LastReply()
	if !ok || reply.Text == "" {
		t.Fatal("a failed turn should still produce an assistant message")
	}
	if app.chatPane.Waiting() {
		t.Error("pane should stop waiting after a failed turn")
	}
}

// TestApp_VideoOverlay verifies a video link in a reply can be opened.
func TestApp_VideoOverlay(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	gen := stubGenerator{reply: "Watch this: https://www.youtube.com/watch?v=rT7DgCr-3pg"}
	app := createTestApp(t, store, gen, nil)

	press(app, "2")
	press(app, "ctrl+o")
	if app.video != nil {
		t.Fatal("no video before any reply")
	}

	typeText(app, "show me bench form")
	press(app, "enter")
	if !strings.Contains(app.View(), "▶ Watch video") {
		t.Error("chat should mark the video link")
	}

	press(app, "ctrl+o")
	if app.video == nil {
		t.Fatal("ctrl+o should open the video overlay")
	}
	if !strings.Contains(app.View(), "https://www.youtube.com/embed/rT7DgCr-3pg") {
		t.Error("overlay should show the player link")
	}

	press(app, "esc")
	if app.video != nil {
		t.Error("esc should close the video overlay")
	}
}

// TestApp_QuitShowsSummary verifies the goodbye screen counts the log.
func TestApp_QuitShowsSummary(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	_, cmd := app.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	view := app.View()
	if !strings.Contains(view, "See you at the gym!") || !strings.Contains(view, "2 groups, 2 exercises, 2 weights logged") {
		t.Errorf("goodbye view = %q", view)
	}
}

// TestApp_ExternalChangeRefreshes verifies store notifications redraw the
// workouts list.
func TestApp_ExternalChangeRefreshes(t *testing.T) {
	store, _ := createTestStore(t, seededCollection)
	app := createTestApp(t, store, nil, nil)

	store.AddGroup("Cardio", nil)
	app.Update(storeChangedMsg{})

	if !strings.Contains(app.View(), "Cardio") {
		t.Error("view should show a group added outside the UI")
	}
}
