package ui

import "testing"

func TestWorkoutsPaneView_Empty(t *testing.T) {
	setupTest(t)
	store, _ := createTestStore(t, "")

	pane := NewWorkoutsPane(store, createTestStyles(), nil)
	pane.SetSize(40, 20)

	assertGolden(t, "workouts_pane_empty", pane.View())
}

func TestWorkoutsPaneView_WithGroups(t *testing.T) {
	setupTest(t)
	store, _ := createTestStore(t, seededCollection)

	pane := NewWorkoutsPane(store, createTestStyles(), nil)
	pane.SetSize(40, 20)

	assertGolden(t, "workouts_pane_groups", pane.View())
}

func TestWorkoutsPane_CursorFollowsRowAcrossUpdates(t *testing.T) {
	setupTest(t)
	store, _ := createTestStore(t, seededCollection)

	pane := NewWorkoutsPane(store, createTestStyles(), nil)
	pane.SetSize(40, 20)
	pane.Update(keyPress("j"))
	pane.Update(keyPress("j"))

	row, ok := pane.selected()
	if !ok || row.exerciseID != "e2" {
		t.Fatalf("selected = %+v, want e2", row)
	}

	// Removing the row above must not move the selection to another exercise.
	if !store.DeleteExercise("g1", "e1") {
		t.Fatal("DeleteExercise() = false")
	}
	pane.SetCollection(store.Snapshot())

	row, ok = pane.selected()
	if !ok || row.exerciseID != "e2" {
		t.Errorf("after delete selected = %+v, want e2", row)
	}
}
