package ui

import (
	"fmt"
	"strings"

	"liftlog/internal/config"
	"liftlog/internal/storage"
	"liftlog/internal/workout"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// workoutRow is one line of the flattened group/exercise tree.
type workoutRow struct {
	groupID    string
	exerciseID string // empty for group headers
}

func (r workoutRow) isGroup() bool { return r.exerciseID == "" }

// WorkoutsPane lists groups with their exercises and edits them.
type WorkoutsPane struct {
	store      *storage.Store
	styles     *Styles
	collection workout.Collection
	rows       []workoutRow
	cursor     int
	width      int
	height     int

	// form is the open add/rename/edit form, nil when browsing.
	form *Form

	keys      WorkoutKeyMap
	inputKeys InputKeyMap
}

// NewWorkoutsPane creates the workouts pane.
func NewWorkoutsPane(store *storage.Store, styles *Styles, keyCfg *config.KeysConfig) *WorkoutsPane {
	p := &WorkoutsPane{
		store:     store,
		styles:    styles,
		keys:      NewWorkoutKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
	p.SetCollection(store.Snapshot())
	return p
}

// SetCollection replaces the displayed collection, keeping the cursor on the
// same row when it still exists.
func (p *WorkoutsPane) SetCollection(c workout.Collection) {
	var selected workoutRow
	hadSelection := p.cursor >= 0 && p.cursor < len(p.rows)
	if hadSelection {
		selected = p.rows[p.cursor]
	}

	p.collection = c
	p.rows = p.rows[:0]
	for _, g := range c {
		p.rows = append(p.rows, workoutRow{groupID: g.ID})
		for _, ex := range g.Exercises {
			p.rows = append(p.rows, workoutRow{groupID: g.ID, exerciseID: ex.ID})
		}
	}

	if hadSelection {
		if idx := p.indexOf(selected); idx >= 0 {
			p.cursor = idx
			return
		}
	}
	p.cursor = min(p.cursor, max(0, len(p.rows)-1))
}

// Select moves the cursor to the given row if it exists.
func (p *WorkoutsPane) Select(groupID, exerciseID string) {
	if idx := p.indexOf(workoutRow{groupID: groupID, exerciseID: exerciseID}); idx >= 0 {
		p.cursor = idx
	}
}

func (p *WorkoutsPane) indexOf(r workoutRow) int {
	for i, row := range p.rows {
		if row == r {
			return i
		}
	}
	return -1
}

// selected returns the row under the cursor.
func (p *WorkoutsPane) selected() (workoutRow, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return workoutRow{}, false
	}
	return p.rows[p.cursor], true
}

// SetSize sets the pane dimensions.
func (p *WorkoutsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	if p.form != nil {
		p.form.SetWidth(width)
	}
}

// IsEditing reports whether a form is open.
func (p *WorkoutsPane) IsEditing() bool {
	return p.form != nil
}

func (p *WorkoutsPane) openForm(f *Form) tea.Cmd {
	f.SetWidth(p.width)
	p.form = f
	return nil
}

// Update handles messages for the workouts pane.
func (p *WorkoutsPane) Update(msg tea.Msg) tea.Cmd {
	if p.form != nil {
		cmd, done := p.form.Update(msg)
		if done {
			p.form = nil
		}
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, p.keys.Down):
		if len(p.rows) > 0 {
			p.cursor = min(p.cursor+1, len(p.rows)-1)
		}

	case key.Matches(keyMsg, p.keys.Up):
		p.cursor = max(p.cursor-1, 0)

	case key.Matches(keyMsg, p.keys.Top):
		p.cursor = 0

	case key.Matches(keyMsg, p.keys.Bottom):
		p.cursor = max(0, len(p.rows)-1)

	case key.Matches(keyMsg, p.keys.AddGroup):
		return p.openForm(p.addGroupForm())

	case key.Matches(keyMsg, p.keys.AddExercise):
		row, ok := p.selected()
		if !ok {
			return statusCmd("Add a workout group first", true)
		}
		g, _ := workout.Find(p.collection, row.groupID)
		return p.openForm(p.addExerciseForm(g))

	case key.Matches(keyMsg, p.keys.Edit):
		row, ok := p.selected()
		if !ok {
			return statusCmd("Nothing selected", true)
		}
		if row.isGroup() {
			g, _ := workout.Find(p.collection, row.groupID)
			return p.openForm(p.renameGroupForm(g))
		}
		ex, _ := workout.FindExercise(p.collection, row.groupID, row.exerciseID)
		return p.openForm(p.editExerciseForm(row.groupID, ex))

	case key.Matches(keyMsg, p.keys.Delete):
		return p.requestDelete()

	case key.Matches(keyMsg, p.keys.Progress):
		row, ok := p.selected()
		if !ok || row.isGroup() {
			return nil
		}
		return emit(openProgressMsg{groupID: row.groupID, exerciseID: row.exerciseID})
	}

	return nil
}

// requestDelete asks the app to delete the selected group or exercise.
func (p *WorkoutsPane) requestDelete() tea.Cmd {
	row, ok := p.selected()
	if !ok {
		return statusCmd("Nothing selected", true)
	}
	if row.isGroup() {
		g, _ := workout.Find(p.collection, row.groupID)
		body := truncateText(g.Name, 60)
		if n := len(g.Exercises); n > 0 {
			body += fmt.Sprintf("\n%d exercise(s) and their history will be removed.", n)
		}
		return emit(confirmDeleteMsg{
			title: "Delete workout group?",
			body:  body,
			cmd:   deleteGroupCmd(p.store, g.ID),
		})
	}
	ex, _ := workout.FindExercise(p.collection, row.groupID, row.exerciseID)
	return emit(confirmDeleteMsg{
		title: "Delete exercise?",
		body:  truncateText(ex.Name, 60),
		cmd:   deleteExerciseCmd(p.store, row.groupID, ex.ID),
	})
}

// =============================================================================
// Forms
// =============================================================================

func (p *WorkoutsPane) addGroupForm() *Form {
	return newForm("New workout group", p.styles, p.inputKeys,
		[]fieldSpec{{label: "Name", placeholder: "e.g. Treino A - Peito", required: true}},
		func(v []string) tea.Cmd {
			return addGroupCmd(p.store, v[0])
		})
}

func (p *WorkoutsPane) addExerciseForm(g workout.Group) *Form {
	return newForm("Add exercise to "+truncateText(g.Name, 30), p.styles, p.inputKeys,
		[]fieldSpec{
			{label: "Name", placeholder: "Bench Press", required: true},
			{label: "Sets", placeholder: "4", required: true, charLimit: 6},
			{label: "Reps", placeholder: "8-12", required: true, charLimit: 10},
			{label: "Weight", placeholder: "0", fallback: "0", charLimit: 8},
		},
		func(v []string) tea.Cmd {
			return addExerciseCmd(p.store, g.ID, workout.ExerciseSpec{
				Name:                v[0],
				Sets:                v[1],
				Reps:                v[2],
				CurrentTargetWeight: v[3],
			})
		})
}

func (p *WorkoutsPane) renameGroupForm(g workout.Group) *Form {
	return newForm("Rename group", p.styles, p.inputKeys,
		[]fieldSpec{{label: "Name", value: g.Name}},
		func(v []string) tea.Cmd {
			if v[0] == "" || v[0] == g.Name {
				return nil
			}
			return renameGroupCmd(p.store, g.ID, g.Name, v[0])
		})
}

func (p *WorkoutsPane) editExerciseForm(groupID string, ex workout.Exercise) *Form {
	return newForm("Edit exercise", p.styles, p.inputKeys,
		[]fieldSpec{
			{label: "Name", value: ex.Name, required: true},
			{label: "Sets", value: ex.Sets, required: true, charLimit: 6},
			{label: "Reps", value: ex.Reps, required: true, charLimit: 10},
		},
		func(v []string) tea.Cmd {
			if v[0] == ex.Name && v[1] == ex.Sets && v[2] == ex.Reps {
				return nil
			}
			after := ex
			after.Name, after.Sets, after.Reps = v[0], v[1], v[2]
			return updateExerciseCmd(p.store, groupID, ex, after)
		})
}

// =============================================================================
// View
// =============================================================================

// View renders the workouts pane.
func (p *WorkoutsPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("WORKOUTS"))
	b.WriteString("\n")

	if p.form != nil {
		b.WriteString(p.form.View())
		return p.styles.PaneStyle.Width(p.width).Height(p.height).Render(b.String())
	}

	if len(p.collection) == 0 {
		b.WriteString(p.styles.EmptyStateStyle.Render("Your gym is empty!"))
		b.WriteString("\n")
		b.WriteString(p.styles.HelpStyle.Render(
			fmt.Sprintf("Press '%s' to add a workout group, or ask Astra in the Chat view.", p.keys.AddGroup.Help().Key)))
		return p.styles.PaneStyle.Width(p.width).Height(p.height).Render(b.String())
	}

	lines := p.renderRows()

	// Window the list around the cursor.
	visible := max(3, p.height-4)
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	end := min(len(lines), start+visible)
	for _, line := range lines[start:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	return p.styles.PaneStyle.Width(p.width).Height(p.height).Render(b.String())
}

// renderRows renders one line per row, plus the empty-group notice lines.
// The notices are attached to their group's line so indexes still match.
func (p *WorkoutsPane) renderRows() []string {
	lines := make([]string, 0, len(p.rows))
	textWidth := max(10, p.width-24)

	for i, row := range p.rows {
		selected := i == p.cursor
		var line string
		if row.isGroup() {
			g, _ := workout.Find(p.collection, row.groupID)
			name := runewidth.Truncate(g.Name, textWidth, "..")
			if selected {
				line = p.styles.SelectedRowStyle.Render("▸ " + name)
			} else {
				line = p.styles.GroupStyle.Render("▸ " + name)
			}
			if len(g.Exercises) == 0 {
				line += "\n    " + p.styles.EmptyStateStyle.Render("No exercises in this group yet.")
			}
		} else {
			ex, _ := workout.FindExercise(p.collection, row.groupID, row.exerciseID)
			line = p.renderExercise(ex, textWidth, selected)
		}
		lines = append(lines, line)
	}
	return lines
}

func (p *WorkoutsPane) renderExercise(ex workout.Exercise, textWidth int, selected bool) string {
	name := runewidth.FillRight(runewidth.Truncate(ex.Name, textWidth, ".."), min(textWidth, 28))
	meta := fmt.Sprintf("%sx%s", ex.Sets, ex.Reps)
	weight := ex.CurrentTargetWeight + " kg"

	if selected {
		return p.styles.SelectedRowStyle.Render(fmt.Sprintf("    %s  %-8s %s", name, meta, weight))
	}
	return "    " + p.styles.ExerciseStyle.Render(name) + "  " +
		p.styles.ExerciseMeta.Render(fmt.Sprintf("%-8s", meta)) + " " +
		p.styles.WeightStyle.Render(weight)
}

// Stats returns the number of groups and exercises shown.
func (p *WorkoutsPane) Stats() (groups, exercises int) {
	return len(p.collection), p.collection.ExerciseCount()
}
