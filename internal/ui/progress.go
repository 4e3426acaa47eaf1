package ui

import (
	"fmt"
	"strings"

	"liftlog/internal/storage"
	"liftlog/internal/workout"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressOverlay shows an exercise's weight history and registers new
// weights for today.
type ProgressOverlay struct {
	store      *storage.Store
	styles     *Styles
	keys       InputKeyMap
	groupID    string
	exerciseID string
	exercise   workout.Exercise
	input      textinput.Model
	width      int
	height     int
}

// NewProgressOverlay opens the overlay for one exercise.
func NewProgressOverlay(store *storage.Store, styles *Styles, keys InputKeyMap, groupID, exerciseID string) *ProgressOverlay {
	ti := textinput.New()
	ti.Placeholder = "Today's weight (kg)"
	ti.CharLimit = 8
	ti.Width = 20
	ti.Focus()

	o := &ProgressOverlay{
		store:      store,
		styles:     styles,
		keys:       keys,
		groupID:    groupID,
		exerciseID: exerciseID,
		input:      ti,
	}
	o.Refresh(store.Snapshot())
	return o
}

// Refresh re-reads the exercise. It reports false when the exercise no
// longer exists and the overlay should close.
func (o *ProgressOverlay) Refresh(c workout.Collection) bool {
	ex, ok := workout.FindExercise(c, o.groupID, o.exerciseID)
	if ok {
		o.exercise = ex
	}
	return ok
}

// SetSize sets the overlay dimensions.
func (o *ProgressOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Update handles a message while the overlay is open. done reports that
// the overlay should close.
func (o *ProgressOverlay) Update(msg tea.Msg) (cmd tea.Cmd, done bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, o.keys.Cancel):
			return nil, true

		case key.Matches(msg, o.keys.Confirm):
			weight := strings.TrimSpace(o.input.Value())
			if weight == "" {
				return nil, false
			}
			o.input.Reset()
			return logWeightCmd(o.store, o.groupID, o.exerciseID, o.exercise.Name, weight), false
		}
	}

	o.input, cmd = o.input.Update(msg)
	return cmd, false
}

// View renders the overlay.
func (o *ProgressOverlay) View() string {
	overlayWidth := 50
	if o.width > 0 {
		overlayWidth = min(50, max(24, o.width-4))
	}

	var b strings.Builder
	b.WriteString(o.styles.OverlayTitle.Render(truncateText(o.exercise.Name, overlayWidth-6)))
	b.WriteString("\n")
	b.WriteString(o.styles.StatLabelStyle.Render(fmt.Sprintf("%s sets x %s reps  ·  target ", o.exercise.Sets, o.exercise.Reps)))
	b.WriteString(o.styles.WeightStyle.Render(o.exercise.CurrentTargetWeight + " kg"))
	b.WriteString("\n\n")

	b.WriteString(o.styles.GroupStyle.Render("Weight history"))
	b.WriteString("\n")

	history := workout.SortedHistory(o.exercise)
	if len(history) == 0 {
		b.WriteString(o.styles.EmptyStateStyle.Render("No history recorded yet."))
		b.WriteString("\n")
	} else {
		limit := len(history)
		if o.height > 0 {
			limit = min(limit, max(3, o.height-16))
		}
		for i, entry := range history[:limit] {
			line := o.styles.HistoryDateStyle.Render(entry.Date) + "   " + o.styles.StatValueStyle.Render(entry.Weight+" kg")
			if i == 0 {
				line = o.styles.SelectedRowStyle.Render(entry.Date+"   "+entry.Weight+" kg") + " " + o.styles.StatLabelStyle.Render("latest")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		if limit < len(history) {
			b.WriteString(o.styles.StatLabelStyle.Render(fmt.Sprintf("… %d older entries", len(history)-limit)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(o.styles.GroupStyle.Render("Register new weight"))
	b.WriteString("\n")
	b.WriteString(o.styles.InputPromptStyle.Render("+ ") + o.input.View())
	b.WriteString("\n\n")
	b.WriteString(o.styles.RenderHelp(
		o.keys.Confirm.Help().Key, "log weight",
		o.keys.Cancel.Help().Key, "close",
	))

	return RenderCentered(o.styles.OverlayStyle.Width(overlayWidth).Render(b.String()), o.width, o.height)
}
