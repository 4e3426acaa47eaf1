package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders the keyboard shortcut screen. Keys are taken from the
// live key maps so custom bindings show up as configured.
type HelpOverlay struct {
	width  int
	height int
	styles *Styles

	global   GlobalKeyMap
	workouts WorkoutKeyMap
	chat     ChatKeyMap
	input    InputKeyMap
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(styles *Styles, global GlobalKeyMap, workouts WorkoutKeyMap, chat ChatKeyMap, input InputKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles:   styles,
		global:   global,
		workouts: workouts,
		chat:     chat,
		input:    input,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// keyLabel joins every key of a binding, "enter / p".
func keyLabel(b key.Binding) string {
	return strings.Join(b.Keys(), " / ")
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := h.styles.OverlayStyle.Width(overlayWidth)

	titleStyle := h.styles.OverlayTitle.MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	row := func(label, desc string) {
		b.WriteString(keyStyle.Render(label) + descStyle.Render(desc) + "\n")
	}
	section := func(title string) {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("liftlog - Keyboard Shortcuts"))
	b.WriteString("\n")

	section("Global")
	row(keyLabel(h.global.NextView), "Switch view")
	row(keyLabel(h.global.ViewWorkouts)+" / "+keyLabel(h.global.ViewChat), "Jump to Workouts / Chat")
	row(keyLabel(h.global.Undo), "Undo")
	row(keyLabel(h.global.Redo), "Redo")
	row(keyLabel(h.global.Help), "Toggle help")
	row(keyLabel(h.global.Quit), "Quit")

	section("Workouts")
	row(keyLabel(h.workouts.AddGroup), "Add group")
	row(keyLabel(h.workouts.AddExercise), "Add exercise to group")
	row(keyLabel(h.workouts.Edit), "Rename group / edit exercise")
	row(keyLabel(h.workouts.Delete), "Delete")
	row(keyLabel(h.workouts.Progress), "Progress and log weight")
	row(keyLabel(h.workouts.Up)+" / "+keyLabel(h.workouts.Down), "Navigate up/down")
	row(keyLabel(h.workouts.Top)+" / "+keyLabel(h.workouts.Bottom), "Go to top/bottom")

	section("Chat")
	row(keyLabel(h.chat.Send), "Send message")
	row(keyLabel(h.chat.OpenVideo), "Play latest video")
	row(keyLabel(h.chat.Copy), "Copy latest reply")
	row(keyLabel(h.chat.ScrollUp)+" / "+keyLabel(h.chat.ScrollDown), "Scroll history")

	section("Forms")
	row(keyLabel(h.input.Confirm), "Next field / save")
	row("tab / shift+tab", "Move between fields")
	row(keyLabel(h.input.Cancel), "Cancel")

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or esc to close"))

	return RenderCentered(overlayStyle.Render(b.String()), h.width, h.height)
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
