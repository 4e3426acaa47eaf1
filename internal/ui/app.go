// Package ui provides the terminal user interface for liftlog.
// This file contains the main App model which coordinates the views and
// overlays and routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"liftlog/internal/chat"
	"liftlog/internal/config"
	"liftlog/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewID identifies each top-level view.
type ViewID int

const (
	ViewWorkouts ViewID = iota
	ViewChat
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys             *config.KeysConfig
	ConfirmDeletions bool
	ShowOnboarding   bool
}

// App is the main application model.
type App struct {
	store   *storage.Store
	session *chat.Session
	styles  *Styles
	config  *AppConfig
	events  *storeEvents

	workoutsPane *WorkoutsPane
	chatPane     *ChatPane
	helpOverlay  *HelpOverlay
	progress     *ProgressOverlay
	video        *VideoOverlay

	undoManager *UndoManager
	undoBusy    bool
	confirmDel  *confirmDeleteState
	activeView  ViewID
	showHelp    bool
	showWelcome bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	toast       string
	toastSeq    int
	quitting    bool
	now         func() time.Time

	// Key bindings
	keys      GlobalKeyMap
	helpKeys  HelpKeyMap
	inputKeys InputKeyMap
	videoKeys VideoKeyMap
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application around an open store and chat session.
func NewApp(store *storage.Store, session *chat.Session, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:             &config.KeysConfig{},
			ConfirmDeletions: true,
			ShowOnboarding:   true,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	global := NewGlobalKeyMap(cfg.Keys)
	inputKeys := NewInputKeyMap(cfg.Keys)
	workoutsPane := NewWorkoutsPane(store, styles, cfg.Keys)
	chatPane := NewChatPane(session, styles, cfg.Keys)

	return &App{
		store:        store,
		session:      session,
		styles:       styles,
		config:       cfg,
		events:       watchStore(store),
		workoutsPane: workoutsPane,
		chatPane:     chatPane,
		helpOverlay:  NewHelpOverlay(styles, global, workoutsPane.keys, chatPane.keys, inputKeys),
		undoManager:  NewUndoManager(),
		activeView:   ViewWorkouts,
		showWelcome:  cfg.ShowOnboarding && store.Seeded(),
		now:          time.Now,
		keys:         global,
		helpKeys:     DefaultHelpKeyMap(),
		inputKeys:    inputKeys,
		videoKeys:    NewVideoKeyMap(cfg.Keys),
	}
}

// Init starts the clock and the store listeners.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForChange(a.events),
		waitForSave(a.events),
	)
}

// Close detaches the app from the store.
func (a *App) Close() {
	a.events.cancel()
	a.store.SetOnSaved(nil)
}

// refresh re-reads the collection into the views.
func (a *App) refresh() {
	c := a.store.Snapshot()
	a.workoutsPane.SetCollection(c)
	if a.progress != nil && !a.progress.Refresh(c) {
		a.progress = nil
	}
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Async results are handled regardless of what is on screen.
	switch msg := msg.(type) {
	case storeChangedMsg:
		a.refresh()
		return a, waitForChange(a.events)

	case savedMsg:
		cmds := []tea.Cmd{waitForSave(a.events)}
		if msg.event.Err != nil {
			a.SetStatus("Save failed: "+msg.event.Err.Error(), true)
		} else {
			a.toastSeq++
			a.toast = "Changes saved"
			cmds = append(cmds, expireToastCmd(a.toastSeq))
		}
		return a, tea.Batch(cmds...)

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil

	case statusMsg:
		a.SetStatus(msg.text, msg.isErr)
		return a, nil

	case confirmDeleteMsg:
		if !a.config.ConfirmDeletions {
			return a, msg.cmd
		}
		a.confirmDel = &confirmDeleteState{title: msg.title, body: msg.body, cmd: msg.cmd}
		return a, nil

	case openProgressMsg:
		a.progress = NewProgressOverlay(a.store, a.styles, a.inputKeys, msg.groupID, msg.exerciseID)
		a.progress.SetSize(a.width, a.height)
		return a, nil

	case openVideoMsg:
		a.video = NewVideoOverlay(msg.videoID, a.styles, a.videoKeys)
		a.video.SetSize(a.width, a.height)
		return a, nil

	case groupAddedMsg:
		a.refresh()
		a.workoutsPane.Select(msg.id, "")
		a.SetStatus("Added group: "+truncateText(msg.name, 30), false)
		return a, nil

	case groupDeletedMsg:
		if msg.ok {
			a.undoManager.Push(NewDeleteGroupAction(a.store, msg.index, msg.group))
			a.SetStatus("Deleted group: "+truncateText(msg.group.Name, 30)+a.undoHint(), false)
		}
		a.refresh()
		return a, nil

	case groupRenamedMsg:
		if msg.ok {
			a.undoManager.Push(NewRenameGroupAction(a.store, msg.id, msg.oldName, msg.newName))
			a.SetStatus("Renamed group: "+truncateText(msg.newName, 30), false)
		}
		a.refresh()
		return a, nil

	case exerciseAddedMsg:
		a.refresh()
		if msg.id == "" {
			a.SetStatus("Add exercise: group no longer exists", true)
			return a, nil
		}
		a.workoutsPane.Select(msg.groupID, msg.id)
		a.SetStatus("Added exercise: "+truncateText(msg.name, 30), false)
		return a, nil

	case exerciseDeletedMsg:
		if msg.ok {
			a.undoManager.Push(NewDeleteExerciseAction(a.store, msg.groupID, msg.index, msg.exercise))
			a.SetStatus("Deleted exercise: "+truncateText(msg.exercise.Name, 30)+a.undoHint(), false)
		}
		a.refresh()
		return a, nil

	case exerciseUpdatedMsg:
		if msg.ok {
			a.undoManager.Push(NewEditExerciseAction(a.store, msg.groupID, msg.before, msg.after))
			a.SetStatus("Updated exercise: "+truncateText(msg.after.Name, 30), false)
		}
		a.refresh()
		return a, nil

	case weightLoggedMsg:
		a.refresh()
		if msg.ok {
			a.SetStatus(fmt.Sprintf("Logged %s kg for %s", msg.weight, truncateText(msg.name, 30)), false)
		} else {
			a.SetStatus("Log weight: exercise no longer exists", true)
		}
		return a, nil

	case chatReplyMsg:
		cmd := a.chatPane.Update(msg)
		if msg.outcome.SwitchToWorkouts {
			a.refresh()
			a.workoutsPane.Select(msg.outcome.GroupID, "")
			a.setActiveView(ViewWorkouts)
		}
		return a, cmd

	case spinner.TickMsg:
		return a, a.chatPane.Update(msg)

	case clipboardMsg:
		if msg.err != nil {
			a.SetStatus("Copy failed: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Copied to clipboard", false)
		}
		return a, nil

	case undoResultMsg:
		a.undoBusy = false
		switch {
		case msg.err != nil:
			a.SetStatus("Undo failed: "+msg.err.Error(), true)
		case msg.desc != "":
			a.SetStatus("Undid: "+msg.desc, false)
		default:
			a.SetStatus("Nothing to undo", false)
		}
		a.refresh()
		return a, nil

	case redoResultMsg:
		a.undoBusy = false
		switch {
		case msg.err != nil:
			a.SetStatus("Redo failed: "+msg.err.Error(), true)
		case msg.desc != "":
			a.SetStatus("Redid: "+msg.desc, false)
		default:
			a.SetStatus("Nothing to redo", false)
		}
		a.refresh()
		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && a.now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		if a.activeView == ViewChat && a.overlayClosed() {
			return a, a.chatPane.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	// Anything else (cursor blinks) goes to the active view.
	return a, a.forward(msg)
}

// handleKey routes a key press through overlays, then global keys, then
// the active view.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		a.quitting = true
		return tea.Quit
	}

	if a.showWelcome {
		a.showWelcome = false
		return nil
	}

	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			cmd := a.confirmDel.cmd
			a.confirmDel = nil
			return cmd
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil
	}

	if a.video != nil {
		cmd, done := a.video.Update(msg)
		if done {
			a.video = nil
		}
		return cmd
	}

	if a.progress != nil {
		cmd, done := a.progress.Update(msg)
		if done {
			a.progress = nil
		}
		return cmd
	}

	// Forms and the chat input get printable keys before global bindings.
	if a.activeView == ViewWorkouts && a.workoutsPane.IsEditing() {
		return a.workoutsPane.Update(msg)
	}
	if a.activeView == ViewChat && isTextKey(msg) {
		return a.chatPane.Update(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil

	case key.Matches(msg, a.keys.NextView):
		a.switchView()
		return nil

	case key.Matches(msg, a.keys.ViewWorkouts):
		a.setActiveView(ViewWorkouts)
		return nil

	case key.Matches(msg, a.keys.ViewChat):
		a.setActiveView(ViewChat)
		return nil

	case key.Matches(msg, a.keys.Undo):
		if a.undoBusy {
			a.SetStatus("Undo: busy", true)
			return nil
		}
		a.undoBusy = true
		return undoCmd(a.undoManager)

	case key.Matches(msg, a.keys.Redo):
		if a.undoBusy {
			a.SetStatus("Redo: busy", true)
			return nil
		}
		a.undoBusy = true
		return redoCmd(a.undoManager)
	}

	return a.forward(msg)
}

// forward sends msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	switch a.activeView {
	case ViewChat:
		return a.chatPane.Update(msg)
	default:
		return a.workoutsPane.Update(msg)
	}
}

// isTextKey reports whether the key types a character.
func isTextKey(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace || msg.Type == tea.KeyBackspace
}

func (a *App) overlayClosed() bool {
	return !a.showWelcome && !a.showHelp && a.confirmDel == nil && a.progress == nil && a.video == nil
}

func (a *App) undoHint() string {
	return " (" + a.keys.Undo.Help().Key + " to undo)"
}

// switchView cycles through views.
func (a *App) switchView() {
	if a.activeView == ViewWorkouts {
		a.setActiveView(ViewChat)
	} else {
		a.setActiveView(ViewWorkouts)
	}
}

// setActiveView sets the active view.
func (a *App) setActiveView(view ViewID) {
	a.activeView = view
}

// ActiveView returns the view on screen.
func (a *App) ActiveView() ViewID {
	return a.activeView
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Title bar, tab bar and help bar take a line each; the pane border two.
	paneHeight := max(8, a.height-5)
	paneWidth := max(20, a.width-2)

	a.workoutsPane.SetSize(paneWidth, paneHeight)
	a.chatPane.SetSize(paneWidth, paneHeight)
	a.helpOverlay.SetSize(a.width, a.height)
	if a.progress != nil {
		a.progress.SetSize(a.width, a.height)
	}
	if a.video != nil {
		a.video.SetSize(a.width, a.height)
	}
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.showWelcome {
		return a.renderWelcome()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	if a.video != nil {
		return a.video.View()
	}

	if a.progress != nil {
		return a.progress.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	b.WriteString(a.renderViewTabs())
	b.WriteString("\n")
	switch a.activeView {
	case ViewChat:
		b.WriteString(a.chatPane.View())
	default:
		b.WriteString(a.workoutsPane.View())
	}
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) renderWelcome() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	bodyStyle := lipgloss.NewStyle().Foreground(a.styles.ColorText)
	mutedStyle := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted).Italic(true)

	var b strings.Builder
	b.WriteString(a.styles.OverlayTitle.Render("Welcome to liftlog"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Two example workout groups are ready for you.\n"))
	b.WriteString(bodyStyle.Render(fmt.Sprintf("Select an exercise and press '%s' to log today's weight.\n", a.workoutsPane.keys.Progress.Help().Key)))
	b.WriteString(bodyStyle.Render("Ask Astra in the Chat view to build a new workout.\n"))
	b.WriteString(bodyStyle.Render(fmt.Sprintf("%s switches views. %s opens help.\n", a.keys.NextView.Help().Key, a.keys.Help.Help().Key)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	return RenderCentered(a.styles.OverlayStyle.Width(overlayWidth).Render(b.String()), a.width, a.height)
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := a.styles.OverlayStyle.
		BorderForeground(a.styles.ColorDanger).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().Foreground(a.styles.ColorText)
	hintStyle := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	return RenderCentered(overlayStyle.Render(b.String()), a.width, a.height)
}

// renderViewTabs renders the tab bar.
func (a *App) renderViewTabs() string {
	tabs := []struct {
		id    ViewID
		label string
		key   key.Binding
	}{
		{ViewWorkouts, "Workouts", a.keys.ViewWorkouts},
		{ViewChat, "Chat", a.keys.ViewChat},
	}

	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := tab.key.Help().Key + " " + tab.label
		if tab.id == a.activeView {
			parts = append(parts, a.styles.TabActiveStyle.Render(label))
		} else {
			parts = append(parts, a.styles.TabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// renderGoodbye shows an exit message with a summary of the log.
func (a *App) renderGoodbye() string {
	c := a.store.Snapshot()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you at the gym!\n")
	b.WriteString("\n")
	if len(c) > 0 {
		b.WriteString(fmt.Sprintf("     %d groups, %d exercises, %d weights logged\n",
			len(c), c.ExerciseCount(), c.HistoryCount()))
		b.WriteString("\n")
	}
	return b.String()
}

// renderTitleBar creates the top title bar with stats, toast and date.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" liftlog ")

	groups, exercises := a.workoutsPane.Stats()
	stats := a.styles.StatLabelStyle.Render(fmt.Sprintf("Groups: %d  Exercises: %d", groups, exercises))

	var toast string
	if a.toast != "" {
		toast = a.styles.ToastStyle.Render("✓ " + a.toast)
	}

	date := a.styles.DateStyle.Render(a.now().Format("Mon Jan 2 · 15:04"))

	used := lipgloss.Width(title) + 2 + lipgloss.Width(stats) + lipgloss.Width(toast) + lipgloss.Width(date)
	spacer := max(2, a.width-used)
	left := spacer / 2
	right := spacer - left

	return title + "  " + stats + strings.Repeat(" ", left) + toast + strings.Repeat(" ", right) + date
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.activeView == ViewWorkouts && a.workoutsPane.IsEditing() {
		return a.styles.RenderHelp(
			a.inputKeys.Confirm.Help().Key, "next/save",
			a.inputKeys.Cancel.Help().Key, "cancel",
		)
	}

	switch a.activeView {
	case ViewChat:
		k := a.chatPane.keys
		return a.styles.RenderHelp(
			k.Send.Help().Key, "send",
			k.OpenVideo.Help().Key, "video",
			k.Copy.Help().Key, "copy",
			a.keys.NextView.Help().Key, "view",
			"ctrl+c", "quit",
		)
	default:
		k := a.workoutsPane.keys
		return a.styles.RenderHelp(
			k.AddGroup.Help().Key, "group",
			k.AddExercise.Help().Key, "exercise",
			k.Edit.Help().Key, "edit",
			k.Delete.Help().Key, "del",
			k.Progress.Help().Key, "progress",
			a.keys.NextView.Help().Key, "view",
			a.keys.Help.Help().Key, "help",
		)
	}
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = a.now().Add(ttl)
}

// Run starts the Bubble Tea program.
func Run(store *storage.Store, session *chat.Session, styles *Styles, cfg *AppConfig) error {
	app := NewApp(store, session, styles, cfg)
	defer app.Close()

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
