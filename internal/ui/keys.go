// Package ui provides the terminal user interface for liftlog.
// This file defines key bindings using the Bubble Tea key package; every
// binding can be overridden from the keys section of the config file.
package ui

import (
	"strings"

	"liftlog/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// binding builds a key binding whose help label is its first key.
func binding(custom string, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
}

// =============================================================================
// Global Keys
// =============================================================================

// GlobalKeyMap defines keys available outside text inputs.
type GlobalKeyMap struct {
	Quit         key.Binding
	Help         key.Binding
	NextView     key.Binding
	ViewWorkouts key.Binding
	ViewChat     key.Binding
	Undo         key.Binding
	Redo         key.Binding
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit:         binding(cfg.Quit, "quit", "q", "ctrl+c"),
		Help:         binding(cfg.Help, "help", "?"),
		NextView:     binding(cfg.NextView, "next view", "tab"),
		ViewWorkouts: binding(cfg.ViewWorkouts, "workouts", "1"),
		ViewChat:     binding(cfg.ViewChat, "chat", "2"),
		Undo:         binding(cfg.Undo, "undo", "ctrl+z", "u"),
		Redo:         binding(cfg.Redo, "redo", "ctrl+y"),
	}
}

// =============================================================================
// Navigation Keys
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up:     binding(cfg.Up, "up", "k", "up"),
		Down:   binding(cfg.Down, "down", "j", "down"),
		Top:    binding(cfg.Top, "top", "g"),
		Bottom: binding(cfg.Bottom, "bottom", "G"),
	}
}

// =============================================================================
// Input Keys
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: binding(cfg.Confirm, "confirm", "enter"),
		Cancel:  binding(cfg.Cancel, "cancel", "esc"),
	}
}

// =============================================================================
// Workouts Pane Keys
// =============================================================================

// WorkoutKeyMap defines keys for the workouts pane.
type WorkoutKeyMap struct {
	AddGroup    key.Binding
	AddExercise key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Progress    key.Binding
	NavigationKeyMap
}

// NewWorkoutKeyMap creates workout key bindings from config.
func NewWorkoutKeyMap(cfg *config.KeysConfig) WorkoutKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return WorkoutKeyMap{
		AddGroup:         binding(cfg.AddGroup, "add group", "a"),
		AddExercise:      binding(cfg.AddExercise, "add exercise", "e"),
		Edit:             binding(cfg.Edit, "rename/edit", "r"),
		Delete:           binding(cfg.Delete, "delete", "x"),
		Progress:         binding(cfg.Progress, "progress", "enter", "p"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the workouts pane (implements help.KeyMap).
func (k WorkoutKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddGroup, k.AddExercise, k.Edit, k.Delete, k.Progress}
}

// FullHelp returns the full help for the workouts pane (implements help.KeyMap).
func (k WorkoutKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddGroup, k.AddExercise, k.Edit, k.Delete, k.Progress},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Chat Pane Keys
// =============================================================================

// ChatKeyMap defines keys for the chat pane. Plain letters go to the message
// input, so these are all enter or control chords.
type ChatKeyMap struct {
	Send       key.Binding
	OpenVideo  key.Binding
	Copy       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// NewChatKeyMap creates chat key bindings from config.
func NewChatKeyMap(cfg *config.KeysConfig) ChatKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return ChatKeyMap{
		Send:       binding(cfg.Confirm, "send", "enter"),
		OpenVideo:  binding(cfg.OpenVideo, "play video", "ctrl+o"),
		Copy:       binding(cfg.Copy, "copy reply", "ctrl+k"),
		ScrollUp:   binding("", "scroll up", "pgup", "ctrl+u"),
		ScrollDown: binding("", "scroll down", "pgdown", "ctrl+d"),
	}
}

// ShortHelp returns the short help for the chat pane (implements help.KeyMap).
func (k ChatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.OpenVideo, k.Copy}
}

// FullHelp returns the full help for the chat pane (implements help.KeyMap).
func (k ChatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.OpenVideo, k.Copy},
		{k.ScrollUp, k.ScrollDown},
	}
}

// =============================================================================
// Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}

// VideoKeyMap defines keys for the video overlay.
type VideoKeyMap struct {
	Close key.Binding
	Copy  key.Binding
}

// NewVideoKeyMap creates video overlay key bindings from config.
func NewVideoKeyMap(cfg *config.KeysConfig) VideoKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return VideoKeyMap{
		Close: binding(cfg.Cancel, "close", "esc", "q"),
		Copy:  binding("", "copy link", "c", "y"),
	}
}
