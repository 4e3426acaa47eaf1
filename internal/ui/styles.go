package ui

import (
	"strings"

	"liftlog/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary   lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneTitleStyle   lipgloss.Style
	TabStyle         lipgloss.Style
	TabActiveStyle   lipgloss.Style
	OverlayStyle     lipgloss.Style
	OverlayTitle     lipgloss.Style
	SelectedRowStyle lipgloss.Style

	// Workouts pane
	GroupStyle       lipgloss.Style
	ExerciseStyle    lipgloss.Style
	ExerciseMeta     lipgloss.Style
	WeightStyle      lipgloss.Style
	EmptyStateStyle  lipgloss.Style
	HistoryDateStyle lipgloss.Style

	// Chat pane
	UserLabelStyle      lipgloss.Style
	AssistantLabelStyle lipgloss.Style
	MessageStyle        lipgloss.Style
	LinkStyle           lipgloss.Style
	VideoStyle          lipgloss.Style
	TimestampStyle      lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	ToastStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style
	InputTextStyle   lipgloss.Style

	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#F97316")
	s.ColorAccent = colorOrDefault(theme.Accent, "#22C55E")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorWarning = lipgloss.Color("#F59E0B")
	s.ColorSuccess = lipgloss.Color("#10B981")

	s.ColorBg = colorOrDefault(theme.Background, "#1F2937")
	s.ColorBgLight = lipgloss.Color("#374151")
	s.ColorText = colorOrDefault(theme.Text, "#F9FAFB")
	s.ColorTextMuted = lipgloss.Color("#9CA3AF")

	s.initComponentStyles()

	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

// initComponentStyles initializes all component styles based on the color palette.
func (s *Styles) initComponentStyles() {
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary).
		MarginBottom(1)

	s.TabStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Padding(0, 1)

	s.TabActiveStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Background(s.ColorBgLight).
		Bold(true).
		Padding(0, 1)

	s.OverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(1, 2)

	s.OverlayTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary)

	s.SelectedRowStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.GroupStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.ExerciseStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.ExerciseMeta = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.WeightStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.EmptyStateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	s.HistoryDateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.UserLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.AssistantLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.MessageStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.LinkStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Underline(true)

	s.VideoStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.TimestampStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.ToastStyle = lipgloss.NewStyle().
		Foreground(s.ColorBg).
		Background(s.ColorSuccess).
		Padding(0, 1)

	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.InputTextStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.StatLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StatValueStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)
}

// RenderHelp renders help text with key bindings using the given styles.
// Arguments alternate key and description.
func (s *Styles) RenderHelp(keys ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(s.HelpKeyStyle.Render("[" + keys[i] + "]"))
		b.WriteString(" ")
		b.WriteString(s.HelpStyle.Render(keys[i+1]))
	}
	return b.String()
}
