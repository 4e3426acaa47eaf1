package ui

import (
	"errors"
	"strings"

	"liftlog/internal/assistant"
	"liftlog/internal/chat"
	"liftlog/internal/config"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// assistantName labels assistant messages.
const assistantName = "Astra"

// ChatPane shows the conversation with the assistant.
type ChatPane struct {
	session *chat.Session
	styles  *Styles
	keys    ChatKeyMap

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	waiting  bool

	width  int
	height int
}

// NewChatPane creates the chat pane.
func NewChatPane(session *chat.Session, styles *Styles, keyCfg *config.KeysConfig) *ChatPane {
	ti := textinput.New()
	ti.Placeholder = "Ask Astra about your training..."
	ti.CharLimit = 500
	ti.Width = 40
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(styles.ColorAccent)

	p := &ChatPane{
		session:  session,
		styles:   styles,
		keys:     NewChatKeyMap(keyCfg),
		viewport: viewport.New(40, 10),
		input:    ti,
		spinner:  sp,
	}
	p.refresh()
	return p
}

// SetSize sets the pane dimensions.
func (p *ChatPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-8)
	p.viewport.Width = max(10, width-4)
	p.viewport.Height = max(3, height-5)
	p.refresh()
}

// Waiting reports whether a reply is pending.
func (p *ChatPane) Waiting() bool {
	return p.waiting
}

// Update handles messages for the chat pane.
func (p *ChatPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case chatReplyMsg:
		p.waiting = false
		p.refresh()
		return p.input.Focus()

	case spinner.TickMsg:
		if !p.waiting {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		p.refresh()
		return cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.ScrollUp):
			p.viewport.HalfViewUp()
			return nil

		case key.Matches(msg, p.keys.ScrollDown):
			p.viewport.HalfViewDown()
			return nil

		case key.Matches(msg, p.keys.OpenVideo):
			id, ok := p.session.LatestVideo()
			if !ok {
				return statusCmd("No video in this conversation yet", false)
			}
			return emit(openVideoMsg{videoID: id})

		case key.Matches(msg, p.keys.Copy):
			reply, ok := p.session.LastReply()
			if !ok {
				return statusCmd("Nothing to copy yet", false)
			}
			return copyCmd(reply.Text)

		case key.Matches(msg, p.keys.Send):
			return p.send()
		}

		if p.waiting {
			return nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// send starts a turn with the input text.
func (p *ChatPane) send() tea.Cmd {
	turn, err := p.session.Begin(p.input.Value())
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return nil
	case errors.Is(err, chat.ErrBusy):
		return statusCmd("Astra is still answering", true)
	case err != nil:
		return statusCmd(err.Error(), true)
	}

	p.input.Reset()
	p.input.Blur()
	p.waiting = true
	p.refresh()
	return tea.Batch(completeTurnCmd(turn), p.spinner.Tick)
}

// refresh re-renders the conversation into the viewport and scrolls to
// the newest message.
func (p *ChatPane) refresh() {
	width := max(10, p.viewport.Width)
	var b strings.Builder
	for i, m := range p.session.Messages() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.renderMessage(m, width))
		b.WriteString("\n")
	}
	if p.waiting {
		b.WriteString("\n")
		b.WriteString(p.styles.AssistantLabelStyle.Render(assistantName))
		b.WriteString("\n")
		b.WriteString(p.spinner.View() + " " + p.styles.StatLabelStyle.Render("thinking..."))
		b.WriteString("\n")
	}
	p.viewport.SetContent(b.String())
	p.viewport.GotoBottom()
}

func (p *ChatPane) renderMessage(m chat.Message, width int) string {
	label := p.styles.UserLabelStyle.Render("You")
	if m.Role == chat.RoleAssistant {
		label = p.styles.AssistantLabelStyle.Render(assistantName)
	}
	header := label + " " + p.styles.TimestampStyle.Render(m.At.Format("15:04"))
	body := lipgloss.NewStyle().Width(width).Render(p.renderSegments(m.Text))
	return header + "\n" + body
}

// renderSegments styles links and video references inside text.
func (p *ChatPane) renderSegments(text string) string {
	var b strings.Builder
	for _, seg := range assistant.Segments(text) {
		switch seg.Kind {
		case assistant.SegmentVideo:
			b.WriteString(p.styles.VideoStyle.Render("▶ Watch video"))
			b.WriteString(" ")
			b.WriteString(p.styles.LinkStyle.Render(seg.Text))
		case assistant.SegmentLink:
			b.WriteString(p.styles.LinkStyle.Render(seg.Text))
		default:
			b.WriteString(p.styles.MessageStyle.Render(seg.Text))
		}
	}
	return b.String()
}

// View renders the chat pane.
func (p *ChatPane) View() string {
	var b strings.Builder
	b.WriteString(p.styles.PaneTitleStyle.Render("CHAT WITH " + strings.ToUpper(assistantName)))
	b.WriteString("\n")
	b.WriteString(p.viewport.View())
	b.WriteString("\n")

	prompt := p.styles.InputPromptStyle.Render("> ")
	if p.waiting {
		b.WriteString(prompt + p.styles.StatLabelStyle.Render("waiting for Astra..."))
	} else {
		b.WriteString(prompt + p.input.View())
	}

	return p.styles.PaneStyle.Width(p.width).Height(p.height).Render(b.String())
}
