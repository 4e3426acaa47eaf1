package ui

import (
	"strings"

	"liftlog/internal/assistant"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// VideoOverlay shows a referenced exercise video. A terminal cannot embed a
// player, so it offers the watch and embed links instead.
type VideoOverlay struct {
	videoID string
	styles  *Styles
	keys    VideoKeyMap
	width   int
	height  int
}

// NewVideoOverlay creates the overlay for videoID.
func NewVideoOverlay(videoID string, styles *Styles, keys VideoKeyMap) *VideoOverlay {
	return &VideoOverlay{videoID: videoID, styles: styles, keys: keys}
}

// SetSize sets the overlay dimensions.
func (v *VideoOverlay) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles a key while the overlay is open. done reports that the
// overlay should close.
func (v *VideoOverlay) Update(msg tea.Msg) (cmd tea.Cmd, done bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	switch {
	case key.Matches(keyMsg, v.keys.Close):
		return nil, true
	case key.Matches(keyMsg, v.keys.Copy):
		return copyCmd(assistant.WatchURL(v.videoID)), false
	}
	return nil, false
}

// View renders the overlay.
func (v *VideoOverlay) View() string {
	overlayWidth := 70
	if v.width > 0 {
		overlayWidth = min(70, max(30, v.width-4))
	}

	var b strings.Builder
	b.WriteString(v.styles.VideoStyle.Render("▶ Exercise video"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.StatLabelStyle.Render("Video   ") + v.styles.StatValueStyle.Render(v.videoID))
	b.WriteString("\n")
	b.WriteString(v.styles.StatLabelStyle.Render("Watch   ") + v.styles.LinkStyle.Render(assistant.WatchURL(v.videoID)))
	b.WriteString("\n")
	b.WriteString(v.styles.StatLabelStyle.Render("Player  ") + v.styles.LinkStyle.Render(assistant.EmbedURL(v.videoID)))
	b.WriteString("\n\n")
	b.WriteString(v.styles.HelpStyle.Render("Open a link in your browser to play the video."))
	b.WriteString("\n\n")
	b.WriteString(v.styles.RenderHelp(
		v.keys.Copy.Help().Key, "copy link",
		v.keys.Close.Help().Key, "close",
	))

	return RenderCentered(v.styles.OverlayStyle.Width(overlayWidth).Render(b.String()), v.width, v.height)
}
