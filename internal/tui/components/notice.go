package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/lounge/internal/notify"
	"github.com/tessro/lounge/internal/tui/styles"
)

// Notice renders the notification bubble.
type Notice struct{}

// NewNotice creates a new Notice component
func NewNotice() *Notice {
	return &Notice{}
}

// Render renders n as a bubble at most width cells wide.
func (c *Notice) Render(n notify.Notice, width int) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	title := styles.Highlight.Render(Truncate(n.Title, inner))
	msg := styles.Muted.Render(Truncate(n.Message, inner))

	return styles.NoticeBorder.Render(lipgloss.JoinVertical(lipgloss.Left, title, msg))
}
