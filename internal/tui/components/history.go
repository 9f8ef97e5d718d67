package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/tui/styles"
)

// HistoryEntry is a track heard this session.
type HistoryEntry struct {
	Track  core.Track
	SeenAt time.Time
}

// History displays the tracks heard this session, newest first.
type History struct {
	now func() time.Time
}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{now: time.Now}
}

// Render renders the history panel
func (h *History) Render(entries []HistoryEntry, width, height int, focused bool) string {
	title := styles.PanelTitle("Heard This Session", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("Nothing yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (h *History) renderHistory(entries []HistoryEntry, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	// icon (2) + " — " (3) + gap before time (1)
	const overhead = 6

	now := h.now()
	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		ago := humanize.RelTime(entry.SeenAt, now, "ago", "from now")
		agoWidth := lipgloss.Width(ago)

		title, source := splitWidth(entry.Track.Title, entry.Track.Source, width-overhead-agoWidth)
		info := title
		if source != "" {
			info = fmt.Sprintf("%s — %s", title, styles.Muted.Render(source))
		}

		padding := width - 2 - lipgloss.Width(info) - agoWidth
		if padding < 1 {
			padding = 1
		}

		lines = append(lines, fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render("♫"),
			info,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(ago)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
