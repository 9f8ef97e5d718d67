package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/tail"
	"github.com/tessro/lounge/internal/tui/styles"
)

// Playlist lists every track of the mix with the current one marked.
type Playlist struct {
	offset int
	follow bool
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{follow: true}
}

// ScrollDown scrolls the list down
func (p *Playlist) ScrollDown() {
	p.offset++
	p.follow = false
}

// ScrollUp scrolls the list up
func (p *Playlist) ScrollUp() {
	if p.offset > 0 {
		p.offset--
	}
	p.follow = false
}

// Follow keeps the current track in view again.
func (p *Playlist) Follow() {
	p.follow = true
}

// Render renders the playlist panel. current is -1 when nothing plays.
func (p *Playlist) Render(tracks []core.Track, current, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("Playlist (%d)", len(tracks)), focused)

	var content string
	if len(tracks) == 0 {
		content = styles.Muted.Render("Playlist is empty")
	} else {
		content = p.renderTracks(tracks, current, width-4, height-4)
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

func (p *Playlist) renderTracks(tracks []core.Track, current, width, maxLines int) string {
	visibleCount := maxLines - 1 // Leave room for "more" indicator
	if visibleCount < 1 {
		visibleCount = 1
	}

	if p.follow && current >= 0 {
		p.offset = current - visibleCount/2
	}
	if p.offset > len(tracks)-visibleCount {
		p.offset = len(tracks) - visibleCount
	}
	if p.offset < 0 {
		p.offset = 0
	}

	start := p.offset
	end := min(start+visibleCount, len(tracks))

	lines := make([]string, 0, end-start+1)

	// "h:mm:ss" (7) + marker (3) + " — " (3)
	const overhead = 13

	for i := start; i < end; i++ {
		track := tracks[i]
		at := fmt.Sprintf("%7s", tail.Clock(track.Offset))

		available := width - overhead
		title, source := splitWidth(track.Title, track.Source, available)

		var line string
		if i == current {
			line = styles.Playing.Render(fmt.Sprintf("%s ♪ %s — %s", at, title, source))
		} else {
			line = fmt.Sprintf("%s   %s — %s",
				styles.Dim.Render(at),
				title,
				styles.Muted.Render(source))
		}
		lines = append(lines, line)
	}

	if end < len(tracks) {
		more := styles.Dim.Render(fmt.Sprintf("          ... and %d more", len(tracks)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// splitWidth fits a and b into available cells, giving b at least a third
// of the space (min 10 cells) when both cannot fit.
func splitWidth(a, b string, available int) (string, string) {
	aw, bw := runewidth.StringWidth(a), runewidth.StringWidth(b)
	if aw+bw <= available {
		return a, b
	}

	minB := available / 3
	if minB < 10 {
		minB = 10
	}
	if minB > available-10 {
		minB = available - 10
	}

	bSpace := minB
	if bw < bSpace {
		bSpace = bw
	}
	aSpace := available - bSpace

	return Truncate(a, aSpace), Truncate(b, bSpace)
}

// Truncate shortens s to at most max terminal cells, marking the cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "...")
}
