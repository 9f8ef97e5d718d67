package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/tail"
	"github.com/tessro/lounge/internal/tui/styles"
)

// NowPlaying displays the current track and the engine phase.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel. next is the offset of the track
// after the current one, or 0 on the last track.
func (n *NowPlaying) Render(state *core.PlaybackState, next time.Duration, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if !state.HasTrack() {
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.Muted.Render("Nothing playing"),
			"",
			n.renderPhase(state),
		)
	} else {
		content = n.renderTrack(state, next, width-4)
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

func (n *NowPlaying) renderTrack(state *core.PlaybackState, next time.Duration, width int) string {
	track := state.Track

	icon := styles.StatusIcon(state.IsPlaying())
	name := styles.Title.Width(width - 4).Render(Truncate(track.Title, width-4))
	source := styles.Subtitle.Render(Truncate(track.Source, width-2))

	// Account for the times on either side
	progressWidth := width - 18
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(state.TrackProgress(next), progressWidth)
	end := "end"
	if next > 0 {
		end = tail.Clock(next)
	}
	progress := fmt.Sprintf("%s %s %s", tail.Clock(state.Position), bar, styles.Dim.Render(end))

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+name,
		"  "+source,
		"",
		progress,
		"",
		n.renderPhase(state),
	)
}

func (n *NowPlaying) renderPhase(state *core.PlaybackState) string {
	if state == nil {
		return styles.Dim.Render("idle")
	}

	var phase string
	switch state.Phase {
	case core.PhaseFadingIn:
		phase = styles.Playing.Render("▲ fading in")
	case core.PhasePlaying:
		phase = styles.Playing.Render("▶ playing")
	case core.PhaseFadingOut:
		phase = styles.Paused.Render("▼ fading out")
	case core.PhaseStopped:
		phase = styles.Paused.Render("■ stopped")
	default:
		phase = styles.Dim.Render("idle")
	}

	volume := styles.Muted.Render(fmt.Sprintf("🔊 %d%%", int(state.Volume*100+0.5)))
	line := phase + "  " + volume
	if state.UserOverrode {
		line += "  " + styles.Dim.Render("(manual)")
	}
	return line
}
