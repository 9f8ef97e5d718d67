package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/lounge/internal/tui/styles"
	"github.com/tessro/lounge/internal/visualizer"
)

// Bars draws the four frequency bars.
type Bars struct {
	tuning visualizer.Tuning
	frame  visualizer.Frame
}

// NewBars creates a Bars component drawing heights tuned by tn.
func NewBars(tn visualizer.Tuning) *Bars {
	return &Bars{tuning: tn}
}

// SetFrame stores the latest frame. A nil frame clears it.
func (b *Bars) SetFrame(f visualizer.Frame) {
	b.frame = f
}

// Frame returns the latest frame.
func (b *Bars) Frame() visualizer.Frame {
	return b.frame
}

// Heights returns the frame to draw: the reactive frame when there is one,
// the idle animation while music plays without one, flat bars otherwise.
func (b *Bars) Heights(playing bool, now time.Time) visualizer.Frame {
	if b.frame != nil && playing {
		return b.frame
	}
	if playing {
		return visualizer.Idle(now, b.tuning)
	}
	flat := make(visualizer.Frame, visualizer.BarCount)
	for i := range flat {
		flat[i] = b.tuning.MinHeight
	}
	return flat
}

// Render renders the bars panel.
func (b *Bars) Render(playing bool, now time.Time, width, height int, focused bool) string {
	title := styles.PanelTitle("Vibes", focused)

	rows := height - 4
	if rows < 1 {
		rows = 1
	}
	graph := Graph(visualizer.Rows(b.Heights(playing, now), b.tuning, rows), rows, width-4)

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		styles.Bar.Render(graph),
	))
}

// Graph lays out columns of the given cell heights, bottom aligned, sharing
// width between them.
func Graph(cells []int, rows, width int) string {
	if len(cells) == 0 || rows < 1 {
		return ""
	}
	barWidth := (width - (len(cells) - 1)) / len(cells)
	if barWidth < 1 {
		barWidth = 1
	}
	if barWidth > 6 {
		barWidth = 6
	}
	full := strings.Repeat("█", barWidth)
	empty := strings.Repeat(" ", barWidth)

	lines := make([]string, rows)
	for r := range rows {
		level := rows - r
		cols := make([]string, len(cells))
		for i, h := range cells {
			if h >= level {
				cols[i] = full
			} else {
				cols[i] = empty
			}
		}
		lines[r] = strings.Join(cols, " ")
	}
	return strings.Join(lines, "\n")
}
