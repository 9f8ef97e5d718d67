package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/tail"
)

// PickerModel is the bubbletea model for the track picker.
type PickerModel struct {
	tracks   []core.Track
	matches  []core.Track
	input    textinput.Model
	cursor   int
	selected *core.Track
	width    int
	height   int
}

// Styles for the track picker
var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	pickerItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	pickerSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	pickerDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// NewPickerModel creates a new track picker model.
func NewPickerModel(tracks []core.Track) PickerModel {
	ti := textinput.New()
	ti.Placeholder = "Filter by title or source..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return PickerModel{
		tracks:  tracks,
		matches: tracks,
		input:   ti,
		width:   80,
		height:  20,
	}
}

// Init initializes the model.
func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if len(m.matches) > 0 && m.cursor < len(m.matches) {
				t := m.matches[m.cursor]
				m.selected = &t
				return m, tea.Quit
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	prev := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.matches = Filter(m.tracks, m.input.Value())
		m.cursor = 0
	}
	return m, cmd
}

// Filter returns the tracks whose title or source contains query,
// ignoring case.
func Filter(tracks []core.Track, query string) []core.Track {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tracks
	}
	return lo.Filter(tracks, func(t core.Track, _ int) bool {
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Source), q)
	})
}

// View renders the model.
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render("🎷 Pick a Track"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(pickerDimStyle.Render("No matching tracks"))
		b.WriteString("\n")
	} else {
		// Title, input, help
		visible := m.height - 8
		if visible < 3 {
			visible = 3
		}
		start := 0
		if m.cursor >= visible {
			start = m.cursor - visible + 1
		}
		end := min(start+visible, len(m.matches))

		for i := start; i < end; i++ {
			t := m.matches[i]
			line := fmt.Sprintf("%7s  %s %s",
				tail.Clock(t.Offset),
				t.Title,
				pickerDimStyle.Render("("+t.Source+")"))

			if i == m.cursor {
				b.WriteString(pickerSelectedStyle.Render("▸ " + line))
			} else {
				b.WriteString(pickerItemStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(pickerDimStyle.Render("type to filter • ↑/↓ navigate • enter select • esc quit"))

	return b.String()
}

// Selected returns the selected track, or nil if none.
func (m PickerModel) Selected() *core.Track {
	return m.selected
}

// RunTrackPicker runs the track picker and returns the selected track.
func RunTrackPicker(tracks []core.Track) (*core.Track, error) {
	model := NewPickerModel(tracks)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(PickerModel).Selected(), nil
}
