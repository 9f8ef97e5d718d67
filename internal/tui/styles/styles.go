package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Colors, filled in by Apply.
var (
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Accent    lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor
	TextDim   lipgloss.TerminalColor
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	Bar       lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
	NoticeBorder  lipgloss.Style
)

func init() {
	Apply("auto")
}

// pick chooses between the Latte and Mocha variants of a color.
func pick(theme string, light, dark catppuccin.Color) lipgloss.TerminalColor {
	switch theme {
	case "dark":
		return lipgloss.Color(dark.Hex)
	case "light":
		return lipgloss.Color(light.Hex)
	default:
		return lipgloss.AdaptiveColor{Light: light.Hex, Dark: dark.Hex}
	}
}

// Apply rebuilds every style for theme: auto, dark or light.
func Apply(theme string) {
	latte, mocha := catppuccin.Latte, catppuccin.Mocha

	Primary = pick(theme, latte.Mauve(), mocha.Mauve())
	Secondary = pick(theme, latte.Green(), mocha.Green())
	Accent = pick(theme, latte.Peach(), mocha.Peach())
	Warning = pick(theme, latte.Yellow(), mocha.Yellow())
	Error = pick(theme, latte.Red(), mocha.Red())
	Border = pick(theme, latte.Surface2(), mocha.Surface2())
	Text = pick(theme, latte.Text(), mocha.Text())
	TextMuted = pick(theme, latte.Subtext0(), mocha.Subtext0())
	TextDim = pick(theme, latte.Overlay0(), mocha.Overlay0())

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Secondary)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	Bar = lipgloss.NewStyle().Foreground(Accent)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)

	NoticeBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 1)
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns the music indicator.
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("♪")
	}
	return Paused.Render("·")
}
