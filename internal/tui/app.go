// Package tui is the interactive lounge dashboard.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/lounge/internal/config"
	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/notify"
	"github.com/tessro/lounge/internal/playlist"
	"github.com/tessro/lounge/internal/session"
	"github.com/tessro/lounge/internal/tui/components"
	"github.com/tessro/lounge/internal/tui/styles"
	"github.com/tessro/lounge/internal/visualizer"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelBars
	PanelPlaylist
	PanelHistory
	panelCount
)

const (
	refreshRate  = 100 * time.Millisecond
	stateRate    = 250 * time.Millisecond
	errorTimeout = 5 * time.Second
	historySize  = 50
)

// Controller is what the dashboard drives. Every method must be safe to
// call from the UI goroutine without blocking on playback.
type Controller interface {
	Toggle()
	Blur()
	Hide()
}

type keyMap struct {
	Toggle  key.Binding
	Copy    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Up      key.Binding
	Down    key.Binding
	Follow  key.Binding
	Help    key.Binding
	Suspend key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "music on/off")),
		Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy track")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous panel")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "scroll up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "scroll down")),
		Follow:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow current")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Suspend: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "hide")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Copy, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Copy, k.Suspend},
		{k.Next, k.Prev, k.Help, k.Quit},
		{k.Up, k.Down, k.Follow},
	}
}

// Model is the main TUI model
type Model struct {
	ctrl   Controller
	tracks []core.Track
	pl     *playlist.Playlist
	keys   keyMap
	help   help.Model

	width        int
	height       int
	focusedPanel Panel

	// State
	state   core.PlaybackState
	history []components.HistoryEntry
	notice  *notify.Notice

	// Components
	nowPlaying   *components.NowPlaying
	barsView     *components.Bars
	playlistView *components.Playlist
	historyView  *components.History
	noticeView   *components.Notice

	showHelp bool

	// Error handling
	lastError   error
	errorExpiry time.Time
	status      string

	now      func() time.Time
	copyText func(string) error
	quitting bool
}

// NewModel creates a new TUI model
func NewModel(ctrl Controller, pl *playlist.Playlist, tn visualizer.Tuning) Model {
	return Model{
		ctrl:         ctrl,
		tracks:       pl.Tracks(),
		pl:           pl,
		keys:         defaultKeys(),
		help:         help.New(),
		focusedPanel: PanelNowPlaying,
		nowPlaying:   components.NewNowPlaying(),
		barsView:     components.NewBars(tn),
		playlistView: components.NewPlaylist(),
		historyView:  components.NewHistory(),
		noticeView:   components.NewNotice(),
		now:          time.Now,
		copyText:     clipboard.WriteAll,
	}
}

// Messages
type tickMsg time.Time
type stateMsg core.PlaybackState
type barsMsg visualizer.Frame
type noticeMsg struct {
	notice  notify.Notice
	visible bool
}
type errMsg struct{ err error }
type copiedMsg string

func (m Model) tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.BlurMsg:
		m.ctrl.Blur()
		return m, nil

	case tickMsg:
		m.expire()
		return m, m.tick()

	case stateMsg:
		m.expire()
		prev := m.state.Track
		m.state = core.PlaybackState(msg)
		if m.state.Track != nil && !core.Same(prev, m.state.Track) {
			m.addToHistory(*m.state.Track)
		}
		return m, nil

	case barsMsg:
		m.barsView.SetFrame(visualizer.Frame(msg))
		return m, nil

	case noticeMsg:
		if msg.visible {
			n := msg.notice
			m.notice = &n
		} else {
			m.notice = nil
		}
		return m, nil

	case copiedMsg:
		m.status = "Copied " + string(msg)
		m.errorExpiry = m.now().Add(errorTimeout)
		return m, nil

	case errMsg:
		m.lastError = msg.err
		m.errorExpiry = m.now().Add(errorTimeout)
		return m, nil
	}

	return m, nil
}

func (m *Model) expire() {
	if m.now().After(m.errorExpiry) {
		m.lastError = nil
		m.status = ""
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.ctrl.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyTrack()

	case key.Matches(msg, m.keys.Suspend):
		m.ctrl.Hide()
		return m, tea.Suspend

	case key.Matches(msg, m.keys.Next):
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	}

	if m.focusedPanel == PanelPlaylist {
		switch {
		case key.Matches(msg, m.keys.Down):
			m.playlistView.ScrollDown()
		case key.Matches(msg, m.keys.Up):
			m.playlistView.ScrollUp()
		case key.Matches(msg, m.keys.Follow):
			m.playlistView.Follow()
		}
	}

	return m, nil
}

func (m Model) copyTrack() tea.Cmd {
	if m.state.Track == nil {
		return nil
	}
	label := m.state.Track.Label()
	copyText := m.copyText
	return func() tea.Msg {
		if err := copyText(label); err != nil {
			return errMsg{err}
		}
		return copiedMsg(label)
	}
}

func (m *Model) addToHistory(track core.Track) {
	entry := components.HistoryEntry{
		Track:  track,
		SeenAt: m.now(),
	}

	m.history = append([]components.HistoryEntry{entry}, m.history...)
	if len(m.history) > historySize {
		m.history = m.history[:historySize]
	}
}

func (m Model) current() int {
	if m.state.Track == nil {
		return -1
	}
	return m.pl.IndexAt(m.state.Track.Offset)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	statusBar := m.renderStatusBar()

	var bubble string
	if m.notice != nil {
		bubble = lipgloss.PlaceHorizontal(m.width, lipgloss.Right,
			m.noticeView.Render(*m.notice, m.width/2))
	}

	// Layout: 2x2 grid
	// [Now Playing] [Vibes  ]
	// [Playlist   ] [History]
	avail := m.height - lipgloss.Height(statusBar)
	if bubble != "" {
		avail -= lipgloss.Height(bubble)
	}
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := avail * 45 / 100
	bottomHeight := avail - topHeight - 2

	next := time.Duration(0)
	if m.state.Track != nil {
		next = m.pl.NextOffset(m.state.Position)
	}
	state := m.state
	now := m.now()

	nowPlaying := m.nowPlaying.Render(&state, next, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	playlistView := m.playlistView.Render(m.tracks, m.current(), leftWidth-2, bottomHeight-2, m.focusedPanel == PanelPlaylist)
	barsView := m.barsView.Render(state.IsPlaying(), now, rightWidth-2, topHeight-2, m.focusedPanel == PanelBars)
	historyView := m.historyView.Render(m.history, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, playlistView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, barsView, historyView)

	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	if bubble != "" {
		return lipgloss.JoinVertical(lipgloss.Left, main, bubble, statusBar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) renderStatusBar() string {
	status := m.help.ShortHelpView(m.keys.ShortHelp())

	switch {
	case m.lastError != nil:
		status = styles.Paused.Render("Error: " + m.lastError.Error())
	case m.status != "":
		status = styles.Playing.Render(m.status)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := styles.Title.Render("Lounge - Keyboard Shortcuts")
	body := m.help.FullHelpView(m.keys.FullHelp())
	footer := styles.Dim.Render("Press ? or Esc to close")

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(1, 2).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", footer),
		))
}

// programBackend shows notices inside the dashboard.
type programBackend struct {
	send func(tea.Msg)
}

func (b *programBackend) Show(n notify.Notice) {
	b.send(noticeMsg{notice: n, visible: true})
}

func (b *programBackend) Hide() {
	b.send(noticeMsg{})
}

// Run starts the TUI application
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	styles.Apply(cfg.TUI.Theme)

	backend := &programBackend{}
	s, err := session.Open(cfg, backend, logger)
	if err != nil {
		return err
	}

	m := NewModel(s, s.Engine().Playlist(), cfg.Tuning())
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	backend.send = p.Send

	eng := s.Engine()
	eng.OnBars(func(f visualizer.Frame) {
		p.Send(barsMsg(f))
	})
	eng.OnPhaseChange(func(_, _ core.Phase) {
		p.Send(stateMsg(eng.State()))
	})
	eng.OnTrackChange(func(core.Track) {
		p.Send(stateMsg(eng.State()))
	})
	s.OnError(func(err error) {
		p.Send(errMsg{err})
	})
	s.Watch(stateRate, func(st core.PlaybackState) {
		p.Send(stateMsg(st))
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.Run(runCtx)
	}()

	_, err = p.Run()
	cancel()
	if serr := <-done; serr != nil && err == nil {
		err = serr
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
