package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/lounge/internal/core"
	lerrors "github.com/tessro/lounge/internal/errors"
	"github.com/tessro/lounge/internal/loop"
	"github.com/tessro/lounge/internal/playlist"
	"github.com/tessro/lounge/internal/visualizer"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeMedia records every call the engine makes.
type fakeMedia struct {
	playing  bool
	position time.Duration
	volume   float64
	volumes  []float64
	loop     bool
	playErr  error
	loadErr  error
	loads    int
	plays    int
	pauses   int
	onEnded  func()
}

func (m *fakeMedia) Load() error {
	m.loads++
	return m.loadErr
}

func (m *fakeMedia) Play() error {
	m.plays++
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *fakeMedia) Pause() {
	m.pauses++
	m.playing = false
}

func (m *fakeMedia) Position() time.Duration { return m.position }

func (m *fakeMedia) SetPosition(d time.Duration) { m.position = d }

func (m *fakeMedia) Volume() float64 { return m.volume }

func (m *fakeMedia) SetLoop(loop bool) { m.loop = loop }

func (m *fakeMedia) OnEnded(cb func()) { m.onEnded = cb }

func (m *fakeMedia) SetVolume(v float64) {
	m.volume = v
	m.volumes = append(m.volumes, v)
}

type fakeAnalyzer struct {
	bins  []uint8
	calls int
}

func (a *fakeAnalyzer) Frequencies() []uint8 {
	a.calls++
	return a.bins
}

type harness struct {
	sched  *loop.Manual
	media  *fakeMedia
	engine *Engine

	started []time.Duration
	stopped int
	tracks  []core.Track
	phases  []core.Phase
	frames  []visualizer.Frame
}

func newHarness(t *testing.T, analyzer core.Analyzer) *harness {
	t.Helper()

	pl, err := playlist.New([]core.Track{
		{Offset: 0, Title: "A"},
		{Offset: 174 * time.Second, Title: "B"},
		{Offset: 311 * time.Second, Title: "C"},
	})
	require.NoError(t, err)

	h := &harness{
		sched: loop.NewManual(epoch),
		media: &fakeMedia{},
	}
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewPCG(7, 11))
	h.engine = New(h.sched, h.media, analyzer, pl, opts)
	h.media.volumes = nil

	h.engine.OnStarted(func(p time.Duration) { h.started = append(h.started, p) })
	h.engine.OnStopped(func() { h.stopped++ })
	h.engine.OnTrackChange(func(tr core.Track) { h.tracks = append(h.tracks, tr) })
	h.engine.OnPhaseChange(func(_, to core.Phase) { h.phases = append(h.phases, to) })
	h.engine.OnBars(func(f visualizer.Frame) { h.frames = append(h.frames, f) })
	return h
}

func TestNewConfiguresMedia(t *testing.T) {
	h := newHarness(t, nil)

	assert.True(t, h.media.loop)
	assert.NotNil(t, h.media.onEnded)
	assert.Equal(t, core.PhaseIdle, h.engine.Phase())
	assert.False(t, h.engine.Reactive())
}

func TestFadeInSequence(t *testing.T) {
	h := newHarness(t, nil)
	target := DefaultOptions().FadeVolume

	require.NoError(t, h.engine.RequestStart())
	assert.Equal(t, core.PhaseFadingIn, h.engine.Phase())
	assert.True(t, h.media.playing)
	require.Len(t, h.started, 1)
	assert.Less(t, h.started[0], 281*time.Second)
	assert.Equal(t, h.started[0], h.media.position)

	// Volume is forced to zero before play.
	require.NotEmpty(t, h.media.volumes)
	assert.Equal(t, 0.0, h.media.volumes[0])
	h.media.volumes = nil

	h.sched.Advance(time.Second)

	require.Len(t, h.media.volumes, 40)
	for k := 1; k <= 40; k++ {
		assert.InDelta(t, target*float64(k)/40, h.media.volumes[k-1], 1e-12, "tick %d", k)
	}
	assert.Equal(t, target, h.media.volumes[39], "final tick must land exactly on target")
	assert.Equal(t, core.PhasePlaying, h.engine.Phase())
}

func TestInstantStop(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.RequestStart())
	h.sched.Advance(300 * time.Millisecond)
	require.Greater(t, h.media.volume, 0.0)

	require.NoError(t, h.engine.RequestStop(true))

	// Takes effect synchronously.
	assert.Equal(t, core.PhaseIdle, h.engine.Phase())
	assert.Equal(t, 0.0, h.media.volume)
	assert.False(t, h.media.playing)
	assert.Equal(t, 1, h.stopped)

	h.media.volumes = nil
	h.sched.Advance(10 * time.Second)
	for _, v := range h.media.volumes {
		assert.Equal(t, 0.0, v, "no timer may raise the volume after an instant stop")
	}
	assert.Equal(t, 0, h.sched.Pending())
}

func TestFadeOutOnStop(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.RequestStart())
	h.sched.Advance(2 * time.Second)
	start := h.media.volume
	h.media.volumes = nil

	require.NoError(t, h.engine.RequestStop(false))
	assert.Equal(t, core.PhaseFadingOut, h.engine.Phase())
	assert.Equal(t, 0, h.stopped)
	assert.True(t, h.media.playing)

	h.sched.Advance(1150 * time.Millisecond)
	assert.Equal(t, core.PhaseFadingOut, h.engine.Phase())

	h.sched.Advance(50 * time.Millisecond)
	assert.Equal(t, core.PhaseIdle, h.engine.Phase())
	assert.Equal(t, 1, h.stopped)
	assert.False(t, h.media.playing)

	require.GreaterOrEqual(t, len(h.media.volumes), 24)
	prev := start
	for i, v := range h.media.volumes[:24] {
		assert.Less(t, v, prev, "fade-out sample %d", i)
		prev = v
	}
	assert.Equal(t, 0.0, h.media.volume)
}

func TestEndedMatchesFadeOut(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.RequestStart())
	h.sched.Advance(2 * time.Second)

	// The ended callback posts onto the loop.
	h.media.onEnded()
	h.sched.Flush()

	assert.Equal(t, core.PhaseFadingOut, h.engine.Phase())
	h.sched.Advance(1200 * time.Millisecond)
	assert.Equal(t, core.PhaseIdle, h.engine.Phase())
	assert.Equal(t, 1, h.stopped)
}

func TestEndedWhileIdleIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.HandleEnded()
	assert.Equal(t, core.PhaseIdle, h.engine.Phase())
	assert.Equal(t, 0, h.stopped)
}

func TestStopDuringFadeInPreemptsFade(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.RequestStart())
	h.sched.Advance(500 * time.Millisecond)
	mid := h.media.volume
	h.media.volumes = nil

	require.NoError(t, h.engine.RequestStop(false))
	h.sched.Advance(5 * time.Second)

	require.Len(t, h.media.volumes, 25, "24 ramp samples plus the final zero")
	prev := mid
	for _, v := range h.media.volumes[:24] {
		assert.Less(t, v, prev, "fade-in tick leaked into fade-out")
		prev = v
	}
	assert.Equal(t, core.PhaseIdle, h.engine.Phase())
}

func TestRestartDoesNotDuplicateTimers(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{bins: make([]uint8, 512)})

	for i := 0; i < 5; i++ {
		require.NoError(t, h.engine.RequestStart())
		h.sched.Advance(100 * time.Millisecond)
		require.NoError(t, h.engine.RequestStop(true))
	}
	require.NoError(t, h.engine.RequestStart())

	// fade ticker, poll and frame loop: exactly one of each.
	assert.Equal(t, 3, h.sched.Pending())

	h.media.volumes = nil
	h.sched.Advance(time.Second)
	require.Len(t, h.media.volumes, 40)
	assert.Equal(t, DefaultOptions().FadeVolume, h.media.volume)
}

func TestToggleDuringFadeOutRestarts(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.RequestStart())
	h.sched.Advance(2 * time.Second)
	require.NoError(t, h.engine.RequestStop(false))
	h.sched.Advance(200 * time.Millisecond)

	require.NoError(t, h.engine.Toggle())
	assert.Equal(t, core.PhaseFadingIn, h.engine.Phase())
	assert.Equal(t, 1, h.stopped)
	assert.Len(t, h.started, 2)

	h.sched.Advance(time.Second)
	assert.Equal(t, core.PhasePlaying, h.engine.Phase())
	assert.Equal(t, DefaultOptions().FadeVolume, h.media.volume)
}

func TestToggleSetsOverrideAndBlocksAutoStart(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.engine.Toggle())
	h.sched.Advance(2 * time.Second)
	require.NoError(t, h.engine.Toggle())
	h.sched.Advance(2 * time.Second)
	require.Equal(t, core.PhaseIdle, h.engine.Phase())
	assert.True(t, h.engine.State().UserOverrode)

	require.NoError(t, h.engine.AutoStart())
	assert.Equal(t, core.PhaseIdle, h.engine.Phase())
	assert.Len(t, h.started, 1)
}

func TestAutoStartOnlyOnce(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.engine.AutoStart())
	assert.Equal(t, core.PhaseFadingIn, h.engine.Phase())
	h.engine.HandleBlur()
	require.Equal(t, core.PhaseIdle, h.engine.Phase())

	require.NoError(t, h.engine.AutoStart())
	assert.Equal(t, core.PhaseIdle, h.engine.Phase())
	assert.Len(t, h.started, 1)
}

func TestPlayFailureRevertsToIdle(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{bins: make([]uint8, 512)})
	h.media.playErr = errors.New("no output device")

	err := h.engine.RequestStart()
	require.Error(t, err)
	assert.ErrorIs(t, err, lerrors.ErrPlaybackBlocked)

	state := h.engine.State()
	assert.Equal(t, core.PhaseIdle, state.Phase)
	assert.False(t, state.IsPlaying())
	assert.Equal(t, []core.Phase{core.PhaseFadingIn, core.PhaseIdle}, h.phases)
	assert.Empty(t, h.started)
	assert.Equal(t, 0, h.sched.Pending())

	// A later user trigger may succeed.
	h.media.playErr = nil
	require.NoError(t, h.engine.Toggle())
	assert.Equal(t, core.PhaseFadingIn, h.engine.Phase())
}

func TestInvalidTransitions(t *testing.T) {
	h := newHarness(t, nil)

	assert.ErrorIs(t, h.engine.RequestStop(true), lerrors.ErrInvalidTransition)

	require.NoError(t, h.engine.RequestStart())
	assert.ErrorIs(t, h.engine.RequestStart(), lerrors.ErrInvalidTransition)

	h.sched.Advance(2 * time.Second)
	require.NoError(t, h.engine.RequestStop(false))
	assert.ErrorIs(t, h.engine.RequestStop(false), lerrors.ErrInvalidTransition)
	assert.ErrorIs(t, h.engine.RequestStart(), lerrors.ErrInvalidTransition)
}

func TestTrackChangeSignalledOnce(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.RequestStart())

	h.media.position = 100 * time.Second
	h.sched.Advance(time.Second)
	require.Len(t, h.tracks, 1)
	assert.Equal(t, "A", h.tracks[0].Title)

	for i := 0; i < 5; i++ {
		h.media.position += time.Second
		h.sched.Advance(time.Second)
	}
	assert.Len(t, h.tracks, 1, "same track must not be announced twice")

	h.media.position = 174 * time.Second
	h.sched.Advance(time.Second)
	require.Len(t, h.tracks, 2)
	assert.Equal(t, "B", h.tracks[1].Title)

	state := h.engine.State()
	require.NotNil(t, state.Track)
	assert.Equal(t, "B", state.Track.Title)
	assert.Equal(t, 174*time.Second, state.Position)
}

func TestPositionOnlyAdvancesWhilePlaying(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.RequestStart())
	startPos := h.engine.State().Position

	h.media.position = startPos + 500*time.Millisecond
	h.sched.Advance(900 * time.Millisecond)
	assert.Equal(t, startPos, h.engine.State().Position, "no update while fading in")

	h.sched.Advance(100 * time.Millisecond)
	require.Equal(t, core.PhasePlaying, h.engine.Phase())
	assert.Equal(t, startPos+500*time.Millisecond, h.engine.State().Position)

	require.NoError(t, h.engine.RequestStop(false))
	h.media.position += time.Minute
	h.sched.Advance(5 * time.Second)
	assert.Equal(t, startPos+500*time.Millisecond, h.engine.State().Position)
}

func TestBarsWithAnalyzer(t *testing.T) {
	bins := make([]uint8, 512)
	for i := range bins {
		bins[i] = 180
	}
	an := &fakeAnalyzer{bins: bins}
	h := newHarness(t, an)

	require.NoError(t, h.engine.RequestStart())
	assert.True(t, h.engine.Reactive())
	h.sched.Advance(160 * time.Millisecond)

	require.Len(t, h.frames, 10)
	for _, f := range h.frames {
		require.Len(t, f, visualizer.BarCount)
	}

	require.NoError(t, h.engine.RequestStop(true))
	last := h.frames[len(h.frames)-1]
	assert.Nil(t, last, "stop resets the bars")

	calls := an.calls
	h.sched.Advance(time.Second)
	assert.Equal(t, calls, an.calls)
}

func TestNoAnalyzerDegradesGracefully(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.RequestStart())
	h.sched.Advance(2 * time.Second)

	assert.Empty(t, h.frames)
	assert.Equal(t, 1, h.sched.Pending(), "only the track poll remains once the fade finishes")
}

func TestCloseAndRestartReloads(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.RequestStart())
	h.sched.Advance(2 * time.Second)

	h.engine.Close()
	assert.Equal(t, core.PhaseStopped, h.engine.Phase())
	assert.Equal(t, 1, h.stopped)
	assert.Equal(t, 0, h.sched.Pending())

	require.NoError(t, h.engine.RequestStart())
	assert.Equal(t, 1, h.media.loads)
	assert.Equal(t, core.PhaseFadingIn, h.engine.Phase())
}

func TestRestartFromStoppedLoadFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Close()
	h.media.loadErr = errors.New("gone")

	require.Error(t, h.engine.RequestStart())
	assert.Equal(t, core.PhaseStopped, h.engine.Phase())
	assert.Equal(t, 0, h.media.plays)
}
