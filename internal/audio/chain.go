package audio

import (
	"github.com/gopxl/beep/v2"
)

// chain is the source side of a Player: the decoded track, looped or not,
// resampled to the output rate and fed through the analyser tap.
//
// A chain never ends from the speaker's point of view. Once a non-looping
// track drains it calls onEnd once and streams silence until the next Seek
// or SetLoop rebuilds it. Callers serialise access with the speaker lock.
type chain struct {
	track    beep.StreamSeeker
	from, to beep.SampleRate
	loop     bool
	tap      *Tap
	onEnd    func()
	drained  bool
}

// newChain builds a chain over track. tap is reused across chains so the
// analyser handed out earlier keeps reading the current music.
func newChain(track beep.StreamSeeker, from, to beep.SampleRate, loop bool, tap *Tap, onEnd func()) *chain {
	c := &chain{
		track: track,
		from:  from,
		to:    to,
		loop:  loop,
		tap:   tap,
		onEnd: onEnd,
	}
	c.rebuild()
	return c
}

// rebuild replaces the resampler. A drained resampler stays drained even
// after the track underneath it seeks.
func (c *chain) rebuild() {
	var src beep.Streamer = c.track
	if c.loop {
		src = beep.Loop(-1, c.track)
	}
	c.tap.s = beep.Resample(4, c.from, c.to, src)
	c.drained = false
}

func (c *chain) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	ended := false
	for filled < len(samples) && !c.drained {
		n, ok := c.tap.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			c.drained = true
			ended = true
		}
	}
	clear(samples[filled:])

	if ended && c.onEnd != nil {
		c.onEnd()
	}
	return len(samples), true
}

func (c *chain) Err() error {
	return c.tap.Err()
}

// Position is the track position in source samples.
func (c *chain) Position() int {
	return c.track.Position()
}

// Len is the track length in source samples.
func (c *chain) Len() int {
	return c.track.Len()
}

// Seek moves the track to source sample n, clamped to the track, and
// revives a drained chain.
func (c *chain) Seek(n int) error {
	n = max(n, 0)
	if last := c.track.Len() - 1; n > last {
		n = max(last, 0)
	}
	if err := c.track.Seek(n); err != nil {
		return err
	}
	c.rebuild()
	return nil
}

// SetLoop switches looping, keeping the track position.
func (c *chain) SetLoop(loop bool) {
	if c.loop == loop {
		return
	}
	c.loop = loop
	c.rebuild()
}
