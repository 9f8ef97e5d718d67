// Package fade ramps a volume linearly between two levels on a fixed tick.
package fade

import (
	"math"
	"time"

	"github.com/tessro/lounge/internal/loop"
)

// Ramp describes one linear volume change.
type Ramp struct {
	From     float64
	To       float64
	Duration time.Duration
	Step     time.Duration
}

// Steps is the number of ticks the ramp takes, never less than one.
func (r Ramp) Steps() int {
	if r.Step <= 0 || r.Duration <= 0 {
		return 1
	}
	n := int(math.Round(float64(r.Duration) / float64(r.Step)))
	if n < 1 {
		return 1
	}
	return n
}

// At returns the volume after k ticks. At(Steps()) is exactly To.
func (r Ramp) At(k int) float64 {
	n := r.Steps()
	if k >= n {
		return r.To
	}
	if k <= 0 {
		return r.From
	}
	return r.From + (r.To-r.From)*(float64(k)/float64(n))
}

// Values returns every sample the ramp emits, one per tick.
func (r Ramp) Values() []float64 {
	n := r.Steps()
	out := make([]float64, n)
	for k := 1; k <= n; k++ {
		out[k-1] = r.At(k)
	}
	return out
}

// job is one running ramp.
type job struct {
	ramp   Ramp
	steps  int
	k      int
	handle loop.Handle
	apply  func(float64)
	done   func()
}

// Fader owns at most one running ramp.
type Fader struct {
	sched loop.Scheduler
	cur   *job
}

// NewFader creates a fader scheduling its ticks on sched.
func NewFader(sched loop.Scheduler) *Fader {
	return &Fader{sched: sched}
}

// Start cancels any running ramp and begins r. apply receives each sample;
// done, if non-nil, runs after the final sample.
func (f *Fader) Start(r Ramp, apply func(float64), done func()) {
	f.Cancel()

	j := &job{
		ramp:  r,
		steps: r.Steps(),
		apply: apply,
		done:  done,
	}
	f.cur = j
	step := r.Step
	if step <= 0 {
		step = time.Millisecond
	}
	j.handle = f.sched.Repeat(step, func() { f.tick(j) })
}

func (f *Fader) tick(j *job) {
	// A tick queued before a newer Start must not touch the volume.
	if f.cur != j || j.handle.Cancelled() {
		return
	}

	j.k++
	j.apply(j.ramp.At(j.k))
	if j.k < j.steps {
		return
	}

	j.handle.Cancel()
	f.cur = nil
	if j.done != nil {
		j.done()
	}
}

// Cancel stops the running ramp without calling its done callback. It
// reports whether a ramp was running.
func (f *Fader) Cancel() bool {
	if f.cur == nil {
		return false
	}
	f.cur.handle.Cancel()
	f.cur = nil
	return true
}

// Active reports whether a ramp is running.
func (f *Fader) Active() bool {
	return f.cur != nil
}

// Target returns the running ramp's destination and whether one is running.
func (f *Fader) Target() (float64, bool) {
	if f.cur == nil {
		return 0, false
	}
	return f.cur.ramp.To, true
}
