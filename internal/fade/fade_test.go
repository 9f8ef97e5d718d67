package fade

import (
	"testing"
	"time"

	"github.com/tessro/lounge/internal/loop"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRampSteps(t *testing.T) {
	tests := []struct {
		name string
		ramp Ramp
		want int
	}{
		{"fade in", Ramp{Duration: time.Second, Step: 25 * time.Millisecond}, 40},
		{"fade out", Ramp{Duration: 1200 * time.Millisecond, Step: 50 * time.Millisecond}, 24},
		{"rounds", Ramp{Duration: 1010 * time.Millisecond, Step: 20 * time.Millisecond}, 51},
		{"shorter than a step", Ramp{Duration: 5 * time.Millisecond, Step: 50 * time.Millisecond}, 1},
		{"zero step", Ramp{Duration: time.Second}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ramp.Steps(); got != tt.want {
				t.Errorf("Steps() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRampEndsExactlyOnTarget(t *testing.T) {
	ramps := []Ramp{
		{From: 0, To: 0.15, Duration: time.Second, Step: 25 * time.Millisecond},
		{From: 0.15, To: 0, Duration: 1200 * time.Millisecond, Step: 50 * time.Millisecond},
		{From: 0.1, To: 0.7, Duration: 333 * time.Millisecond, Step: 7 * time.Millisecond},
		{From: 1, To: 0.3, Duration: 990 * time.Millisecond, Step: 30 * time.Millisecond},
	}

	for _, r := range ramps {
		values := r.Values()
		if got := values[len(values)-1]; got != r.To {
			t.Errorf("%+v: final = %v, want exactly %v", r, got, r.To)
		}

		prev := r.From
		for i, v := range values {
			if r.To > r.From && v <= prev {
				t.Errorf("%+v: sample %d = %v not increasing from %v", r, i, v, prev)
			}
			if r.To < r.From && v >= prev {
				t.Errorf("%+v: sample %d = %v not decreasing from %v", r, i, v, prev)
			}
			prev = v
		}
	}
}

func TestFaderRunsToCompletion(t *testing.T) {
	sched := loop.NewManual(epoch)
	f := NewFader(sched)

	target := 0.15
	var got []float64
	done := 0
	f.Start(Ramp{From: 0, To: target, Duration: time.Second, Step: 25 * time.Millisecond},
		func(v float64) { got = append(got, v) },
		func() { done++ })

	if !f.Active() {
		t.Fatal("Active() = false after Start")
	}

	sched.Advance(2 * time.Second)

	if len(got) != 40 {
		t.Fatalf("got %d samples, want 40", len(got))
	}
	for k := 1; k <= 40; k++ {
		want := target * float64(k) / 40
		if k == 40 {
			want = target
		}
		if diff := got[k-1] - want; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("sample %d = %v, want %v", k, got[k-1], want)
		}
	}
	if got[39] != target {
		t.Errorf("final sample = %v, want exactly %v", got[39], target)
	}
	if done != 1 {
		t.Errorf("done called %d times, want 1", done)
	}
	if f.Active() {
		t.Error("Active() = true after completion")
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", sched.Pending())
	}
}

func TestFaderPreemption(t *testing.T) {
	sched := loop.NewManual(epoch)
	f := NewFader(sched)

	volume := 0.0
	firstDone := false
	f.Start(Ramp{From: 0, To: 1, Duration: time.Second, Step: 25 * time.Millisecond},
		func(v float64) { volume = v },
		func() { firstDone = true })

	sched.Advance(500 * time.Millisecond)
	mid := volume
	if mid <= 0 || mid >= 1 {
		t.Fatalf("mid-fade volume = %v, want strictly between 0 and 1", mid)
	}

	var second []float64
	f.Start(Ramp{From: mid, To: 0, Duration: 1200 * time.Millisecond, Step: 50 * time.Millisecond},
		func(v float64) {
			volume = v
			second = append(second, v)
		}, nil)

	sched.Advance(5 * time.Second)

	if firstDone {
		t.Error("preempted ramp called its done callback")
	}
	if volume != 0 {
		t.Errorf("final volume = %v, want 0", volume)
	}
	if len(second) != 24 {
		t.Errorf("second ramp emitted %d samples, want 24", len(second))
	}
	for i := 1; i < len(second); i++ {
		if second[i] >= second[i-1] {
			t.Errorf("sample %d = %v not below %v; first ramp still writing?", i, second[i], second[i-1])
		}
	}
}

func TestFaderCancel(t *testing.T) {
	sched := loop.NewManual(epoch)
	f := NewFader(sched)

	if f.Cancel() {
		t.Error("Cancel() = true with nothing running")
	}

	calls := 0
	f.Start(Ramp{From: 0, To: 1, Duration: time.Second, Step: 100 * time.Millisecond},
		func(float64) { calls++ }, nil)
	sched.Advance(300 * time.Millisecond)

	if to, ok := f.Target(); !ok || to != 1 {
		t.Errorf("Target() = %v, %v; want 1, true", to, ok)
	}
	if !f.Cancel() {
		t.Error("Cancel() = false with a ramp running")
	}
	sched.Advance(5 * time.Second)

	if calls != 3 {
		t.Errorf("apply called %d times, want 3", calls)
	}
}

func TestFaderStaleTickIgnored(t *testing.T) {
	sched := loop.NewManual(epoch)
	f := NewFader(sched)

	var writes []string
	f.Start(Ramp{From: 0, To: 1, Duration: time.Second, Step: 100 * time.Millisecond},
		func(float64) { writes = append(writes, "old") }, nil)
	old := f.cur

	f.Start(Ramp{From: 1, To: 0, Duration: time.Second, Step: 100 * time.Millisecond},
		func(float64) { writes = append(writes, "new") }, nil)

	// Simulate the old job's tick having been queued before the restart.
	f.tick(old)
	sched.Advance(100 * time.Millisecond)

	if len(writes) != 1 || writes[0] != "new" {
		t.Errorf("writes = %v, want [new]", writes)
	}
}
