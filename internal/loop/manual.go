package loop

import (
	"sort"
	"time"
)

// Manual is a virtual-time scheduler. Nothing runs until Advance or Flush
// is called, which makes timer-driven code testable without sleeping.
// Manual is not safe for concurrent use.
type Manual struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
	posted []func()
}

type manualTimer struct {
	handle
	due      time.Time
	interval time.Duration
	seq      uint64
	fn       func()
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) Post(fn func()) {
	m.posted = append(m.posted, fn)
}

func (m *Manual) After(delay time.Duration, fn func()) Handle {
	return m.add(delay, 0, fn)
}

func (m *Manual) Repeat(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return m.add(interval, interval, fn)
}

func (m *Manual) add(delay, interval time.Duration, fn func()) *manualTimer {
	m.seq++
	t := &manualTimer{
		due:      m.now.Add(delay),
		interval: interval,
		seq:      m.seq,
		fn:       fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Pending returns the number of live timers.
func (m *Manual) Pending() int {
	m.prune()
	return len(m.timers)
}

// Flush runs posted callbacks, including ones posted while flushing.
func (m *Manual) Flush() {
	for len(m.posted) > 0 {
		fn := m.posted[0]
		m.posted = m.posted[1:]
		fn()
	}
}

// Advance moves the clock forward by d, firing every timer that falls due
// in deadline order. Ties fire in the order the timers were created.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	m.Flush()
	for {
		next := m.next(end)
		if next == nil {
			break
		}
		m.now = next.due
		if next.interval > 0 {
			next.due = next.due.Add(next.interval)
		} else {
			next.cancelled.Store(true)
		}
		next.fn()
		m.Flush()
	}
	m.now = end
	m.prune()
}

// Step advances to the next due timer and fires it. It reports false when
// nothing is scheduled.
func (m *Manual) Step() bool {
	m.prune()
	if len(m.timers) == 0 {
		return false
	}
	m.sort()
	m.Advance(m.timers[0].due.Sub(m.now))
	return true
}

func (m *Manual) next(end time.Time) *manualTimer {
	m.prune()
	m.sort()
	if len(m.timers) == 0 || m.timers[0].due.After(end) {
		return nil
	}
	return m.timers[0]
}

func (m *Manual) sort() {
	sort.SliceStable(m.timers, func(i, j int) bool {
		a, b := m.timers[i], m.timers[j]
		if !a.due.Equal(b.due) {
			return a.due.Before(b.due)
		}
		return a.seq < b.seq
	})
}

func (m *Manual) prune() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.Cancelled() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
}

var _ Scheduler = (*Manual)(nil)
