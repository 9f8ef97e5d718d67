package visualizer

import (
	"math"
	"testing"
	"time"
)

var at = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func filled(n int, v uint8) []uint8 {
	bins := make([]uint8, n)
	for i := range bins {
		bins[i] = v
	}
	return bins
}

func TestHeightsWithinRange(t *testing.T) {
	tn := DefaultTuning()
	inputs := [][]uint8{
		filled(512, 0),
		filled(512, 255),
		filled(512, 128),
		filled(50, 200),
	}

	for _, bins := range inputs {
		for step := 0; step < 20; step++ {
			now := at.Add(time.Duration(step) * 137 * time.Millisecond)
			f := Heights(bins, now, tn)
			if len(f) != BarCount {
				t.Fatalf("len(Heights()) = %d, want %d", len(f), BarCount)
			}
			for i, h := range f {
				if h < tn.MinHeight || h > tn.MaxHeight {
					t.Errorf("bar %d = %v, outside [%v, %v]", i, h, tn.MinHeight, tn.MaxHeight)
				}
			}
		}
	}
}

func TestHeightsSilenceFollowsBaseline(t *testing.T) {
	tn := DefaultTuning()
	f := Heights(filled(512, 0), at, tn)
	secs := float64(at.UnixNano()) / float64(time.Second)

	for i, h := range f {
		want := Baseline(secs, i)*24 + 4
		if math.Abs(h-want) > 1e-9 {
			t.Errorf("bar %d = %v, want baseline height %v", i, h, want)
		}
		if h <= tn.MinHeight {
			t.Errorf("bar %d flattened to %v", i, h)
		}
	}
}

func TestHeightsFullScale(t *testing.T) {
	tn := DefaultTuning()
	f := Heights(filled(512, 255), at, tn)
	secs := float64(at.UnixNano()) / float64(time.Second)

	for i, h := range f {
		// normalized saturates at 1, so final = 0.8 + 0.2*baseline.
		want := (0.8+0.2*Baseline(secs, i))*24 + 4
		if math.Abs(h-want) > 1e-9 {
			t.Errorf("bar %d = %v, want %v", i, h, want)
		}
	}
}

func TestHeightsLouderIsTaller(t *testing.T) {
	tn := DefaultTuning()
	quiet := Heights(filled(512, 40), at, tn)
	loud := Heights(filled(512, 160), at, tn)

	for i := range quiet {
		if loud[i] <= quiet[i] {
			t.Errorf("bar %d: loud %v <= quiet %v", i, loud[i], quiet[i])
		}
	}
}

func TestHeightsBandsAreDisjoint(t *testing.T) {
	tn := DefaultTuning()
	bins := make([]uint8, 512)
	for i := 1; i < 12; i++ {
		bins[i] = 255
	}

	f := Heights(bins, at, tn)
	silent := Heights(filled(512, 0), at, tn)

	if f[0] <= silent[0] {
		t.Errorf("bass bar %v did not rise above %v", f[0], silent[0])
	}
	for i := 1; i < BarCount; i++ {
		if f[i] != silent[i] {
			t.Errorf("bar %d = %v, want untouched %v", i, f[i], silent[i])
		}
	}
}

func TestHeightsNoBins(t *testing.T) {
	if f := Heights(nil, at, DefaultTuning()); f != nil {
		t.Errorf("Heights(nil) = %v, want nil", f)
	}
}

func TestIdleAndRows(t *testing.T) {
	tn := DefaultTuning()
	f := Idle(at, tn)
	if len(f) != BarCount {
		t.Fatalf("len(Idle()) = %d", len(f))
	}

	rows := Rows(Frame{4, 16, 28}, tn, 7)
	want := []int{1, 4, 7}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Rows()[%d] = %d, want %d", i, rows[i], want[i])
		}
	}
}
