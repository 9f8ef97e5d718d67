// Package visualizer turns analyser frequency bins into four bar heights.
//
// The constants here were tuned by ear and eye; they are exposed as
// configuration rather than treated as fixed behaviour.
package visualizer

import (
	"math"
	"time"
)

// BarCount is the number of bars drawn.
const BarCount = 4

// Band is a half-open bin range [Start, End) feeding one bar.
type Band struct {
	Start       int     `toml:"start"`
	End         int     `toml:"end"`
	Sensitivity float64 `toml:"sensitivity"`
}

// Tuning holds the knobs of the height computation.
type Tuning struct {
	Bands [BarCount]Band
	// Exponent compresses the normalized level perceptually.
	Exponent float64
	// GlobalEnd bounds the bins averaged into the global multiplier.
	GlobalEnd int
	MinHeight float64
	MaxHeight float64
}

// DefaultTuning returns the stock bass/mid-bass/mid/treble split.
func DefaultTuning() Tuning {
	return Tuning{
		Bands: [BarCount]Band{
			{Start: 1, End: 12, Sensitivity: 1.2},
			{Start: 12, End: 40, Sensitivity: 1.4},
			{Start: 40, End: 100, Sensitivity: 1.6},
			{Start: 100, End: 200, Sensitivity: 1.8},
		},
		Exponent:  0.6,
		GlobalEnd: 200,
		MinHeight: 4,
		MaxHeight: 28,
	}
}

// Frame is one set of bar heights. A nil Frame means "no reactive data";
// renderers fall back to their idle animation.
type Frame []float64

// Static is the frame used when no analyser is available or playback stopped.
func Static() Frame {
	return nil
}

// Heights computes bar heights for bins at time now. It keeps no state:
// now only drives the idle oscillation phase.
func Heights(bins []uint8, now time.Time, tn Tuning) Frame {
	if len(bins) == 0 {
		return Static()
	}

	global := math.Min(2.0, 1.0+average(bins, 1, tn.GlobalEnd)/255)
	span := tn.MaxHeight - tn.MinHeight
	secs := float64(now.UnixNano()) / float64(time.Second)

	out := make(Frame, BarCount)
	for i, band := range tn.Bands {
		avg := average(bins, band.Start, band.End)
		normalized := math.Min(1, avg/255*band.Sensitivity*global)
		curved := math.Pow(normalized, tn.Exponent)

		baseline := Baseline(secs, i)
		final := math.Max(curved*0.8+baseline*0.2, baseline)

		out[i] = clamp(final*span+tn.MinHeight, tn.MinHeight, tn.MaxHeight)
	}
	return out
}

// Baseline is the gentle oscillation that keeps bar i moving even in
// silence. secs is wall-clock time in seconds.
func Baseline(secs float64, i int) float64 {
	phase := secs*1.2 + float64(i)*math.Pi/2
	return 0.2 + 0.1*math.Sin(phase)
}

func average(bins []uint8, start, end int) float64 {
	if start < 0 {
		start = 0
	}
	if end > len(bins) {
		end = len(bins)
	}
	if end <= start {
		return 0
	}
	sum := 0
	for _, v := range bins[start:end] {
		sum += int(v)
	}
	return float64(sum) / float64(end-start)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Idle returns baseline-only heights, used for the non-reactive animation
// while music plays without an analyser.
func Idle(now time.Time, tn Tuning) Frame {
	secs := float64(now.UnixNano()) / float64(time.Second)
	span := tn.MaxHeight - tn.MinHeight
	out := make(Frame, BarCount)
	for i := range out {
		out[i] = clamp(Baseline(secs, i)*span+tn.MinHeight, tn.MinHeight, tn.MaxHeight)
	}
	return out
}

// Rows maps each height onto 1..rows terminal cells.
func Rows(f Frame, tn Tuning, rows int) []int {
	out := make([]int, len(f))
	span := tn.MaxHeight - tn.MinHeight
	for i, h := range f {
		level := 0.0
		if span > 0 {
			level = (h - tn.MinHeight) / span
		}
		out[i] = 1 + int(math.Round(level*float64(rows-1)))
	}
	return out
}
