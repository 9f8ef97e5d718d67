package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	// FFTSize is the analysis window in samples.
	FFTSize = 1024
	// BinCount is the number of frequency bins reported.
	BinCount = FFTSize / 2
)

// SampleSource supplies the most recent time-domain samples.
type SampleSource interface {
	Samples(n int) []float64
}

// AnalyzerOptions shape the byte spectrum.
type AnalyzerOptions struct {
	// Smoothing blends each frame with the previous one, in [0, 1).
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

// DefaultAnalyzerOptions returns a fast-reacting spectrum over -100..-30 dB.
func DefaultAnalyzerOptions() AnalyzerOptions {
	return AnalyzerOptions{
		Smoothing:   0.1,
		MinDecibels: -100,
		MaxDecibels: -30,
	}
}

// Analyzer computes a smoothed magnitude spectrum of a SampleSource and
// scales it to bytes, 0 at MinDecibels and 255 at MaxDecibels.
type Analyzer struct {
	src  SampleSource
	opts AnalyzerOptions
	fft  *fourier.FFT

	mu       sync.Mutex
	frame    []float64
	coeffs   []complex128
	smoothed []float64
}

// NewAnalyzer creates an analyser reading from src.
func NewAnalyzer(src SampleSource, opts AnalyzerOptions) *Analyzer {
	if opts.MaxDecibels <= opts.MinDecibels {
		d := DefaultAnalyzerOptions()
		opts.MinDecibels, opts.MaxDecibels = d.MinDecibels, d.MaxDecibels
	}
	return &Analyzer{
		src:      src,
		opts:     opts,
		fft:      fourier.NewFFT(FFTSize),
		frame:    make([]float64, FFTSize),
		coeffs:   make([]complex128, FFTSize/2+1),
		smoothed: make([]float64, BinCount),
	}
}

// Frequencies returns BinCount byte magnitudes, lowest frequency first.
func (a *Analyzer) Frequencies() []uint8 {
	samples := a.src.Samples(FFTSize)

	a.mu.Lock()
	defer a.mu.Unlock()

	clear(a.frame)
	copy(a.frame[FFTSize-len(samples):], samples)
	window.Blackman(a.frame)
	a.coeffs = a.fft.Coefficients(a.coeffs, a.frame)

	span := a.opts.MaxDecibels - a.opts.MinDecibels
	out := make([]uint8, BinCount)
	for k := range out {
		mag := cmplx.Abs(a.coeffs[k]) / FFTSize
		a.smoothed[k] = a.opts.Smoothing*a.smoothed[k] + (1-a.opts.Smoothing)*mag

		db := 20 * math.Log10(a.smoothed[k])
		scaled := 255 * (db - a.opts.MinDecibels) / span
		out[k] = uint8(math.Max(0, math.Min(255, scaled)))
	}
	return out
}

// Reset forgets the smoothing history.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	clear(a.smoothed)
	a.mu.Unlock()
}
