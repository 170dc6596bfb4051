package audio

import (
	"math"
	"math/cmplx"

	"github.com/gopxl/beep"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	Samples     = 1024 // FFT block, power of two
	Bands       = 16
	Top         = 16 // tallest bar
	CenterBoost = 1.5
	PeakDecay   = 0.95

	// FullScale maps a unit sine's windowed amplitude into the range the
	// thresholds below are tuned for.
	FullScale = 16384
)

// Tuning mirrors the knobs exposed on the control page.
type Tuning struct {
	NoiseThreshold float64 `yaml:"threshold" json:"noiseThreshold"`
	MinAmplitude   float64 `yaml:"min_amp" json:"minAmplitude"`
	MaxAmplitude   float64 `yaml:"max_amp" json:"maxAmplitude"`
	Scale          int     `yaml:"scale" json:"scaleFactor"`
	NoiseAlpha     float64 `yaml:"noise_alpha" json:"noiseAlpha"`
	Smoothing      float64 `yaml:"smoothing" json:"smoothingFactor"`
}

func DefaultTuning() Tuning {
	return Tuning{
		NoiseThreshold: 348,
		MinAmplitude:   70,
		MaxAmplitude:   5000,
		Scale:          1,
		NoiseAlpha:     0.45,
		Smoothing:      0.46,
	}
}

// Analyzer pulls one block per Update and keeps smoothed band levels and
// decaying peaks.
type Analyzer struct {
	Tuning

	src   beep.Streamer
	block [][2]float64
	mono  []float64
	win   []float64

	noise  [Bands]float64
	levels [Bands]float64
	peaks  [Bands]float64
}

func NewAnalyzer(src beep.Streamer, t Tuning) *Analyzer {
	return &Analyzer{
		Tuning: t,
		src:    src,
		block:  make([][2]float64, Samples),
		mono:   make([]float64, Samples),
		win:    window.Hamming(Samples),
	}
}

// SetSource swaps the sample stream; levels carry over.
func (a *Analyzer) SetSource(src beep.Streamer) { a.src = src }

// BinRange is the inclusive FFT bin span of band b.
func BinRange(b int) (lo, hi int) {
	if b == 0 {
		return 2, 3
	}
	return 2*b + 1, 2*b + 2
}

// CenterBias weights the middle bands up to CenterBoost, falling to 1 at
// the edges.
func CenterBias(b int) float64 {
	center := float64(Bands-1) / 2
	d := math.Abs(float64(b)-center) / center
	return 1 + (CenterBoost-1)*(1-d)
}

// Update reads a block and advances band levels. A drained source reads as
// silence.
func (a *Analyzer) Update() {
	for i := range a.block {
		a.block[i] = [2]float64{}
	}
	if a.src != nil {
		n, _ := a.src.Stream(a.block)
		for n < Samples {
			m, ok := a.src.Stream(a.block[n:])
			if !ok || m == 0 {
				break
			}
			n += m
		}
	}
	a.Feed(a.block)
}

// Feed analyses one block of stereo samples.
func (a *Analyzer) Feed(block [][2]float64) {
	mean := 0.0
	for i := 0; i < Samples; i++ {
		v := 0.0
		if i < len(block) {
			v = (block[i][0] + block[i][1]) / 2
		}
		a.mono[i] = v
		mean += v
	}
	mean /= Samples
	for i := range a.mono {
		a.mono[i] = (a.mono[i] - mean) * a.win[i]
	}
	spec := fft.FFTReal(a.mono)

	scale := max(a.Scale, 1)
	norm := 2.0 / Samples * FullScale
	for b := 0; b < Bands; b++ {
		lo, hi := BinRange(b)
		v := 0.0
		for i := lo; i <= hi && i < Samples/2; i++ {
			v += cmplx.Abs(spec[i]) * norm
		}
		v /= float64(hi - lo + 1)

		a.noise[b] = a.noise[b]*(1-a.NoiseAlpha) + v*a.NoiseAlpha
		v = math.Max(0, v-a.noise[b]-a.NoiseThreshold)
		v = math.Min(v, a.MaxAmplitude)
		span := a.MaxAmplitude - a.MinAmplitude
		if span <= 0 {
			span = 1
		}
		v = math.Max(0, (v-a.MinAmplitude)*float64(Top*scale)/span)
		v *= CenterBias(b)

		a.levels[b] = a.levels[b]*a.Smoothing + v*(1-a.Smoothing)
		if a.levels[b] > a.peaks[b] {
			a.peaks[b] = a.levels[b]
		} else {
			a.peaks[b] *= PeakDecay
		}
	}
}

// Height is band b's bar height in rows, 0..Top.
func (a *Analyzer) Height(b int) int {
	return clampRows(a.levels[b]/float64(max(a.Scale, 1)), Top)
}

// PeakHeight is band b's peak row, 0..Top-1.
func (a *Analyzer) PeakHeight(b int) int {
	return clampRows(a.peaks[b]/float64(max(a.Scale, 1)), Top-1)
}

// Levels returns a copy of the smoothed band levels.
func (a *Analyzer) Levels() [Bands]float64 { return a.levels }

func clampRows(v float64, hi int) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > hi {
		return hi
	}
	return n
}
