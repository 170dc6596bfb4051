package bars

import (
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-pixelboard/internal/audio"
	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

// burst is silent for one block, then plays a tone.
type burst struct {
	hz  float64
	pos int
}

func (s *burst) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := 0.0
		if s.pos >= audio.Samples {
			v = math.Sin(2 * math.Pi * s.hz * float64(s.pos) / float64(audio.SampleRate))
		}
		samples[i] = [2]float64{v, v}
		s.pos++
	}
	return len(samples), true
}

func (s *burst) Err() error { return nil }

func litRows(f *render.Frame, x int) int {
	n := 0
	for y := 0; y < f.Height(); y++ {
		if !f.At(x, y).IsBlack() {
			n++
		}
	}
	return n
}

func warmUp(t *testing.T, mode Mode) (*Bars, *render.Frame) {
	t.Helper()
	b := New(audio.NewAnalyzer(&burst{hz: 430}, audio.DefaultTuning()))
	b.Mode = mode
	f := render.NewFrame(layout.Default())
	p := &render.Params{}
	b.OnActivate(p)
	b.Render(f, p)
	b.Render(f, p)
	return b, f
}

func TestRainbowBarsGrowFromTheBottom(t *testing.T) {
	b, f := warmUp(t, RainbowBars)
	h := b.A.Height(5)
	require.Greater(t, h, 0)
	assert.Equal(t, h, litRows(f, 5))
	assert.False(t, f.At(5, 15).IsBlack())
	assert.True(t, f.At(5, 15-h).IsBlack())
	assert.Equal(t, render.HSV(5*16, 255, 255), f.At(5, 15))
	assert.Zero(t, litRows(f, 0))
}

func TestWhitePeakDrawsOneDot(t *testing.T) {
	b, f := warmUp(t, WhitePeak)
	p := b.A.PeakHeight(5)
	require.Greater(t, p, 0)
	assert.Equal(t, 1, litRows(f, 5))
	assert.Equal(t, render.White, f.At(5, 15-p))
}

func TestCenterBarsAreSymmetric(t *testing.T) {
	_, f := warmUp(t, CenterBars)
	for y := 1; y < 8; y++ {
		assert.Equal(t, f.At(5, 8-y), f.At(5, 8+y), "row offset %d", y)
	}
	assert.False(t, f.At(5, 8).IsBlack())
}

func TestWaterfallScrollsDown(t *testing.T) {
	b, f := warmUp(t, Waterfall)
	top := f.At(5, 0)
	b.Render(f, &render.Params{})
	assert.Equal(t, top, f.At(5, 1))
}

func TestSilenceClearsColumns(t *testing.T) {
	for m := RainbowBars; m < Waterfall; m++ {
		b := New(audio.NewAnalyzer(beep.Silence(-1), audio.DefaultTuning()))
		b.Mode = m
		f := render.NewFrame(layout.Default())
		f.Fill(render.White)
		b.Render(f, &render.Params{})
		if m == CenterBars {
			// the centre dot of an empty bar stays lit
			assert.LessOrEqual(t, litRows(f, 3), 1, m.String())
			continue
		}
		assert.Zero(t, litRows(f, 3), m.String())
	}
}

func TestAudioUpdate(t *testing.T) {
	b := New(audio.NewAnalyzer(beep.Silence(-1), audio.DefaultTuning()))
	require.NoError(t, b.Control("audioupdate", render.Args{
		"noiseThreshold":  "100",
		"scaleFactor":     "2",
		"noiseAlpha":      "20",
		"smoothingFactor": "50",
		"pattern":         "5",
	}))
	assert.Equal(t, 100.0, b.A.NoiseThreshold)
	assert.Equal(t, 2, b.A.Scale)
	assert.InDelta(t, 0.2, b.A.NoiseAlpha, 1e-9)
	assert.InDelta(t, 0.5, b.A.Smoothing, 1e-9)
	assert.Equal(t, Waterfall, b.Mode)

	tests := []struct {
		name string
		args render.Args
	}{
		{"scale zero", render.Args{"scaleFactor": "0"}},
		{"inverted range", render.Args{"minAmplitude": "6000"}},
		{"percent", render.Args{"smoothingFactor": "150"}},
		{"mode", render.Args{"pattern": "6"}},
		{"not a number", render.Args{"maxAmplitude": "loud"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, b.Control("audioupdate", tc.args), render.ErrInvalidValue)
		})
	}
	assert.Equal(t, 2, b.A.Scale, "rejected updates change nothing")
	assert.ErrorIs(t, b.Control("louder", nil), render.ErrUnknownAction)

	st := b.Status().(Status)
	assert.Equal(t, "waterfall", st.Mode)
	assert.Equal(t, 5, st.Pattern)
}
