package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(hz float64) [][2]float64 {
	block := make([][2]float64, Samples)
	for i := range block {
		v := math.Sin(2 * math.Pi * hz * float64(i) / float64(SampleRate))
		block[i] = [2]float64{v, v}
	}
	return block
}

func loudest(a *Analyzer) int {
	lv := a.Levels()
	best := 0
	for b := range lv {
		if lv[b] > lv[best] {
			best = b
		}
	}
	return best
}

func TestBinRangeAndBias(t *testing.T) {
	lo, hi := BinRange(0)
	assert.Equal(t, [2]int{2, 3}, [2]int{lo, hi})
	lo, hi = BinRange(5)
	assert.Equal(t, [2]int{11, 12}, [2]int{lo, hi})
	lo, hi = BinRange(Bands - 1)
	assert.Equal(t, [2]int{31, 32}, [2]int{lo, hi})

	assert.InDelta(t, 1.0, CenterBias(0), 1e-9)
	assert.InDelta(t, 1.0, CenterBias(Bands-1), 1e-9)
	assert.InDelta(t, 1+0.5*(1-0.5/7.5), CenterBias(7), 1e-9)
	assert.Greater(t, CenterBias(7), CenterBias(3))
}

func TestSilenceStaysDark(t *testing.T) {
	a := NewAnalyzer(beep.Silence(-1), DefaultTuning())
	for i := 0; i < 5; i++ {
		a.Update()
	}
	for b := 0; b < Bands; b++ {
		assert.Zero(t, a.Height(b))
		assert.Zero(t, a.PeakHeight(b))
	}
}

func TestToneOnsetLightsItsBand(t *testing.T) {
	a := NewAnalyzer(nil, DefaultTuning())
	silent := make([][2]float64, Samples)
	a.Feed(silent)
	a.Feed(tone(430)) // bin 11, band 5

	assert.Equal(t, 5, loudest(a))
	assert.Greater(t, a.Height(5), 3)
	assert.Zero(t, a.Height(0))
	assert.Zero(t, a.Height(Bands-1))

	peak := a.PeakHeight(5)
	assert.Greater(t, peak, 0)

	// a steady tone is absorbed by the noise floor; the peak decays slowly
	for i := 0; i < 6; i++ {
		a.Feed(tone(430))
	}
	assert.Less(t, a.Height(5), 2)
	assert.GreaterOrEqual(t, a.PeakHeight(5), a.Height(5))
	assert.LessOrEqual(t, a.PeakHeight(5), peak)
}

func TestScaleDoesNotDivideByZero(t *testing.T) {
	tn := DefaultTuning()
	tn.Scale = 0
	a := NewAnalyzer(nil, tn)
	a.Feed(make([][2]float64, Samples))
	a.Feed(tone(430))
	assert.Greater(t, a.Height(5), 0)
}

func TestOpen(t *testing.T) {
	buf := make([][2]float64, 512)

	for _, spec := range []string{"", "demo", "sine:440"} {
		src, err := Open(spec)
		require.NoError(t, err, spec)
		n, ok := src.Stream(buf)
		assert.True(t, ok)
		assert.Equal(t, len(buf), n)
		nonzero := false
		for _, s := range buf {
			if s[0] != 0 {
				nonzero = true
			}
		}
		assert.True(t, nonzero, spec)
		assert.NoError(t, src.Close())
	}

	for _, spec := range []string{"mic", "sine:abc", "sine:-1"} {
		_, err := Open(spec)
		assert.ErrorIs(t, err, ErrUnknownSource, spec)
	}
	_, err := Open("wav:" + filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestOpenWavLoops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	sine, err := generators.SineTone(20000, 500)
	require.NoError(t, err)
	format := beep.Format{SampleRate: 20000, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Take(400, sine), format))
	require.NoError(t, f.Close())

	src, err := Open("wav:" + path)
	require.NoError(t, err)
	defer src.Close()

	// 400 samples at 20kHz are 800 at the analysis rate; a full block loops
	a := NewAnalyzer(src, DefaultTuning())
	a.Update()
	n, ok := src.Stream(make([][2]float64, Samples))
	assert.True(t, ok)
	assert.Equal(t, Samples, n)
}
