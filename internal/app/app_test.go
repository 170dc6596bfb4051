package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-pixelboard/internal/config"
	"github.com/coreman2200/funtimes-pixelboard/internal/diagnostics"
	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/sequence"
)

type countingDriver struct {
	mu     sync.Mutex
	writes int
	err    error
}

func (d *countingDriver) Write(rgb []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	return d.err
}

func (d *countingDriver) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

func TestRegistryOrder(t *testing.T) {
	b, err := BuildRegistry(layout.Default(), 1, false, nil)
	require.NoError(t, err)
	want := []string{
		"Fire", "The Matrix", "Pac Man Ghost", "Qbert", "DVD Bounce",
		"Ms Pac-Man", "Jelly Fish", "Super Mario", "Rainbow Drift", "Pixel Swaps",
		"Rainbow Glitter", "Confetti", "Up Down Rainbow", "Juggle", "Twinkle",
		"Sleep Device", "Swirl", "Game of Life", "Color Wipe", "Beach Ball",
		"Clock Countdown", "Draw", "Video", "Type", "Random",
		"Snake Game", "Tetris Game", "Pulse", "BPM", "Audio Bars",
	}
	list := b.Reg.List()
	require.Len(t, list, len(want))
	for i, d := range list {
		assert.Equal(t, want[i], d.Name, "index %d", i)
		assert.NotEmpty(t, d.Icon, d.Name)
	}
}

func newCore(t *testing.T, opts Options) (*Core, *countingDriver) {
	t.Helper()
	drv := &countingDriver{}
	opts.Grid = layout.Default()
	opts.Driver = drv
	opts.Seed = 7
	if opts.Prefs == (config.UserPrefs{}) {
		opts.Prefs = config.DefaultPrefs()
	}
	c, err := NewCore(opts)
	require.NoError(t, err)
	return c, drv
}

func TestEveryPatternRenders(t *testing.T) {
	c, drv := newCore(t, Options{})
	var frames []uint64
	c.AfterFrame = append(c.AfterFrame, func(id uint64, rgb []byte) {
		assert.Len(t, rgb, 768)
		frames = append(frames, id)
	})
	now := time.Duration(0)
	for i := 0; i < c.Reg.Count(); i++ {
		require.NoError(t, c.Eng.Select(i))
		for j := 0; j < 5; j++ {
			now += 50 * time.Millisecond
			c.Step(now, 0.05)
		}
		assert.Equal(t, i, c.Eng.Current())
	}
	assert.Equal(t, 5*c.Reg.Count(), drv.count())
	assert.Len(t, frames, 5*c.Reg.Count())
}

func TestPrefsStartAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	start := config.UserPrefs{Pattern: 8, Brightness: 60, Speed: 90}
	saver := config.NewPrefsSaver(path, 15*time.Second, start)
	c, _ := newCore(t, Options{Prefs: start, PrefsSaver: saver})
	assert.Equal(t, "Rainbow Drift", c.Eng.CurrentName())
	assert.Equal(t, uint8(60), c.Eng.Params().Brightness)

	boot := time.Now()
	c.clock = func() time.Time { return boot }
	c.Eng.SetBrightness(200)
	c.Step(0, 0)
	c.Stop()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no write inside the first interval")

	c.clock = func() time.Time { return boot.Add(16 * time.Second) }
	c.Step(time.Millisecond, 0)
	c.Stop()
	back, err := config.LoadPrefs(path, c.Reg.Count())
	require.NoError(t, err)
	assert.Equal(t, config.UserPrefs{Pattern: 8, Brightness: 200, Speed: 90}, back)
}

func TestPrefsWriteStaysOffTheFrameLoop(t *testing.T) {
	dir := t.TempDir()
	start := config.DefaultPrefs()
	// a directory at the prefs path makes every write fail
	path := filepath.Join(dir, "prefs.yaml")
	require.NoError(t, os.Mkdir(path, 0755))
	saver := config.NewPrefsSaver(path, 0, start)
	c, _ := newCore(t, Options{PrefsSaver: saver})

	for i := 1; i <= 5; i++ {
		c.Eng.SetBrightness(uint8(10 * i))
		c.Step(time.Duration(i)*time.Millisecond, 0)
	}
	c.Stop()
	assert.False(t, c.saving.Load())
	require.Error(t, c.FlushPrefs())
}

func TestOutOfRangePrefsStartAtZero(t *testing.T) {
	c, _ := newCore(t, Options{Prefs: config.UserPrefs{Pattern: 99, Brightness: 100, Speed: 100}})
	assert.Equal(t, 0, c.Eng.Current())
}

func TestPlaylistDrivesSelection(t *testing.T) {
	prog := &sequence.Program{Clips: []sequence.Clip{
		{Pattern: "Swirl", DurationS: 1, XFadeS: 0.5},
		{Pattern: "Confetti", DurationS: 1},
	}}
	c, _ := newCore(t, Options{Playlist: prog})
	require.NoError(t, c.Seq.Play())
	assert.Equal(t, "Swirl", c.Eng.CurrentName())

	now := time.Duration(0)
	for i := 0; i < 4; i++ {
		now += 250 * time.Millisecond
		c.Step(now, 0.25)
	}
	assert.Equal(t, "Confetti", c.Eng.CurrentName())

	_, err := NewCore(Options{Grid: layout.Default(), Playlist: &sequence.Program{}})
	assert.ErrorIs(t, err, sequence.ErrEmptyProgram)
}

func TestDriverFailuresAreRateLimited(t *testing.T) {
	c, drv := newCore(t, Options{})
	drv.err = errors.New("spi gone")
	var diags []diagnostics.Diagnostic
	c.OnDiag = func(d diagnostics.Diagnostic) { diags = append(diags, d) }
	for i := 0; i < 10; i++ {
		c.Step(time.Duration(i)*time.Millisecond, 0)
	}
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.CodeDriverWrite, diags[0].Code)
}

func TestLoopStopsWithContext(t *testing.T) {
	c, drv := newCore(t, Options{FPS: 200})
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	require.Eventually(t, func() bool { return drv.count() > 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	c.Stop() // returns only once the loop goroutine has exited
}
