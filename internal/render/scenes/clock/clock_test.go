package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

func at(now time.Duration) *render.Params {
	return &render.Params{Brightness: 255, Speed: 100, Now: now}
}

func TestStartsPausedAndCounts(t *testing.T) {
	c := New()
	f := render.NewFrame(layout.Default())
	c.OnActivate(at(0))

	c.Render(f, at(5*time.Second))
	assert.Equal(t, 0, c.Elapsed)

	require.NoError(t, c.Control("start", render.Args{"minutes": "0", "seconds": "3"}))
	c.Render(f, at(10*time.Second))
	for s := 11; s <= 20; s++ {
		c.Render(f, at(time.Duration(s)*time.Second))
	}
	assert.Equal(t, 3, c.Elapsed, "stops at the total")
	assert.Equal(t, Status{Minutes: 0, Seconds: 3, TotalMinutes: 0, Paused: false}, c.Status())
}

func TestPauseToggleAndReset(t *testing.T) {
	c := New()
	f := render.NewFrame(layout.Default())
	c.OnActivate(at(0))
	require.NoError(t, c.Control("start", nil))
	c.Render(f, at(0))
	c.Render(f, at(time.Second))
	require.Equal(t, 1, c.Elapsed)

	require.NoError(t, c.Control("pause", nil))
	c.Render(f, at(5*time.Second))
	assert.Equal(t, 1, c.Elapsed)

	require.NoError(t, c.Control("pause", nil))
	c.Render(f, at(5*time.Second+500*time.Millisecond))
	assert.Equal(t, 1, c.Elapsed, "resume restarts the second")
	c.Render(f, at(6*time.Second+500*time.Millisecond))
	assert.Equal(t, 2, c.Elapsed)

	require.NoError(t, c.Control("reset", nil))
	assert.Equal(t, 0, c.Elapsed)
	assert.True(t, c.Paused)
	assert.Equal(t, DefaultTotal/60, c.Status().(Status).TotalMinutes)
}

func TestControlValidation(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Control("", nil), render.ErrMissingValue)
	assert.ErrorIs(t, c.Control("rewind", nil), render.ErrUnknownAction)
	assert.ErrorIs(t, c.Control("start", render.Args{"minutes": "x", "seconds": "1"}), render.ErrInvalidValue)
	assert.ErrorIs(t, c.Control("start", render.Args{"minutes": "0", "seconds": "0"}), render.ErrInvalidValue)
	assert.Equal(t, DefaultTotal, c.Total)
}

func TestWedgeAngle(t *testing.T) {
	assert.InDelta(t, 0, WedgeAngle(0, -5), 1e-9)
	assert.InDelta(t, 90, WedgeAngle(5, 0), 1e-9)
	assert.InDelta(t, 180, WedgeAngle(0, 5), 1e-9)
	assert.InDelta(t, 270, WedgeAngle(-5, 0), 1e-9)
}

func TestEdgeSpotsWalkTheBorder(t *testing.T) {
	x, y := EdgeSpot(0, 16, 16)
	assert.Equal(t, [2]int{8, 0}, [2]int{x, y}, "12 o'clock")
	x, y = EdgeSpot(7, 16, 16)
	assert.Equal(t, [2]int{15, 0}, [2]int{x, y})
	x, y = EdgeSpot(8, 16, 16)
	assert.Equal(t, [2]int{15, 1}, [2]int{x, y})

	seen := map[[2]int]bool{}
	for i := 0; i < 60; i++ {
		x, y := EdgeSpot(i, 16, 16)
		require.True(t, x == 0 || x == 15 || y == 0 || y == 15, "spot %d at %d,%d", i, x, y)
		seen[[2]int{x, y}] = true
	}
	assert.Len(t, seen, 60)
}

func TestHalfwayWedge(t *testing.T) {
	c := New()
	c.Total = 120
	c.Elapsed = 60
	f := render.NewFrame(layout.Default())
	c.OnActivate(at(0))
	c.Render(f, at(0))

	assert.False(t, f.At(12, 4).IsBlack(), "upper right lit")
	assert.False(t, f.At(12, 12).IsBlack(), "lower right lit")
	assert.True(t, f.At(3, 12).IsBlack(), "lower left dark")
	assert.True(t, f.At(3, 4).IsBlack(), "upper left dark")
}
