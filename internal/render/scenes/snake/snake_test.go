package snake

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

func newGame(seed int64) *Game {
	g := NewGame(rand.New(rand.NewSource(seed)))
	g.Reset()
	return g
}

func TestEatFoodGrows(t *testing.T) {
	g := newGame(1)
	require.Equal(t, []Point{{8, 8}, {7, 8}, {6, 8}}, g.Body)
	g.Food = Point{9, 8}

	g.Tick(0)
	require.Equal(t, Playing, g.State)
	assert.Equal(t, Point{9, 8}, g.Head())
	assert.Len(t, g.Body, 4)
	assert.Equal(t, 1, g.Score)
	assert.Equal(t, []Point{{9, 8}, {8, 8}, {7, 8}, {6, 8}}, g.Body)
	assert.NotContains(t, g.Body, g.Food)
}

func TestFillingTheBoardEndsGame(t *testing.T) {
	// walk the board row by row, alternating direction, leaving the last cell free
	var path []Point
	for y := 0; y < Height; y++ {
		for i := 0; i < Width; i++ {
			x := i
			if y%2 == 1 {
				x = Width - 1 - i
			}
			path = append(path, Point{x, y})
		}
	}
	g := newGame(3)
	g.Body = g.Body[:0]
	for i := MaxLength - 2; i >= 0; i-- {
		g.Body = append(g.Body, path[i])
	}
	g.Food = path[MaxLength-1]
	g.Dir, g.Next = Left, Left
	require.Len(t, g.Body, MaxLength-1)

	g.Tick(time.Second)
	assert.Equal(t, GameOver, g.State)
	assert.Len(t, g.Body, MaxLength)
	assert.Equal(t, 1, g.Score)
	assert.Equal(t, time.Second, g.OverAt)
	assert.Equal(t, path[MaxLength-1], g.Head())
}

func TestSelfCollisionEndsGame(t *testing.T) {
	g := newGame(2)
	g.Body = []Point{{5, 5}, {6, 5}, {6, 6}, {5, 6}, {4, 6}}
	g.Dir, g.Next = Down, Down
	g.Food = Point{0, 0}

	g.Tick(3 * time.Second)
	assert.Equal(t, GameOver, g.State)
	assert.Equal(t, 3*time.Second, g.OverAt)
	assert.Equal(t, Point{5, 5}, g.Head(), "body is not moved on a crash")
}

func TestWallCollisionEndsGame(t *testing.T) {
	g := newGame(3)
	g.Food = Point{0, 0}
	for i := 0; i < Width; i++ {
		g.Tick(0)
	}
	assert.Equal(t, GameOver, g.State)
	assert.Equal(t, Point{Width - 1, 8}, g.Head())
}

func TestReversalIgnored(t *testing.T) {
	g := newGame(4)
	g.SetDirection(Left)
	assert.Equal(t, Right, g.Next)
	g.SetDirection(Up)
	assert.Equal(t, Up, g.Next)
}

func TestGrowthInvariantUnderAutopilot(t *testing.T) {
	g := newGame(5)
	for i := 0; i < 5000 && g.State == Playing; i++ {
		g.Next = g.Choose()
		g.Tick(time.Duration(i) * StepEvery)
		if g.State != Playing {
			break
		}
		require.Len(t, g.Body, InitialLength+g.Eaten)
		seen := map[Point]bool{}
		for _, b := range g.Body {
			require.False(t, seen[b], "segment %v duplicated at tick %d", b, i)
			seen[b] = true
		}
		require.False(t, seen[g.Food], "food on the body")
	}
	assert.Greater(t, g.Score, 0)
}

func TestChoosePrefersFood(t *testing.T) {
	g := newGame(6)
	g.Food = Point{8, 2}
	assert.Equal(t, Up, g.Choose())
	g.Food = Point{2, 8}
	// left would reverse; the first safe turn wins
	assert.Equal(t, Up, g.Choose())
	g.Food = Point{12, 8}
	assert.Equal(t, Right, g.Choose())
}

func TestChooseKeepsDirectionWhenTrapped(t *testing.T) {
	g := newGame(7)
	g.Body = []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	g.Dir, g.Next = Left, Left
	assert.Equal(t, Left, g.Choose())
}

func params(now time.Duration) *render.Params {
	return &render.Params{Brightness: 255, Speed: 100, Now: now, Rand: rand.New(rand.NewSource(1))}
}

func TestPatternControlAndRender(t *testing.T) {
	p := New(8, false)
	p.OnActivate(params(0))
	require.Equal(t, Waiting, p.Game.State)

	require.NoError(t, p.Control("", render.Args{"dir": "up"}))
	assert.Equal(t, Playing, p.Game.State)
	assert.Equal(t, Up, p.Game.Next)

	assert.ErrorIs(t, p.Control("", render.Args{"dir": "sideways"}), render.ErrInvalidValue)
	assert.ErrorIs(t, p.Control("", nil), render.ErrMissingValue)
	assert.ErrorIs(t, p.Control("fly", nil), render.ErrUnknownAction)

	f := render.NewFrame(layout.Default())
	p.Game.Food = Point{0, 0}
	p.Render(f, params(StepEvery))
	assert.Equal(t, HeadColor, f.At(8, 7))
	assert.Equal(t, BodyColor, f.At(8, 8))
	assert.Equal(t, FoodColor, f.At(0, 0))

	require.NoError(t, p.Control("aiOn", nil))
	st := p.Status().(Status)
	assert.True(t, st.AIMode)
	assert.Equal(t, "playing", st.State)
}

func TestAutopilotRestartsAfterGameOver(t *testing.T) {
	p := New(9, true)
	p.OnActivate(params(0))
	p.Game.State = GameOver
	p.Game.OverAt = time.Second
	f := render.NewFrame(layout.Default())

	p.Render(f, params(2*time.Second))
	assert.Equal(t, GameOver, p.Game.State)
	p.Render(f, params(time.Second+RestartDelay))
	assert.Equal(t, Playing, p.Game.State)
	assert.Equal(t, 0, p.Game.Score)
}
