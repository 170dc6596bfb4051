package app

import (
	"errors"
	"fmt"

	"github.com/gopxl/beep"

	"github.com/coreman2200/funtimes-pixelboard/internal/audio"
	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/bars"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/canvas"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/classic"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/clock"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/fire"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/life"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/marquee"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/shapes"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/shuffle"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/snake"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/sprites"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/tetris"
)

// Board is the registry plus the patterns fed from outside the loop.
type Board struct {
	Reg    *render.Registry
	Canvas *canvas.Canvas
	Video  *canvas.Video
	Bars   *bars.Bars
}

// BuildRegistry registers every pattern. Indices 0..26 are the published
// selection ids; later entries are appended. A nil analyzer listens to
// silence.
func BuildRegistry(g layout.Grid, seed int64, attract bool, an *audio.Analyzer) (*Board, error) {
	w, h := g.Width, g.Height
	if an == nil {
		an = audio.NewAnalyzer(beep.Silence(-1), audio.DefaultTuning())
	}
	reg := render.NewRegistry()
	b := &Board{
		Reg:    reg,
		Canvas: canvas.NewCanvas(w, h),
		Video:  canvas.NewVideo(w, h),
		Bars:   bars.New(an),
	}

	var spriteErr error
	sprite := func(s *sprites.Sprite) render.Pattern {
		a, err := sprites.New(s, w, h)
		if err != nil {
			spriteErr = errors.Join(spriteErr, err)
			return nil
		}
		return a
	}
	pats := []render.Pattern{
		fire.New(w, h),
		classic.NewMatrix(w, h),
		sprite(&sprites.Ghost),
		sprite(&sprites.Qbert),
		shapes.NewDVD(),
		sprite(&sprites.MsPacMan),
		sprite(&sprites.JellyFish),
		sprite(&sprites.Mario),
		&classic.Rainbow{},
		classic.Swaps{},
		&classic.Rainbow{Glitter: 80},
		classic.Confetti{},
		classic.Sinelon{},
		classic.Juggle{},
		classic.Twinkle{},
		classic.Sleep{},
		&classic.Swirl{},
		life.New(w, h),
		shapes.NewColorWipe(),
		&shapes.BeachBall{},
		clock.New(),
		b.Canvas,
		b.Video,
		marquee.New(w, h),
		shuffle.New(reg),
		snake.New(seed, attract),
		tetris.New(seed+1, attract),
		&classic.Pulse{},
		classic.BPM{},
		b.Bars,
	}
	if spriteErr != nil {
		return nil, fmt.Errorf("sprites: %w", spriteErr)
	}
	for i, p := range pats {
		if p == nil {
			return nil, fmt.Errorf("pattern %d does not fit a %dx%d grid", i, w, h)
		}
		reg.Register(p)
	}
	return b, nil
}
