package tetris

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

// Colors are indexed by Kind.
var Colors = [numKinds]render.RGB{
	I: {R: 0, G: 240, B: 240},
	O: {R: 240, G: 240, B: 0},
	T: {R: 160, G: 0, B: 240},
	S: {R: 0, G: 240, B: 0},
	Z: {R: 240, G: 0, B: 0},
	J: {R: 0, G: 0, B: 240},
	L: {R: 240, G: 160, B: 0},
}

const flashPeriod = 500 * time.Millisecond

// Pattern wraps Game as a registry entry with an optional autopilot.
type Pattern struct {
	Game    *Game
	AI      bool
	Attract bool // start in AI mode on every activation
	Weights Weights

	tick render.Pacer
}

func New(seed int64, attract bool) *Pattern {
	return &Pattern{
		Game:    NewGame(rand.New(rand.NewSource(seed))),
		Attract: attract,
		Weights: DefaultWeights,
	}
}

func (p *Pattern) Name() string { return "Tetris Game" }
func (p *Pattern) Icon() string { return "🧱" }

func (p *Pattern) OnActivate(params *render.Params) {
	p.tick.Reset(params.Now)
	if p.Attract {
		p.AI = true
		p.Game.Start()
		return
	}
	p.AI = false
	*p.Game = *NewGame(p.Game.rng)
}

func (p *Pattern) Render(f *render.Frame, params *render.Params) {
	g := p.Game
	if g.State == Playing {
		if p.AI {
			if p.tick.Ready(params.Now, g.Drop/4) {
				p.autopilot()
			}
		} else if p.tick.Ready(params.Now, g.Drop) {
			g.Apply(Down)
		}
	}

	flash := g.State == GameOver && (params.Now/flashPeriod)%2 == 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := render.Black
			if v := g.Cell(x, y); v != 0 {
				c = Colors[v-1]
				if flash {
					c = render.RGB{R: 255}
				}
			}
			f.Set(x, y, c)
		}
	}
}

// autopilot takes one step toward the best placement, then lets gravity act.
func (p *Pattern) autopilot() {
	g := p.Game
	m, _ := BestMove(&g.Board, g.Cur, p.Weights)
	g.Apply(m)
	if m != Down && g.State == Playing {
		g.Apply(Down)
	}
}

// Control handles start, pause, restart, aiOn, aiOff and the four moves.
// Moves are ignored unless a game is in progress.
func (p *Pattern) Control(action string, _ render.Args) error {
	g := p.Game
	switch action {
	case "start":
		if g.State == Waiting || g.State == GameOver {
			g.Start()
		}
	case "pause":
		switch g.State {
		case Playing:
			g.State = Paused
		case Paused:
			g.State = Playing
		}
	case "restart":
		g.Start()
	case "aiOn":
		p.AI = true
	case "aiOff":
		p.AI = false
	case "left", "right", "down", "rotate":
		if g.State == Playing {
			g.Apply(parseMove(action))
		}
	default:
		return fmt.Errorf("%w: %q", render.ErrUnknownAction, action)
	}
	log.Debug().Str("action", action).Str("state", g.State.String()).Msg("tetris control")
	return nil
}

func parseMove(s string) Move {
	switch s {
	case "left":
		return Left
	case "right":
		return Right
	case "rotate":
		return Rotate
	}
	return Down
}

// Status is the tetrisState document.
type Status struct {
	Score  int    `json:"score"`
	Level  int    `json:"level"`
	Lines  int    `json:"lines"`
	State  string `json:"state"`
	AIMode bool   `json:"aiMode"`
}

func (p *Pattern) Status() any {
	return Status{
		Score:  p.Game.Score,
		Level:  p.Game.Level,
		Lines:  p.Game.Lines,
		State:  p.Game.State.String(),
		AIMode: p.AI,
	}
}
