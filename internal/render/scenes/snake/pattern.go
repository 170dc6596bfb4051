package snake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

var (
	FoodColor = render.Red
	BodyColor = render.Green
	HeadColor = render.RGB{R: 255, G: 255}
)

const flashPeriod = 500 * time.Millisecond

// Pattern is the Snake game with a greedy autopilot.
type Pattern struct {
	Game    *Game
	AI      bool
	Attract bool

	step render.Pacer
}

func New(seed int64, attract bool) *Pattern {
	return &Pattern{
		Game:    NewGame(rand.New(rand.NewSource(seed))),
		Attract: attract,
	}
}

func (p *Pattern) Name() string { return "Snake Game" }
func (p *Pattern) Icon() string { return "🐍" }

func (p *Pattern) OnActivate(params *render.Params) {
	p.step.Reset(params.Now)
	p.Game.Reset()
	p.AI = p.Attract
	if !p.Attract {
		p.Game.State = Waiting
	}
}

func (p *Pattern) Render(f *render.Frame, params *render.Params) {
	g := p.Game
	if g.State == GameOver && p.AI && params.Now-g.OverAt >= RestartDelay {
		g.Reset()
		p.step.Reset(params.Now)
	}
	if g.State == Playing && p.step.Ready(params.Now, StepEvery) {
		if p.AI {
			g.Next = g.Choose()
		}
		g.Tick(params.Now)
		if g.State == GameOver {
			log.Debug().Int("score", g.Score).Int("length", len(g.Body)).Msg("snake over")
		}
	}

	f.Clear()
	f.Set(g.Food.X, g.Food.Y, FoodColor)
	for _, b := range g.Body[1:] {
		f.Set(b.X, b.Y, BodyColor)
	}
	h := g.Head()
	f.Set(h.X, h.Y, HeadColor)

	if g.State == GameOver && (params.Now/flashPeriod)%2 == 0 {
		for i, c := range f.Pix {
			if !c.IsBlack() {
				f.Pix[i] = render.Red
			}
		}
	}
}

// Control accepts a direction (dir) and/or an action. A direction while
// waiting starts the game.
func (p *Pattern) Control(action string, args render.Args) error {
	g := p.Game
	if args.Has("dir") {
		d, ok := ParseDir(args.Get("dir"))
		if !ok {
			return fmt.Errorf("%w: dir=%q", render.ErrInvalidValue, args.Get("dir"))
		}
		if g.State == Waiting {
			g.State = Playing
		}
		g.SetDirection(d)
	}
	switch action {
	case "":
		if !args.Has("dir") {
			return fmt.Errorf("%w: dir or action", render.ErrMissingValue)
		}
	case "start":
		switch g.State {
		case Waiting:
			g.State = Playing
		case GameOver:
			g.Reset()
		}
	case "restart":
		g.Reset()
	case "aiOn":
		p.AI = true
	case "aiOff":
		p.AI = false
	case "up", "down", "left", "right":
		d, _ := ParseDir(action)
		if g.State == Waiting {
			g.State = Playing
		}
		g.SetDirection(d)
	default:
		return fmt.Errorf("%w: %q", render.ErrUnknownAction, action)
	}
	return nil
}

// Status is the snakeState document.
type Status struct {
	Score  int    `json:"score"`
	Length int    `json:"length"`
	State  string `json:"state"`
	AIMode bool   `json:"aiMode"`
}

func (p *Pattern) Status() any {
	return Status{
		Score:  p.Game.Score,
		Length: len(p.Game.Body),
		State:  p.Game.State.String(),
		AIMode: p.AI,
	}
}
