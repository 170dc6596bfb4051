package snake

import (
	"math/rand"
	"time"
)

const (
	Width         = 16
	Height        = 16
	InitialLength = 3
	MaxLength     = Width * Height

	StepEvery    = 150 * time.Millisecond
	RestartDelay = 5 * time.Second
)

type State int

const (
	Waiting State = iota
	Playing
	GameOver
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Playing:
		return "playing"
	case GameOver:
		return "gameover"
	}
	return "unknown"
}

type Dir int

const (
	Up Dir = iota
	Down
	Left
	Right
)

func (d Dir) String() string {
	return [...]string{"up", "down", "left", "right"}[d]
}

// ParseDir accepts up, down, left and right.
func ParseDir(s string) (Dir, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

func (d Dir) Opposite() Dir {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	}
	return Left
}

type Point struct{ X, Y int }

func (p Point) Step(d Dir) Point {
	switch d {
	case Up:
		p.Y--
	case Down:
		p.Y++
	case Left:
		p.X--
	case Right:
		p.X++
	}
	return p
}

func (p Point) inBounds() bool {
	return p.X >= 0 && p.X < Width && p.Y >= 0 && p.Y < Height
}

// Game holds the snake, head first, and the food cell.
type Game struct {
	Body  []Point
	Dir   Dir
	Next  Dir
	Food  Point
	Score int
	Eaten int
	State State

	// OverAt is the engine time of the last game over.
	OverAt time.Duration

	rng *rand.Rand
}

func NewGame(rng *rand.Rand) *Game {
	g := &Game{rng: rng}
	g.Reset()
	g.State = Waiting
	return g
}

// Reset puts a fresh snake in the middle heading right and starts play.
func (g *Game) Reset() {
	g.Body = g.Body[:0]
	for i := 0; i < InitialLength; i++ {
		g.Body = append(g.Body, Point{Width/2 - i, Height / 2})
	}
	g.Dir, g.Next = Right, Right
	g.Score, g.Eaten = 0, 0
	g.State = Playing
	g.PlaceFood()
}

func (g *Game) Head() Point { return g.Body[0] }

// SetDirection queues d for the next tick; a reversal is ignored.
func (g *Game) SetDirection(d Dir) {
	if d != g.Dir.Opposite() {
		g.Next = d
	}
}

func (g *Game) occupied(p Point) bool {
	for _, b := range g.Body {
		if b == p {
			return true
		}
	}
	return false
}

// PlaceFood picks a random free cell by rejection sampling.
func (g *Game) PlaceFood() {
	if len(g.Body) >= MaxLength {
		return
	}
	for {
		p := Point{g.rng.Intn(Width), g.rng.Intn(Height)}
		if !g.occupied(p) {
			g.Food = p
			return
		}
	}
}

// Tick advances the snake by one cell at engine time now.
func (g *Game) Tick(now time.Duration) {
	if g.State != Playing {
		return
	}
	g.Dir = g.Next
	head := g.Head().Step(g.Dir)
	if !head.inBounds() || g.occupied(head) {
		g.State = GameOver
		g.OverAt = now
		return
	}

	tail := g.Body[len(g.Body)-1]
	copy(g.Body[1:], g.Body[:len(g.Body)-1])
	g.Body[0] = head

	if head != g.Food {
		return
	}
	// grow into the cell the tail just left
	g.Body = append(g.Body, tail)
	g.Eaten++
	g.Score++
	if len(g.Body) >= MaxLength {
		g.State = GameOver
		g.OverAt = now
		return
	}
	g.PlaceFood()
}

// safe reports whether turning to d this tick avoids walls, the body and a reversal.
func (g *Game) safe(d Dir) bool {
	if d == g.Dir.Opposite() {
		return false
	}
	p := g.Head().Step(d)
	return p.inBounds() && !g.occupied(p)
}

// Choose is the greedy autopilot: close the distance to the food on a safe
// axis, otherwise take any safe turn, otherwise keep going.
func (g *Game) Choose() Dir {
	h := g.Head()
	switch {
	case g.Food.Y < h.Y && g.safe(Up):
		return Up
	case g.Food.Y > h.Y && g.safe(Down):
		return Down
	case g.Food.X < h.X && g.safe(Left):
		return Left
	case g.Food.X > h.X && g.safe(Right):
		return Right
	}
	for _, d := range []Dir{Up, Right, Down, Left} {
		if g.safe(d) {
			return d
		}
	}
	return g.Dir
}
