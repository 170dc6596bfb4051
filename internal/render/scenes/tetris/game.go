package tetris

import (
	"math/rand"
	"time"
)

const (
	Width  = 16
	Height = 16
	Size   = 4 // piece mask is Size x Size

	InitialDrop   = 800 * time.Millisecond
	MinDrop       = 100 * time.Millisecond
	DropStep      = 50 * time.Millisecond
	LinesPerLevel = 10
)

// State is the game state machine.
type State int

const (
	Waiting State = iota
	Playing
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case GameOver:
		return "gameover"
	}
	return "unknown"
}

// Move is one discrete piece input.
type Move int

const (
	Left Move = iota
	Right
	Down
	Rotate
)

func (m Move) String() string {
	return [...]string{"left", "right", "down", "rotate"}[m]
}

// Kind indexes Shapes and Colors: I, O, T, S, Z, J, L.
type Kind int

const (
	I Kind = iota
	O
	T
	S
	Z
	J
	L
	numKinds
)

type Mask [Size][Size]bool

var Shapes = [numKinds]Mask{
	I: mask("0000", "1111", "0000", "0000"),
	O: mask("0110", "0110", "0000", "0000"),
	T: mask("0100", "1110", "0000", "0000"),
	S: mask("0110", "1100", "0000", "0000"),
	Z: mask("1100", "0110", "0000", "0000"),
	J: mask("1000", "1110", "0000", "0000"),
	L: mask("0010", "1110", "0000", "0000"),
}

func mask(rows ...string) Mask {
	var m Mask
	for y, r := range rows {
		for x, c := range r {
			m[y][x] = c == '1'
		}
	}
	return m
}

// Rotated returns the mask turned 90 degrees clockwise.
func (m Mask) Rotated() Mask {
	var out Mask
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			out[x][Size-1-y] = m[y][x]
		}
	}
	return out
}

// Piece is the falling tetromino.
type Piece struct {
	Kind     Kind
	Shape    Mask
	X, Y     int
	Rotation int // 0..3 clockwise quarter turns from spawn
}

func NewPiece(k Kind) Piece {
	return Piece{Kind: k, Shape: Shapes[k], X: (Width - Size) / 2, Y: 0}
}

// Board holds locked cells: 0 = empty, 1..7 = kind+1.
type Board [Height][Width]uint8

// Collides reports whether p overlaps the walls, floor or a locked cell.
func (b *Board) Collides(p Piece) bool {
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if !p.Shape[y][x] {
				continue
			}
			bx, by := p.X+x, p.Y+y
			if bx < 0 || bx >= Width || by < 0 || by >= Height {
				return true
			}
			if b[by][bx] != 0 {
				return true
			}
		}
	}
	return false
}

// Lock writes p into the board.
func (b *Board) Lock(p Piece) {
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if !p.Shape[y][x] {
				continue
			}
			bx, by := p.X+x, p.Y+y
			if bx >= 0 && bx < Width && by >= 0 && by < Height {
				b[by][bx] = uint8(p.Kind) + 1
			}
		}
	}
}

// ClearLines removes complete rows, shifting everything above down by one
// per cleared row, and returns how many were removed.
func (b *Board) ClearLines() int {
	n := 0
	for y := Height - 1; y >= 0; y-- {
		if !b.rowFull(y) {
			continue
		}
		n++
		for yy := y; yy > 0; yy-- {
			b[yy] = b[yy-1]
		}
		b[0] = [Width]uint8{}
		y++ // re-check the row that just moved down
	}
	return n
}

func (b *Board) rowFull(y int) bool {
	for x := 0; x < Width; x++ {
		if b[y][x] == 0 {
			return false
		}
	}
	return true
}

// Game is the falling-block puzzle: board, active piece and scoring.
type Game struct {
	Board Board
	Cur   Piece
	State State
	Score int
	Level int
	Lines int
	Drop  time.Duration

	rng *rand.Rand
}

func NewGame(rng *rand.Rand) *Game {
	g := &Game{rng: rng, Level: 1, Drop: InitialDrop}
	return g
}

// Start clears the board and begins play.
func (g *Game) Start() {
	g.Board = Board{}
	g.Score = 0
	g.Level = 1
	g.Lines = 0
	g.Drop = InitialDrop
	g.State = Playing
	g.Spawn()
}

// Spawn places a random piece at the top; a collision ends the game.
func (g *Game) Spawn() {
	g.Cur = NewPiece(Kind(g.rng.Intn(int(numKinds))))
	if g.Board.Collides(g.Cur) {
		g.State = GameOver
	}
}

// Apply performs one move. A blocked downward move locks the piece.
// It reports whether the piece moved.
func (g *Game) Apply(m Move) bool {
	next := g.Cur
	switch m {
	case Left:
		next.X--
	case Right:
		next.X++
	case Down:
		next.Y++
	case Rotate:
		next.Shape = next.Shape.Rotated()
		next.Rotation = (next.Rotation + 1) % 4
	}
	if !g.Board.Collides(next) {
		g.Cur = next
		return true
	}
	if m == Down {
		g.lock()
	}
	return false
}

// HardDrop moves the piece down until it locks.
func (g *Game) HardDrop() {
	for g.State == Playing && g.Apply(Down) {
	}
}

func (g *Game) lock() {
	if g.Board.Collides(g.Cur) {
		// the piece overlaps locked cells; the board is inconsistent
		g.State = GameOver
		return
	}
	g.Board.Lock(g.Cur)
	g.score(g.Board.ClearLines())
	g.Spawn()
}

func (g *Game) score(cleared int) {
	if cleared == 0 {
		return
	}
	g.Score += cleared * cleared * 100 * g.Level
	g.Lines += cleared
	g.Level = g.Lines/LinesPerLevel + 1
	g.Drop = InitialDrop - time.Duration(g.Level-1)*DropStep
	if g.Drop < MinDrop {
		g.Drop = MinDrop
	}
}

// Cell returns the colour index (0 empty, 1..7) at x,y including the active piece.
func (g *Game) Cell(x, y int) uint8 {
	if v := g.Board[y][x]; v != 0 {
		return v
	}
	if g.State != Playing {
		return 0
	}
	px, py := x-g.Cur.X, y-g.Cur.Y
	if px >= 0 && px < Size && py >= 0 && py < Size && g.Cur.Shape[py][px] {
		return uint8(g.Cur.Kind) + 1
	}
	return 0
}
