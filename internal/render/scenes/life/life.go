package life

import (
	"math/rand"
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

const (
	// ReseedEvery is a fixed wall-clock reset, not a convergence detector.
	ReseedEvery = 30 * time.Second
	// a cell starts alive when random8() < seedThreshold (~33%)
	seedThreshold = 85
	stepWait      = 600 * time.Millisecond
)

// Pattern is Conway's Game of Life on a bounded (non-wrapping) board.
type Pattern struct {
	w, h      int
	cur, next [][]bool

	Alive render.RGB

	step   render.Pacer
	reseed render.Pacer
}

func New(w, h int) *Pattern {
	return &Pattern{
		w:     w,
		h:     h,
		cur:   newBoard(w, h),
		next:  newBoard(w, h),
		Alive: render.White,
	}
}

func newBoard(w, h int) [][]bool {
	b := make([][]bool, h)
	for y := range b {
		b[y] = make([]bool, w)
	}
	return b
}

func (p *Pattern) Name() string { return "Game of Life" }
func (p *Pattern) Icon() string { return "🧫" }

func (p *Pattern) OnActivate(params *render.Params) {
	p.Seed(params.Rand)
	p.reseed.Reset(params.Now)
	p.step = render.Pacer{}
}

func (p *Pattern) Render(f *render.Frame, params *render.Params) {
	if p.reseed.Since(params.Now) >= ReseedEvery {
		p.Seed(params.Rand)
		p.reseed.Reset(params.Now)
	}
	if p.step.Ready(params.Now, render.Nap(params.Speed, stepWait)) {
		p.Step()
	}
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			c := render.Black
			if p.cur[y][x] {
				c = p.Alive
			}
			f.Set(x, y, c)
		}
	}
}

// Seed randomizes every cell.
func (p *Pattern) Seed(r *rand.Rand) {
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			p.cur[y][x] = r.Intn(256) < seedThreshold
		}
	}
}

// Clear kills every cell.
func (p *Pattern) Clear() {
	for y := range p.cur {
		for x := range p.cur[y] {
			p.cur[y][x] = false
		}
	}
}

// Set marks a cell; out-of-range coordinates are ignored.
func (p *Pattern) Set(x, y int, alive bool) {
	if x < 0 || x >= p.w || y < 0 || y >= p.h {
		return
	}
	p.cur[y][x] = alive
}

func (p *Pattern) IsAlive(x, y int) bool {
	if x < 0 || x >= p.w || y < 0 || y >= p.h {
		return false
	}
	return p.cur[y][x]
}

// Population counts live cells.
func (p *Pattern) Population() int {
	n := 0
	for y := range p.cur {
		for _, a := range p.cur[y] {
			if a {
				n++
			}
		}
	}
	return n
}

// Step advances one generation.
func (p *Pattern) Step() {
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			n := p.neighbours(x, y)
			if p.cur[y][x] {
				p.next[y][x] = n == 2 || n == 3
			} else {
				p.next[y][x] = n == 3
			}
		}
	}
	p.cur, p.next = p.next, p.cur
}

// neighbours counts the Moore neighbourhood; cells past the edge are dead.
func (p *Pattern) neighbours(x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if p.IsAlive(x+dx, y+dy) {
				n++
			}
		}
	}
	return n
}
