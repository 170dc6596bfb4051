package classic

import (
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

const numDrops = 10

type drop struct {
	col, row   int
	speed      int // frames per row
	counter    int
	brightness uint8
	active     bool
}

// Matrix rains green dots down the columns.
type Matrix struct {
	W, H  int
	drops [numDrops]drop
	step  render.Pacer
}

func NewMatrix(w, h int) *Matrix { return &Matrix{W: w, H: h} }

func (m *Matrix) Name() string { return "The Matrix" }
func (m *Matrix) Icon() string { return "🟩" }

func (m *Matrix) OnActivate(p *render.Params) {
	for i := range m.drops {
		m.drops[i] = drop{
			col:        p.Rand.Intn(m.W),
			row:        p.Rand.Intn(m.H),
			speed:      render.Random8(p, 1, 6),
			brightness: uint8(render.Random8(p, 10, 256)),
			active:     true,
		}
	}
	m.step = render.Pacer{}
}

func (m *Matrix) Render(f *render.Frame, p *render.Params) {
	if !m.step.Ready(p.Now, render.Nap(p.Speed, 5*time.Millisecond)) {
		return
	}
	f.FadeToBlackBy(80)

	for i := range m.drops {
		d := &m.drops[i]
		if !d.active {
			continue
		}
		d.counter++
		if d.counter < d.speed {
			continue
		}
		d.counter = 0
		d.row++
		if d.row >= f.Height() {
			d.active = false
			continue
		}
		f.Set(d.col, d.row, render.RGB{G: d.brightness})
	}

	// respawn one finished drop per step at the top
	for i := range m.drops {
		d := &m.drops[i]
		if d.active {
			continue
		}
		d.col = p.Rand.Intn(f.Width())
		d.row = 0
		d.speed = render.Random8(p, 1, 5)
		d.active = true
		f.Set(d.col, 0, render.Green)
		break
	}
}
