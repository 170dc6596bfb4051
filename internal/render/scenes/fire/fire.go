package fire

import (
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

const (
	Cooling     = 25
	SparkChance = 90 // of 256
	SparkMin    = 160
	SparkMax    = 200
	stepWait    = 20 * time.Millisecond
)

// Pattern is a heat-diffusion fire: cells cool, heat drifts upward and
// spreads sideways, sparks ignite along the bottom row.
type Pattern struct {
	w, h int
	heat [][]uint8 // [x][y], y grows downward
	step render.Pacer
}

func New(w, h int) *Pattern {
	heat := make([][]uint8, w)
	for x := range heat {
		heat[x] = make([]uint8, h)
	}
	return &Pattern{w: w, h: h, heat: heat}
}

func (p *Pattern) Name() string { return "Fire" }
func (p *Pattern) Icon() string { return "🔥" }

func (p *Pattern) OnActivate(params *render.Params) {
	p.step = render.Pacer{}
}

func (p *Pattern) Render(f *render.Frame, params *render.Params) {
	if p.step.Ready(params.Now, render.Nap(params.Speed, stepWait)) {
		p.Step(params)
	}
	for x := 0; x < p.w; x++ {
		for y := 0; y < p.h; y++ {
			f.Set(x, y, render.HeatPalette.At(render.Scale8(p.heat[x][y], 240), 255))
		}
	}
}

// Step runs one cool / drift / spark cycle.
func (p *Pattern) Step(params *render.Params) {
	maxCool := Cooling*10/p.h + 2
	for x := 0; x < p.w; x++ {
		for y := 0; y < p.h; y++ {
			p.heat[x][y] = render.QSub8(p.heat[x][y], uint8(render.Random8(params, 0, maxCool)))
		}
	}

	// each row takes the average of the row beneath it, wrapping sideways
	for y := 0; y < p.h-1; y++ {
		for x := 0; x < p.w; x++ {
			left := (x + p.w - 1) % p.w
			right := (x + 1) % p.w
			sum := 2*int(p.heat[x][y+1]) + int(p.heat[left][y+1]) + int(p.heat[right][y+1])
			p.heat[x][y] = uint8(sum / 4)
		}
	}

	if params.Rand.Intn(256) < SparkChance {
		x := params.Rand.Intn(p.w)
		p.heat[x][p.h-1] = render.QAdd8(p.heat[x][p.h-1], uint8(render.Random8(params, SparkMin, SparkMax)))
	}
}

// Heat returns the heat value of a cell.
func (p *Pattern) Heat(x, y int) uint8 { return p.heat[x][y] }
