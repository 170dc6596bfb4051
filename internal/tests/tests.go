// Package tests holds the panel wiring checks started from the control socket.
package tests

import (
	"errors"
	"fmt"
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"  // one LED at a time in strip order
	RowSweep   Kind = "row_sweep"    // one LED at a time in x,y order
	RGBTest    Kind = "rgb_channels" // whole panel red, green, blue
)

// DefaultStep is how long each test step stays on the panel.
const DefaultStep = 100 * time.Millisecond

// rgbCycles is how many red/green/blue rounds the channel test shows.
const rgbCycles = 2

var ErrUnknownKind = errors.New("unknown test")

func Kinds() []Kind { return []Kind{IndexSweep, RowSweep, RGBTest} }

// Runner is a temporary pattern that walks a test plan one step per Every.
type Runner struct {
	Every time.Duration

	kind  Kind
	grid  layout.Grid
	step  int
	since render.Pacer
}

func NewRunner(kind Kind, g layout.Grid) (*Runner, error) {
	switch kind {
	case IndexSweep, RowSweep, RGBTest:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return &Runner{Every: DefaultStep, kind: kind, grid: g}, nil
}

func (r *Runner) Kind() Kind { return r.kind }

func (r *Runner) Name() string { return "Wiring Test " + string(r.kind) }
func (r *Runner) Icon() string { return "🔧" }

func (r *Runner) OnActivate(p *render.Params) {
	r.step = 0
	r.since.Reset(p.Now)
}

// Steps is the plan length.
func (r *Runner) Steps() int {
	if r.kind == RGBTest {
		return 3 * rgbCycles
	}
	return r.grid.Count()
}

func (r *Runner) Step() int { return r.step }

func (r *Runner) Done() bool { return r.step >= r.Steps() }

func (r *Runner) Render(f *render.Frame, p *render.Params) {
	if d := r.since.Since(p.Now); r.Every > 0 && d >= r.Every {
		r.since.Reset(p.Now)
		r.step += int(d / r.Every)
	}
	f.Clear()
	if r.Done() {
		return
	}
	switch r.kind {
	case IndexSweep:
		// strip index -> panel cell, so the dot follows the wire
		x, y := r.grid.XY(r.step)
		f.Set(x, y, render.White)
	case RowSweep:
		f.Set(r.step%r.grid.Width, r.step/r.grid.Width, render.White)
	case RGBTest:
		f.Fill([]render.RGB{{R: 255}, {G: 255}, {B: 255}}[r.step%3])
	}
}
