package classic

import (
	"math"
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

// Swaps trades two random pixels every frame, slowly scrambling whatever
// was on the board.
type Swaps struct{}

func (Swaps) Name() string              { return "Pixel Swaps" }
func (Swaps) Icon() string              { return "🔀" }
func (Swaps) OnActivate(*render.Params) {}

func (Swaps) Render(f *render.Frame, p *render.Params) {
	a, b := p.Rand.Intn(f.Len()), p.Rand.Intn(f.Len())
	f.Pix[a], f.Pix[b] = f.Pix[b], f.Pix[a]
}

// Twinkle flashes random LEDs white and lets them fade.
type Twinkle struct{}

func (Twinkle) Name() string              { return "Twinkle" }
func (Twinkle) Icon() string              { return "⭐" }
func (Twinkle) OnActivate(*render.Params) {}

func (Twinkle) Render(f *render.Frame, p *render.Params) {
	for i := range f.Pix {
		if p.Rand.Intn(256) < 10 {
			f.Pix[i] = render.White.Scale(uint8(render.Random8(p, 100, 255)))
		} else {
			f.Pix[i] = f.Pix[i].Scale(250)
		}
	}
}

// Swirl draws concentric hue rings that rotate around the centre.
type Swirl struct {
	angle uint16
	step  render.Pacer
}

func (s *Swirl) Name() string { return "Swirl" }
func (s *Swirl) Icon() string { return "🌀" }

func (s *Swirl) OnActivate(*render.Params) { s.step = render.Pacer{} }

func (s *Swirl) Render(f *render.Frame, p *render.Params) {
	if !s.step.Ready(p.Now, render.Nap(p.Speed, 20*time.Millisecond)) {
		return
	}
	s.angle += 2
	cx, cy := f.Width()/2, f.Height()/2
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			dx, dy := x-cx, y-cy
			dist := int(math.Sqrt(float64(dx*dx + dy*dy)))
			f.Set(x, y, render.HSV(uint8(dist*8+int(s.angle)), 255, 255))
		}
	}
}

// Sleep keeps the board dark.
type Sleep struct{}

func (Sleep) Name() string                             { return "Sleep Device" }
func (Sleep) Icon() string                             { return "😴" }
func (Sleep) OnActivate(*render.Params)                {}
func (Sleep) Render(f *render.Frame, _ *render.Params) { f.Clear() }
