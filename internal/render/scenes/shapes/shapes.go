// Package shapes has the geometric effects: a colour wipe, the bouncing
// DVD logo and a spinning beach ball.
package shapes

import (
	"math"
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

// ColorWipe lights the strip one LED at a time in wiring order, goes dark
// briefly, then starts over in a new random hue.
type ColorWipe struct {
	Color render.RGB
	next  int
	dark  bool
	step  render.Pacer
}

func NewColorWipe() *ColorWipe { return &ColorWipe{Color: render.Red} }

func (w *ColorWipe) Name() string { return "Color Wipe" }
func (w *ColorWipe) Icon() string { return "🖌️" }

func (w *ColorWipe) OnActivate(*render.Params) {
	w.next = 0
	w.dark = false
	w.step = render.Pacer{}
}

func (w *ColorWipe) Render(f *render.Frame, p *render.Params) {
	if w.dark {
		if !w.step.Ready(p.Now, render.Nap(p.Speed, 300*time.Millisecond)) {
			return
		}
		w.dark = false
		w.next = 0
		w.Color = render.HSV(uint8(p.Rand.Intn(256)), 255, 255)
	}
	if !w.step.Ready(p.Now, render.Nap(p.Speed, 30*time.Millisecond)) {
		return
	}
	if w.next == 0 {
		f.Clear()
	}
	f.Pix[w.next] = w.Color
	w.next++
	if w.next >= f.Len() {
		f.Clear()
		w.dark = true
		w.step.Reset(p.Now)
	}
}

// Progress is the number of LEDs lit in the current pass.
func (w *ColorWipe) Progress() int { return w.next }

const (
	dvdW, dvdH = 4, 2
	bounceHue  = 30 // degrees added per bounce
)

// DVD bounces a small rectangle around the edges, shifting hue on every hit.
type DVD struct {
	X, Y   float64
	DX, DY float64
	Hue    float64 // degrees

	step render.Pacer
}

func NewDVD() *DVD { return &DVD{DX: 0.5, DY: 0.3} }

func (d *DVD) Name() string { return "DVD Bounce" }
func (d *DVD) Icon() string { return "📀" }

func (d *DVD) OnActivate(*render.Params) { d.step = render.Pacer{} }

// Move advances one step within a w x h board.
func (d *DVD) Move(w, h int) {
	d.X += d.DX
	d.Y += d.DY
	if d.X <= 0 || d.X+dvdW >= float64(w) {
		d.DX = -d.DX
		d.Hue += bounceHue
	}
	if d.Y <= 0 || d.Y+dvdH >= float64(h) {
		d.DY = -d.DY
		d.Hue += bounceHue
	}
	d.Hue = math.Mod(d.Hue, 360)
}

func (d *DVD) Render(f *render.Frame, p *render.Params) {
	if !d.step.Ready(p.Now, render.Nap(p.Speed, 0)) {
		return
	}
	d.Move(f.Width(), f.Height())
	f.Clear()
	c := render.HSV(uint8(d.Hue*256/360), 255, 255)
	x0, y0 := int(d.X), int(d.Y)
	for x := x0; x < x0+dvdW; x++ {
		for y := y0; y < y0+dvdH; y++ {
			f.Set(x, y, c)
		}
	}
}

const (
	ballRadius = 12
	ballSpin   = 0.09 // radians per step
	ballStep   = 20 * time.Millisecond
)

// BeachBall spins a hue wheel around the centre.
type BeachBall struct {
	Rotation float64 // radians
	step     render.Pacer
}

func (b *BeachBall) Name() string { return "Beach Ball" }
func (b *BeachBall) Icon() string { return "🏖️" }

func (b *BeachBall) OnActivate(*render.Params) { b.step = render.Pacer{} }

func (b *BeachBall) Render(f *render.Frame, p *render.Params) {
	if !b.step.Ready(p.Now, ballStep) {
		return
	}
	f.Clear()
	cx, cy := f.Width()/2, f.Height()/2
	spin := b.Rotation * 180 / math.Pi
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			if math.Hypot(dx, dy) > ballRadius {
				continue
			}
			a := math.Atan2(dy, dx) * 180 / math.Pi
			if a < 0 {
				a += 360
			}
			a = math.Mod(a+spin, 360)
			f.Set(x, y, render.HSV(uint8(a*255/360), 255, 255))
		}
	}
	b.Rotation += ballSpin
	if b.Rotation >= 2*math.Pi {
		b.Rotation -= 2 * math.Pi
	}
}
