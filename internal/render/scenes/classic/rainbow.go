// Package classic holds the small demo-reel effects: rainbows, dots,
// sparkles and the swirl.
package classic

import (
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

// Rainbow fills the strip in wiring order, 7 hue steps per LED.
type Rainbow struct {
	// Glitter is the chance out of 256 per frame of a white sparkle; 0 disables it.
	Glitter uint8
}

func (r *Rainbow) Name() string {
	if r.Glitter > 0 {
		return "Rainbow Glitter"
	}
	return "Rainbow Drift"
}

func (r *Rainbow) Icon() string {
	if r.Glitter > 0 {
		return "✨"
	}
	return "🌈"
}

func (r *Rainbow) OnActivate(*render.Params) {}

func (r *Rainbow) Render(f *render.Frame, p *render.Params) {
	FillRainbow(f.Pix, p.Hue, 7)
	if r.Glitter > 0 && uint8(p.Rand.Intn(256)) < r.Glitter {
		i := p.Rand.Intn(f.Len())
		f.Pix[i] = f.Pix[i].Add(render.White)
	}
}

// FillRainbow paints consecutive LEDs with hues start, start+step, ...
func FillRainbow(px []render.RGB, start, step uint8) {
	h := start
	for i := range px {
		px[i] = render.HSV(h, 240, 255)
		h += step
	}
}

// Pulse breathes the whole board in one slowly rotating hue.
type Pulse struct {
	t0 time.Duration
}

const pulseStep = 20 * time.Millisecond

func (p *Pulse) Name() string { return "Pulse" }
func (p *Pulse) Icon() string { return "💓" }

func (p *Pulse) OnActivate(params *render.Params) { p.t0 = params.Now }

func (p *Pulse) Render(f *render.Frame, params *render.Params) {
	n := int((params.Now - p.t0) / pulseStep)
	v := (int(render.Sin8(uint8(n*10))) + 255) / 2
	f.Fill(render.HSV(uint8(n), 255, uint8(v)))
}

// Confetti drops randomly coloured speckles that fade out.
type Confetti struct{}

func (Confetti) Name() string              { return "Confetti" }
func (Confetti) Icon() string              { return "🎊" }
func (Confetti) OnActivate(*render.Params) {}

func (Confetti) Render(f *render.Frame, p *render.Params) {
	f.FadeToBlackBy(10)
	i := p.Rand.Intn(f.Len())
	f.Pix[i] = f.Pix[i].Add(render.HSV(p.Hue+uint8(p.Rand.Intn(64)), 200, 255))
}

// Sinelon sweeps one dot back and forth along the strip with a fading trail.
type Sinelon struct{}

func (Sinelon) Name() string              { return "Up Down Rainbow" }
func (Sinelon) Icon() string              { return "↕️" }
func (Sinelon) OnActivate(*render.Params) {}

func (Sinelon) Render(f *render.Frame, p *render.Params) {
	f.FadeToBlackBy(20)
	i := render.BeatSin16(13, 0, f.Len()-1, p.Now)
	f.Pix[i] = f.Pix[i].Add(render.HSV(p.Hue, 255, 192))
}

// BPM pulses party-coloured stripes at 62 beats per minute.
type BPM struct{}

func (BPM) Name() string              { return "BPM" }
func (BPM) Icon() string              { return "🥁" }
func (BPM) OnActivate(*render.Params) {}

func (BPM) Render(f *render.Frame, p *render.Params) {
	beat := render.BeatSin8(62, 64, 255, p.Now)
	for i := range f.Pix {
		f.Pix[i] = render.PartyPalette.At(p.Hue+uint8(i*2), beat-p.Hue+uint8(i*10))
	}
}

// Juggle weaves eight dots in and out of sync.
type Juggle struct{}

func (Juggle) Name() string              { return "Juggle" }
func (Juggle) Icon() string              { return "🤹" }
func (Juggle) OnActivate(*render.Params) {}

func (Juggle) Render(f *render.Frame, p *render.Params) {
	f.FadeToBlackBy(20)
	var hue uint8
	for i := 0; i < 8; i++ {
		at := render.BeatSin16(float64(i+7), 0, f.Len()-1, p.Now)
		f.Pix[at] = f.Pix[at].Or(render.HSV(hue, 200, 255))
		hue += 32
	}
}
