// Package bars is the audio spectrum visualizer.
package bars

import (
	"fmt"

	"github.com/coreman2200/funtimes-pixelboard/internal/audio"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

type Mode int

const (
	RainbowBars Mode = iota
	WhitePeak
	PurpleBars
	CenterBars
	ChangingBars
	Waterfall
	modeCount
)

func (m Mode) String() string {
	switch m {
	case RainbowBars:
		return "rainbow"
	case WhitePeak:
		return "peaks"
	case PurpleBars:
		return "purple"
	case CenterBars:
		return "center"
	case ChangingBars:
		return "changing"
	case Waterfall:
		return "waterfall"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

var (
	purplePal = render.NewGradient(
		render.Stop{Pos: 0, Color: render.RGB{R: 0, G: 212, B: 255}},
		render.Stop{Pos: 255, Color: render.RGB{R: 179, G: 0, B: 255}},
	)
	outrunPal = render.NewGradient(
		render.Stop{Pos: 0, Color: render.RGB{R: 141, G: 0, B: 100}},
		render.Stop{Pos: 127, Color: render.RGB{R: 255, G: 192, B: 0}},
		render.Stop{Pos: 255, Color: render.RGB{R: 0, G: 5, B: 255}},
	)
	greenbluePal = render.NewGradient(
		render.Stop{Pos: 0, Color: render.RGB{R: 0, G: 255, B: 60}},
		render.Stop{Pos: 64, Color: render.RGB{R: 0, G: 236, B: 255}},
		render.Stop{Pos: 128, Color: render.RGB{R: 0, G: 5, B: 255}},
		render.Stop{Pos: 192, Color: render.RGB{R: 0, G: 236, B: 255}},
		render.Stop{Pos: 255, Color: render.RGB{R: 0, G: 255, B: 60}},
	)
	redyellowPal = render.NewGradient(
		render.Stop{Pos: 0, Color: render.RGB{R: 200, G: 200, B: 200}},
		render.Stop{Pos: 64, Color: render.RGB{R: 255, G: 218, B: 0}},
		render.Stop{Pos: 128, Color: render.RGB{R: 231, G: 0, B: 0}},
		render.Stop{Pos: 192, Color: render.RGB{R: 255, G: 218, B: 0}},
		render.Stop{Pos: 255, Color: render.RGB{R: 200, G: 200, B: 200}},
	)
)

// Bars draws one column per band, bottom up.
type Bars struct {
	A    *audio.Analyzer
	Mode Mode

	offset uint8 // changing bars colour drift
}

func New(a *audio.Analyzer) *Bars { return &Bars{A: a} }

func (b *Bars) Name() string { return "Audio Bars" }
func (b *Bars) Icon() string { return "🎵" }

func (b *Bars) OnActivate(*render.Params) {}

func (b *Bars) Render(f *render.Frame, _ *render.Params) {
	b.A.Update()
	h := f.Height()
	for band := 0; band < audio.Bands && band < f.Width(); band++ {
		switch b.Mode {
		case RainbowBars:
			b.column(f, band, b.A.Height(band), func(int) render.RGB {
				return render.HSV(uint8(band*16), 255, 255)
			})
		case WhitePeak:
			clearColumn(f, band)
			if p := b.A.PeakHeight(band); p > 0 && p < audio.Top {
				f.Set(band, h-1-p, render.White)
			}
		case PurpleBars:
			b.column(f, band, b.A.Height(band), func(y int) render.RGB {
				return purplePal.At(uint8(y*255/(audio.Top-1)), 255)
			})
		case CenterBars:
			clearColumn(f, band)
			half := b.A.Height(band) / 2
			mid := h / 2
			for y := 0; y <= half; y++ {
				c := outrunPal.At(uint8(min(y*32, 255)), 255)
				f.Set(band, mid-y, c)
				f.Set(band, mid+y, c)
			}
		case ChangingBars:
			b.column(f, band, b.A.Height(band), func(y int) render.RGB {
				return greenbluePal.At(uint8((y*16+int(b.offset))%255), 255)
			})
		case Waterfall:
			for y := h - 1; y > 0; y-- {
				f.Set(band, y, f.At(band, y-1))
			}
			f.Set(band, 0, redyellowPal.At(uint8(min(b.A.Height(band)*16, 255)), 255))
		}
	}
	if b.Mode == ChangingBars {
		b.offset += 2
	}
}

func (b *Bars) column(f *render.Frame, band, height int, color func(y int) render.RGB) {
	h := f.Height()
	for y := 0; y < h; y++ {
		if y < height {
			f.Set(band, h-1-y, color(y))
		} else {
			f.Set(band, h-1-y, render.Black)
		}
	}
}

func clearColumn(f *render.Frame, x int) {
	for y := 0; y < f.Height(); y++ {
		f.Set(x, y, render.Black)
	}
}

// Control handles audioupdate. Alpha and smoothing arrive as percentages.
func (b *Bars) Control(action string, args render.Args) error {
	if action != "audioupdate" {
		return fmt.Errorf("%w: %q", render.ErrUnknownAction, action)
	}
	t := b.A.Tuning
	var err error
	if t.NoiseThreshold, err = args.FloatOr("noiseThreshold", t.NoiseThreshold); err != nil {
		return err
	}
	if t.MinAmplitude, err = args.FloatOr("minAmplitude", t.MinAmplitude); err != nil {
		return err
	}
	if t.MaxAmplitude, err = args.FloatOr("maxAmplitude", t.MaxAmplitude); err != nil {
		return err
	}
	if t.Scale, err = args.IntOr("scaleFactor", t.Scale); err != nil {
		return err
	}
	alpha, err := args.FloatOr("noiseAlpha", t.NoiseAlpha*100)
	if err != nil {
		return err
	}
	smooth, err := args.FloatOr("smoothingFactor", t.Smoothing*100)
	if err != nil {
		return err
	}
	t.NoiseAlpha, t.Smoothing = alpha/100, smooth/100
	mode, err := args.IntOr("pattern", int(b.Mode))
	if err != nil {
		return err
	}

	switch {
	case t.Scale < 1:
		return fmt.Errorf("%w: scaleFactor must be at least 1", render.ErrInvalidValue)
	case t.MaxAmplitude <= t.MinAmplitude:
		return fmt.Errorf("%w: maxAmplitude must exceed minAmplitude", render.ErrInvalidValue)
	case t.NoiseAlpha < 0 || t.NoiseAlpha > 1 || t.Smoothing < 0 || t.Smoothing > 1:
		return fmt.Errorf("%w: percentages are 0..100", render.ErrInvalidValue)
	case mode < 0 || mode >= int(modeCount):
		return fmt.Errorf("%w: pattern=%d", render.ErrInvalidValue, mode)
	}
	b.A.Tuning = t
	b.Mode = Mode(mode)
	return nil
}

type Status struct {
	audio.Tuning
	Pattern int              `json:"pattern"`
	Mode    string           `json:"mode"`
	Levels  [audio.Bands]int `json:"levels"`
}

func (b *Bars) Status() any {
	s := Status{Tuning: b.A.Tuning, Pattern: int(b.Mode), Mode: b.Mode.String()}
	for i := range s.Levels {
		s.Levels[i] = b.A.Height(i)
	}
	return s
}
