// Package marquee scrolls a line of text across the board.
package marquee

import (
	"fmt"
	"image"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

const (
	DefaultText = "HELLO"
	DefaultStep = 80 * time.Millisecond
	MinStep     = 10 * time.Millisecond
	MaxStep     = time.Second
	MaxTextLen  = 256
)

// Marquee is the Type pattern. Text enters from the right edge and scrolls
// left one column per step until it has fully left, then starts over.
type Marquee struct {
	Text  string
	Color render.RGB
	Step  time.Duration

	w, h   int
	face   font.Face
	mask   *image.Alpha // rasterized text, one row per text row
	top    int          // board row of the mask's first row
	offset int
	tick   render.Pacer
}

func New(w, h int) *Marquee {
	m := &Marquee{
		Text:  DefaultText,
		Color: render.White,
		Step:  DefaultStep,
		w:     w,
		h:     h,
		face:  basicfont.Face7x13,
	}
	m.rasterize()
	return m
}

func (m *Marquee) Name() string { return "Type" }
func (m *Marquee) Icon() string { return "🔤" }

func (m *Marquee) OnActivate(*render.Params) {
	m.offset = 0
	m.tick = render.Pacer{}
}

// rasterize draws Text once into an alpha mask.
func (m *Marquee) rasterize() {
	metrics := m.face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	width := font.MeasureString(m.face, m.Text).Ceil()
	m.mask = image.NewAlpha(image.Rect(0, 0, max(width, 1), height))
	d := &font.Drawer{
		Dst:  m.mask,
		Src:  image.Opaque,
		Face: m.face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(m.Text)
	m.top = max((m.h-height)/2, 0)
}

// Width is the rasterized text width in pixels.
func (m *Marquee) Width() int { return m.mask.Rect.Dx() }

func (m *Marquee) Render(f *render.Frame, p *render.Params) {
	if m.tick.Ready(p.Now, m.Step) {
		m.offset++
		if m.offset >= m.Width()+m.w {
			m.offset = 0
		}
	}
	f.Clear()
	// column x of the board shows text column x - (w - offset)
	shift := m.w - m.offset
	for y := 0; y < m.mask.Rect.Dy(); y++ {
		for x := 0; x < m.w; x++ {
			a := m.mask.AlphaAt(x-shift, y).A
			if a == 0 {
				continue
			}
			f.Set(x, y+m.top, m.Color.Scale(a))
		}
	}
}

// SetText replaces the message and restarts the scroll.
func (m *Marquee) SetText(s string) error {
	if len(s) > MaxTextLen {
		return fmt.Errorf("%w: text longer than %d", render.ErrInvalidValue, MaxTextLen)
	}
	m.Text = s
	m.offset = 0
	m.rasterize()
	return nil
}

// Control handles type with text, and optional color (RRGGBB) and speed (ms per column).
func (m *Marquee) Control(action string, args render.Args) error {
	if action != "type" {
		return fmt.Errorf("%w: %q", render.ErrUnknownAction, action)
	}
	if args.Has("color") {
		c, err := render.Hex(args.Get("color"))
		if err != nil {
			return fmt.Errorf("%w: color=%q", render.ErrInvalidValue, args.Get("color"))
		}
		m.Color = c
	}
	if args.Has("speed") {
		ms, err := args.Int("speed")
		if err != nil {
			return err
		}
		m.Step = min(max(time.Duration(ms)*time.Millisecond, MinStep), MaxStep)
	}
	if args.Has("text") {
		return m.SetText(args.Get("text"))
	}
	return nil
}

// Status reports the current message.
type Status struct {
	Text    string `json:"text"`
	Color   string `json:"color"`
	SpeedMS int64  `json:"speed"`
}

func (m *Marquee) Status() any {
	return Status{
		Text:    m.Text,
		Color:   fmt.Sprintf("%02x%02x%02x", m.Color.R, m.Color.G, m.Color.B),
		SpeedMS: m.Step.Milliseconds(),
	}
}
