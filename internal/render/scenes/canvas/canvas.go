// Package canvas holds the externally fed patterns: a persistent drawing
// surface and a frame-by-frame video sink.
package canvas

import (
	"encoding/hex"
	"fmt"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

// Canvas is the Draw pattern: pixels stay until they are overwritten or
// cleared, across pattern switches.
type Canvas struct {
	w, h int
	pix  []render.RGB // row-major
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{w: w, h: h, pix: make([]render.RGB, w*h)}
}

func (c *Canvas) Name() string { return "Draw" }
func (c *Canvas) Icon() string { return "🎨" }

func (c *Canvas) OnActivate(*render.Params) {}

func (c *Canvas) Render(f *render.Frame, _ *render.Params) {
	for i, px := range c.pix {
		f.Set(i%c.w, i/c.w, px)
	}
}

// SetPixel paints one cell; coordinates outside the canvas are rejected.
func (c *Canvas) SetPixel(x, y int, col render.RGB) error {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return fmt.Errorf("%w: pixel %d,%d outside %dx%d", render.ErrInvalidValue, x, y, c.w, c.h)
	}
	c.pix[y*c.w+x] = col
	return nil
}

func (c *Canvas) At(x, y int) render.RGB {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return render.Black
	}
	return c.pix[y*c.w+x]
}

func (c *Canvas) Clear() {
	for i := range c.pix {
		c.pix[i] = render.Black
	}
}

// LoadHex fills the canvas row-major from "RRGGBB" groups. Extra groups are
// ignored and a short string leaves the remaining cells unchanged.
func (c *Canvas) LoadHex(s string) error {
	if len(s)%6 != 0 {
		return fmt.Errorf("%w: pixels length %d is not a multiple of 6", render.ErrInvalidValue, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: pixels: %v", render.ErrInvalidValue, err)
	}
	for i := 0; i+2 < len(raw) && i/3 < len(c.pix); i += 3 {
		c.pix[i/3] = render.RGB{R: raw[i], G: raw[i+1], B: raw[i+2]}
	}
	return nil
}

// Control handles drawpixel, drawclear and drawimage.
func (c *Canvas) Control(action string, args render.Args) error {
	switch action {
	case "drawpixel":
		var v [5]int
		for i, k := range []string{"x", "y", "r", "g", "b"} {
			n, err := args.Int(k)
			if err != nil {
				return err
			}
			v[i] = n
		}
		for _, ch := range v[2:] {
			if ch < 0 || ch > 255 {
				return fmt.Errorf("%w: channel %d", render.ErrInvalidValue, ch)
			}
		}
		return c.SetPixel(v[0], v[1], render.RGB{R: uint8(v[2]), G: uint8(v[3]), B: uint8(v[4])})
	case "drawclear":
		c.Clear()
		return nil
	case "drawimage":
		if !args.Has("pixels") {
			return fmt.Errorf("%w: pixels", render.ErrMissingValue)
		}
		return c.LoadHex(args.Get("pixels"))
	}
	return fmt.Errorf("%w: %q", render.ErrUnknownAction, action)
}
