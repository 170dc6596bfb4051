package render

import (
	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
)

// RGB is one pixel, 8 bits per channel.
type RGB struct{ R, G, B uint8 }

var (
	Black = RGB{}
	White = RGB{255, 255, 255}
	Red   = RGB{255, 0, 0}
	Green = RGB{0, 255, 0}
	Blue  = RGB{0, 0, 255}
)

func (c RGB) IsBlack() bool { return c.R == 0 && c.G == 0 && c.B == 0 }

// Add saturates per channel.
func (c RGB) Add(o RGB) RGB {
	return RGB{QAdd8(c.R, o.R), QAdd8(c.G, o.G), QAdd8(c.B, o.B)}
}

// Or is a per-channel max.
func (c RGB) Or(o RGB) RGB {
	return RGB{max(c.R, o.R), max(c.G, o.G), max(c.B, o.B)}
}

// Scale multiplies every channel by s/256.
func (c RGB) Scale(s uint8) RGB {
	return RGB{Scale8(c.R, s), Scale8(c.G, s), Scale8(c.B, s)}
}

// Frame is the LED buffer in physical (wiring) order. Patterns address it by
// grid coordinate; the layout decides where each cell lives in the strip.
type Frame struct {
	Grid layout.Grid
	Pix  []RGB
}

func NewFrame(g layout.Grid) *Frame {
	return &Frame{Grid: g, Pix: make([]RGB, g.Count())}
}

func (f *Frame) Width() int  { return f.Grid.Width }
func (f *Frame) Height() int { return f.Grid.Height }
func (f *Frame) Len() int    { return len(f.Pix) }

// Set ignores coordinates outside the grid.
func (f *Frame) Set(x, y int, c RGB) {
	if !f.Grid.InBounds(x, y) {
		return
	}
	f.Pix[f.Grid.Index(x, y)] = c
}

func (f *Frame) At(x, y int) RGB {
	if !f.Grid.InBounds(x, y) {
		return Black
	}
	return f.Pix[f.Grid.Index(x, y)]
}

// AddAt blends c additively into the pixel at x,y.
func (f *Frame) AddAt(x, y int, c RGB) {
	if !f.Grid.InBounds(x, y) {
		return
	}
	i := f.Grid.Index(x, y)
	f.Pix[i] = f.Pix[i].Add(c)
}

func (f *Frame) Fill(c RGB) {
	for i := range f.Pix {
		f.Pix[i] = c
	}
}

func (f *Frame) Clear() { f.Fill(Black) }

// FadeToBlackBy dims every pixel by amount/256.
func (f *Frame) FadeToBlackBy(amount uint8) {
	f.Scale(255 - amount)
}

func (f *Frame) Scale(s uint8) {
	for i := range f.Pix {
		f.Pix[i] = f.Pix[i].Scale(s)
	}
}

func (f *Frame) CopyFrom(src *Frame) { copy(f.Pix, src.Pix) }

// Snapshot returns the frame as row-major RGB bytes, independent of wiring.
func (f *Frame) Snapshot() []byte {
	out := make([]byte, 0, len(f.Pix)*3)
	for y := 0; y < f.Grid.Height; y++ {
		for x := 0; x < f.Grid.Width; x++ {
			c := f.Pix[f.Grid.Index(x, y)]
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}

// LoadSnapshot is the inverse of Snapshot. Short input leaves the tail untouched.
func (f *Frame) LoadSnapshot(b []byte) {
	n := 0
	for y := 0; y < f.Grid.Height; y++ {
		for x := 0; x < f.Grid.Width; x++ {
			if n+2 >= len(b) {
				return
			}
			f.Pix[f.Grid.Index(x, y)] = RGB{b[n], b[n+1], b[n+2]}
			n += 3
		}
	}
}

// Bytes returns RGB bytes in physical order for the LED drivers.
func (f *Frame) Bytes() []byte {
	return PixBytes(f.Pix)
}

func PixBytes(px []RGB) []byte {
	out := make([]byte, 0, len(px)*3)
	for _, c := range px {
		out = append(out, c.R, c.G, c.B)
	}
	return out
}
