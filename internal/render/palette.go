package render

import (
	"github.com/lucasb-eyer/go-colorful"
)

// HSV converts an 8-bit hue/saturation/value triple. Hue 0..255 covers the full wheel.
func HSV(h, s, v uint8) RGB {
	c := colorful.Hsv(float64(h)*360.0/256.0, float64(s)/255.0, float64(v)/255.0)
	return FromColorful(c)
}

func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex parses "#rrggbb" or "rrggbb".
func Hex(s string) (RGB, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Black, err
	}
	return FromColorful(c), nil
}

// Stop is one anchor of a gradient palette.
type Stop struct {
	Pos   uint8
	Color RGB
}

// Palette is a 256-entry lookup table built from gradient stops.
type Palette [256]RGB

// NewGradient interpolates between stops. Stops must be sorted by Pos.
func NewGradient(stops ...Stop) *Palette {
	var p Palette
	if len(stops) == 0 {
		return &p
	}
	for i := 0; i < 256; i++ {
		p[i] = gradientAt(stops, uint8(i))
	}
	return &p
}

// NewPalette16 spreads 16 evenly spaced entries over the table.
func NewPalette16(entries [16]uint32) *Palette {
	stops := make([]Stop, 0, 17)
	for i, e := range entries {
		stops = append(stops, Stop{Pos: uint8(i * 16), Color: rgbFromUint(e)})
	}
	// wrap back to the first entry so the table cycles smoothly
	stops = append(stops, Stop{Pos: 255, Color: rgbFromUint(entries[0])})
	return NewGradient(stops...)
}

func gradientAt(stops []Stop, pos uint8) RGB {
	if pos <= stops[0].Pos {
		return stops[0].Color
	}
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if pos >= a.Pos && pos <= b.Pos {
			span := float64(b.Pos) - float64(a.Pos)
			if span <= 0 {
				return b.Color
			}
			t := (float64(pos) - float64(a.Pos)) / span
			return FromColorful(a.Color.Colorful().BlendRgb(b.Color.Colorful(), t))
		}
	}
	return stops[len(stops)-1].Color
}

// At returns the palette colour at index scaled by brightness.
func (p *Palette) At(index, brightness uint8) RGB {
	c := p[index]
	if brightness == 255 {
		return c
	}
	return c.Scale(brightness)
}

func rgbFromUint(v uint32) RGB {
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

var (
	HeatPalette = NewPalette16([16]uint32{
		0x000000, 0x330000, 0x660000, 0x990000, 0xCC0000, 0xFF0000, 0xFF3300, 0xFF6600,
		0xFF9900, 0xFFCC00, 0xFFFF00, 0xFFFF33, 0xFFFF66, 0xFFFF99, 0xFFFFCC, 0xFFFFFF,
	})
	PartyPalette = NewPalette16([16]uint32{
		0x5500AB, 0x84007C, 0xB5004B, 0xE5001B, 0xE81700, 0xB84700, 0xAB7700, 0xABAB00,
		0xAB5500, 0xDD2200, 0xF2000E, 0xC2003E, 0x8F0071, 0x5F00A1, 0x2F00D0, 0x0007F9,
	})
)
