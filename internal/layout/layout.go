package layout

// Serpentine describes how the strip snakes through the panel.
type Serpentine struct {
	// FlipEvenRows reverses x on rows 0, 2, 4, ... (the first row runs right-to-left).
	FlipEvenRows bool
}

// Grid is a single flat LED panel addressed by (x, y).
type Grid struct {
	Width  int
	Height int
	Order  Serpentine
}

// Default is the 16x16 board with the first row wired right-to-left.
func Default() Grid {
	return Grid{Width: 16, Height: 16, Order: Serpentine{FlipEvenRows: true}}
}

// Index maps x,y -> linear LED index (0..N-1).
// Out-of-range coordinates are clamped onto the nearest edge.
func (g Grid) Index(x, y int) int {
	x = clamp(x, 0, g.Width-1)
	y = clamp(y, 0, g.Height-1)
	xx := x
	if g.Order.FlipEvenRows && y%2 == 0 {
		xx = g.Width - 1 - x
	}
	return y*g.Width + xx
}

// XY is the inverse of Index.
func (g Grid) XY(i int) (x, y int) {
	y = i / g.Width
	x = i % g.Width
	if g.Order.FlipEvenRows && y%2 == 0 {
		x = g.Width - 1 - x
	}
	return x, y
}

func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

func (g Grid) Count() int {
	return g.Width * g.Height
}

// Table returns the physical index for every cell in row-major order.
func (g Grid) Table() []int {
	out := make([]int, 0, g.Count())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			out = append(out, g.Index(x, y))
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
