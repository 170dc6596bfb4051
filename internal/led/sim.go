package led

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Sim keeps the last frame and logs a compact summary (average and first
// pixel) every LogEvery frames. Useful headless and in tests.
type Sim struct {
	LogEvery int

	mu     sync.Mutex
	count  int
	last   []byte
	closed bool
}

func NewSim() *Sim { return &Sim{LogEvery: 60} }

func (d *Sim) Write(rgb []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.count++
	d.last = append(d.last[:0], rgb...)
	if d.LogEvery > 0 && d.count%d.LogEvery == 0 {
		r, g, b := average(rgb)
		ev := log.Debug().Int("frame", d.count).Floats64("avg", []float64{r, g, b})
		if len(rgb) >= 3 {
			ev = ev.Uints8("first", rgb[:3])
		}
		ev.Msg("sim frame")
	}
	return nil
}

func (d *Sim) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// Frames is the number of frames written so far.
func (d *Sim) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Last returns a copy of the most recent frame.
func (d *Sim) Last() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.last...)
}

func average(rgb []byte) (r, g, b float64) {
	n := float64(len(rgb) / 3)
	if n == 0 {
		return 0, 0, 0
	}
	for i := 0; i+2 < len(rgb); i += 3 {
		r += float64(rgb[i])
		g += float64(rgb[i+1])
		b += float64(rgb[i+2])
	}
	return r / n, g / n, b / n
}
