package clock

import (
	"fmt"
	"math"
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

const (
	DefaultTotal = 1500 // seconds
	// totals above this also show a running seconds marker on the edge
	markerAbove = 240
	edgeSpots   = 60
)

// Countdown fills a rainbow wedge clockwise from 12 o'clock as time elapses.
// It starts paused and only counts while it is the active pattern.
type Countdown struct {
	Total   int // seconds
	Elapsed int // seconds
	Paused  bool

	tick   render.Pacer
	resync bool
}

func New() *Countdown {
	return &Countdown{Total: DefaultTotal, Paused: true}
}

func (c *Countdown) Name() string { return "Clock Countdown" }
func (c *Countdown) Icon() string { return "⏲️" }

func (c *Countdown) OnActivate(p *render.Params) {
	c.tick.Reset(p.Now)
	c.resync = false
}

func (c *Countdown) Render(f *render.Frame, p *render.Params) {
	if c.resync {
		c.tick.Reset(p.Now)
		c.resync = false
	}
	if !c.Paused && c.tick.Ready(p.Now, time.Second) && c.Elapsed < c.Total {
		c.Elapsed++
	}

	f.Clear()
	progress := float64(c.Elapsed) / float64(max(c.Total, 1)) * 360
	cx, cy := f.Width()/2, f.Height()/2
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			a := WedgeAngle(x-cx, y-cy)
			if a <= progress {
				f.Set(x, y, render.HSV(uint8(a*255/360), 255, 255))
			}
		}
	}
	if c.Total > markerAbove {
		x, y := EdgeSpot(c.Elapsed%60, f.Width(), f.Height())
		f.Set(x, y, render.White)
	}
}

// WedgeAngle is the clockwise angle in degrees from 12 o'clock, in [0,360).
func WedgeAngle(dx, dy int) float64 {
	a := math.Atan2(float64(dy), float64(dx))*180/math.Pi + 90
	if a < 0 {
		a += 360
	}
	return a
}

// EdgeSpot maps one of 60 positions around the border, starting at the top
// centre and running clockwise, to a pixel.
func EdgeSpot(pos, w, h int) (int, int) {
	right, bottom := w-1, h-1
	pos = (pos + w/2) % edgeSpots
	switch {
	case pos < w:
		return pos, 0
	case pos < w+bottom:
		return right, pos - right
	case pos < w+2*bottom:
		return right - (pos - w - bottom + 1), bottom
	default:
		return 0, max(bottom-(pos-w-2*bottom+1), 0)
	}
}

func (c *Countdown) Reset() {
	c.Elapsed = 0
	c.Paused = true
}

// Control handles start (optionally with minutes and seconds), pause and reset.
func (c *Countdown) Control(action string, args render.Args) error {
	switch action {
	case "start":
		if args.Has("minutes") && args.Has("seconds") {
			m, err := args.Int("minutes")
			if err != nil {
				return err
			}
			s, err := args.Int("seconds")
			if err != nil {
				return err
			}
			total := m*60 + s
			if m < 0 || s < 0 || total <= 0 {
				return fmt.Errorf("%w: %d:%02d", render.ErrInvalidValue, m, s)
			}
			c.Total = total
			c.Elapsed = 0
		}
		c.Paused = false
		c.resync = true
	case "pause":
		c.Paused = !c.Paused
		if !c.Paused {
			c.resync = true
		}
	case "reset":
		c.Reset()
	case "":
		return fmt.Errorf("%w: action", render.ErrMissingValue)
	default:
		return fmt.Errorf("%w: %q", render.ErrUnknownAction, action)
	}
	return nil
}

// Status is the clockstatus document.
type Status struct {
	Minutes      int  `json:"minutes"`
	Seconds      int  `json:"seconds"`
	TotalMinutes int  `json:"total_minutes"`
	Paused       bool `json:"paused"`
}

func (c *Countdown) Status() any {
	return Status{
		Minutes:      c.Elapsed / 60,
		Seconds:      c.Elapsed % 60,
		TotalMinutes: c.Total / 60,
		Paused:       c.Paused,
	}
}
