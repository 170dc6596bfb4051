package canvas

import (
	"fmt"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

const (
	DefaultFPS = 10
	MaxFPS     = 30
)

// Video shows raw frames pushed by a client. The pushing side owns the
// frame rate; FPS is reported back so the client can pace itself.
type Video struct {
	w, h    int
	pix     []render.RGB // row-major
	Playing bool
	Paused  bool
	FPS     int
	Frames  uint64
}

func NewVideo(w, h int) *Video {
	return &Video{w: w, h: h, pix: make([]render.RGB, w*h), FPS: DefaultFPS}
}

func (v *Video) Name() string { return "Video" }
func (v *Video) Icon() string { return "📺" }

func (v *Video) OnActivate(*render.Params) {}

func (v *Video) Render(f *render.Frame, _ *render.Params) {
	for i, px := range v.pix {
		f.Set(i%v.w, i/v.w, px)
	}
}

// FrameSize is the exact byte length LoadFrame accepts.
func (v *Video) FrameSize() int { return v.w * v.h * 3 }

// LoadFrame replaces the picture with row-major RGB bytes. Frames arriving
// while paused are dropped.
func (v *Video) LoadFrame(b []byte) error {
	if len(b) != v.FrameSize() {
		return fmt.Errorf("%w: frame is %d bytes, want %d", render.ErrInvalidValue, len(b), v.FrameSize())
	}
	if v.Paused {
		return nil
	}
	for i := range v.pix {
		v.pix[i] = render.RGB{R: b[i*3], G: b[i*3+1], B: b[i*3+2]}
	}
	v.Frames++
	return nil
}

func (v *Video) clear() {
	for i := range v.pix {
		v.pix[i] = render.Black
	}
}

// Control handles play (optional fps 1..30), pause, stop and clear.
func (v *Video) Control(action string, args render.Args) error {
	switch action {
	case "play":
		fps, err := args.IntOr("fps", DefaultFPS)
		if err != nil {
			return err
		}
		v.FPS = min(max(fps, 1), MaxFPS)
		v.Playing, v.Paused = true, false
	case "pause":
		v.Paused = v.Playing
	case "stop":
		v.Playing, v.Paused = false, false
		v.Frames = 0
		v.clear()
	case "clear":
		v.clear()
	case "":
		return fmt.Errorf("%w: action", render.ErrMissingValue)
	default:
		return fmt.Errorf("%w: %q", render.ErrUnknownAction, action)
	}
	return nil
}

// VideoStatus is the videostatus document.
type VideoStatus struct {
	Playing bool   `json:"playing"`
	Paused  bool   `json:"paused"`
	FPS     int    `json:"fps"`
	Frames  uint64 `json:"frames"`
}

func (v *Video) Status() any {
	return VideoStatus{Playing: v.Playing, Paused: v.Paused, FPS: v.FPS, Frames: v.Frames}
}
