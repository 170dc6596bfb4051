// Package sprites plays looping pixel-art animations drawn as string art.
package sprites

import (
	"fmt"
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

// Key maps an art rune to its colour. '.' and ' ' are black.
type Key map[rune]render.RGB

// Sprite is a named animation. Each frame is one string per row.
type Sprite struct {
	Name   string
	Icon   string
	Key    Key
	Frames [][]string
}

// Decode turns every frame into colours, checking the art is w x h and
// uses only runes from the key.
func (s *Sprite) Decode(w, h int) ([][]render.RGB, error) {
	out := make([][]render.RGB, 0, len(s.Frames))
	for fi, rows := range s.Frames {
		if len(rows) != h {
			return nil, fmt.Errorf("sprite %s frame %d: %d rows, want %d", s.Name, fi, len(rows), h)
		}
		px := make([]render.RGB, 0, w*h)
		for y, row := range rows {
			runes := []rune(row)
			if len(runes) != w {
				return nil, fmt.Errorf("sprite %s frame %d row %d: %d columns, want %d", s.Name, fi, y, len(runes), w)
			}
			for _, r := range runes {
				if r == '.' || r == ' ' {
					px = append(px, render.Black)
					continue
				}
				c, ok := s.Key[r]
				if !ok {
					return nil, fmt.Errorf("sprite %s frame %d row %d: no colour for %q", s.Name, fi, y, r)
				}
				px = append(px, c)
			}
		}
		out = append(out, px)
	}
	return out, nil
}

const frameWait = 50 * time.Millisecond

// Animation cycles the frames of a sprite, holding each for nap(50).
type Animation struct {
	sprite *Sprite
	frames [][]render.RGB
	w      int
	cur    int
	step   render.Pacer
}

func New(s *Sprite, w, h int) (*Animation, error) {
	frames, err := s.Decode(w, h)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("sprite %s has no frames", s.Name)
	}
	return &Animation{sprite: s, frames: frames, w: w, cur: -1}, nil
}

func (a *Animation) Name() string { return a.sprite.Name }
func (a *Animation) Icon() string { return a.sprite.Icon }

func (a *Animation) OnActivate(*render.Params) {
	a.cur = -1
	a.step = render.Pacer{}
}

func (a *Animation) Render(f *render.Frame, p *render.Params) {
	if a.step.Ready(p.Now, render.Nap(p.Speed, frameWait)) {
		a.cur = (a.cur + 1) % len(a.frames)
	}
	if a.cur < 0 {
		return
	}
	for i, c := range a.frames[a.cur] {
		f.Set(i%a.w, i/a.w, c)
	}
}

// Frame reports which frame is showing, -1 before the first render.
func (a *Animation) Frame() int { return a.cur }
