// Package shuffle is the Random pattern: it plays another pattern from the
// registry and swaps to a different one every minute.
package shuffle

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

const Every = 60 * time.Second

// DefaultExclude are the patterns that make no sense unattended.
var DefaultExclude = []string{"Draw", "Video", "Type", "Random"}

type Shuffle struct {
	Reg     *render.Registry
	Exclude map[string]bool
	Every   time.Duration

	cur   int
	since render.Pacer
}

func New(reg *render.Registry, exclude ...string) *Shuffle {
	if len(exclude) == 0 {
		exclude = DefaultExclude
	}
	s := &Shuffle{Reg: reg, Exclude: map[string]bool{}, Every: Every, cur: -1}
	for _, n := range exclude {
		s.Exclude[n] = true
	}
	return s
}

func (s *Shuffle) Name() string { return "Random" }
func (s *Shuffle) Icon() string { return "🎲" }

func (s *Shuffle) OnActivate(p *render.Params) {
	s.pick(p)
}

// Current is the registry index being shown, -1 if none.
func (s *Shuffle) Current() int { return s.cur }

func (s *Shuffle) candidates() []int {
	var out []int
	for _, d := range s.Reg.List() {
		if d.Index == s.cur || s.Exclude[d.Name] || d.Name == s.Name() {
			continue
		}
		out = append(out, d.Index)
	}
	return out
}

func (s *Shuffle) pick(p *render.Params) {
	s.since.Reset(p.Now)
	c := s.candidates()
	if len(c) == 0 {
		return
	}
	s.cur = c[p.Rand.Intn(len(c))]
	pt, err := s.Reg.Get(s.cur)
	if err != nil {
		s.cur = -1
		return
	}
	pt.OnActivate(p)
	log.Info().Int("index", s.cur).Str("pattern", pt.Name()).Msg("random pick")
}

func (s *Shuffle) Render(f *render.Frame, p *render.Params) {
	if s.cur < 0 || s.since.Since(p.Now) >= s.Every {
		s.pick(p)
	}
	if s.cur < 0 {
		return
	}
	_ = s.Reg.Render(s.cur, f, p)
}
