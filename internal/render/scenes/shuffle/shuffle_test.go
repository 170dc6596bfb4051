package shuffle

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

type solid struct {
	name      string
	c         render.RGB
	activated int
}

func (s *solid) Name() string                             { return s.name }
func (s *solid) Icon() string                             { return "" }
func (s *solid) OnActivate(*render.Params)                { s.activated++ }
func (s *solid) Render(f *render.Frame, _ *render.Params) { f.Fill(s.c) }

func TestPicksAllowedPatternsAndRotates(t *testing.T) {
	reg := render.NewRegistry()
	red := &solid{name: "Red", c: render.Red}
	green := &solid{name: "Green", c: render.Green}
	draw := &solid{name: "Draw", c: render.White}
	reg.Register(red)
	reg.Register(draw)
	reg.Register(green)
	s := New(reg)
	reg.Register(s)

	p := &render.Params{Rand: rand.New(rand.NewSource(1))}
	f := render.NewFrame(layout.Default())
	s.OnActivate(p)
	first := s.Current()
	require.Contains(t, []int{0, 2}, first)

	s.Render(f, p)
	assert.NotEqual(t, render.White, f.Pix[0])

	p.Now = Every - time.Millisecond
	s.Render(f, p)
	assert.Equal(t, first, s.Current())

	p.Now = Every
	s.Render(f, p)
	second := s.Current()
	assert.NotEqual(t, first, second, "never repeats the current pick")
	assert.Contains(t, []int{0, 2}, second)
	assert.Equal(t, 2, red.activated+green.activated, "each pick is activated once")
	assert.Zero(t, draw.activated)
}

func TestNothingToPick(t *testing.T) {
	reg := render.NewRegistry()
	s := New(reg)
	reg.Register(s)
	p := &render.Params{Rand: rand.New(rand.NewSource(1))}
	f := render.NewFrame(layout.Default())
	s.OnActivate(p)
	s.Render(f, p)
	assert.Equal(t, -1, s.Current())
}
