package render

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
)

// Driver abstracts the LED transport (SPI, UDP, terminal ...).
type Driver interface {
	Write(rgb []byte) error
}

// Engine renders frames using the active pattern, an optional next pattern
// for crossfades, applies post-processing, then writes to the driver.
//
// A single mutex guards the frame buffers, every pattern's private state and
// the shared params, so control actions always land between two frames.
type Engine struct {
	mu sync.Mutex

	Grid layout.Grid
	Reg  *Registry
	Drv  Driver

	// OnError is called (outside the lock) when a pattern fails.
	OnError func(err error)

	params Params

	// active + next pattern
	active int
	next   int

	// override replaces the selection until it reports Done (wiring tests).
	override Pattern

	// framebuffers
	bufA *Frame // active
	bufB *Frame // next (during crossfade)
	view *Frame // mixed, before post
	out  []RGB  // after post

	// crossfade
	alpha  float64 // 0..1
	fading bool

	// timing
	t0    time.Time
	clock func() time.Time

	post PostPipeline

	frameID uint64

	// metrics (last durations in ms)
	Last Timing
}

// Timing is the cost of the last frame.
type Timing struct {
	RenderMS float64 `json:"render_ms"`
	PostMS   float64 `json:"post_ms"`
	TotalMS  float64 `json:"total_ms"`
}

// NewEngine allocates buffers and activates pattern start.
func NewEngine(g layout.Grid, reg *Registry, drv Driver, start int, seed int64) (*Engine, error) {
	if g.Count() == 0 {
		return nil, errors.New("invalid dimensions")
	}
	if reg == nil || reg.Count() == 0 {
		return nil, errors.New("no patterns registered")
	}
	if start < 0 || start >= reg.Count() {
		start = 0
	}
	e := &Engine{
		Grid:   g,
		Reg:    reg,
		Drv:    drv,
		next:   -1,
		active: start,
		bufA:   NewFrame(g),
		bufB:   NewFrame(g),
		view:   NewFrame(g),
		out:    make([]RGB, g.Count()),
		params: Params{
			Brightness: 100,
			Speed:      100,
			Rand:       rand.New(rand.NewSource(seed)),
		},
		post:  DefaultPost(Limits{}),
		clock: time.Now,
	}
	e.t0 = e.clock()
	e.activate(start)
	return e, nil
}

// Now returns the monotonic time since engine start.
func (e *Engine) Now() time.Duration { return e.clock().Sub(e.t0) }

func (e *Engine) SetPost(p PostPipeline) {
	e.mu.Lock()
	e.post = p
	e.mu.Unlock()
}

// RenderOnce renders a single frame at engine time now. A negative now uses
// Engine.Now(). The driver write happens outside the lock.
func (e *Engine) RenderOnce(now time.Duration) error {
	if now < 0 {
		now = e.Now()
	}
	start := time.Now()

	e.mu.Lock()
	e.params.Now = now
	e.params.Hue = uint8(now / HueStep)

	var err error
	over := e.override != nil
	if over {
		err = e.renderOverride()
	} else {
		err = e.renderSlot(e.active, e.bufA)
	}
	if err == nil && !over && e.fading && e.next >= 0 {
		err = e.renderSlot(e.next, e.bufB)
		if err == nil {
			Mix(e.view.Pix, e.bufA.Pix, e.bufB.Pix, e.alpha)
		}
	} else if err == nil {
		e.view.CopyFrom(e.bufA)
	}
	if err != nil {
		// hold the last good frame
		e.bufA.CopyFrom(e.view)
		e.mu.Unlock()
		log.Error().Err(err).Msg("render")
		if e.OnError != nil {
			e.OnError(err)
		}
		return err
	}

	postStart := time.Now()
	copy(e.out, e.view.Pix)
	if e.post.Dim != nil {
		e.post.Dim(e.out, e.params.Brightness)
	}
	if e.post.Limiter != nil {
		e.post.Limiter(e.out, e.post.Limits)
	}
	e.Last.PostMS = float64(time.Since(postStart).Microseconds()) / 1000.0

	e.Last.RenderMS = float64(postStart.Sub(start).Microseconds()) / 1000.0
	e.Last.TotalMS = float64(time.Since(start).Microseconds()) / 1000.0

	e.frameID++
	buf := PixBytes(e.out)
	drv := e.Drv
	e.mu.Unlock()

	if drv != nil {
		if err := drv.Write(buf); err != nil {
			return fmt.Errorf("driver write: %w", err)
		}
	}
	return nil
}

// renderSlot runs one pattern; a panic fails closed instead of killing the loop.
func (e *Engine) renderSlot(i int, f *Frame) (err error) {
	p, err := e.Reg.Get(i)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrPatternFailed, p.Name(), r)
		}
	}()
	p.Render(f, &e.params)
	return nil
}

// Doner is implemented by overrides that finish on their own.
type Doner interface {
	Done() bool
}

func (e *Engine) renderOverride() (err error) {
	p := e.override
	defer func() {
		if r := recover(); r != nil {
			e.override = nil
			err = fmt.Errorf("%w: %s: %v", ErrPatternFailed, p.Name(), r)
		}
	}()
	p.Render(e.bufA, &e.params)
	if d, ok := p.(Doner); ok && d.Done() {
		e.override = nil
		log.Info().Str("override", p.Name()).Msg("override finished")
	}
	return nil
}

// SetOverride shows p instead of the selected pattern until p is Done or
// SetOverride(nil) is called. The selection is kept.
func (e *Engine) SetOverride(p Pattern) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.override = p
	if p != nil {
		p.OnActivate(&e.params)
		log.Info().Str("override", p.Name()).Msg("override started")
	}
}

// Overridden reports whether an override is showing.
func (e *Engine) Overridden() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.override != nil
}

func (e *Engine) activate(i int) {
	p, err := e.Reg.Get(i)
	if err != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("pattern", p.Name()).Interface("panic", r).Msg("activate")
		}
	}()
	p.OnActivate(&e.params)
}

// ---- selection ----

// Select makes pattern i active immediately.
func (e *Engine) Select(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectLocked(i)
}

func (e *Engine) selectLocked(i int) error {
	p, err := e.Reg.Get(i)
	if err != nil {
		return err
	}
	e.active = i
	e.next = -1
	e.fading = false
	e.alpha = 0
	e.activate(i)
	log.Info().Int("index", i).Str("pattern", p.Name()).Msg("pattern selected")
	return nil
}

// SelectByName is Select with a registry lookup.
func (e *Engine) SelectByName(name string) error {
	i, ok := e.Reg.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPattern, name)
	}
	return e.Select(i)
}

// Next advances the selection, wrapping at the end of the registry.
func (e *Engine) Next() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := (e.active + 1) % e.Reg.Count()
	_ = e.selectLocked(n)
	return n
}

func (e *Engine) Current() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Engine) CurrentName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.Reg.Get(e.active)
	if err != nil {
		return ""
	}
	return p.Name()
}

// ArmNext prepares pattern i for a crossfade from the active one. Arming
// the active pattern is a no-op; it keeps running untouched.
func (e *Engine) ArmNext(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.Reg.Get(i); err != nil {
		return err
	}
	if i == e.active {
		e.next = -1
		e.fading = false
		return nil
	}
	e.next = i
	e.bufB.Clear()
	e.activate(i)
	e.fading = true
	return nil
}

func (e *Engine) ArmNextByName(name string) error {
	i, ok := e.Reg.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPattern, name)
	}
	return e.ArmNext(i)
}

// SetCrossfade sets mix alpha 0..1. Reaching 1 promotes next -> active.
func (e *Engine) SetCrossfade(alpha float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case alpha <= 0:
		e.alpha = 0
		e.fading = false
	case alpha >= 1:
		e.alpha = 0
		e.fading = false
		if e.next >= 0 {
			e.active = e.next
			e.bufA, e.bufB = e.bufB, e.bufA
		}
		e.next = -1
	default:
		e.alpha = alpha
		e.fading = e.next >= 0
	}
}

// ---- shared params ----

func (e *Engine) SetBrightness(v uint8) {
	e.mu.Lock()
	e.params.Brightness = v
	e.mu.Unlock()
}

func (e *Engine) SetSpeed(v uint8) {
	e.mu.Lock()
	e.params.Speed = v
	e.mu.Unlock()
}

// SetParam updates a shared param by name. Unknown names are ignored.
func (e *Engine) SetParam(name string, v float64) {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	switch name {
	case "brightness":
		e.SetBrightness(uint8(v))
	case "speed":
		e.SetSpeed(uint8(v))
	}
}

// Params returns a copy of the shared params.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// ---- control surface ----

// Control applies an action to pattern i, whether or not it is active.
func (e *Engine) Control(i int, action string, args Args) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.Reg.Get(i)
	if err != nil {
		return err
	}
	c, ok := p.(Controller)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotControllable, p.Name())
	}
	return c.Control(action, args)
}

// ControlByName is Control with a registry lookup.
func (e *Engine) ControlByName(name, action string, args Args) error {
	i, ok := e.Reg.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPattern, name)
	}
	return e.Control(i, action, args)
}

// Status returns the status document of the named pattern.
func (e *Engine) Status(name string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.Reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPattern, name)
	}
	p, _ := e.Reg.Get(i)
	s, ok := p.(Stater)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotControllable, name)
	}
	return s.Status(), nil
}

// Snapshot returns the last rendered frame as row-major RGB bytes, before
// brightness and limiting.
func (e *Engine) Snapshot() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.Snapshot()
}

// Output returns the last frame sent to the driver, in physical order.
func (e *Engine) Output() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PixBytes(e.out)
}

func (e *Engine) LastTiming() Timing {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Last
}

func (e *Engine) FrameID() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameID
}

// Do runs fn between two frames. Use it for payloads that do not fit Args,
// such as video frames or decoded images.
func (e *Engine) Do(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}
