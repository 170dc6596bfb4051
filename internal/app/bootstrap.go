// Package app assembles the board: registry, engine, playlist and the frame
// loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/audio"
	"github.com/coreman2200/funtimes-pixelboard/internal/config"
	"github.com/coreman2200/funtimes-pixelboard/internal/diagnostics"
	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
	"github.com/coreman2200/funtimes-pixelboard/internal/sequence"
)

// warnEvery rate limits driver write warnings.
const warnEvery = time.Second

type Options struct {
	Grid      layout.Grid
	Driver    render.Driver
	FPS       int
	Seed      int64
	AIAttract bool
	Limits    render.Limits
	Audio     *audio.Analyzer // nil analyses silence
	Prefs     config.UserPrefs
	Playlist  *sequence.Program

	// PrefsSaver persists selection and params; nil disables saving.
	PrefsSaver *config.PrefsSaver
}

type Core struct {
	*Board
	Eng *render.Engine
	Seq *sequence.Player
	FPS int

	// AfterFrame runs on the loop goroutine after every frame, with the
	// frame id and a row-major copy of the pixels.
	AfterFrame []func(id uint64, rgb []byte)
	// OnDiag receives pattern and driver failures.
	OnDiag func(diagnostics.Diagnostic)

	prefs    *config.PrefsSaver
	saving   atomic.Bool
	clock    func() time.Time
	lastWarn time.Time
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCore builds everything without starting the loop.
func NewCore(opts Options) (*Core, error) {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	board, err := BuildRegistry(opts.Grid, opts.Seed, opts.AIAttract, opts.Audio)
	if err != nil {
		return nil, err
	}
	start := opts.Prefs.Pattern
	if start < 0 || start >= board.Reg.Count() {
		start = 0
	}
	eng, err := render.NewEngine(opts.Grid, board.Reg, opts.Driver, start, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	eng.SetPost(render.DefaultPost(opts.Limits))
	eng.SetBrightness(uint8(min(max(opts.Prefs.Brightness, 0), 255)))
	eng.SetSpeed(uint8(min(max(opts.Prefs.Speed, 0), 255)))

	c := &Core{Board: board, Eng: eng, FPS: opts.FPS, prefs: opts.PrefsSaver, clock: time.Now}
	eng.OnError = func(err error) { c.diag(diagnostics.FromRender(err)) }

	c.Seq = NewConductor(eng)
	if opts.Playlist != nil {
		if err := c.Seq.Load(*opts.Playlist); err != nil {
			return nil, fmt.Errorf("playlist: %w", err)
		}
	}
	return c, nil
}

// InitCore builds the core and starts the frame loop until ctx ends.
func InitCore(ctx context.Context, opts Options) (*Core, error) {
	c, err := NewCore(opts)
	if err != nil {
		return nil, err
	}
	c.Start(ctx)
	return c, nil
}

func (c *Core) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		dt := time.Second / time.Duration(c.FPS)
		tick := time.NewTicker(dt)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				c.Step(-1, dt.Seconds())
			}
		}
	}()
}

// Stop ends the loop and waits for the last frame and any pending prefs
// write to finish.
func (c *Core) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Step advances the playlist by dt seconds and renders one frame at now
// (negative uses the engine clock).
func (c *Core) Step(now time.Duration, dt float64) {
	c.Seq.Tick(dt)
	if err := c.Eng.RenderOnce(now); err != nil && !errors.Is(err, render.ErrPatternFailed) {
		// pattern failures already went out through Eng.OnError
		c.driverFailed(err)
	}
	if len(c.AfterFrame) > 0 {
		id, rgb := c.Eng.FrameID(), c.Eng.Snapshot()
		for _, fn := range c.AfterFrame {
			fn(id, rgb)
		}
	}
	c.savePrefs(c.clock())
}

func (c *Core) driverFailed(err error) {
	now := time.Now()
	if now.Sub(c.lastWarn) < warnEvery {
		return
	}
	c.lastWarn = now
	log.Warn().Err(err).Msg("led write")
	c.diag(diagnostics.FromRender(err))
}

func (c *Core) diag(d diagnostics.Diagnostic) {
	if c.OnDiag != nil {
		c.OnDiag(d)
	}
}

// Prefs is the current selection and params.
func (c *Core) Prefs() config.UserPrefs {
	p := c.Eng.Params()
	return config.UserPrefs{Pattern: c.Eng.Current(), Brightness: int(p.Brightness), Speed: int(p.Speed)}
}

// savePrefs writes off the loop goroutine; at most one write is in flight.
func (c *Core) savePrefs(now time.Time) {
	if c.prefs == nil {
		return
	}
	cur := c.Prefs()
	if !c.prefs.Due(now, cur) || !c.saving.CompareAndSwap(false, true) {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.saving.Store(false)
		wrote, err := c.prefs.Maybe(now, cur)
		if err != nil {
			log.Warn().Err(err).Str("path", c.prefs.Path).Msg("save prefs")
			return
		}
		if wrote {
			log.Debug().Str("path", c.prefs.Path).Msg("prefs saved")
		}
	}()
}

// FlushPrefs writes any unsaved prefs, ignoring the save interval.
func (c *Core) FlushPrefs() error {
	if c.prefs == nil {
		return nil
	}
	return c.prefs.Flush(c.Prefs())
}
