package sequence

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"
)

// Player owns a program timeline and drives the engine through Hooks.
// All methods are safe for concurrent use.
type Player struct {
	mu    sync.Mutex
	state PlayerState

	prog Program
	nowS float64 // position within the program
	idx  int

	armed     bool
	lastAlpha float64

	hooks Hooks
}

func NewPlayer(h Hooks) *Player {
	return &Player{state: Idle, hooks: h}
}

// Validate checks clip durations and fades and sorts envelope keys.
func (prog *Program) Validate() error {
	if len(prog.Clips) == 0 {
		return ErrEmptyProgram
	}
	for i := range prog.Clips {
		c := &prog.Clips[i]
		switch {
		case c.Pattern == "":
			return fmt.Errorf("%w: clip %d has no pattern", ErrBadClip, i)
		case c.DurationS <= 0:
			return fmt.Errorf("%w: clip %d duration %v", ErrBadClip, i, c.DurationS)
		case c.XFadeS < 0 || c.XFadeS > c.DurationS:
			return fmt.Errorf("%w: clip %d xfade %v", ErrBadClip, i, c.XFadeS)
		}
		for name, env := range c.Params {
			for _, k := range env {
				if !KnownEase(k.Ease) {
					return fmt.Errorf("%w: clip %d %s ease %q", ErrBadClip, i, name, k.Ease)
				}
			}
			c.Params[name] = env.sorted()
		}
	}
	return nil
}

// Load replaces the program and resets to Idle.
func (p *Player) Load(prog Program) error {
	if err := prog.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prog = prog
	p.resetLocked()
	p.state = Idle
	return nil
}

func (p *Player) resetLocked() {
	p.nowS = 0
	p.idx = 0
	p.armed = false
	p.lastAlpha = 0
}

func (p *Player) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Play starts from the current clip, or resumes when paused.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case len(p.prog.Clips) == 0:
		return ErrEmptyProgram
	case p.state == Running:
		return nil
	case p.state == Paused:
		p.state = Running
		return nil
	}
	p.state = Running
	p.crossfade(0)
	return p.selectLocked()
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Running {
		p.state = Paused
	}
}

// Stop returns to the start of the program and cancels any fade.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Idle
	p.resetLocked()
	p.crossfade(0)
}

// Seek jumps to program time t, clamped into [0, total).
func (p *Player) Seek(t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prog.Clips) == 0 {
		return ErrEmptyProgram
	}
	total := p.totalDuration()
	t = math.Max(t, 0)
	if t >= total {
		t = math.Nextafter(total, -1)
	}
	acc := 0.0
	for i, c := range p.prog.Clips {
		if t < acc+c.DurationS {
			p.idx = i
			break
		}
		acc += c.DurationS
	}
	p.nowS = t
	p.armed = false
	p.lastAlpha = 0
	p.crossfade(0)
	return p.selectLocked()
}

// Position returns the clip index and seconds into it.
func (p *Player) Position() (int, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prog.Clips) == 0 {
		return 0, 0
	}
	_, local := p.clipAndLocalT()
	return p.idx, local
}

// Tick advances the timeline by dt seconds.
func (p *Player) Tick(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Running || len(p.prog.Clips) == 0 || dt <= 0 {
		return
	}
	p.nowS += dt

	clip, localT := p.clipAndLocalT()
	if p.hooks.SetParam != nil {
		for name, env := range clip.Params {
			p.hooks.SetParam(name, env.Eval(localT))
		}
	}

	if clip.XFadeS > 0 {
		remain := clip.DurationS - localT
		if remain <= clip.XFadeS {
			next := p.nextIndex()
			if !p.armed && next != -1 && p.hooks.ArmNext != nil {
				if err := p.hooks.ArmNext(p.prog.Clips[next].Pattern); err != nil {
					log.Warn().Err(err).Str("pattern", p.prog.Clips[next].Pattern).Msg("playlist arm")
				} else {
					p.armed = true
				}
			}
			if p.armed {
				alpha := math.Min(math.Max(1-remain/clip.XFadeS, 0), 1)
				if alpha < 1 && alpha != p.lastAlpha {
					p.crossfade(alpha)
					p.lastAlpha = alpha
				}
			}
		}
	}

	if localT >= clip.DurationS {
		p.advanceClip()
	}
}

func (p *Player) clipAndLocalT() (Clip, float64) {
	acc := 0.0
	for i := 0; i < p.idx; i++ {
		acc += p.prog.Clips[i].DurationS
	}
	return p.prog.Clips[p.idx], p.nowS - acc
}

func (p *Player) totalDuration() float64 {
	total := 0.0
	for _, c := range p.prog.Clips {
		total += c.DurationS
	}
	return total
}

func (p *Player) nextIndex() int {
	ni := p.idx + 1
	if ni < len(p.prog.Clips) {
		return ni
	}
	if p.prog.Loop {
		return 0
	}
	return -1
}

func (p *Player) advanceClip() {
	next := p.nextIndex()
	if next == -1 {
		p.state = Idle
		p.resetLocked()
		p.crossfade(0)
		log.Info().Msg("playlist finished")
		return
	}
	if next == 0 {
		// keep the overshoot so clip timing does not drift across loops
		p.nowS -= p.totalDuration()
	}
	p.idx = next
	if p.armed {
		p.crossfade(1)
	} else if err := p.selectLocked(); err != nil {
		log.Warn().Err(err).Msg("playlist select")
	}
	p.armed = false
	p.lastAlpha = 0
}

func (p *Player) selectLocked() error {
	if p.hooks.Select == nil {
		return nil
	}
	name := p.prog.Clips[p.idx].Pattern
	if err := p.hooks.Select(name); err != nil {
		return fmt.Errorf("playlist select %s: %w", name, err)
	}
	return nil
}

func (p *Player) crossfade(alpha float64) {
	if p.hooks.SetCrossfade != nil {
		p.hooks.SetCrossfade(alpha)
	}
}
