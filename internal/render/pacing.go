package render

import "time"

// HueStep is how often the shared hue advances by one.
const HueStep = 10 * time.Millisecond

// Nap converts the global speed into a step delay: 2000/speed ms plus wait.
// Speed 0 is treated as 1.
func Nap(speed uint8, wait time.Duration) time.Duration {
	s := int64(speed)
	if s < 1 {
		s = 1
	}
	return time.Duration(2000/s)*time.Millisecond + wait
}

// Pacer gates work on elapsed time instead of sleeping.
type Pacer struct {
	last  time.Duration
	armed bool
}

// Ready reports whether at least every has elapsed since the last accepted
// step, and if so starts a new interval at now. The first call is always ready.
func (p *Pacer) Ready(now, every time.Duration) bool {
	if p.armed && now-p.last < every {
		return false
	}
	p.last = now
	p.armed = true
	return true
}

// Reset starts a new interval at now without firing.
func (p *Pacer) Reset(now time.Duration) {
	p.last = now
	p.armed = true
}

// Since returns the time elapsed since the last accepted step.
func (p *Pacer) Since(now time.Duration) time.Duration {
	if !p.armed {
		return 0
	}
	return now - p.last
}
