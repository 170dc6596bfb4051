package render

import (
	"math"
	"time"
)

// Integer helpers in the style of 8-bit LED libraries: every value is a
// byte, and 256 steps make a full turn.

func Scale8(i, scale uint8) uint8 {
	return uint8((uint16(i) * (1 + uint16(scale))) >> 8)
}

func QAdd8(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func QSub8(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}

// Sin8 maps theta 0..255 (one period) to 1..255 centred on 128.
func Sin8(theta uint8) uint8 {
	v := math.Sin(float64(theta) * 2 * math.Pi / 256)
	return uint8(math.Round(128 + v*127))
}

// Beat16 is a sawtooth 0..65535 that wraps bpm times per minute.
func Beat16(bpm float64, now time.Duration) uint16 {
	ms := float64(now.Milliseconds())
	return uint16(uint64(ms*bpm*65536/60000) & 0xFFFF)
}

func Beat8(bpm float64, now time.Duration) uint8 {
	return uint8(Beat16(bpm, now) >> 8)
}

// BeatSin8 oscillates between lo and hi at bpm.
func BeatSin8(bpm float64, lo, hi uint8, now time.Duration) uint8 {
	beat := Sin8(Beat8(bpm, now))
	return lo + Scale8(beat, hi-lo)
}

// BeatSin16 oscillates between lo and hi at bpm with 16-bit resolution.
func BeatSin16(bpm float64, lo, hi int, now time.Duration) int {
	phase := float64(Beat16(bpm, now)) / 65536
	s := (math.Sin(phase*2*math.Pi) + 1) / 2
	return lo + int(s*float64(hi-lo))
}

// Random8 returns a value in [lo, hi).
func Random8(p *Params, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + p.Rand.Intn(hi-lo)
}

// MapRange is a linear remap of v from [inLo,inHi] to [outLo,outHi].
func MapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	return (v-inLo)*(outHi-outLo)/(inHi-inLo) + outLo
}
