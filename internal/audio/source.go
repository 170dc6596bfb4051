// Package audio turns a beep sample stream into the 16 band levels used by
// the audio bars pattern.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fogleman/ease"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog/log"
)

// SampleRate is the analysis rate. One block of Samples spans ~25ms.
const SampleRate = beep.SampleRate(40000)

var ErrUnknownSource = errors.New("unknown audio source")

// Source is an endless sample stream plus whatever needs closing behind it.
type Source struct {
	beep.Streamer
	Name   string
	closer io.Closer
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open builds a source from a config string:
//
//	demo        synthesized beat (default)
//	silence     nothing
//	sine:<hz>   steady test tone
//	wav:<path>  looped wav file, resampled to SampleRate
func Open(spec string) (*Source, error) {
	kind, arg, _ := strings.Cut(spec, ":")
	switch kind {
	case "", "demo":
		s, err := Demo(SampleRate)
		if err != nil {
			return nil, err
		}
		return &Source{Streamer: s, Name: "demo"}, nil
	case "silence":
		return &Source{Streamer: beep.Silence(-1), Name: "silence"}, nil
	case "sine":
		hz, err := strconv.ParseFloat(arg, 64)
		if err != nil || hz <= 0 {
			return nil, fmt.Errorf("%w: sine frequency %q", ErrUnknownSource, arg)
		}
		s, err := generators.SineTone(SampleRate, hz)
		if err != nil {
			return nil, fmt.Errorf("sine %v: %w", hz, err)
		}
		return &Source{Streamer: s, Name: spec}, nil
	case "wav":
		return openWav(arg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, spec)
}

func openWav(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("rate", int(format.SampleRate)).Msg("audio wav source")
	var out beep.Streamer = beep.Loop(-1, s)
	if format.SampleRate != SampleRate {
		out = beep.Resample(4, format.SampleRate, SampleRate, out)
	}
	return &Source{Streamer: out, Name: "wav:" + path, closer: s}, nil
}

// Demo mixes three tones, each struck on its own rhythm, so the bars have
// something to dance to without a microphone.
func Demo(sr beep.SampleRate) (beep.Streamer, error) {
	voices := []struct {
		hz     float64
		period time.Duration
		volume float64
	}{
		{120, 500 * time.Millisecond, 0},
		{430, 375 * time.Millisecond, -0.5},
		{940, 250 * time.Millisecond, -1},
	}
	var mix []beep.Streamer
	for _, v := range voices {
		tone, err := generators.SineTone(sr, v.hz)
		if err != nil {
			return nil, fmt.Errorf("demo tone %v: %w", v.hz, err)
		}
		struck := &strike{Streamer: tone, period: sr.N(v.period)}
		mix = append(mix, &effects.Volume{Streamer: struck, Base: 2, Volume: v.volume})
	}
	return beep.Mix(mix...), nil
}

// strike shapes a streamer with a repeating percussive decay.
type strike struct {
	beep.Streamer
	period int
	pos    int
}

func (s *strike) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		t := float64(s.pos%s.period) / float64(s.period)
		g := ease.OutQuad(1 - t)
		samples[i][0] *= g
		samples[i][1] *= g
		s.pos++
	}
	return n, ok
}
