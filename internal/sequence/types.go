// Package sequence plays a playlist of patterns with crossfades and param
// automation.
package sequence

import "errors"

var (
	ErrEmptyProgram = errors.New("program has no clips")
	ErrBadClip      = errors.New("invalid clip")
)

// Keyframe is a value at time T (seconds into the clip). Ease shapes the
// segment that starts at this keyframe.
type Keyframe struct {
	T    float64 `yaml:"t" json:"t"`
	V    float64 `yaml:"v" json:"v"`
	Ease string  `yaml:"ease,omitempty" json:"ease,omitempty"`
}

// Envelope is a list of keyframes sorted by T.
type Envelope []Keyframe

// Clip shows one pattern for DurationS seconds, fading into the next clip
// over its last XFadeS seconds.
type Clip struct {
	Pattern   string              `yaml:"pattern" json:"pattern"`
	DurationS float64             `yaml:"duration_s" json:"duration_s"`
	XFadeS    float64             `yaml:"xfade_s,omitempty" json:"xfade_s,omitempty"`
	Params    map[string]Envelope `yaml:"params,omitempty" json:"params,omitempty"`
}

type Program struct {
	Loop  bool   `yaml:"loop" json:"loop"`
	Clips []Clip `yaml:"clips" json:"clips"`
}

type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks connect the player to the render engine.
type Hooks struct {
	Select       func(pattern string) error
	ArmNext      func(pattern string) error
	SetCrossfade func(alpha float64) // 1 promotes the armed pattern
	SetParam     func(name string, v float64)
}
