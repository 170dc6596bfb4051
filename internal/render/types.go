package render

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

var (
	ErrInvalidIndex    = errors.New("invalid pattern index")
	ErrUnknownPattern  = errors.New("pattern not found")
	ErrNotControllable = errors.New("pattern has no controls")
	ErrUnknownAction   = errors.New("unknown action")
	ErrMissingValue    = errors.New("missing value parameter")
	ErrInvalidValue    = errors.New("invalid value")
	ErrPatternFailed   = errors.New("pattern failed")
)

// Params is the shared runtime state handed to every Render call.
// Patterns treat it as read-only.
type Params struct {
	Brightness uint8
	Speed      uint8
	Hue        uint8         // rotating base colour, +1 every HueStep
	Now        time.Duration // monotonic time since engine start
	Rand       *rand.Rand
}

// Pattern is one self-contained frame generator.
type Pattern interface {
	Name() string
	Icon() string
	// OnActivate is called once each time the pattern is selected.
	OnActivate(p *Params)
	// Render writes one frame. It must return promptly; waiting is done
	// by comparing p.Now against the pattern's own timers.
	Render(f *Frame, p *Params)
}

// Controller is implemented by patterns that accept external actions
// (game input, clock start/pause, canvas edits ...).
type Controller interface {
	Control(action string, args Args) error
}

// Stater is implemented by patterns that expose a status document.
type Stater interface {
	Status() any
}

// Args carries named control values as received from the control layer.
type Args map[string]string

func (a Args) Has(k string) bool {
	_, ok := a[k]
	return ok
}

func (a Args) Get(k string) string { return a[k] }

// Int parses a required integer argument.
func (a Args) Int(k string) (int, error) {
	s, ok := a[k]
	if !ok || s == "" {
		return 0, fmt.Errorf("%w: %s", ErrMissingValue, k)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, k, s)
	}
	return n, nil
}

// IntOr parses an optional integer argument.
func (a Args) IntOr(k string, def int) (int, error) {
	if !a.Has(k) || a[k] == "" {
		return def, nil
	}
	return a.Int(k)
}

// FloatOr parses an optional float argument.
func (a Args) FloatOr(k string, def float64) (float64, error) {
	s, ok := a[k]
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, k, s)
	}
	return v, nil
}

// Descriptor is the public view of a registry entry.
type Descriptor struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
}

// Registry is the fixed-order pattern list. The index is the selection id.
type Registry struct {
	list   []Pattern
	byName map[string]int
}

func NewRegistry() *Registry { return &Registry{byName: map[string]int{}} }

// Register appends p and returns its index.
func (r *Registry) Register(p Pattern) int {
	if p == nil {
		return -1
	}
	r.list = append(r.list, p)
	i := len(r.list) - 1
	r.byName[p.Name()] = i
	return i
}

func (r *Registry) Count() int { return len(r.list) }

func (r *Registry) Get(i int) (Pattern, error) {
	if i < 0 || i >= len(r.list) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	return r.list[i], nil
}

func (r *Registry) Lookup(name string) (int, bool) {
	i, ok := r.byName[name]
	return i, ok
}

// Render draws one frame of pattern i.
func (r *Registry) Render(i int, f *Frame, p *Params) error {
	pt, err := r.Get(i)
	if err != nil {
		return err
	}
	pt.Render(f, p)
	return nil
}

func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.list))
	for i, p := range r.list {
		out = append(out, Descriptor{Index: i, Name: p.Name(), Icon: p.Icon()})
	}
	return out
}
