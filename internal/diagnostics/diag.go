// Package diagnostics describes problems pushed to /diag subscribers.
package diagnostics

import (
	"errors"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

const (
	CodePatternFailed = "pattern_failed"
	CodeDriverWrite   = "driver_write"
	CodeTestStarted   = "test_started"
	CodeTestDone      = "test_done"
	CodePlaylist      = "playlist"
)

type Diagnostic struct {
	Time           time.Time      `json:"time"`
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

func New(sev Severity, code, summary string) Diagnostic {
	return Diagnostic{Time: time.Now(), Severity: sev, Code: code, Summary: summary}
}

// FromRender classifies an engine error.
func FromRender(err error) Diagnostic {
	if errors.Is(err, render.ErrPatternFailed) {
		d := New(Err, CodePatternFailed, "pattern crashed; holding the last frame")
		d.Detail = err.Error()
		d.LikelyCauses = []string{"out of range pixel access", "bad control input"}
		d.SuggestedFixes = []string{"select another pattern", "check the log for the panic value"}
		return d
	}
	d := New(Warn, CodeDriverWrite, "LED driver write failed")
	d.Detail = err.Error()
	d.LikelyCauses = []string{"SPI port unavailable", "DDP target unreachable"}
	d.SuggestedFixes = []string{"check wiring and power", "verify driver settings in the config"}
	return d
}

// Ring keeps the most recent diagnostics for late subscribers.
type Ring struct {
	mu   sync.Mutex
	buf  []Diagnostic
	next int
	full bool
}

func NewRing(n int) *Ring {
	return &Ring{buf: make([]Diagnostic, max(n, 1))}
}

func (r *Ring) Push(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = d
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// Recent returns the kept diagnostics, oldest first.
func (r *Ring) Recent() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Diagnostic(nil), r.buf[:r.next]...)
	}
	out := append([]Diagnostic(nil), r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}
