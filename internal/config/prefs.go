package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// UserPrefs is what survives a restart: the last selection and params.
type UserPrefs struct {
	Pattern    int `yaml:"pattern"`
	Brightness int `yaml:"brightness"`
	Speed      int `yaml:"speed"`
}

func DefaultPrefs() UserPrefs {
	return UserPrefs{Pattern: 0, Brightness: 100, Speed: 100}
}

// LoadPrefs reads path. A missing file gives the defaults; an out of range
// pattern (count patterns registered) resets to 0.
func LoadPrefs(path string, count int) (UserPrefs, error) {
	p := DefaultPrefs()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read prefs: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return DefaultPrefs(), fmt.Errorf("parse prefs %s: %w", path, err)
	}
	if p.Pattern < 0 || p.Pattern >= count {
		p.Pattern = 0
	}
	p.Brightness = clampByte(p.Brightness)
	p.Speed = clampByte(p.Speed)
	return p, nil
}

func SavePrefs(path string, p UserPrefs) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func clampByte(v int) int {
	return min(max(v, 0), 255)
}

// PrefsSaver writes prefs at most once per interval and only on change.
type PrefsSaver struct {
	Path  string
	Every time.Duration

	mu    sync.Mutex
	saved UserPrefs
	last  time.Time
}

// NewPrefsSaver starts the interval at construction, so the first change is
// written no sooner than every after startup.
func NewPrefsSaver(path string, every time.Duration, loaded UserPrefs) *PrefsSaver {
	return newPrefsSaverAt(path, every, loaded, time.Now())
}

func newPrefsSaverAt(path string, every time.Duration, loaded UserPrefs, start time.Time) *PrefsSaver {
	return &PrefsSaver{Path: path, Every: every, saved: loaded, last: start}
}

// Due reports whether Maybe would write cur at now. It does no I/O.
func (s *PrefsSaver) Due(now time.Time, cur UserPrefs) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.due(now, cur)
}

func (s *PrefsSaver) due(now time.Time, cur UserPrefs) bool {
	return cur != s.saved && now.Sub(s.last) >= s.Every
}

// Maybe saves cur when it differs from the last save and the interval has
// passed. It reports whether a write happened.
func (s *PrefsSaver) Maybe(now time.Time, cur UserPrefs) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.due(now, cur) {
		return false, nil
	}
	if err := SavePrefs(s.Path, cur); err != nil {
		return false, err
	}
	s.saved = cur
	s.last = now
	return true, nil
}

// Flush saves cur now if it differs from the last save.
func (s *PrefsSaver) Flush(cur UserPrefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur == s.saved {
		return nil
	}
	if err := SavePrefs(s.Path, cur); err != nil {
		return err
	}
	s.saved = cur
	s.last = time.Now()
	return nil
}
