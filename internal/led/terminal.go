package led

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
)

// Terminal previews the board in a true-colour terminal, two cells per LED.
type Terminal struct {
	Grid layout.Grid

	mu     sync.Mutex
	screen tcell.Screen
	status string
	closed bool
}

// OpenTerminal takes over the controlling terminal.
func OpenTerminal(g layout.Grid) (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("terminal init: %w", err)
	}
	return NewTerminal(s, g), nil
}

// NewTerminal draws onto an initialised screen.
func NewTerminal(s tcell.Screen, g layout.Grid) *Terminal {
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	s.Clear()
	return &Terminal{Grid: g, screen: s}
}

// Screen exposes the screen for input polling.
func (t *Terminal) Screen() tcell.Screen { return t.screen }

// SetStatus sets the line printed under the board.
func (t *Terminal) SetStatus(s string) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Write takes a frame in physical order and maps it back onto the grid.
func (t *Terminal) Write(rgb []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if err := checkLen(rgb, t.Grid.Count()); err != nil {
		return err
	}
	for i := 0; i < t.Grid.Count(); i++ {
		x, y := t.Grid.XY(i)
		c := tcell.NewRGBColor(int32(rgb[i*3]), int32(rgb[i*3+1]), int32(rgb[i*3+2]))
		st := tcell.StyleDefault.Foreground(c).Background(tcell.ColorBlack)
		t.screen.SetContent(2*x, y, '█', nil, st)
		t.screen.SetContent(2*x+1, y, '█', nil, st)
	}
	row := t.Grid.Height + 1
	w, _ := t.screen.Size()
	text := []rune(t.status)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(text) {
			r = text[x]
		}
		t.screen.SetContent(x, row, r, nil, tcell.StyleDefault)
	}
	t.screen.Show()
	return nil
}

func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		t.screen.Fini()
	}
	return nil
}
