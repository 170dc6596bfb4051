// Package ws is the control layer: the board's HTTP routes plus the frame,
// diagnostics and control websockets.
package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/funtimes-pixelboard/internal/diagnostics"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/canvas"
	"github.com/coreman2200/funtimes-pixelboard/internal/sequence"
	"github.com/coreman2200/funtimes-pixelboard/internal/tests"
)

const (
	writeWait = 200 * time.Millisecond

	// per-client send queue depths
	frameQueue = 4
	diagQueue  = 64
)

// client owns one socket. Broadcasts go through send and a single writePump
// goroutine; a full queue drops the message instead of stalling the sender.
type client struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

func newClient(conn *websocket.Conn, depth int) *client {
	return &client{conn: conn, send: make(chan []byte, depth), done: make(chan struct{})}
}

// queue hands b to the writer without blocking. It reports false when the
// message was dropped.
func (c *client) queue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		c.dropped.Add(1)
		return false
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// writePump writes queued messages until the client closes or a write fails.
func (c *client) writePump() {
	defer c.conn.Close()
	for {
		select {
		case <-c.done:
			return
		case b := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Debug().Err(err).Msg("ws write")
				return
			}
		}
	}
}

type State struct {
	Eng    *render.Engine
	Player *sequence.Player
	Canvas *canvas.Canvas
	Video  *canvas.Video

	FPS           int
	CurrentDriver string

	mu          sync.RWMutex
	startTime   time.Time
	clients     map[*client]bool
	diagClients map[*client]bool
	diags       *diag.Ring
	test        *tests.Runner
}

func NewState(eng *render.Engine, fps int, driver string) *State {
	return &State{
		Eng:           eng,
		FPS:           fps,
		CurrentDriver: driver,
		startTime:     time.Now(),
		clients:       map[*client]bool{},
		diagClients:   map[*client]bool{},
		diags:         diag.NewRing(32),
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleFramesWS streams {t, frame_id, rgb} for every rendered frame.
func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn, frameQueue)
	c.queue(s.topology())
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()
	go c.writePump()
	go s.drain(c, s.clients)
}

// HandleDiagWS replays recent diagnostics, then pushes new ones.
func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn, diagQueue)
	s.mu.Lock()
	for _, d := range s.diags.Recent() {
		b, _ := json.Marshal(d)
		c.queue(b)
	}
	s.diagClients[c] = true
	s.mu.Unlock()
	go c.writePump()
	go s.drain(c, s.diagClients)
}

// drain reads until the peer goes away, then drops it from set.
func (s *State) drain(c *client, set map[*client]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, c)
		s.mu.Unlock()
		c.close()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// controlMsg is a render.Command plus the socket-only extras.
type controlMsg struct {
	render.Command
	RunTest  string `json:"runTest,omitempty"`
	Playlist string `json:"playlist,omitempty"`
}

type controlReply struct {
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	Index      int    `json:"index"`
	Pattern    string `json:"pattern"`
	Brightness uint8  `json:"brightness"`
	Speed      uint8  `json:"speed"`
	Test       string `json:"test,omitempty"`
	Playlist   string `json:"playlist,omitempty"`
}

// HandleControlWS applies one JSON message per frame and answers with the
// resulting state.
func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		reply := s.applyControl(data)
		b, _ := json.Marshal(reply)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (s *State) applyControl(data []byte) controlReply {
	var msg controlMsg
	err := json.Unmarshal(data, &msg)
	if err == nil && !msg.Empty() {
		err = s.Eng.Apply(msg.Command)
	}
	if err == nil && msg.RunTest != "" {
		err = s.RunTest(tests.Kind(msg.RunTest))
	}
	if err == nil && msg.Playlist != "" {
		err = s.PlaylistAction(msg.Playlist)
	}
	reply := s.reply()
	if err != nil {
		reply.OK = false
		reply.Error = err.Error()
	}
	return reply
}

func (s *State) reply() controlReply {
	p := s.Eng.Params()
	out := controlReply{
		OK:         true,
		Index:      s.Eng.Current(),
		Pattern:    s.Eng.CurrentName(),
		Brightness: p.Brightness,
		Speed:      p.Speed,
	}
	s.mu.RLock()
	if s.test != nil && s.Eng.Overridden() {
		out.Test = string(s.test.Kind())
	}
	s.mu.RUnlock()
	if s.Player != nil {
		out.Playlist = string(s.Player.State())
	}
	return out
}

// RunTest puts a wiring test on the panel until it finishes.
func (s *State) RunTest(kind tests.Kind) error {
	r, err := tests.NewRunner(kind, s.Eng.Grid)
	if err != nil {
		d := diag.New(diag.Warn, diag.CodeTestStarted, "unknown test name")
		d.Evidence = map[string]any{"name": string(kind), "known": tests.Kinds()}
		s.PushDiag(d)
		return err
	}
	s.mu.Lock()
	s.test = r
	s.mu.Unlock()
	s.Eng.SetOverride(r)
	d := diag.New(diag.Info, diag.CodeTestStarted, "running test")
	d.Detail = string(kind)
	s.PushDiag(d)
	return nil
}

// CheckTest reports a finished wiring test once.
func (s *State) CheckTest() {
	s.mu.Lock()
	r := s.test
	if r == nil || s.Eng.Overridden() {
		s.mu.Unlock()
		return
	}
	s.test = nil
	s.mu.Unlock()
	d := diag.New(diag.Info, diag.CodeTestDone, "test complete")
	d.Detail = string(r.Kind())
	d.Evidence = map[string]any{"steps": r.Steps()}
	s.PushDiag(d)
}

var ErrNoPlaylist = errors.New("no playlist configured")

func (s *State) PlaylistAction(action string) error {
	if s.Player == nil {
		return ErrNoPlaylist
	}
	switch action {
	case "play":
		return s.Player.Play()
	case "pause":
		s.Player.Pause()
	case "stop":
		s.Player.Stop()
	default:
		return render.ErrUnknownAction
	}
	return nil
}

type health struct {
	FrameID    uint64  `json:"frame_id"`
	UptimeS    float64 `json:"uptime_s"`
	Count      int     `json:"count"`
	FPS        int     `json:"fps"`
	Pattern    string  `json:"pattern"`
	Index      int     `json:"index"`
	Brightness uint8   `json:"brightness"`
	Speed      uint8   `json:"speed"`
	Driver     string  `json:"driver"`
	RenderMS   float64 `json:"render_ms"`
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	p := s.Eng.Params()
	resp := health{
		FrameID:    s.Eng.FrameID(),
		UptimeS:    time.Since(s.startTime).Seconds(),
		Count:      s.Eng.Grid.Count(),
		FPS:        s.FPS,
		Pattern:    s.Eng.CurrentName(),
		Index:      s.Eng.Current(),
		Brightness: p.Brightness,
		Speed:      p.Speed,
		Driver:     s.CurrentDriver,
		RenderMS:   s.Eng.LastTiming().RenderMS,
	}
	writeJSON(w, resp)
}

func (s *State) topology() []byte {
	b, _ := json.Marshal(map[string]any{
		"width":  s.Eng.Grid.Width,
		"height": s.Eng.Grid.Height,
		"driver": s.CurrentDriver,
	})
	return b
}

// BroadcastFrame sends a row-major frame copy to every /ws client.
func (s *State) BroadcastFrame(id uint64, rgb []byte) {
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		c.queue(b)
	}
}

// Clients is the number of /ws subscribers.
func (s *State) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *State) PushDiag(d diag.Diagnostic) {
	s.diags.Push(d)
	b, _ := json.Marshal(d)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.diagClients {
		if !c.queue(b) {
			log.Debug().Str("code", d.Code).Msg("diag dropped for slow client")
		}
	}
}
