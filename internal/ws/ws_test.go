package ws

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/coreman2200/funtimes-pixelboard/internal/diagnostics"
	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/canvas"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/classic"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/clock"
	"github.com/coreman2200/funtimes-pixelboard/internal/sequence"
)

func newServer(t *testing.T) (*State, *httptest.Server) {
	t.Helper()
	g := layout.Default()
	reg := render.NewRegistry()
	reg.Register(&classic.Rainbow{})
	reg.Register(clock.New())
	cv := canvas.NewCanvas(g.Width, g.Height)
	reg.Register(cv)
	vid := canvas.NewVideo(g.Width, g.Height)
	reg.Register(vid)
	e, err := render.NewEngine(g, reg, nil, 0, 1)
	require.NoError(t, err)
	e.SetPost(render.PostPipeline{})

	s := NewState(e, 60, "sim")
	s.Canvas, s.Video = cv, vid
	mux := http.NewServeMux()
	s.Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return s, srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b), resp.Header
}

func TestParamRoutes(t *testing.T) {
	s, srv := newServer(t)
	tests := []struct {
		path string
		code int
		body string
	}{
		{"/pattern?value=1", 200, "Pattern updated"},
		{"/pattern?value=9", 400, "Invalid pattern number"},
		{"/pattern?value=x", 400, "Invalid pattern number"},
		{"/pattern", 400, "Missing value parameter"},
		{"/brightness?value=42", 200, "Brightness updated"},
		{"/brightness?value=256", 400, "Invalid brightness value"},
		{"/speed?value=7", 200, "Speed updated"},
		{"/speed?value=-1", 400, "Invalid speed value"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			code, body, h := get(t, srv, tc.path)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.body, body)
			assert.Equal(t, "text/plain", h.Get("Content-Type"))
		})
	}
	assert.Equal(t, 1, s.Eng.Current())
	assert.Equal(t, uint8(42), s.Eng.Params().Brightness)
	assert.Equal(t, uint8(7), s.Eng.Params().Speed)

	code, _, _ := get(t, srv, "/next")
	assert.Equal(t, 200, code)
	assert.Equal(t, 2, s.Eng.Current())
}

func TestPatternsAndPixelStatus(t *testing.T) {
	s, srv := newServer(t)
	code, body, _ := get(t, srv, "/patterns")
	require.Equal(t, 200, code)
	var doc struct {
		Current  int                 `json:"current"`
		Patterns []render.Descriptor `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.Len(t, doc.Patterns, 4)
	assert.Equal(t, "Clock Countdown", doc.Patterns[1].Name)

	_, list, _ := get(t, srv, "/list")
	assert.True(t, strings.HasPrefix(list, "0: Rainbow Drift\n"))

	require.NoError(t, s.Eng.RenderOnce(0))
	code, raw, h := get(t, srv, "/pixelStatus")
	assert.Equal(t, 200, code)
	assert.Len(t, raw, 768)
	assert.Equal(t, "application/octet-stream", h.Get("Content-Type"))
	assert.Equal(t, "no-store", h.Get("Cache-Control"))
	assert.Equal(t, string(s.Eng.Snapshot()), raw)
}

func TestPatternControlRoutes(t *testing.T) {
	_, srv := newServer(t)

	// the clock is not showing; controls still land
	code, body, _ := get(t, srv, "/clockcontrol?action=start&minutes=2&seconds=30")
	require.Equal(t, 200, code, body)
	_, body, _ = get(t, srv, "/clockstatus")
	var st clock.Status
	require.NoError(t, json.Unmarshal([]byte(body), &st))
	assert.Equal(t, 2, st.TotalMinutes)
	assert.False(t, st.Paused)

	code, _, _ = get(t, srv, "/clockcontrol")
	assert.Equal(t, 400, code, "missing action")
	code, _, _ = get(t, srv, "/clockcontrol?action=explode")
	assert.Equal(t, 400, code)
	code, _, _ = get(t, srv, "/snakeControl?dir=up")
	assert.Equal(t, 404, code, "not registered")
	code, _, _ = get(t, srv, "/drawpixel?x=16&y=0&r=1&g=2&b=3")
	assert.Equal(t, 400, code)
	code, _, _ = get(t, srv, "/drawpixel?x=3&y=4&r=1&g=2&b=3")
	assert.Equal(t, 200, code)
	code, _, _ = get(t, srv, "/playlist?action=play")
	assert.Equal(t, 409, code)
}

func TestUploads(t *testing.T) {
	s, srv := newServer(t)

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 200, 255
	}
	img.Set(0, 0, color.RGBA{A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	resp, err := http.Post(srv.URL+"/drawpng", "image/png", &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.InDelta(t, 200, int(s.Canvas.At(8, 8).R), 2)

	resp, err = http.Post(srv.URL+"/drawpng", "image/png", strings.NewReader("nope"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)

	frame := bytes.Repeat([]byte{1, 2, 3}, 256)
	resp, err = http.Post(srv.URL+"/videoframe", "application/octet-stream", bytes.NewReader(frame))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, uint64(1), s.Video.Frames)

	resp, err = http.Post(srv.URL+"/videoframe", "application/octet-stream", bytes.NewReader(frame[:767]))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)

	code, _, _ := get(t, srv, "/videoframe")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 200, StatusCode(nil))
	assert.Equal(t, 404, StatusCode(render.ErrNotControllable))
	assert.Equal(t, 400, StatusCode(render.ErrMissingValue))
	assert.Equal(t, 500, StatusCode(io.ErrUnexpectedEOF))
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	return c
}

func TestControlSocket(t *testing.T) {
	s, srv := newServer(t)
	c := dial(t, srv, "/control")

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"pattern":1,"brightness":30}`)))
	var reply controlReply
	require.NoError(t, c.ReadJSON(&reply))
	assert.True(t, reply.OK)
	assert.Equal(t, "Clock Countdown", reply.Pattern)
	assert.Equal(t, uint8(30), reply.Brightness)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"runTest":"row_sweep"}`)))
	require.NoError(t, c.ReadJSON(&reply))
	assert.True(t, reply.OK)
	assert.Equal(t, "row_sweep", reply.Test)
	assert.True(t, s.Eng.Overridden())

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"runTest":"plane_z"}`)))
	require.NoError(t, c.ReadJSON(&reply))
	assert.False(t, reply.OK)
	assert.Contains(t, reply.Error, "unknown test")

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"brightness":999}`)))
	require.NoError(t, c.ReadJSON(&reply))
	assert.False(t, reply.OK)
	assert.Equal(t, uint8(30), reply.Brightness)
}

func TestFrameAndDiagSockets(t *testing.T) {
	s, srv := newServer(t)
	s.PushDiag(diag.New(diag.Info, "boot", "hello"))

	d := dial(t, srv, "/diag")
	var got diag.Diagnostic
	require.NoError(t, d.ReadJSON(&got))
	assert.Equal(t, "boot", got.Code, "recent diagnostics replay on connect")

	f := dial(t, srv, "/ws")
	var top map[string]any
	require.NoError(t, f.ReadJSON(&top))
	assert.Equal(t, 16.0, top["width"])

	require.Eventually(t, func() bool { return s.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)
	s.BroadcastFrame(7, []byte{1, 2, 3})
	var frame struct {
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	require.NoError(t, f.ReadJSON(&frame))
	assert.Equal(t, uint64(7), frame.FrameID)
	assert.Equal(t, []byte{1, 2, 3}, frame.RGB)

	// a finished test is reported once
	require.NoError(t, s.RunTest("rgb_channels"))
	require.NoError(t, d.ReadJSON(&got))
	assert.Equal(t, diag.CodeTestStarted, got.Code)
	s.Eng.SetOverride(nil)
	s.CheckTest()
	require.NoError(t, d.ReadJSON(&got))
	assert.Equal(t, diag.CodeTestDone, got.Code)
}

func TestStalledClientDropsInsteadOfBlocking(t *testing.T) {
	s, _ := newServer(t)
	// no writePump drains these queues
	slow := newClient(nil, 1)
	slowDiag := newClient(nil, 1)
	s.mu.Lock()
	s.clients[slow] = true
	s.diagClients[slowDiag] = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			s.BroadcastFrame(uint64(i), []byte{1, 2, 3})
			s.PushDiag(diag.New(diag.Info, "tick", "x"))
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}
	assert.Equal(t, uint64(9), slow.dropped.Load())
	assert.Equal(t, uint64(9), slowDiag.dropped.Load())
	assert.Len(t, slow.send, 1)

	var first struct {
		FrameID uint64 `json:"frame_id"`
	}
	require.NoError(t, json.Unmarshal(<-slow.send, &first))
	assert.Equal(t, uint64(0), first.FrameID, "the oldest queued frame is kept")
}

func TestHealthAndPlaylist(t *testing.T) {
	s, srv := newServer(t)
	require.NoError(t, s.Eng.RenderOnce(0))
	_, body, _ := get(t, srv, "/health")
	var h health
	require.NoError(t, json.Unmarshal([]byte(body), &h))
	assert.Equal(t, uint64(1), h.FrameID)
	assert.Equal(t, 256, h.Count)
	assert.Equal(t, "sim", h.Driver)
	assert.Equal(t, "Rainbow Drift", h.Pattern)

	s.Player = sequence.NewPlayer(sequence.Hooks{Select: s.Eng.SelectByName})
	require.NoError(t, s.Player.Load(sequence.Program{Clips: []sequence.Clip{{Pattern: "Draw", DurationS: 5}}}))
	code, _, _ := get(t, srv, "/playlist?action=play")
	assert.Equal(t, 200, code)
	assert.Equal(t, "Draw", s.Eng.CurrentName())
	code, _, _ = get(t, srv, "/playlist?action=rewind")
	assert.Equal(t, 400, code)
	_, body, _ = get(t, srv, "/playlist")
	assert.Contains(t, body, `"state":"running"`)
}
