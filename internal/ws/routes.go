package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
	"github.com/coreman2200/funtimes-pixelboard/internal/render/scenes/canvas"
)

// Pattern names the routes address.
const (
	SnakeName  = "Snake Game"
	TetrisName = "Tetris Game"
	ClockName  = "Clock Countdown"
	AudioName  = "Audio Bars"
	DrawName   = "Draw"
	VideoName  = "Video"
	TypeName   = "Type"
)

// Routes registers every HTTP and websocket endpoint on mux.
func (s *State) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/pattern", s.byteOrIndex("pattern", "Pattern updated", "Invalid pattern number"))
	mux.HandleFunc("/brightness", s.byteOrIndex("brightness", "Brightness updated", "Invalid brightness value"))
	mux.HandleFunc("/speed", s.byteOrIndex("speed", "Speed updated", "Invalid speed value"))
	mux.HandleFunc("/next", s.handleNext)
	mux.HandleFunc("/patterns", s.handlePatterns)
	mux.HandleFunc("/list", s.handleList)
	mux.HandleFunc("/pixelStatus", s.handlePixelStatus)

	mux.HandleFunc("/snakeControl", s.control(SnakeName, ""))
	mux.HandleFunc("/snakeState", s.status(SnakeName))
	mux.HandleFunc("/tetrisControl", s.control(TetrisName, ""))
	mux.HandleFunc("/tetrisState", s.status(TetrisName))
	mux.HandleFunc("/clockcontrol", s.control(ClockName, ""))
	mux.HandleFunc("/clockstatus", s.status(ClockName))
	mux.HandleFunc("/audioupdate", s.control(AudioName, "audioupdate"))
	mux.HandleFunc("/audiostatus", s.status(AudioName))

	mux.HandleFunc("/drawpixel", s.control(DrawName, "drawpixel"))
	mux.HandleFunc("/drawclear", s.control(DrawName, "drawclear"))
	mux.HandleFunc("/drawimage", s.control(DrawName, "drawimage"))
	mux.HandleFunc("/drawpng", s.handleDrawPNG)
	mux.HandleFunc("/videoframe", s.handleVideoFrame)
	mux.HandleFunc("/videocontrol", s.control(VideoName, ""))
	mux.HandleFunc("/videostatus", s.status(VideoName))
	mux.HandleFunc("/type", s.control(TypeName, "type"))
	mux.HandleFunc("/typestatus", s.status(TypeName))
	mux.HandleFunc("/playlist", s.handlePlaylist)

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
}

func text(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, msg)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write json")
	}
}

// StatusCode maps control errors onto HTTP codes.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, render.ErrUnknownPattern), errors.Is(err, render.ErrNotControllable):
		return http.StatusNotFound
	case errors.Is(err, render.ErrInvalidIndex), errors.Is(err, render.ErrInvalidValue),
		errors.Is(err, render.ErrMissingValue), errors.Is(err, render.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoPlaylist):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func fail(w http.ResponseWriter, err error) {
	text(w, StatusCode(err), err.Error())
}

func queryArgs(r *http.Request) render.Args {
	q := r.URL.Query()
	args := make(render.Args, len(q))
	for k, v := range q {
		if len(v) > 0 {
			args[k] = v[0]
		}
	}
	return args
}

// byteOrIndex serves /pattern, /brightness and /speed.
func (s *State) byteOrIndex(field, ok, invalid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("value")
		if raw == "" {
			text(w, http.StatusBadRequest, "Missing value parameter")
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			text(w, http.StatusBadRequest, invalid)
			return
		}
		var cmd render.Command
		switch field {
		case "pattern":
			cmd.Pattern = &v
		case "brightness":
			cmd.Brightness = &v
		case "speed":
			cmd.Speed = &v
		}
		if err := s.Eng.Apply(cmd); err != nil {
			text(w, http.StatusBadRequest, invalid)
			return
		}
		text(w, http.StatusOK, ok)
	}
}

func (s *State) handleNext(w http.ResponseWriter, r *http.Request) {
	n := s.Eng.Next()
	text(w, http.StatusOK, fmt.Sprintf("Pattern %d", n))
}

func (s *State) handlePatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"current":  s.Eng.Current(),
		"patterns": s.Eng.Reg.List(),
	})
}

// handleList is the plain "index: name" listing older clients read.
func (s *State) handleList(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	for _, d := range s.Eng.Reg.List() {
		fmt.Fprintf(&b, "%d: %s\n", d.Index, d.Name)
	}
	text(w, http.StatusOK, b.String())
}

func (s *State) handlePixelStatus(w http.ResponseWriter, r *http.Request) {
	b := s.Eng.Snapshot()
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	_, _ = w.Write(b)
}

// control forwards the query to a pattern. An empty action takes the
// "action" query value.
func (s *State) control(name, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		args := queryArgs(r)
		act := action
		if act == "" {
			act = args.Get("action")
			delete(args, "action")
		}
		if err := s.Eng.ControlByName(name, act, args); err != nil {
			fail(w, err)
			return
		}
		text(w, http.StatusOK, "OK")
	}
}

func (s *State) status(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := s.Eng.Status(name)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, st)
	}
}

func (s *State) handleDrawPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		text(w, http.StatusMethodNotAllowed, "POST an image")
		return
	}
	if s.Canvas == nil {
		fail(w, fmt.Errorf("%w: %s", render.ErrUnknownPattern, DrawName))
		return
	}
	img, format, err := canvas.DecodeImage(r.Body)
	if err != nil {
		fail(w, err)
		return
	}
	s.Eng.Do(func() { s.Canvas.LoadImage(img) })
	log.Debug().Str("format", format).Msg("drawpng")
	text(w, http.StatusOK, "OK")
}

func (s *State) handleVideoFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		text(w, http.StatusMethodNotAllowed, "POST a frame")
		return
	}
	if s.Video == nil {
		fail(w, fmt.Errorf("%w: %s", render.ErrUnknownPattern, VideoName))
		return
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, int64(s.Video.FrameSize())+1))
	if err != nil {
		text(w, http.StatusBadRequest, err.Error())
		return
	}
	s.Eng.Do(func() { err = s.Video.LoadFrame(b) })
	if err != nil {
		fail(w, err)
		return
	}
	text(w, http.StatusOK, "OK")
}

func (s *State) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" {
		if s.Player == nil {
			fail(w, ErrNoPlaylist)
			return
		}
		idx, at := s.Player.Position()
		writeJSON(w, map[string]any{"state": s.Player.State(), "clip": idx, "at_s": at})
		return
	}
	if err := s.PlaylistAction(action); err != nil {
		fail(w, err)
		return
	}
	text(w, http.StatusOK, "OK")
}
