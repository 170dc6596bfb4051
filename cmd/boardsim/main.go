// Command boardsim runs the board in a terminal and maps keys onto the
// same controls the web page uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/app"
	"github.com/coreman2200/funtimes-pixelboard/internal/audio"
	"github.com/coreman2200/funtimes-pixelboard/internal/config"
	"github.com/coreman2200/funtimes-pixelboard/internal/led"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

const help = "n/space next  +/- brightness  [/] speed  arrows play  s start  r restart  a ai  q quit"

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		pattern    = flag.Int("pattern", 0, "starting pattern index")
		audioSrc   = flag.String("audio", "demo", "audio source: demo | silence | sine:<hz> | wav:<path>")
		fps        = flag.Int("fps", 30, "frames per second")
	)
	flag.Parse()

	// the screen owns stdout; logs go to a file
	logf, err := os.CreateTemp("", "boardsim-*.log")
	if err == nil {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: logf, NoColor: true, TimeFormat: time.Kitchen})
		defer logf.Close()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	grid := cfg.Grid.Layout()

	term, err := led.OpenTerminal(grid)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer term.Close()

	src, err := audio.Open(*audioSrc)
	if err != nil {
		log.Warn().Err(err).Msg("audio source; using silence")
		src, _ = audio.Open("silence")
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	prefs := config.DefaultPrefs()
	prefs.Pattern = *pattern
	core, err := app.InitCore(ctx, app.Options{
		Grid:      grid,
		Driver:    term,
		FPS:       *fps,
		Seed:      time.Now().UnixNano(),
		AIAttract: cfg.Games.AIAttract,
		Limits: render.Limits{
			WhiteCap: cfg.Power.WhiteCap,
			BudgetMA: cfg.Power.BudgetMA,
			ChanMA:   cfg.Power.ChanMA,
			Knee:     cfg.Power.Knee,
		},
		Audio: audio.NewAnalyzer(src, cfg.Audio.Tuning),
		Prefs: prefs,
	})
	if err != nil {
		term.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer core.Stop()

	status := func() {
		p := core.Eng.Params()
		term.SetStatus(fmt.Sprintf("%d %s  bri %d  spd %d  %.1fms   %s",
			core.Eng.Current(), core.Eng.CurrentName(), p.Brightness, p.Speed, core.Eng.LastTiming().TotalMS, help))
	}
	status()

	screen := term.Screen()
	for {
		ev, ok := screen.PollEvent().(*tcell.EventKey)
		if !ok {
			continue
		}
		if quit := handleKey(core.Eng, ev); quit {
			return
		}
		status()
	}
}

func handleKey(eng *render.Engine, ev *tcell.EventKey) (quit bool) {
	var cmd render.Command
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		return gameKey(eng, "up")
	case tcell.KeyDown:
		return gameKey(eng, "down")
	case tcell.KeyLeft:
		return gameKey(eng, "left")
	case tcell.KeyRight:
		return gameKey(eng, "right")
	case tcell.KeyRune:
	default:
		return false
	}

	p := eng.Params()
	switch ev.Rune() {
	case 'q':
		return true
	case 'n', ' ':
		cmd.Next = true
	case '+', '=':
		cmd.Brightness = ptr(min(int(p.Brightness)+16, 255))
	case '-':
		cmd.Brightness = ptr(max(int(p.Brightness)-16, 0))
	case ']':
		cmd.Speed = ptr(min(int(p.Speed)+16, 255))
	case '[':
		cmd.Speed = ptr(max(int(p.Speed)-16, 0))
	case 's':
		cmd.Target, cmd.Action = eng.CurrentName(), "start"
	case 'r':
		cmd.Target, cmd.Action = eng.CurrentName(), "restart"
	case 'a':
		cmd.Target, cmd.Action = eng.CurrentName(), "aiOff"
	case 'A':
		cmd.Target, cmd.Action = eng.CurrentName(), "aiOn"
	default:
		return false
	}
	if err := eng.Apply(cmd); err != nil {
		log.Debug().Err(err).Msg("key")
	}
	return false
}

// gameKey steers the snake, or moves the tetris piece with up as rotate.
func gameKey(eng *render.Engine, dir string) bool {
	name := eng.CurrentName()
	action := dir
	if name == "Tetris Game" && dir == "up" {
		action = "rotate"
	}
	if err := eng.ControlByName(name, action, nil); err != nil {
		log.Debug().Err(err).Str("pattern", name).Msg("key")
	}
	return false
}

func ptr[T any](v T) *T { return &v }
