package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/app"
	"github.com/coreman2200/funtimes-pixelboard/internal/audio"
	"github.com/coreman2200/funtimes-pixelboard/internal/config"
	"github.com/coreman2200/funtimes-pixelboard/internal/led"
	"github.com/coreman2200/funtimes-pixelboard/internal/mqttbridge"
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
	"github.com/coreman2200/funtimes-pixelboard/internal/ws"
)

func main() {
	// ---- Flags (config.yaml overrides where set) ----
	var (
		fps        = flag.Int("fps", 60, "target frames per second")
		driver     = flag.String("driver", "sim", "driver: sim | spi | ddp | terminal, comma separated to fan out")
		colorOrder = flag.String("color", "GRB", "LED color order (e.g. GRB, RGB)")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		logLevel   = flag.String("log-level", "info", "debug | info | warn | error")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		seed       = flag.Int64("seed", 0, "random seed (0 = time based)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		cfg = config.Default()
		cfg.FPS, cfg.Driver, cfg.ColorOrder, cfg.Listen, cfg.LogLevel = *fps, *driver, *colorOrder, *addr, *logLevel
	}
	eLevel := firstNonZero(cfg.LogLevel, *logLevel)
	if lvl, err := zerolog.ParseLevel(eLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	selected := firstNonZero(cfg.Driver, *driver)
	if *simOnly {
		selected = "sim"
	}
	eAddr := firstNonZero(cfg.Listen, *addr)
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	grid := cfg.Grid.Layout()

	// ---- Driver ----
	drv, err := led.Open(selected, led.Options{
		Grid:       grid,
		ColorOrder: firstNonZero(cfg.ColorOrder, *colorOrder),
		SPIPort:    cfg.SPI.Port,
		FreqKHz:    cfg.SPI.FreqKHz,
		DDPAddr:    cfg.DDP.Addr,
	})
	if err != nil {
		log.Warn().Err(err).Str("driver", selected).Msg("driver init failed; falling back to SIM")
		selected = "sim"
		drv = led.NewSim()
	}

	// ---- Audio ----
	src, err := audio.Open(cfg.Audio.Source)
	if err != nil {
		log.Warn().Err(err).Str("source", cfg.Audio.Source).Msg("audio source failed; using silence")
		src, _ = audio.Open("silence")
	}
	defer src.Close()

	// ---- Prefs ----
	prefs, err := config.LoadPrefs(cfg.Prefs.Path, 1<<16)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Prefs.Path).Msg("prefs unreadable; using defaults")
	}
	if _, err := os.Stat(cfg.Prefs.Path); errors.Is(err, fs.ErrNotExist) {
		// first boot: config supplies the starting params
		prefs.Brightness, prefs.Speed = cfg.Brightness, cfg.Speed
	}

	// ---- Core ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	core, err := app.NewCore(app.Options{
		Grid:      grid,
		Driver:    drv,
		FPS:       cfg.FPS,
		Seed:      *seed,
		AIAttract: cfg.Games.AIAttract,
		Limits: render.Limits{
			WhiteCap: cfg.Power.WhiteCap,
			BudgetMA: cfg.Power.BudgetMA,
			ChanMA:   cfg.Power.ChanMA,
			Knee:     cfg.Power.Knee,
		},
		Audio:      audio.NewAnalyzer(src, cfg.Audio.Tuning),
		Prefs:      prefs,
		Playlist:   cfg.Playlist,
		PrefsSaver: config.NewPrefsSaver(cfg.Prefs.Path, cfg.Prefs.SaveEvery, prefs),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("core init failed")
	}

	// ---- Control layer ----
	state := ws.NewState(core.Eng, cfg.FPS, selected)
	state.Player, state.Canvas, state.Video = core.Seq, core.Canvas, core.Video
	core.OnDiag = state.PushDiag
	core.AfterFrame = append(core.AfterFrame,
		state.BroadcastFrame,
		func(uint64, []byte) { state.CheckTest() },
	)

	if cfg.MQTT.URL != "" {
		bridge := mqttbridge.New(mqttbridge.Config{
			URL:      cfg.MQTT.URL,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Frames:   cfg.MQTT.Topics.Frames,
			Commands: cfg.MQTT.Topics.Commands,
		}, core.Eng)
		if err := bridge.Connect(); err != nil {
			log.Warn().Err(err).Msg("mqtt disabled")
		} else {
			defer bridge.Close()
			core.AfterFrame = append(core.AfterFrame, func(_ uint64, rgb []byte) {
				_ = bridge.PublishFrame(rgb)
			})
		}
	}

	mux := http.NewServeMux()
	state.Routes(mux)
	srv := &http.Server{
		Addr:         eAddr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run render loop & server ----
	core.Start(ctx)
	if cfg.Playlist != nil {
		if err := core.Seq.Play(); err != nil {
			log.Warn().Err(err).Msg("playlist start")
		}
	}
	go func() {
		log.Info().Str("addr", eAddr).Str("driver", selected).Int("patterns", core.Reg.Count()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	log.Info().Msg("shutting down")
	core.Stop()
	shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdown)
	if err := core.FlushPrefs(); err != nil {
		log.Warn().Err(err).Msg("save prefs")
	}
	if err := drv.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func firstNonZero[T comparable](v, fallback T) T {
	var zero T
	if v != zero {
		return v
	}
	return fallback
}
