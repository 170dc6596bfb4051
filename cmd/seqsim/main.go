// Command seqsim dry-runs a playlist and logs what the board would do.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-pixelboard/internal/config"
	"github.com/coreman2200/funtimes-pixelboard/internal/sequence"
)

func main() {
	var (
		programPath = flag.String("program", "", "playlist YAML; empty reads the playlist from -config")
		configPath  = flag.String("config", "config.yaml", "path to config.yaml")
		fps         = flag.Int("fps", 60, "simulation ticks per second")
		maxS        = flag.Float64("max", 600, "stop after this many simulated seconds")
		realtime    = flag.Bool("realtime", false, "tick on the wall clock")
		params      = flag.Bool("params", false, "log every param change")
	)
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	prog, err := loadProgram(*programPath, *configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("playlist")
	}

	var simT float64
	h := sequence.Hooks{
		Select: func(name string) error {
			log.Info().Float64("t", simT).Str("pattern", name).Msg("select")
			return nil
		},
		ArmNext: func(name string) error {
			log.Info().Float64("t", simT).Str("pattern", name).Msg("arm next")
			return nil
		},
		SetCrossfade: func(alpha float64) {
			log.Debug().Float64("t", simT).Float64("alpha", alpha).Msg("crossfade")
		},
		SetParam: func(name string, v float64) {
			if *params {
				log.Debug().Float64("t", simT).Str("param", name).Float64("v", v).Msg("param")
			}
		},
	}
	player := sequence.NewPlayer(h)
	if err := player.Load(*prog); err != nil {
		log.Fatal().Err(err).Msg("load")
	}
	if err := player.Play(); err != nil {
		log.Fatal().Err(err).Msg("play")
	}

	dt := time.Second / time.Duration(max(*fps, 1))
	var tick <-chan time.Time
	if *realtime {
		t := time.NewTicker(dt)
		defer t.Stop()
		tick = t.C
	}
	for player.State() != sequence.Idle && simT < *maxS {
		if tick != nil {
			<-tick
		}
		simT += dt.Seconds()
		player.Tick(dt.Seconds())
	}
	idx, local := player.Position()
	log.Info().Float64("t", simT).Int("clip", idx).Float64("clip_t", local).Str("state", string(player.State())).Msg("done")
}

func loadProgram(programPath, configPath string) (*sequence.Program, error) {
	if programPath == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if cfg.Playlist == nil {
			return nil, config.ErrInvalid
		}
		return cfg.Playlist, nil
	}
	b, err := os.ReadFile(programPath)
	if err != nil {
		return nil, err
	}
	var prog sequence.Program
	if err := yaml.Unmarshal(b, &prog); err != nil {
		return nil, err
	}
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	return &prog, nil
}
