// Package config loads the board's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-pixelboard/internal/audio"
	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
	"github.com/coreman2200/funtimes-pixelboard/internal/sequence"
)

var ErrInvalid = errors.New("invalid config")

type Grid struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Serpentine bool `yaml:"serpentine"` // first row runs right-to-left
}

func (g Grid) Layout() layout.Grid {
	return layout.Grid{Width: g.Width, Height: g.Height, Order: layout.Serpentine{FlipEvenRows: g.Serpentine}}
}

type SPI struct {
	Port    string `yaml:"port"` // "" picks the first registered port
	FreqKHz int    `yaml:"freq_khz"`
}

type DDP struct {
	Addr string `yaml:"addr"` // host[:port]
}

type Topics struct {
	Frames   string `yaml:"frames"`
	Commands string `yaml:"commands"`
}

type MQTT struct {
	URL      string `yaml:"url"` // empty disables the bridge
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topics   Topics `yaml:"topics"`
}

type Power struct {
	WhiteCap float64 `yaml:"white_cap"`
	BudgetMA float64 `yaml:"budget_ma"`
	ChanMA   float64 `yaml:"chan_ma"`
	Knee     float64 `yaml:"knee"`
}

type Audio struct {
	Source       string `yaml:"source"`
	audio.Tuning `yaml:",inline"`
}

type Games struct {
	AIAttract bool `yaml:"ai_attract"`
}

type Prefs struct {
	Path      string        `yaml:"path"`
	SaveEvery time.Duration `yaml:"save_every"`
}

type Config struct {
	Driver     string `yaml:"driver"` // sim | spi | ddp | terminal, comma separated for fanout
	ColorOrder string `yaml:"color_order"`
	FPS        int    `yaml:"fps"`
	Brightness int    `yaml:"brightness"`
	Speed      int    `yaml:"speed"`
	LogLevel   string `yaml:"log_level"`
	Listen     string `yaml:"listen"`

	Grid  Grid  `yaml:"grid"`
	SPI   SPI   `yaml:"spi"`
	DDP   DDP   `yaml:"ddp"`
	MQTT  MQTT  `yaml:"mqtt"`
	Power Power `yaml:"power"`
	Audio Audio `yaml:"audio"`
	Games Games `yaml:"games"`
	Prefs Prefs `yaml:"prefs"`

	Playlist *sequence.Program `yaml:"playlist,omitempty"`
}

func Default() *Config {
	return &Config{
		Driver:     "sim",
		ColorOrder: "GRB",
		FPS:        60,
		Brightness: 100,
		Speed:      100,
		LogLevel:   "info",
		Listen:     ":8080",
		Grid:       Grid{Width: 16, Height: 16, Serpentine: true},
		SPI:        SPI{FreqKHz: 2500},
		MQTT: MQTT{
			ClientID: "pixelboard",
			Topics:   Topics{Frames: "pixelboard/frames", Commands: "pixelboard/commands"},
		},
		Power: Power{WhiteCap: 0.85, BudgetMA: 4000, ChanMA: 20, Knee: 0.85},
		Audio: Audio{Source: "demo", Tuning: audio.DefaultTuning()},
		Games: Games{AIAttract: true},
		Prefs: Prefs{Path: "prefs.yaml", SaveEvery: 15 * time.Second},
	}
}

// Load reads path over the defaults, so missing keys keep their default.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Grid.Width <= 0 || c.Grid.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	case c.FPS <= 0 || c.FPS > 400:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	case c.Brightness < 0 || c.Brightness > 255:
		return fmt.Errorf("%w: brightness %d", ErrInvalid, c.Brightness)
	case c.Speed < 0 || c.Speed > 255:
		return fmt.Errorf("%w: speed %d", ErrInvalid, c.Speed)
	case c.Power.WhiteCap < 0 || c.Power.WhiteCap > 1:
		return fmt.Errorf("%w: power.white_cap %v", ErrInvalid, c.Power.WhiteCap)
	}
	if c.Playlist != nil {
		if err := c.Playlist.Validate(); err != nil {
			return fmt.Errorf("%w: playlist: %w", ErrInvalid, err)
		}
	}
	return nil
}
