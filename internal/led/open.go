package led

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
)

var ErrUnknownDriver = errors.New("unknown driver")

// Options carries the per-driver settings from the config.
type Options struct {
	Grid       layout.Grid
	ColorOrder string
	SPIPort    string
	FreqKHz    int
	DDPAddr    string
}

// Open builds the named driver. A comma separated list fans out to each
// one; "" means sim. A partially opened list is closed again on error.
func Open(names string, o Options) (Driver, error) {
	if names == "" {
		names = "sim"
	}
	var out Fanout
	for _, name := range strings.Split(names, ",") {
		d, err := open(strings.TrimSpace(name), o)
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		out = append(out, d)
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}

func open(name string, o Options) (Driver, error) {
	switch name {
	case "sim":
		return NewSim(), nil
	case "spi":
		return NewNRZ(o.SPIPort, o.Grid.Count(), o.FreqKHz, o.ColorOrder)
	case "ddp":
		if o.DDPAddr == "" {
			return nil, fmt.Errorf("ddp: no address configured")
		}
		return DialDDP(o.DDPAddr)
	case "terminal":
		return OpenTerminal(o.Grid)
	}
	log.Debug().Str("driver", name).Msg("driver lookup failed")
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
}
