package render

import (
	"fmt"
)

// Command is the JSON control message shared by the websocket and MQTT
// surfaces. Fields are applied in order: selection, params, then action.
type Command struct {
	Pattern    *int   `json:"pattern,omitempty"`
	Name       string `json:"name,omitempty"`
	Next       bool   `json:"next,omitempty"`
	Brightness *int   `json:"brightness,omitempty"`
	Speed      *int   `json:"speed,omitempty"`

	// Target names the pattern that receives Action/Args.
	Target string `json:"target,omitempty"`
	Action string `json:"action,omitempty"`
	Args   Args   `json:"args,omitempty"`
}

// Empty reports whether the command carries nothing to apply.
func (c Command) Empty() bool {
	return c.Pattern == nil && c.Name == "" && !c.Next &&
		c.Brightness == nil && c.Speed == nil && c.Target == ""
}

func byteParam(name string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: %s=%d", ErrInvalidValue, name, v)
	}
	return uint8(v), nil
}

// Apply validates the whole command before changing anything.
func (e *Engine) Apply(c Command) error {
	var bri, spd uint8
	var err error
	if c.Brightness != nil {
		if bri, err = byteParam("brightness", *c.Brightness); err != nil {
			return err
		}
	}
	if c.Speed != nil {
		if spd, err = byteParam("speed", *c.Speed); err != nil {
			return err
		}
	}
	if c.Pattern != nil {
		if _, err := e.Reg.Get(*c.Pattern); err != nil {
			return err
		}
	}
	if c.Name != "" {
		if _, ok := e.Reg.Lookup(c.Name); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPattern, c.Name)
		}
	}
	if c.Target != "" {
		if _, ok := e.Reg.Lookup(c.Target); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPattern, c.Target)
		}
	}

	switch {
	case c.Pattern != nil:
		err = e.Select(*c.Pattern)
	case c.Name != "":
		err = e.SelectByName(c.Name)
	case c.Next:
		e.Next()
	}
	if err != nil {
		return err
	}
	if c.Brightness != nil {
		e.SetBrightness(bri)
	}
	if c.Speed != nil {
		e.SetSpeed(spd)
	}
	if c.Target != "" {
		return e.ControlByName(c.Target, c.Action, c.Args)
	}
	return nil
}
