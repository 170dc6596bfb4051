// Package led holds the output sinks a rendered frame can be flushed to.
package led

import (
	"errors"
	"fmt"
	"strings"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame in physical strip order. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

var (
	ErrClosed      = errors.New("driver closed")
	ErrFrameLength = errors.New("frame length mismatch")
	ErrColorOrder  = errors.New("invalid color order")
)

// Order is a channel permutation such as "GRB".
type Order [3]int

// ParseOrder accepts any permutation of R, G and B. Empty means RGB.
func ParseOrder(s string) (Order, error) {
	if s == "" {
		s = "RGB"
	}
	s = strings.ToUpper(s)
	var o Order
	seen := map[byte]bool{}
	if len(s) != 3 {
		return o, fmt.Errorf("%w: %q", ErrColorOrder, s)
	}
	for i := 0; i < 3; i++ {
		c := s[i]
		if seen[c] {
			return o, fmt.Errorf("%w: %q", ErrColorOrder, s)
		}
		seen[c] = true
		switch c {
		case 'R':
			o[i] = 0
		case 'G':
			o[i] = 1
		case 'B':
			o[i] = 2
		default:
			return o, fmt.Errorf("%w: %q", ErrColorOrder, s)
		}
	}
	return o, nil
}

// Apply writes rgb reordered into dst, which must be at least len(rgb).
func (o Order) Apply(dst, rgb []byte) {
	for i := 0; i+2 < len(rgb); i += 3 {
		px := [3]byte{rgb[i], rgb[i+1], rgb[i+2]}
		dst[i], dst[i+1], dst[i+2] = px[o[0]], px[o[1]], px[o[2]]
	}
}

func checkLen(rgb []byte, count int) error {
	if len(rgb) != count*3 {
		return fmt.Errorf("%w: %d bytes for %d LEDs", ErrFrameLength, len(rgb), count)
	}
	return nil
}

// Fanout writes every frame to several drivers. All drivers are written even
// when one fails; the errors are joined.
type Fanout []Driver

func (f Fanout) Write(rgb []byte) error {
	var errs []error
	for _, d := range f {
		if err := d.Write(rgb); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, d := range f {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
