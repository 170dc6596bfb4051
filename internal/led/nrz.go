package led

import (
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// DefaultFreqKHz is the SPI clock for WS2812 NRZ encoding.
const DefaultFreqKHz = 2500

// NRZ drives a WS2812 strip over SPI through periph's nrzled. When no SPI
// port can be opened it prints the strip to the console instead.
type NRZ struct {
	Hardware bool

	mu     sync.Mutex
	drawer display.Drawer
	port   spi.PortCloser
	img    *image.NRGBA
	order  Order
	buf    []byte
	count  int
	closed bool
}

// NewNRZ opens port ("" picks the first one) and configures count pixels.
func NewNRZ(port string, count, freqKHz int, colorOrder string) (*NRZ, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	order, err := ParseOrder(colorOrder)
	if err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		log.Warn().Err(err).Str("port", port).Msg("no SPI port, printing the strip to the console")
		return newNRZ(screen.New(count), nil, count, order, false), nil
	}
	d, err := openStrip(p, count, freqKHz)
	if err != nil {
		p.Close()
		return nil, err
	}
	return newNRZ(d, p, count, order, true), nil
}

func openStrip(p spi.Port, count, freqKHz int) (*nrzled.Dev, error) {
	if freqKHz <= 0 {
		freqKHz = DefaultFreqKHz
	}
	opts := nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      physic.Frequency(freqKHz) * physic.KiloHertz,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	if err := d.Halt(); err != nil {
		return nil, fmt.Errorf("nrzled halt: %w", err)
	}
	return d, nil
}

func newNRZ(d display.Drawer, p spi.PortCloser, count int, order Order, hw bool) *NRZ {
	img := image.NewNRGBA(image.Rect(0, 0, count, 1))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	// nrzled sends the image's G, R, B; order names the strip's wire order.
	order = Order{order[1], order[0], order[2]}
	return &NRZ{Hardware: hw, drawer: d, port: p, img: img, order: order, count: count, buf: make([]byte, count*3)}
}

// Write copies rgb into a one-row image and draws it onto the strip.
func (n *NRZ) Write(rgb []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	if err := checkLen(rgb, n.count); err != nil {
		return err
	}
	n.order.Apply(n.buf, rgb)
	for i := 0; i < n.count; i++ {
		copy(n.img.Pix[i*4:i*4+3], n.buf[i*3:i*3+3])
	}
	if err := n.drawer.Draw(n.drawer.Bounds(), n.img, image.Point{}); err != nil {
		return fmt.Errorf("nrz draw: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (n *NRZ) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	err := n.drawer.Halt()
	if n.port != nil {
		if cerr := n.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
