package led

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/funtimes-pixelboard/internal/layout"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in   string
		want Order
		ok   bool
	}{
		{"", Order{0, 1, 2}, true},
		{"GRB", Order{1, 0, 2}, true},
		{"bgr", Order{2, 1, 0}, true},
		{"RRB", Order{}, false},
		{"RGBW", Order{}, false},
		{"XYZ", Order{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			o, err := ParseOrder(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrColorOrder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, o)
		})
	}

	grb, _ := ParseOrder("GRB")
	dst := make([]byte, 6)
	grb.Apply(dst, []byte{1, 2, 3, 4, 5, 6})
	assert.Equal(t, []byte{2, 1, 3, 5, 4, 6}, dst)
}

type failing struct{ closed bool }

func (f *failing) Write([]byte) error { return errors.New("unplugged") }
func (f *failing) Close() error       { f.closed = true; return nil }

func TestFanoutWritesEverySink(t *testing.T) {
	a, b := NewSim(), &failing{}
	f := Fanout{b, a}
	err := f.Write([]byte{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unplugged")
	assert.Equal(t, []byte{1, 2, 3}, a.Last(), "a failing sink does not starve the others")

	require.NoError(t, f.Close())
	assert.True(t, b.closed)
	assert.ErrorIs(t, a.Write([]byte{0, 0, 0}), ErrClosed)
	assert.Equal(t, 1, a.Frames())
}

type packets struct {
	got    [][]byte
	closed bool
}

func (p *packets) Write(b []byte) (int, error) {
	p.got = append(p.got, append([]byte(nil), b...))
	return len(b), nil
}

func (p *packets) Close() error { p.closed = true; return nil }

func TestDDPSplitsLargeFrames(t *testing.T) {
	out := &packets{}
	d := NewDDP(out)
	frame := make([]byte, 600*3)
	frame[len(frame)-1] = 7
	require.NoError(t, d.Write(frame))
	require.Len(t, out.got, 2)

	first, second := out.got[0], out.got[1]
	assert.Equal(t, byte(0x40), first[0], "no push on the first packet")
	assert.Equal(t, byte(0x41), second[0])
	assert.Equal(t, byte(1), first[1]&0x0f)
	assert.Equal(t, byte(0x0b), first[2])
	assert.Equal(t, byte(1), first[3])
	assert.Equal(t, []byte{0, 0, 0, 0, 0x05, 0xa0}, first[4:10], "offset 0, length 1440")
	assert.Equal(t, []byte{0, 0, 0x05, 0xa0, 0x01, 0x68}, second[4:10], "offset 1440, length 360")
	assert.Len(t, second, DDPHeaderLen+360)
	assert.Equal(t, byte(7), second[len(second)-1])

	require.NoError(t, d.Write(frame[:768]))
	assert.Equal(t, byte(2), out.got[2][1], "sequence advances per frame")
	assert.Equal(t, byte(0x41), out.got[2][0])

	require.NoError(t, d.Close())
	assert.True(t, out.closed)
	assert.ErrorIs(t, d.Write(frame), ErrClosed)
}

func TestDDPOverUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	d, err := DialDDP(pc.LocalAddr().String())
	require.NoError(t, err)
	defer d.Close()
	require.NoError(t, d.Write([]byte{9, 8, 7}))

	buf := make([]byte, 64)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 7}, buf[DDPHeaderLen:n])
}

func TestNRZEncodesOverSPI(t *testing.T) {
	var buf bytes.Buffer
	port := spitest.NewRecordRaw(&buf)
	d, err := openStrip(port, 2, 0)
	require.NoError(t, err)
	n := newNRZ(d, nil, 2, Order{0, 1, 2}, true)

	buf.Reset()
	require.NoError(t, n.Write([]byte{255, 255, 255, 255, 255, 255}))
	white := append([]byte(nil), buf.Bytes()...)
	buf.Reset()
	require.NoError(t, n.Write(make([]byte, 6)))
	black := append([]byte(nil), buf.Bytes()...)

	require.NotEmpty(t, white)
	assert.Equal(t, len(white), len(black))
	assert.NotEqual(t, white, black)

	assert.ErrorIs(t, n.Write([]byte{1, 2, 3}), ErrFrameLength)
	require.NoError(t, n.Close())
	assert.ErrorIs(t, n.Write(make([]byte, 6)), ErrClosed)
}

func TestNRZFoldsWireOrder(t *testing.T) {
	d, err := openStrip(spitest.NewRecordRaw(&bytes.Buffer{}), 2, 0)
	require.NoError(t, err)

	// nrzled already sends GRB, so a GRB strip needs no swizzle
	grb, _ := ParseOrder("GRB")
	n := newNRZ(d, nil, 2, grb, true)
	require.NoError(t, n.Write([]byte{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, []byte{1, 2, 3, 0xff, 4, 5, 6, 0xff}, n.img.Pix)

	rgb := newNRZ(d, nil, 2, Order{0, 1, 2}, true)
	require.NoError(t, rgb.Write([]byte{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, []byte{2, 1, 3, 0xff, 5, 4, 6, 0xff}, rgb.img.Pix)
}

func TestTerminalUnmapsSerpentine(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(40, 20)
	g := layout.Default()
	term := NewTerminal(s, g)
	term.SetStatus("Fire")

	rgb := make([]byte, g.Count()*3)
	i := g.Index(0, 0)
	rgb[i*3] = 200
	require.NoError(t, term.Write(rgb))

	for _, x := range []int{0, 1} {
		r, _, st, _ := s.GetContent(x, 0)
		assert.Equal(t, '█', r)
		fg, _, _ := st.Decompose()
		cr, cg, cb := fg.RGB()
		assert.Equal(t, [3]int32{200, 0, 0}, [3]int32{cr, cg, cb})
	}
	_, _, st, _ := s.GetContent(30, 0)
	fg, _, _ := st.Decompose()
	cr, _, _ := fg.RGB()
	assert.Zero(t, cr, "the far end of row 0 is LED 0 and stays dark")

	r, _, _, _ := s.GetContent(0, g.Height+1)
	assert.Equal(t, 'F', r)

	assert.ErrorIs(t, term.Write(rgb[:3]), ErrFrameLength)
	require.NoError(t, term.Close())
	assert.ErrorIs(t, term.Write(rgb), ErrClosed)
}

func TestOpenByName(t *testing.T) {
	d, err := Open("", Options{Grid: layout.Default()})
	require.NoError(t, err)
	assert.IsType(t, &Sim{}, d)

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()
	d, err = Open("sim, ddp", Options{Grid: layout.Default(), DDPAddr: pc.LocalAddr().String()})
	require.NoError(t, err)
	fan, ok := d.(Fanout)
	require.True(t, ok)
	assert.Len(t, fan, 2)
	require.NoError(t, d.Write(make([]byte, 768)))
	require.NoError(t, d.Close())

	_, err = Open("sim,laser", Options{Grid: layout.Default()})
	assert.ErrorIs(t, err, ErrUnknownDriver)
	_, err = Open("ddp", Options{Grid: layout.Default()})
	require.Error(t, err)
}
