package led

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
)

// DDP (Distributed Display Protocol) constants, http://www.3waylabs.com/ddp/.
const (
	DDPPort      = 4048
	DDPHeaderLen = 10
	DDPMaxData   = 480 * 3
	ddpVersion1  = 0x40
	ddpPush      = 0x01
	ddpTypeRGB24 = 0x0b // type RGB, 8 bits per channel
	ddpIDDisplay = 1
)

// DDP streams frames to a network pixel controller (WLED, xLights, ...).
// Frames larger than one packet are split; the last packet carries PUSH.
type DDP struct {
	mu     sync.Mutex
	out    io.WriteCloser
	seq    byte
	pkt    []byte
	closed bool
}

// DialDDP connects to addr; a missing port defaults to 4048.
func DialDDP(addr string) (*DDP, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, fmt.Sprint(DDPPort))
	}
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("ddp resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("ddp dial %s: %w", addr, err)
	}
	return NewDDP(conn), nil
}

// NewDDP sends packets to w, one Write per packet.
func NewDDP(w io.WriteCloser) *DDP {
	return &DDP{out: w, pkt: make([]byte, DDPHeaderLen+DDPMaxData)}
}

// DDPHeader fills the 10 byte header. Sequence numbers run 1..15.
func DDPHeader(dst []byte, seq byte, push bool, offset uint32, length uint16) {
	flags := byte(ddpVersion1)
	if push {
		flags |= ddpPush
	}
	dst[0] = flags
	dst[1] = seq & 0x0f
	dst[2] = ddpTypeRGB24
	dst[3] = ddpIDDisplay
	binary.BigEndian.PutUint32(dst[4:8], offset)
	binary.BigEndian.PutUint16(dst[8:10], length)
}

func (d *DDP) Write(rgb []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.seq = d.seq%15 + 1
	for off := 0; off < len(rgb) || off == 0; off += DDPMaxData {
		end := min(off+DDPMaxData, len(rgb))
		chunk := rgb[off:end]
		DDPHeader(d.pkt, d.seq, end == len(rgb), uint32(off), uint16(len(chunk)))
		n := copy(d.pkt[DDPHeaderLen:], chunk)
		if _, err := d.out.Write(d.pkt[:DDPHeaderLen+n]); err != nil {
			return fmt.Errorf("ddp send: %w", err)
		}
		if end == len(rgb) {
			break
		}
	}
	return nil
}

func (d *DDP) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.out.Close()
}
