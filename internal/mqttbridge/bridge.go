// Package mqttbridge mirrors frames to an MQTT broker and accepts JSON
// commands from it.
package mqttbridge

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

const (
	DefaultFramesTopic   = "pixelboard/frames"
	DefaultCommandsTopic = "pixelboard/commands"

	// PublishEvery caps the frame mirror well below the render rate.
	PublishEvery   = 100 * time.Millisecond
	connectTimeout = 10 * time.Second
)

var ErrNotConnected = errors.New("mqtt not connected")

type Config struct {
	URL      string
	ClientID string
	Username string
	Password string
	Frames   string
	Commands string
}

// Applier receives decoded commands; *render.Engine satisfies it.
type Applier interface {
	Apply(render.Command) error
}

type Bridge struct {
	cfg    Config
	client mqtt.Client
	target Applier

	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// New builds the client; call Connect to dial.
func New(cfg Config, target Applier) *Bridge {
	if cfg.ClientID == "" {
		cfg.ClientID = "pixelboard"
	}
	if cfg.Frames == "" {
		cfg.Frames = DefaultFramesTopic
	}
	if cfg.Commands == "" {
		cfg.Commands = DefaultCommandsTopic
	}
	b := &Bridge{cfg: cfg, target: target, now: time.Now}
	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(b.handleOnConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn().Err(err).Msg("mqtt connection lost")
		})
	b.client = mqtt.NewClient(options)
	return b
}

// newWithClient is used by tests to swap in a fake client.
func newWithClient(cfg Config, client mqtt.Client, target Applier) *Bridge {
	b := New(cfg, target)
	b.client = client
	return b
}

func (b *Bridge) Connect() error {
	token := b.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect %s: timed out", b.cfg.URL)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", b.cfg.URL, err)
	}
	return nil
}

func (b *Bridge) handleOnConnect(client mqtt.Client) {
	log.Info().Str("broker", b.cfg.URL).Str("commands", b.cfg.Commands).Msg("mqtt connected")
	token := client.Subscribe(b.cfg.Commands, 1, b.handleCommand)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Str("topic", b.cfg.Commands).Msg("mqtt subscribe")
		}
	}()
}

func (b *Bridge) handleCommand(_ mqtt.Client, msg mqtt.Message) {
	if err := b.HandleCommand(msg.Payload()); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("mqtt command rejected")
	}
}

// HandleCommand decodes and applies one JSON command.
func (b *Bridge) HandleCommand(payload []byte) error {
	var cmd render.Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	if cmd.Empty() {
		return fmt.Errorf("%w: empty command", render.ErrInvalidValue)
	}
	return b.target.Apply(cmd)
}

// MarshalFrame encodes a frame as a little-endian pixel count followed by
// the RGB bytes.
func MarshalFrame(rgb []byte) []byte {
	out := make([]byte, 2+len(rgb))
	binary.LittleEndian.PutUint16(out, uint16(len(rgb)/3))
	copy(out[2:], rgb)
	return out
}

// PublishFrame sends rgb if PublishEvery has passed since the last send.
// It never blocks on the broker.
func (b *Bridge) PublishFrame(rgb []byte) error {
	if !b.client.IsConnected() {
		return ErrNotConnected
	}
	b.mu.Lock()
	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < PublishEvery {
		b.mu.Unlock()
		return nil
	}
	b.last = now
	b.mu.Unlock()
	b.client.Publish(b.cfg.Frames, 0, false, MarshalFrame(rgb))
	return nil
}

func (b *Bridge) Close() {
	b.client.Disconnect(250)
}
