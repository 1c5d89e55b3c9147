// sim/dut/device.go
package dut

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/uartsim/uartsim/sim"
	"github.com/uartsim/uartsim/sim/uart"
)

// InitString is the banner the device emits after reset upon receiving a
// carriage return: a terminal clear/color escape prefix followed by the
// greeting and help text. The exact value is a compatibility contract with
// the device firmware.
const InitString = "\x1bc" + "\x1b[92m" + "Hello!\r\nspace: start/stop\r\n0: randomize\r\n1: step\r\n"

// Command bytes the demo firmware understands.
const (
	CmdBanner    = byte('\r')
	CmdRandomize = byte('0')
	CmdStep      = byte('1')
	CmdToggleRun = byte(' ')
)

const (
	// DefaultClockPeriod approximates the board's 24 MHz system clock.
	DefaultClockPeriod = 42 * time.Nanosecond
	// DefaultReplyDelay is the latency between a command's stop bit and the
	// first response bit. It must stay well under the bench's idle-timeout
	// window or the collector gives up before the reply starts.
	DefaultReplyDelay = 2 * time.Microsecond
)

// Config holds device model parameters.
type Config struct {
	Baud       int           // UART rate; 0 means uart.DefaultBaud
	ReplyDelay time.Duration // command-to-response latency; 0 means DefaultReplyDelay
	Seed       int64         // seed for board randomization
}

// Device is a behavioral model of the demo board. It holds TX low while in
// reset, idles TX high once reset is released, then answers single-byte
// commands on RX with scripted text on TX. It is the sole writer of the UO
// port.
type Device struct {
	pins    *Pins
	cfg     Config
	rng     *rand.Rand
	board   Board
	running bool
}

// NewDevice builds a device model behind the given pins.
func NewDevice(pins *Pins, cfg Config) *Device {
	if cfg.Baud == 0 {
		cfg.Baud = uart.DefaultBaud
	}
	if cfg.ReplyDelay == 0 {
		cfg.ReplyDelay = DefaultReplyDelay
	}
	return &Device{
		pins: pins,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Start spawns the device task on the scheduler.
func (d *Device) Start(s *sim.Scheduler) *sim.Task {
	return s.Spawn("dut", d.run)
}

func (d *Device) run(t *sim.Task) error {
	for !d.pins.RstN.Read() {
		t.WaitEdge(d.pins.RstN)
	}
	d.pins.TX().Write(true)
	logrus.Debugf("[%12v] dut: out of reset, uart_tx idle", t.Now())

	for {
		cmd, _, err := uart.ReceiveByte(t, d.pins.RX(), d.cfg.Baud, 0)
		if err != nil {
			return err
		}
		reply := d.Respond(cmd)
		if reply == "" {
			continue
		}
		t.Sleep(d.cfg.ReplyDelay)
		for i := 0; i < len(reply); i++ {
			uart.Transmit(t, d.pins.TX(), d.cfg.Baud, reply[i])
		}
	}
}

// Respond computes the firmware's reply to one command byte. Unknown
// commands get no reply.
func (d *Device) Respond(cmd byte) string {
	switch cmd {
	case CmdBanner:
		return InitString
	case CmdRandomize:
		d.board.Randomize(d.rng)
		return d.board.Render()
	case CmdStep:
		d.board.Step()
		return d.board.Render()
	case CmdToggleRun:
		d.running = !d.running
		return d.board.Render()
	default:
		return ""
	}
}

// Running reports whether free-running mode is toggled on.
func (d *Device) Running() bool {
	return d.running
}

// Board exposes the model's grid for inspection.
func (d *Device) Board() *Board {
	return &d.board
}
