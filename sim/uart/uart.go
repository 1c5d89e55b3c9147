// Package uart implements the bit-accurate 8N1 serial engine: a transmitter
// that drives a line with timed frames, a receiver that reconstructs bytes
// by mid-bit sampling, and a collector that assembles idle-terminated
// messages. The wire format is fixed: one start bit (low), eight data bits
// least-significant first, one stop bit (high), no parity.
package uart

import (
	"time"

	"github.com/uartsim/uartsim/sim"
)

// DefaultBaud is the session rate used by the reference device.
const DefaultBaud = 115200

// FrameLen is the number of bit periods in one frame.
const FrameLen = 10

// BitPeriod returns the duration of one bit at the given baud rate.
func BitPeriod(baud int) time.Duration {
	return time.Second / time.Duration(baud)
}

// FrameBits returns the exact on-wire level sequence for one byte:
// start bit, data bits LSB-first, stop bit.
func FrameBits(b byte) [FrameLen]bool {
	var bits [FrameLen]bool
	for i := 0; i < 8; i++ {
		bits[i+1] = b>>i&1 == 1
	}
	bits[FrameLen-1] = true
	return bits
}

// Transmit drives line with the 10-bit frame for b, one bit per bit period,
// and returns once the stop bit's hold time has elapsed. The caller must be
// the line's sole writer for the duration of the call.
func Transmit(t *sim.Task, line *sim.Line, baud int, b byte) {
	period := BitPeriod(baud)
	for _, level := range FrameBits(b) {
		line.Write(level)
		t.Sleep(period)
	}
}
