// sim/uart/collect.go
package uart

import (
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/uartsim/uartsim/sim"
)

// DefaultIdleTimeoutUnits is the reference end-of-message idle gap, in
// IdleUnit polling iterations.
const DefaultIdleTimeoutUnits = 100

// CollectMessage receives bytes from the line until it stays idle for the
// configured timeout, then decodes them as UTF-8 text. It returns within one
// idle-timeout window of the last byte's completion, and is bounded by a
// single window even if the line never leaves idle. Framing errors from the
// underlying receiver are fatal and propagate unchanged; a payload that is
// not valid UTF-8 yields a DecodeError.
func CollectMessage(t *sim.Task, line *sim.Line, baud int, idleTimeoutUnits int) (string, error) {
	var buf []byte
	for {
		b, ok, err := ReceiveByte(t, line, baud, idleTimeoutUnits)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		logrus.Debugf("[%12v] %s: received 0x%02X", t.Now(), line.Name(), b)
		buf = append(buf, b)
	}
	if !utf8.Valid(buf) {
		return "", &DecodeError{Raw: buf}
	}
	return string(buf), nil
}
