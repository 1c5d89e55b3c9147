// sim/uart/receive.go
package uart

import (
	"time"

	"github.com/uartsim/uartsim/sim"
)

// IdleUnit is the polling granularity of the receiver's idle wait. The idle
// timeout parameter counts these fixed units and is deliberately not
// rescaled by the baud rate.
const IdleUnit = time.Microsecond

// ReceiveByte reconstructs one byte from the line, or reports that the line
// stayed idle. When idleTimeoutUnits > 0 the receiver polls in IdleUnit
// increments while the line holds the idle level; reaching the timeout count
// without a transition returns ok=false, the normal end-of-message signal,
// not a failure. With idleTimeoutUnits <= 0 the receiver waits indefinitely
// for a start edge.
//
// Each call models exactly one frame and leaves the line ready for the next
// idle wait, so calls can be chained back to back.
func ReceiveByte(t *sim.Task, line *sim.Line, baud int, idleTimeoutUnits int) (byte, bool, error) {
	period := BitPeriod(baud)

	if idleTimeoutUnits > 0 {
		timedOut := false
		for count := 0; line.Read() && count < idleTimeoutUnits; count++ {
			timedOut = t.WaitEdgeTimeout(line, IdleUnit)
		}
		if timedOut {
			return 0, false, nil
		}
	} else {
		for line.Read() {
			t.WaitEdge(line)
		}
	}
	if line.Read() {
		return 0, false, &FramingError{At: t.Now(), Stage: StageStart}
	}

	// re-check mid-bit to compensate for edge jitter
	t.Sleep(period / 2)
	if line.Read() {
		return 0, false, &FramingError{At: t.Now(), Stage: StageStart}
	}

	var b byte
	for i := 0; i < 8; i++ {
		t.Sleep(period)
		if line.Read() {
			b |= 1 << i
		}
	}

	t.Sleep(period)
	if !line.Read() {
		return 0, false, &FramingError{At: t.Now(), Stage: StageStop}
	}
	return b, true, nil
}
