// sim/uart/errors.go
package uart

import (
	"fmt"
	"time"
)

// Stage identifies where in the frame a framing violation was detected.
type Stage string

const (
	// StageStart marks a start bit that read high at its confirmation point.
	StageStart Stage = "start"
	// StageStop marks a stop bit that read low at its sampling point.
	StageStop Stage = "stop"
)

// FramingError reports a malformed frame. It is fatal: a violated start or
// stop bit means the device clocked out garbage, so the run aborts rather
// than risking a silently wrong byte.
type FramingError struct {
	At    time.Duration // virtual time of the failed check
	Stage Stage
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("uart framing error: %s bit violated at %v", e.Stage, e.At)
}

// DecodeError reports a completed message whose byte sequence is not valid
// UTF-8 text.
type DecodeError struct {
	Raw []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("uart message is not valid UTF-8: % x", e.Raw)
}
