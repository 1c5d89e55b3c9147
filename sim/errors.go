// sim/errors.go
package sim

import (
	"fmt"
	"time"
)

// DeadlockError reports that the wakeup queue drained while a task the run
// depends on was still suspended.
type DeadlockError struct {
	At   time.Duration
	Task string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("deadlock at %v: no runnable tasks while %q is still waiting", e.At, e.Task)
}

// TimeoutError reports that the run exceeded its virtual-time budget. It
// indicates a hang or a protocol exchange that never terminated.
type TimeoutError struct {
	Horizon time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("run exceeded its %v virtual-time budget", e.Horizon)
}
