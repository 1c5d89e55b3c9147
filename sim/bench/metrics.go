// Tracks session-wide statistics for final reporting.

package bench

import (
	"fmt"
	"time"
)

// Metrics aggregates statistics about one bench session.
type Metrics struct {
	Exchanges     int           // command/response exchanges completed
	BytesReceived int           // total response bytes collected
	SimTime       time.Duration // virtual time the session consumed
	WallTime      time.Duration // host time the session consumed
}

// Print displays aggregated metrics at the end of the run.
func (m *Metrics) Print() {
	fmt.Println("=== Bench Metrics ===")
	fmt.Printf("Exchanges       : %d\n", m.Exchanges)
	fmt.Printf("Bytes received  : %d\n", m.BytesReceived)
	fmt.Printf("Simulated time  : %v\n", m.SimTime)
	fmt.Printf("Wall time       : %v\n", m.WallTime)
}
