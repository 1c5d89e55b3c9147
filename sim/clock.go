// sim/clock.go
package sim

import "time"

// StartClock spawns a free-running clock task toggling the line every half
// period, forever. The task is torn down with the scheduler when the run's
// main task completes.
func StartClock(s *Scheduler, line *Line, period time.Duration) *Task {
	half := period / 2
	return s.Spawn("clock", func(t *Task) error {
		for {
			line.Write(!line.Read())
			t.Sleep(half)
		}
	})
}
