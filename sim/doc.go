// Package sim provides the cooperative virtual-time kernel and signal bus
// that the UART bench runs on.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - scheduler.go: the wakeup queue and event loop (Run, Spawn, dispatch)
//   - task.go: Task wait points (Sleep, Join, WaitEdge, WaitEdgeTimeout)
//   - bus.go: named boolean lines, ports, and edge notification
//
// # Model
//
// A single virtual time axis drives everything. Tasks are goroutines, but
// only one is ever active: the kernel resumes exactly one task per wakeup
// and blocks until it suspends again, so the whole simulation is
// deterministic and lock-free. Time advances only when a task sleeps or
// waits; wakeups scheduled for the same instant run in scheduling order.
//
// A line level change wakes edge waiters in the same timestep, after the
// writing task next yields. Bounded edge waits resolve to either the edge
// or the timeout, whichever fires first; the timeout is a signal (sustained
// idleness), never an error.
//
// Higher layers live in sub-packages:
//   - sim/uart/: bit-level transmit/receive engine and message collection
//   - sim/dut/: device pin map and the behavioral device model
//   - sim/bench/: the scripted command/response sequencer
//   - sim/trace/: signal transition and exchange recording
package sim
