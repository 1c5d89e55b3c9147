// Package dut models the device under test's pin boundary and ships a
// behavioral stand-in for the demo board firmware, so the bench has a real
// counterpart to exercise. Only pin behavior is modeled; the device's
// internals are opaque to the bench.
package dut

import "github.com/uartsim/uartsim/sim"

const (
	// RXBit is the UI pin carrying the UART receive line into the device.
	RXBit = 3
	// TXBit is the UO pin carrying the UART transmit line out of the device.
	TXBit = 4
)

// Pins is the typed enumeration of the device boundary. The bench drives
// Clk, Ena, RstN, UI and UIO; the device drives UO. Single-writer discipline
// is by convention, matching the board's wiring.
type Pins struct {
	Clk  *sim.Line // system clock
	Ena  *sim.Line // enable flag
	RstN *sim.Line // reset, active low
	UI   *sim.Port // dedicated inputs; bit RXBit is UART RX
	UO   *sim.Port // dedicated outputs; bit TXBit is UART TX
	UIO  *sim.Port // bidirectional pins, held at zero by the bench
}

// NewPins registers the full pin set on the bus.
func NewPins(b *sim.Bus) *Pins {
	return &Pins{
		Clk:  b.NewLine("clk"),
		Ena:  b.NewLine("ena"),
		RstN: b.NewLine("rst_n"),
		UI:   b.NewPort("ui_in", 8),
		UO:   b.NewPort("uo_out", 8),
		UIO:  b.NewPort("uio_in", 8),
	}
}

// RX is the command input line (bench-driven UART into the device).
func (p *Pins) RX() *sim.Line {
	return p.UI.Pin(RXBit)
}

// TX is the response output line (device-driven UART observed by the bench).
func (p *Pins) TX() *sim.Line {
	return p.UO.Pin(TXBit)
}
