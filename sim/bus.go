// sim/bus.go
package sim

import (
	"fmt"
	"time"
)

// TraceRecorder receives every line level transition on a bus. Implemented
// by trace.SimulationTrace.
type TraceRecorder interface {
	RecordTransition(at time.Duration, line string, level bool)
}

// Bus is a registry of named boolean signal lines sharing one scheduler.
// Each line has exactly one designated writer, enforced by convention: the
// bench writes device inputs, the device model writes device outputs.
type Bus struct {
	sched *Scheduler
	lines map[string]*Line
	rec   TraceRecorder
}

// NewBus creates an empty bus bound to the scheduler.
func NewBus(s *Scheduler) *Bus {
	return &Bus{sched: s, lines: make(map[string]*Line)}
}

// SetRecorder attaches a transition recorder. Pass nil to detach.
func (b *Bus) SetRecorder(rec TraceRecorder) {
	b.rec = rec
}

// NewLine registers a line under a unique name, initially low.
func (b *Bus) NewLine(name string) *Line {
	if _, ok := b.lines[name]; ok {
		panic(fmt.Sprintf("bus: line %q already registered", name))
	}
	l := &Line{bus: b, name: name}
	b.lines[name] = l
	return l
}

// Lookup returns the named line, or nil if it was never registered.
func (b *Bus) Lookup(name string) *Line {
	return b.lines[name]
}

// Line is a single boolean signal. Reads are unrestricted; writes belong to
// the line's one designated driver.
type Line struct {
	bus     *Bus
	name    string
	level   bool
	waiters []*waiter
}

// Name returns the line's registered name.
func (l *Line) Name() string {
	return l.name
}

// Read returns the line's current level.
func (l *Line) Read() bool {
	return l.level
}

// Write sets the line's level. Writing the current level is a no-op: edge
// waiters fire only on an actual transition, in the current timestep, after
// the writer next yields.
func (l *Line) Write(level bool) {
	if l.level == level {
		return
	}
	l.level = level
	if l.bus.rec != nil {
		l.bus.rec.RecordTransition(l.bus.sched.now, l.name, level)
	}
	for _, w := range l.waiters {
		if w.resolved {
			continue
		}
		w.resolved = true
		w.cause = causeEdge
		l.bus.sched.push(l.bus.sched.now, w, true)
	}
	l.waiters = l.waiters[:0]
}

// Port is a fixed-width bundle of lines with explicit index accessors, so an
// illegal pin access panics at wiring time rather than corrupting a timed
// run. Bit i of a written value maps to pin i.
type Port struct {
	name string
	pins []*Line
}

// NewPort registers width lines named name[0] .. name[width-1].
func (b *Bus) NewPort(name string, width int) *Port {
	if width <= 0 || width > 8 {
		panic(fmt.Sprintf("bus: port %q width %d out of range (1-8)", name, width))
	}
	p := &Port{name: name, pins: make([]*Line, width)}
	for i := range p.pins {
		p.pins[i] = b.NewLine(fmt.Sprintf("%s[%d]", name, i))
	}
	return p
}

// Name returns the port's base name.
func (p *Port) Name() string {
	return p.name
}

// Width returns the number of pins in the port.
func (p *Port) Width() int {
	return len(p.pins)
}

// Pin returns a single line of the port.
func (p *Port) Pin(i int) *Line {
	if i < 0 || i >= len(p.pins) {
		panic(fmt.Sprintf("bus: pin %s[%d] out of range (width %d)", p.name, i, len(p.pins)))
	}
	return p.pins[i]
}

// Set writes all pins from the bits of v, pin 0 from the least significant.
func (p *Port) Set(v uint8) {
	for i, pin := range p.pins {
		pin.Write(v>>i&1 == 1)
	}
}

// Value reads all pins back into one byte.
func (p *Port) Value() uint8 {
	var v uint8
	for i, pin := range p.pins {
		if pin.Read() {
			v |= 1 << i
		}
	}
	return v
}
