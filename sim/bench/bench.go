// Package bench sequences scripted command/response exchanges against the
// device pins: baseline pin configuration, reset pulse, then for each
// scripted step a transmitter and a message collector running concurrently.
package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/uartsim/uartsim/sim"
	"github.com/uartsim/uartsim/sim/dut"
	"github.com/uartsim/uartsim/sim/trace"
	"github.com/uartsim/uartsim/sim/uart"
)

// ErrAssertion marks a violated bring-up precondition or response check.
// Assertion failures are fatal and never retried: a mismatch means a device
// defect and must stay visible.
var ErrAssertion = errors.New("bench assertion failed")

// Config holds bench session parameters.
type Config struct {
	Baud             int           // UART rate; 0 means uart.DefaultBaud
	IdleTimeoutUnits int           // end-of-message idle gap; 0 means uart.DefaultIdleTimeoutUnits
	ResetHold        time.Duration // reset-active hold; 0 means DefaultResetHold
	ResetSettle      time.Duration // post-release settle; 0 means DefaultResetSettle
}

// Bench drives one scripted session against a device behind pins.
type Bench struct {
	sched  *sim.Scheduler
	pins   *dut.Pins
	cfg    Config
	script *Script
	tr     *trace.SimulationTrace

	Metrics Metrics
}

// New builds a bench for the given script, applying config defaults.
func New(sched *sim.Scheduler, pins *dut.Pins, cfg Config, script *Script) *Bench {
	if cfg.Baud == 0 {
		cfg.Baud = uart.DefaultBaud
	}
	if cfg.IdleTimeoutUnits == 0 {
		cfg.IdleTimeoutUnits = uart.DefaultIdleTimeoutUnits
	}
	if cfg.ResetHold == 0 {
		cfg.ResetHold = DefaultResetHold
	}
	if cfg.ResetSettle == 0 {
		cfg.ResetSettle = DefaultResetSettle
	}
	return &Bench{sched: sched, pins: pins, cfg: cfg, script: script}
}

// SetTrace attaches a trace for exchange recording.
func (b *Bench) SetTrace(tr *trace.SimulationTrace) {
	b.tr = tr
}

// Start spawns the bench sequence as a task. The caller passes the returned
// task to Scheduler.Run.
func (b *Bench) Start() *sim.Task {
	return b.sched.Spawn("bench", b.Run)
}

// Run performs the whole session: baseline pin state, reset pulse with
// post-release idle check, then every scripted exchange in order.
func (b *Bench) Run(t *sim.Task) error {
	started := time.Now()
	b.ConfigurePins()
	if err := b.Reset(t); err != nil {
		return err
	}
	for i := range b.script.Exchanges {
		if err := b.runExchange(t, i, &b.script.Exchanges[i]); err != nil {
			return err
		}
	}
	b.Metrics.SimTime = t.Now()
	b.Metrics.WallTime = time.Since(started)
	return nil
}

// ConfigurePins applies the baseline pin state: all inputs low, the UART
// command line held at its idle level, bidirectional pins zeroed. Calling it
// twice leaves the pins exactly as one call does.
func (b *Bench) ConfigurePins() {
	logrus.Debug("bench: baseline pin config")
	b.pins.UI.Set(0)
	b.pins.RX().Write(true)
	b.pins.UIO.Set(0)
}

// Reset asserts enable, pulses the active-low reset, and verifies the
// device's UART output reads idle immediately after the settle.
func (b *Bench) Reset(t *sim.Task) error {
	logrus.Info("bench: reset")
	b.pins.Ena.Write(true)
	b.pins.RstN.Write(false)
	t.Sleep(b.cfg.ResetHold)
	b.pins.RstN.Write(true)
	t.Sleep(b.cfg.ResetSettle)
	if !b.pins.TX().Read() {
		return fmt.Errorf("%w: uart_tx not idle after reset release at %v", ErrAssertion, t.Now())
	}
	return nil
}

// runExchange sends one command while concurrently collecting the reply.
// The transmitter must be driving the command line while the collector
// listens, so both run as tasks and the sequencer joins them before judging
// the reply.
func (b *Bench) runExchange(t *sim.Task, i int, ex *Exchange) error {
	if ex.SettleUs > 0 {
		t.Sleep(time.Duration(ex.SettleUs) * time.Microsecond)
	}
	logrus.Infof("bench: exchange %d: sending 0x%02X", i, ex.Command)
	began := t.Now()

	send := b.sched.Spawn(fmt.Sprintf("tx[%d]", i), func(t *sim.Task) error {
		uart.Transmit(t, b.pins.RX(), b.cfg.Baud, ex.Command)
		return nil
	})
	var reply string
	collect := b.sched.Spawn(fmt.Sprintf("rx[%d]", i), func(t *sim.Task) error {
		var err error
		reply, err = uart.CollectMessage(t, b.pins.TX(), b.cfg.Baud, b.cfg.IdleTimeoutUnits)
		return err
	})
	if err := t.Join(send); err != nil {
		return err
	}
	if err := t.Join(collect); err != nil {
		return err
	}

	matched := true
	if ex.Expect != "" && reply != ex.Expect {
		matched = false
	}
	if ex.RequireData && reply == "" {
		matched = false
	}
	if b.tr != nil {
		b.tr.RecordExchange(trace.ExchangeRecord{
			Command: ex.Command,
			Reply:   reply,
			Matched: matched,
			Start:   began,
			End:     t.Now(),
		})
	}
	b.Metrics.Exchanges++
	b.Metrics.BytesReceived += len(reply)

	if !matched {
		if ex.Expect != "" {
			return fmt.Errorf("%w: exchange %d reply mismatch: got %q, want %q", ErrAssertion, i, reply, ex.Expect)
		}
		return fmt.Errorf("%w: exchange %d produced no reply", ErrAssertion, i)
	}
	logrus.Infof("bench: exchange %d: reply %q", i, reply)
	return nil
}
