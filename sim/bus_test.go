package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine_ReadWrite(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	l := bus.NewLine("sig")

	// Lines come up low
	assert.False(t, l.Read())

	l.Write(true)
	assert.True(t, l.Read())
	l.Write(false)
	assert.False(t, l.Read())
}

func TestBus_DuplicateLineNamePanics(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	bus.NewLine("sig")
	assert.Panics(t, func() { bus.NewLine("sig") })
}

func TestBus_Lookup(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	l := bus.NewLine("sig")
	assert.Same(t, l, bus.Lookup("sig"))
	assert.Nil(t, bus.Lookup("missing"))
}

func TestLine_SameValueWriteIsNotAnEdge(t *testing.T) {
	// GIVEN a waiter on a line whose driver rewrites the current level
	s := NewScheduler(Config{})
	bus := NewBus(s)
	l := bus.NewLine("sig")
	writer := s.Spawn("writer", func(tk *Task) error {
		tk.Sleep(10 * time.Nanosecond)
		l.Write(false) // level unchanged
		return nil
	})
	var timedOut bool
	main := s.Spawn("main", func(tk *Task) error {
		timedOut = tk.WaitEdgeTimeout(l, 50*time.Nanosecond)
		return tk.Join(writer)
	})

	// THEN the waiter only resumes at its timeout
	require.NoError(t, s.Run(main))
	assert.True(t, timedOut)
}

func TestPort_SetAndValue(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	p := bus.NewPort("ui_in", 8)

	p.Set(0xA5)
	assert.Equal(t, uint8(0xA5), p.Value())
	assert.True(t, p.Pin(0).Read())
	assert.False(t, p.Pin(1).Read())
	assert.True(t, p.Pin(5).Read())
	assert.True(t, p.Pin(7).Read())

	p.Set(0)
	assert.Equal(t, uint8(0), p.Value())
}

func TestPort_PinsShareTheBusNamespace(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	p := bus.NewPort("uo_out", 8)
	assert.Same(t, p.Pin(4), bus.Lookup("uo_out[4]"))
}

func TestPort_IllegalAccessPanics(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	p := bus.NewPort("ui_in", 8)

	assert.Panics(t, func() { p.Pin(8) })
	assert.Panics(t, func() { p.Pin(-1) })
	assert.Panics(t, func() { bus.NewPort("bad", 0) })
	assert.Panics(t, func() { bus.NewPort("wide", 9) })
}

type transitionLog struct {
	lines  []string
	levels []bool
}

func (r *transitionLog) RecordTransition(_ time.Duration, line string, level bool) {
	r.lines = append(r.lines, line)
	r.levels = append(r.levels, level)
}

func TestBus_RecorderSeesOnlyTransitions(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	rec := &transitionLog{}
	bus.SetRecorder(rec)
	l := bus.NewLine("sig")

	l.Write(true)
	l.Write(true) // no-op, not a transition
	l.Write(false)

	require.Len(t, rec.lines, 2)
	assert.Equal(t, []string{"sig", "sig"}, rec.lines)
	assert.Equal(t, []bool{true, false}, rec.levels)
}
