package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_SleepOrdering(t *testing.T) {
	// GIVEN two tasks sleeping different durations
	s := NewScheduler(Config{})
	var order []string
	var times []time.Duration
	a := s.Spawn("a", func(tk *Task) error {
		tk.Sleep(30 * time.Nanosecond)
		order = append(order, "a")
		times = append(times, tk.Now())
		return nil
	})
	b := s.Spawn("b", func(tk *Task) error {
		tk.Sleep(10 * time.Nanosecond)
		order = append(order, "b")
		times = append(times, tk.Now())
		return nil
	})
	main := s.Spawn("main", func(tk *Task) error {
		if err := tk.Join(a); err != nil {
			return err
		}
		return tk.Join(b)
	})

	// WHEN the run executes
	require.NoError(t, s.Run(main))

	// THEN the shorter sleep resumes first, at its exact virtual time
	assert.Equal(t, []string{"b", "a"}, order)
	assert.Equal(t, []time.Duration{10 * time.Nanosecond, 30 * time.Nanosecond}, times)
}

func TestScheduler_SameTimeWakeups_RunInSpawnOrder(t *testing.T) {
	s := NewScheduler(Config{})
	var order []string
	first := s.Spawn("first", func(tk *Task) error {
		tk.Sleep(10 * time.Nanosecond)
		order = append(order, "first")
		return nil
	})
	second := s.Spawn("second", func(tk *Task) error {
		tk.Sleep(10 * time.Nanosecond)
		order = append(order, "second")
		return nil
	})
	main := s.Spawn("main", func(tk *Task) error {
		if err := tk.Join(first); err != nil {
			return err
		}
		return tk.Join(second)
	})

	require.NoError(t, s.Run(main))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestScheduler_JoinReturnsTaskError(t *testing.T) {
	s := NewScheduler(Config{})
	boom := errors.New("boom")
	bad := s.Spawn("bad", func(tk *Task) error {
		tk.Sleep(10 * time.Nanosecond)
		return boom
	})
	main := s.Spawn("main", func(tk *Task) error {
		return tk.Join(bad)
	})

	// The error reaches main through the join and fails the run
	err := s.Run(main)
	require.ErrorIs(t, err, boom)
}

func TestScheduler_TaskFailureAbortsRun(t *testing.T) {
	// GIVEN a side task that fails while main is still sleeping
	s := NewScheduler(Config{})
	boom := errors.New("boom")
	s.Spawn("bad", func(tk *Task) error {
		tk.Sleep(10 * time.Nanosecond)
		return boom
	})
	main := s.Spawn("main", func(tk *Task) error {
		tk.Sleep(time.Millisecond)
		return nil
	})

	// THEN the run aborts with the side task's error
	err := s.Run(main)
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "task bad")
}

func TestScheduler_DeadlockDetected(t *testing.T) {
	// GIVEN a task waiting on a line nobody writes
	s := NewScheduler(Config{})
	bus := NewBus(s)
	l := bus.NewLine("orphan")
	main := s.Spawn("main", func(tk *Task) error {
		tk.WaitEdge(l)
		return nil
	})

	err := s.Run(main)

	var dl *DeadlockError
	require.ErrorAs(t, err, &dl)
	assert.Equal(t, "main", dl.Task)
}

func TestScheduler_HorizonExceeded(t *testing.T) {
	// GIVEN a run budget shorter than the main task needs
	s := NewScheduler(Config{Horizon: time.Millisecond})
	main := s.Spawn("main", func(tk *Task) error {
		tk.Sleep(2 * time.Millisecond)
		return nil
	})

	err := s.Run(main)

	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, time.Millisecond, te.Horizon)
}

func TestScheduler_EdgeWakesWaiterAtWriteTime(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	l := bus.NewLine("sig")
	var wokeAt time.Duration
	watcher := s.Spawn("watcher", func(tk *Task) error {
		tk.WaitEdge(l)
		wokeAt = tk.Now()
		return nil
	})
	main := s.Spawn("main", func(tk *Task) error {
		tk.Sleep(50 * time.Nanosecond)
		l.Write(true)
		return tk.Join(watcher)
	})

	require.NoError(t, s.Run(main))
	assert.Equal(t, 50*time.Nanosecond, wokeAt)
}

func TestScheduler_WaitEdgeTimeout_TimesOut(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	l := bus.NewLine("sig")
	var timedOut bool
	var at time.Duration
	main := s.Spawn("main", func(tk *Task) error {
		timedOut = tk.WaitEdgeTimeout(l, 100*time.Nanosecond)
		at = tk.Now()
		return nil
	})

	require.NoError(t, s.Run(main))
	assert.True(t, timedOut)
	assert.Equal(t, 100*time.Nanosecond, at)
}

func TestScheduler_WaitEdgeTimeout_EdgeWins(t *testing.T) {
	s := NewScheduler(Config{})
	bus := NewBus(s)
	l := bus.NewLine("sig")
	writer := s.Spawn("writer", func(tk *Task) error {
		tk.Sleep(30 * time.Nanosecond)
		l.Write(true)
		return nil
	})
	var timedOut bool
	var at time.Duration
	main := s.Spawn("main", func(tk *Task) error {
		timedOut = tk.WaitEdgeTimeout(l, 100*time.Nanosecond)
		at = tk.Now()
		return tk.Join(writer)
	})

	require.NoError(t, s.Run(main))
	assert.False(t, timedOut)
	assert.Equal(t, 30*time.Nanosecond, at)
}

func TestScheduler_TeardownStopsFreeRunningTasks(t *testing.T) {
	// GIVEN a clock task that never completes on its own
	s := NewScheduler(Config{})
	bus := NewBus(s)
	clk := bus.NewLine("clk")
	StartClock(s, clk, 10*time.Nanosecond)
	main := s.Spawn("main", func(tk *Task) error {
		tk.Sleep(100 * time.Nanosecond)
		return nil
	})

	// THEN the run still terminates cleanly once main completes
	require.NoError(t, s.Run(main))
	assert.Equal(t, 100*time.Nanosecond, s.Now())
}

func TestScheduler_PanicBecomesError(t *testing.T) {
	s := NewScheduler(Config{})
	main := s.Spawn("main", func(tk *Task) error {
		panic("kaboom")
	})

	err := s.Run(main)
	require.Error(t, err)
	assert.ErrorContains(t, err, "kaboom")
}

func TestScheduler_JoinCompletedTaskReturnsImmediately(t *testing.T) {
	s := NewScheduler(Config{})
	quick := s.Spawn("quick", func(tk *Task) error { return nil })
	main := s.Spawn("main", func(tk *Task) error {
		tk.Sleep(time.Microsecond) // quick is long done by now
		return tk.Join(quick)
	})

	require.NoError(t, s.Run(main))
}
