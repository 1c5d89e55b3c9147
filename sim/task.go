// sim/task.go
package sim

import (
	"errors"
	"fmt"
	"time"
)

// errKilled unwinds a task goroutine during scheduler teardown.
var errKilled = errors.New("task killed")

// cause identifies what resumed a suspended task.
type cause int

const (
	causeNone cause = iota
	causeTimer
	causeEdge
	causeJoin
)

// waiter represents one suspended task awaiting resumption. A waiter may be
// registered with several wakeup sources at once (a timer and a line edge);
// whichever fires first resolves it and the rest become stale.
type waiter struct {
	task     *Task
	resolved bool
	cause    cause
}

// Task is one cooperative logical task. Its wait methods must only be called
// while the task is the one currently running; they suspend the task until
// the scheduler resumes it.
type Task struct {
	name    string
	sched   *Scheduler
	resume  chan struct{}
	joiners []*waiter
	done    bool
	killed  bool
	err     error
}

// Name returns the task's name as given to Spawn.
func (t *Task) Name() string {
	return t.name
}

// Now returns the current virtual time.
func (t *Task) Now() time.Duration {
	return t.sched.now
}

// Done reports whether the task has completed.
func (t *Task) Done() bool {
	return t.done
}

// main is the task goroutine body: it waits for the first dispatch, runs fn
// behind a panic guard, then reports completion to the kernel.
func (t *Task) main(fn func(*Task) error) {
	<-t.resume
	var err error
	if !t.killed {
		err = t.invoke(fn)
	}
	t.finish(err)
	t.sched.yielded <- struct{}{}
}

// invoke runs fn, converting panics to errors. The teardown sentinel panic
// is swallowed so killed tasks exit cleanly.
func (t *Task) invoke(fn func(*Task) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == errKilled { //nolint:errorlint // sentinel compared by identity
				err = nil
				return
			}
			err = fmt.Errorf("task %s panicked: %v", t.name, r)
		}
	}()
	return fn(t)
}

// finish marks the task complete and wakes its joiners. A failing task
// delivers its error to joiners when it has any; otherwise the error becomes
// the whole run's failure. Either way protocol violations are fatal and
// never retried.
func (t *Task) finish(err error) {
	s := t.sched
	t.err = err
	t.done = true
	delivered := len(t.joiners) > 0
	for _, w := range t.joiners {
		if !w.resolved {
			w.resolved = true
			w.cause = causeJoin
			s.push(s.now, w, true)
		}
	}
	t.joiners = nil
	if err != nil && !t.killed && !delivered && s.failure == nil {
		s.failure = fmt.Errorf("task %s: %w", t.name, err)
	}
}

// suspend yields control to the kernel until w is resolved.
func (t *Task) suspend(w *waiter) cause {
	if t.sched.current != t {
		panic(fmt.Sprintf("task %s suspended while not running", t.name))
	}
	t.sched.yielded <- struct{}{}
	<-t.resume
	if t.killed {
		panic(errKilled)
	}
	return w.cause
}

// Sleep advances the task's local time by d without consuming host time.
func (t *Task) Sleep(d time.Duration) {
	if d < 0 {
		d = 0
	}
	w := &waiter{task: t}
	t.sched.push(t.sched.now+d, w, false)
	t.suspend(w)
}

// Join suspends until other completes and returns its error.
func (t *Task) Join(other *Task) error {
	if !other.done {
		w := &waiter{task: t}
		other.joiners = append(other.joiners, w)
		t.suspend(w)
	}
	return other.err
}

// WaitEdge suspends until the line's level next changes.
func (t *Task) WaitEdge(l *Line) {
	w := &waiter{task: t}
	l.waiters = append(l.waiters, w)
	t.suspend(w)
}

// WaitEdgeTimeout suspends until the line's level changes or d elapses,
// whichever comes first. Returns true if the wait timed out. The timeout is
// a signal, not an error: callers use it to detect sustained line idleness.
func (t *Task) WaitEdgeTimeout(l *Line, d time.Duration) bool {
	w := &waiter{task: t}
	l.waiters = append(l.waiters, w)
	t.sched.push(t.sched.now+d, w, false)
	return t.suspend(w) == causeTimer
}
