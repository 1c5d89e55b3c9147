// sim/scheduler.go
package sim

import (
	"container/heap"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultHorizon is the virtual-time budget a run may consume before it is
// declared hung and aborted.
const DefaultHorizon = 20 * time.Millisecond

// Config holds scheduler construction parameters.
type Config struct {
	Horizon time.Duration // virtual-time budget for the whole run; 0 means DefaultHorizon
}

// wakeup is one pending resumption in the scheduler's queue, ordered by
// (at, seq) so that same-time wakeups run in scheduling order.
type wakeup struct {
	at  time.Duration
	seq int64
	w   *waiter
	// dispatch marks entries pushed after the waiter was already resolved
	// (edge fired, joined task finished). A non-dispatch entry for a
	// resolved waiter is a stale timer and gets skipped.
	dispatch bool
}

// wakeupQueue implements heap.Interface and orders wakeups by timestamp,
// breaking ties by sequence number.
type wakeupQueue []*wakeup

func (wq wakeupQueue) Len() int { return len(wq) }
func (wq wakeupQueue) Less(i, j int) bool {
	if wq[i].at != wq[j].at {
		return wq[i].at < wq[j].at
	}
	return wq[i].seq < wq[j].seq
}
func (wq wakeupQueue) Swap(i, j int) { wq[i], wq[j] = wq[j], wq[i] }

func (wq *wakeupQueue) Push(x any) {
	*wq = append(*wq, x.(*wakeup))
}

func (wq *wakeupQueue) Pop() any {
	old := *wq
	n := len(old)
	item := old[n-1]
	*wq = old[0 : n-1]
	return item
}

// Scheduler multiplexes cooperative tasks over a single virtual time axis.
// Exactly one goroutine (the kernel loop or the single running task) is
// active at any instant, so scheduler and bus state need no locking. Tasks
// suspend only at explicit wait points (Sleep, Join, WaitEdge,
// WaitEdgeTimeout) and interleave strictly through those yield points.
type Scheduler struct {
	now     time.Duration
	horizon time.Duration
	queue   wakeupQueue
	seq     int64
	tasks   []*Task
	current *Task
	yielded chan struct{}
	failure error
}

// NewScheduler creates a scheduler with the virtual clock at zero.
func NewScheduler(cfg Config) *Scheduler {
	horizon := cfg.Horizon
	if horizon == 0 {
		horizon = DefaultHorizon
	}
	return &Scheduler{
		horizon: horizon,
		queue:   make(wakeupQueue, 0),
		yielded: make(chan struct{}),
	}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Horizon returns the run's virtual-time budget.
func (s *Scheduler) Horizon() time.Duration {
	return s.horizon
}

// push enqueues a wakeup for w at the given virtual time.
func (s *Scheduler) push(at time.Duration, w *waiter, dispatch bool) {
	s.seq++
	heap.Push(&s.queue, &wakeup{at: at, seq: s.seq, w: w, dispatch: dispatch})
}

// Spawn creates a task running fn and schedules it at the current time.
// The task does not execute until the kernel loop dispatches it.
func (s *Scheduler) Spawn(name string, fn func(*Task) error) *Task {
	t := &Task{name: name, sched: s, resume: make(chan struct{})}
	s.tasks = append(s.tasks, t)
	go t.main(fn)
	w := &waiter{task: t}
	s.push(s.now, w, false)
	return t
}

// Run executes the event loop until the given task completes, returning its
// error. The run aborts early, with no retries, when any task fails, when no
// runnable task remains while until is still waiting (deadlock), or when
// virtual time would exceed the horizon (overall timeout). All
// still-suspended tasks are torn down before Run returns, so no goroutines
// leak.
func (s *Scheduler) Run(until *Task) error {
	defer s.teardown()
	for {
		if until.done {
			return until.err
		}
		if s.failure != nil {
			return s.failure
		}
		if s.queue.Len() == 0 {
			return &DeadlockError{At: s.now, Task: until.name}
		}
		wk := heap.Pop(&s.queue).(*wakeup)
		if wk.w.task.done || (wk.w.resolved && !wk.dispatch) {
			continue
		}
		if wk.at > s.horizon {
			return &TimeoutError{Horizon: s.horizon}
		}
		s.now = wk.at
		if !wk.w.resolved {
			wk.w.resolved = true
			wk.w.cause = causeTimer
		}
		logrus.Debugf("[%12v] resume %s", s.now, wk.w.task.name)
		s.dispatch(wk.w.task)
	}
}

// dispatch hands control to t and blocks until it suspends or completes.
func (s *Scheduler) dispatch(t *Task) {
	s.current = t
	t.resume <- struct{}{}
	<-s.yielded
	s.current = nil
}

// teardown resumes every unfinished task with the kill flag set so its
// goroutine unwinds and exits.
func (s *Scheduler) teardown() {
	for _, t := range s.tasks {
		if !t.done {
			t.killed = true
			s.dispatch(t)
		}
	}
}
