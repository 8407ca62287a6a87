package plugin

import (
	"errors"
	"time"

	"github.com/gavioto/sysdb/internal/llist"
	"github.com/gavioto/sysdb/internal/metrics"
)

// ErrNoCollectors is returned by the scheduler's Run loop when it starts
// with nothing registered to collect.
var ErrNoCollectors = errors.New("plugin: no collectors registered")

// collectorEntry is one scheduled collector: its callback, the context
// that registered it, and its timing state. Timestamps are nanoseconds
// since the Unix epoch, matching the daemon-wide timestamp convention.
type collectorEntry struct {
	name       string
	ctx        *Context
	cb         CollectFunc
	userData   any
	interval   int64
	nextUpdate int64
}

// cmpByNextUpdate orders entries by ascending nextUpdate, keeping the
// scheduler's list sorted so the head is always the next due collector.
func cmpByNextUpdate(a, b *collectorEntry) int {
	switch {
	case a.nextUpdate < b.nextUpdate:
		return -1
	case a.nextUpdate > b.nextUpdate:
		return 1
	default:
		return 0
	}
}

// nowNanos is the scheduler's clock, overridable in tests.
var nowNanos = func() int64 { return time.Now().UnixNano() }

// Scheduler drives the collector registry: a sorted list of due times
// serviced by one loop. Matches §4.3.4 exactly — shift the head, sleep
// until it's due (interruptibly), invoke it, reschedule, repeat.
type Scheduler struct {
	rt *Runtime

	list            *llist.List[*collectorEntry]
	defaultInterval int64

	stopCh chan struct{}
	doneCh chan struct{}

	sleeper func(d time.Duration, stop <-chan struct{}) (interrupted bool)
}

func newScheduler(rt *Runtime) *Scheduler {
	s := &Scheduler{
		rt:              rt,
		list:            llist.New[*collectorEntry](),
		defaultInterval: int64(10 * time.Second),
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}
	s.sleeper = s.defaultSleep
	return s
}

// SetDefaultInterval sets the fallback interval used when a collector
// registers with interval == 0.
func (s *Scheduler) SetDefaultInterval(d time.Duration) {
	s.defaultInterval = int64(d)
}

func (s *Scheduler) add(e *collectorEntry) {
	s.list.InsertSorted(e, cmpByNextUpdate)
}

// defaultSleep blocks for d or until stop is closed, whichever comes
// first. It reports whether it was interrupted by stop. Because Go's
// timers don't deliver spurious wakeups the way POSIX nanosleep under
// signals does, a single select here already gives the "resumable sleep"
// behavior the original's retry-with-remaining-duration loop provided:
// there is nothing to resume from, since the only interruption source is
// an intentional stop.
func (s *Scheduler) defaultSleep(d time.Duration, stop <-chan struct{}) bool {
	if d <= 0 {
		select {
		case <-stop:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return false
	case <-stop:
		return true
	}
}

// Run drives the scheduler loop until Stop is called or no collectors
// remain. It returns ErrNoCollectors if the list is empty when entered.
func (s *Scheduler) Run() error {
	logger := s.rt.logger
	defer close(s.doneCh)

	for {
		head, ok := s.list.Shift()
		if !ok {
			return ErrNoCollectors
		}

		sleepFor := time.Duration(head.nextUpdate - nowNanos())
		if interrupted := s.sleeper(sleepFor, s.stopCh); interrupted {
			s.list.InsertSorted(head, cmpByNextUpdate)
			return nil
		}

		result := head.cb(head.ctx, head.userData)
		metrics.CollectorRunsTotal.WithLabelValues(head.name, result.String()).Inc()

		interval := head.interval
		if interval == 0 {
			interval = s.defaultInterval
		}
		if interval == 0 {
			if logger != nil {
				logger.Warn("dropping collector with no interval", "collector", head.name)
			}
			continue
		}

		head.nextUpdate += interval
		now := nowNanos()
		if head.nextUpdate < now {
			if logger != nil {
				logger.Warn("skipping iterations to keep up", "collector", head.name)
			}
			head.nextUpdate = now
		}
		s.list.InsertSorted(head, cmpByNextUpdate)

		select {
		case <-s.stopCh:
			return nil
		default:
		}
	}
}

// Stop requests the scheduler loop to exit at its next yield point. It
// does not block until the loop has actually exited; wait on Done for
// that.
func (s *Scheduler) Stop() {
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}

// Done returns a channel closed once Run has returned.
func (s *Scheduler) Done() <-chan struct{} {
	return s.doneCh
}

// Len reports the number of collectors currently scheduled.
func (s *Scheduler) Len() int {
	return s.list.Len()
}
