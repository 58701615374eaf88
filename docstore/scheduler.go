package docstore

import (
	"log/slog"
	"sync"
	"time"
)

// schedulerState tracks the write scheduler's position in its state machine.
type schedulerState int

const (
	// stateIdle means no write is scheduled or executing.
	stateIdle schedulerState = iota

	// stateScheduled means a timer is armed for the next write.
	stateScheduled

	// stateWriting means a physical write is executing right now.
	stateWriting
)

// scheduler debounces and coalesces persistence of the table to disk. At
// most one physical write executes at a time; sync requests arriving while a
// write is in flight set the outstanding flag and coalesce into exactly one
// follow-up write. Serialization happens inside the write function at write
// start, so the most recent table state is always what lands on disk.
type scheduler struct {
	write  func() error
	delay  time.Duration
	logger *slog.Logger

	// onSynced is invoked after every successful physical write, outside
	// the scheduler lock.
	onSynced func()

	// enabled is false when the store was configured with WriteToDisk off;
	// sync then completes immediately and no timer or write ever runs.
	enabled bool

	mu          sync.Mutex
	state       schedulerState
	timer       *time.Timer
	outstanding bool
	lastWrite   time.Time

	// waiters complete with the outcome of the next write; queued holds
	// syncs that arrived mid-write and roll over into the follow-up write.
	waiters []chan error
	queued  []chan error
}

func newScheduler(enabled bool, delay time.Duration, write func() error, onSynced func(), logger *slog.Logger) *scheduler {
	return &scheduler{
		write:    write,
		delay:    delay,
		logger:   logger,
		onSynced: onSynced,
		enabled:  enabled,
		// Delay calculation starts from construction, so even the first
		// write respects the configured spacing.
		lastWrite: time.Now(),
	}
}

// sync requests persistence of the current table state. The returned channel
// receives exactly one value: nil once the state as of this call (or newer)
// is durably on disk, or the write failure.
func (s *scheduler) sync() <-chan error {
	ch := make(chan error, 1)

	if !s.enabled {
		ch <- nil
		return ch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateIdle:
		s.waiters = append(s.waiters, ch)
		s.arm()
	case stateScheduled:
		// Coalesce: the armed write will capture this caller's state too.
		s.waiters = append(s.waiters, ch)
	case stateWriting:
		// The in-flight write may predate this caller's state. Queue one
		// follow-up write; further syncs coalesce into it.
		s.outstanding = true
		s.queued = append(s.queued, ch)
	}
	return ch
}

// arm transitions to Scheduled and starts the debounce timer, respecting the
// minimum spacing since the last physical write. Callers hold s.mu.
func (s *scheduler) arm() {
	s.state = stateScheduled
	d := time.Until(s.lastWrite.Add(s.delay))
	if d < 0 {
		d = 0
	}
	s.timer = time.AfterFunc(d, s.run)
}

// run executes one physical write and re-arms when syncs queued up behind it.
func (s *scheduler) run() {
	s.mu.Lock()
	if s.state != stateScheduled {
		// A concurrent flush already advanced the machine.
		s.mu.Unlock()
		return
	}
	s.state = stateWriting
	s.mu.Unlock()

	err := s.write()

	s.mu.Lock()
	s.lastWrite = time.Now()
	done := s.waiters
	s.waiters = nil
	if s.outstanding {
		// A sync arrived during the write; its state may be newer than
		// what was just written, so schedule one more pass.
		s.outstanding = false
		s.waiters = s.queued
		s.queued = nil
		s.arm()
	} else {
		s.state = stateIdle
		s.timer = nil
	}
	s.mu.Unlock()

	if err == nil && s.onSynced != nil {
		// Notify before releasing waiters so a caller returning from sync
		// observes the event as already delivered.
		s.onSynced()
	}
	for _, ch := range done {
		ch <- err
	}
	if err != nil {
		s.logger.Warn("write failed", "error", err)
	}
}

// flush hurries a pending write along and waits for in-flight work to
// settle. It does not trigger a write when nothing is pending.
func (s *scheduler) flush() error {
	s.mu.Lock()
	if !s.enabled || s.state == stateIdle {
		s.mu.Unlock()
		return nil
	}

	ch := make(chan error, 1)
	switch s.state {
	case stateScheduled:
		s.waiters = append(s.waiters, ch)
		// Fire the armed timer now instead of waiting out the delay.
		s.timer.Reset(0)
	case stateWriting:
		if s.outstanding {
			s.queued = append(s.queued, ch)
		} else {
			s.waiters = append(s.waiters, ch)
		}
	}
	s.mu.Unlock()

	return <-ch
}
