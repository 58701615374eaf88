package docstore

import "sync"

// EventKind identifies a store lifecycle notification.
type EventKind int

const (
	// EventLoaded fires each time the table is replaced wholesale: initial
	// load, reload and clear.
	EventLoaded EventKind = iota

	// EventSync fires after a physical write completes successfully.
	EventSync
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventSync:
		return "sync"
	default:
		return "unknown"
	}
}

// Event is a store lifecycle notification delivered to subscribers.
type Event struct {
	Kind  EventKind
	Store string
}

// subscribers is an explicit observer list; there is no process-global bus.
type subscribers struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

// add registers fn and returns a cancel function removing it again.
func (s *subscribers) add(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(Event))
	}
	id := s.next
	s.next++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// notify invokes every subscriber synchronously. Callbacks run without any
// store lock held and must not block for long.
func (s *subscribers) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// clear drops all subscribers (store teardown).
func (s *subscribers) clear() {
	s.mu.Lock()
	s.subs = nil
	s.mu.Unlock()
}
