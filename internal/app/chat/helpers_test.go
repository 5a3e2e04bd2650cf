package chat

import (
	"sync"
	"testing"
	"time"
)

type delivery struct {
	to  []string
	evt Event
}

// recordingGateway captures every delivery instead of writing to sockets.
type recordingGateway struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (g *recordingGateway) Deliver(connIDs []string, evt Event) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.deliveries = append(g.deliveries, delivery{to: append([]string(nil), connIDs...), evt: evt})
}

func (g *recordingGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.deliveries = nil
}

func (g *recordingGateway) ofType(typ EventType) []delivery {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []delivery
	for _, d := range g.deliveries {
		if d.evt.Type == typ {
			out = append(out, d)
		}
	}
	return out
}

// received lists events delivered to connID, in order.
func (g *recordingGateway) received(connID string) []Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Event
	for _, d := range g.deliveries {
		for _, id := range d.to {
			if id == connID {
				out = append(out, d.evt)
			}
		}
	}
	return out
}

// messagesFor lists routed messages delivered to connID.
func (g *recordingGateway) messagesFor(connID string) []Message {
	var out []Message
	for _, evt := range g.received(connID) {
		if msg, ok := evt.Payload.(Message); ok {
			out = append(out, msg)
		}
	}
	return out
}

type fakeTimer struct {
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

// fakeScheduler records grace timers so tests fire them by hand.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	fns    []func()
	delays []time.Duration
}

func (s *fakeScheduler) schedule(d time.Duration, f func()) timerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &fakeTimer{}
	s.timers = append(s.timers, t)
	s.fns = append(s.fns, f)
	s.delays = append(s.delays, d)
	return t
}

// fire runs the i-th scheduled callback even if it was stopped, the way a
// real timer can fire just before Stop is called.
func (s *fakeScheduler) fire(i int) {
	s.mu.Lock()
	f := s.fns[i]
	s.mu.Unlock()

	f()
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.fns)
}

func newTestCoordinator(t *testing.T, opts ...Option) (*Coordinator, *recordingGateway, *fakeScheduler) {
	t.Helper()

	gw := &recordingGateway{}
	sched := &fakeScheduler{}
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	opts = append([]Option{
		withScheduler(sched.schedule),
		WithClock(func() time.Time { return clock }),
	}, opts...)

	return NewCoordinator(gw, opts...), gw, sched
}

func mustJoin(t *testing.T, c *Coordinator, connID, username string) JoinOutcome {
	t.Helper()

	outcome, err := c.Join(connID, username)
	if err != nil {
		t.Fatalf("join %s as %q: %v", connID, username, err)
	}
	return outcome
}

func mustJoinRoom(t *testing.T, c *Coordinator, connID, room string) {
	t.Helper()

	if _, err := c.JoinRoom(connID, room); err != nil {
		t.Fatalf("join room %q for %s: %v", room, connID, err)
	}
}

func typingState(tr *typingTracker, id, room string) bool {
	return tr.states[id][room]
}
