package chat

import "time"

// DefaultGraceWindow is how long a disconnected user stays listed before "left" is announced.
const DefaultGraceWindow = 3 * time.Second

// timerHandle is the part of *time.Timer the grace manager needs.
type timerHandle interface {
	Stop() bool
}

// scheduleFunc runs f once after d. time.AfterFunc in production; tests fire callbacks by hand.
type scheduleFunc func(d time.Duration, f func()) timerHandle

func afterFunc(d time.Duration, f func()) timerHandle {
	return time.AfterFunc(d, f)
}

// pendingRemoval is the reconnect record for one display name.
type pendingRemoval struct {
	connID string
	timer  timerHandle
	gen    uint64
}

// graceManager keeps at most one pending removal per display name.
//
// It is not safe for concurrent use on its own: every method is called with
// the Coordinator's lock held, including from the timer callback, which makes
// cancel and expire mutually exclusive. The generation number lets a timer that
// already fired but lost the race to cancel (or to a replacement) recognise it
// is stale and do nothing.
type graceManager struct {
	window   time.Duration
	schedule scheduleFunc
	pending  map[string]*pendingRemoval
	gen      uint64
}

func newGraceManager(window time.Duration, schedule scheduleFunc) *graceManager {
	return &graceManager{
		window:   window,
		schedule: schedule,
		pending:  make(map[string]*pendingRemoval),
	}
}

// begin starts the grace window for username. fire runs on expiry with the
// generation to hand back to expire. A record already pending for the same
// name is stopped and returned so the caller can prune its connection.
func (g *graceManager) begin(username, connID string, fire func(username string, gen uint64)) *pendingRemoval {
	replaced := g.pending[username]
	if replaced != nil {
		replaced.timer.Stop()
	}

	g.gen++
	gen := g.gen
	g.pending[username] = &pendingRemoval{
		connID: connID,
		gen:    gen,
		timer:  g.schedule(g.window, func() { fire(username, gen) }),
	}

	return replaced
}

// cancel ends the window for username because it reconnected.
func (g *graceManager) cancel(username string) (*pendingRemoval, bool) {
	rec, ok := g.pending[username]
	if !ok {
		return nil, false
	}

	rec.timer.Stop()
	delete(g.pending, username)

	return rec, true
}

// expire claims the record for a fired timer. It reports false when the
// record was cancelled or replaced after the timer was armed.
func (g *graceManager) expire(username string, gen uint64) (*pendingRemoval, bool) {
	rec, ok := g.pending[username]
	if !ok || rec.gen != gen {
		return nil, false
	}

	delete(g.pending, username)

	return rec, true
}

// stopAll drops every pending record without firing it and returns the
// connections that were waiting.
func (g *graceManager) stopAll() []string {
	connIDs := make([]string, 0, len(g.pending))
	for username, rec := range g.pending {
		rec.timer.Stop()
		connIDs = append(connIDs, rec.connID)
		delete(g.pending, username)
	}
	return connIDs
}

// pendingConn returns the connection waiting out username's window, or "".
func (g *graceManager) pendingConn(username string) string {
	if rec, ok := g.pending[username]; ok {
		return rec.connID
	}
	return ""
}

func (g *graceManager) len() int {
	return len(g.pending)
}
