package chat

import (
	"relaychat/internal/app/user"
	"relaychat/internal/pkg/errs"
)

// liveness is the lifecycle state of a registered connection.
type liveness int

const (
	connected liveness = iota
	awaitingReconnect
)

// connection is the registry's record of one live socket.
// username is fixed for the record's lifetime.
type connection struct {
	id       string
	username string
	state    liveness
}

func (c *connection) user() user.User {
	return user.User{ID: c.id, Username: c.username}
}

// registry is the single source of truth for who is online.
// Records keep insertion order for presence snapshots.
type registry struct {
	byID  map[string]*connection
	order []string
}

func newRegistry() *registry {
	return &registry{byID: make(map[string]*connection)}
}

// register inserts a fresh connected record.
func (r *registry) register(id, username string) (*connection, error) {
	if _, ok := r.byID[id]; ok {
		return nil, errs.NewError(errs.ErrDuplicateConnection)
	}

	conn := &connection{id: id, username: username, state: connected}
	r.byID[id] = conn
	r.order = append(r.order, id)

	return conn, nil
}

// unregister removes the record and returns its username.
func (r *registry) unregister(id string) (string, bool) {
	conn, ok := r.byID[id]
	if !ok {
		return "", false
	}

	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return conn.username, true
}

func (r *registry) get(id string) (*connection, bool) {
	conn, ok := r.byID[id]
	return conn, ok
}

// markPending flags a connection as waiting out the grace window.
func (r *registry) markPending(id string) bool {
	conn, ok := r.byID[id]
	if !ok || conn.state == awaitingReconnect {
		return false
	}

	conn.state = awaitingReconnect
	return true
}

// list returns every registered connection, pending ones included, in insertion order.
func (r *registry) list() []user.User {
	users := make([]user.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.byID[id].user())
	}
	return users
}

// live returns connected records in insertion order, for audience resolution.
func (r *registry) live() []*connection {
	conns := make([]*connection, 0, len(r.order))
	for _, id := range r.order {
		if conn := r.byID[id]; conn.state == connected {
			conns = append(conns, conn)
		}
	}
	return conns
}

func (r *registry) len() int {
	return len(r.order)
}
