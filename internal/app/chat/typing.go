package chat

// typingTracker holds the last reported composing flag per (connection, room).
// State is overwritten on every update and never expires here; clients age it out.
type typingTracker struct {
	states map[string]map[string]bool
}

func newTypingTracker() *typingTracker {
	return &typingTracker{states: make(map[string]map[string]bool)}
}

func (t *typingTracker) set(id, room string, isTyping bool) {
	rooms, ok := t.states[id]
	if !ok {
		rooms = make(map[string]bool)
		t.states[id] = rooms
	}
	rooms[room] = isTyping
}

// clearRoom forgets id's state in one room, used when it moves elsewhere.
func (t *typingTracker) clearRoom(id, room string) {
	rooms, ok := t.states[id]
	if !ok {
		return
	}

	delete(rooms, room)
	if len(rooms) == 0 {
		delete(t.states, id)
	}
}

// clear forgets all state for id.
func (t *typingTracker) clear(id string) {
	delete(t.states, id)
}
