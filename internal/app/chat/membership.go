package chat

// membership maps each connection to its single current room.
// A missing entry means the global room, so every registered connection
// always has exactly one value.
type membership struct {
	rooms map[string]string
}

func newMembership() *membership {
	return &membership{rooms: make(map[string]string)}
}

func (m *membership) roomOf(id string) string {
	return m.rooms[id]
}

// join moves id into room, implicitly leaving its previous room, and returns
// the previous room. Joining the current room changes nothing.
func (m *membership) join(id, room string) string {
	prev := m.rooms[id]
	if prev == room {
		return prev
	}

	if room == GlobalRoom {
		delete(m.rooms, id)
	} else {
		m.rooms[id] = room
	}

	return prev
}

// leave returns id to the global room. changed is false if it was already global.
func (m *membership) leave(id string) (prev string, changed bool) {
	prev, ok := m.rooms[id]
	if !ok {
		return GlobalRoom, false
	}

	delete(m.rooms, id)
	return prev, true
}

// remove drops every edge for a pruned connection.
func (m *membership) remove(id string) {
	delete(m.rooms, id)
}
