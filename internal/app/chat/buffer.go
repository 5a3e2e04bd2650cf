package chat

// DefaultRecentCapacity is how many global-room messages are retained.
const DefaultRecentCapacity = 100

// recentBuffer is a fixed-size ring of the latest global-room messages.
// The oldest message is overwritten first.
type recentBuffer struct {
	items []Message
	pos   int
	count int
}

func newRecentBuffer(capacity int) *recentBuffer {
	if capacity <= 0 {
		capacity = DefaultRecentCapacity
	}
	return &recentBuffer{items: make([]Message, capacity)}
}

func (b *recentBuffer) add(msg Message) {
	b.items[b.pos] = msg
	b.pos = (b.pos + 1) % len(b.items)
	if b.count < len(b.items) {
		b.count++
	}
}

// snapshot returns the retained messages oldest first.
func (b *recentBuffer) snapshot() []Message {
	out := make([]Message, b.count)
	start := (b.pos - b.count + len(b.items)) % len(b.items)
	for i := 0; i < b.count; i++ {
		out[i] = b.items[(start+i)%len(b.items)]
	}
	return out
}

func (b *recentBuffer) len() int {
	return b.count
}
