package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/internal/app/user"
	"relaychat/internal/pkg/errs"
)

func TestRegistry(t *testing.T) {
	r := newRegistry()

	_, err := r.register("a", "alice")
	require.NoError(t, err)
	_, err = r.register("b", "bob")
	require.NoError(t, err)

	_, err = r.register("a", "again")
	assert.True(t, errs.HasCode(err, errs.ErrDuplicateConnection))

	assert.True(t, r.markPending("a"))
	conn, ok := r.get("a")
	require.True(t, ok)
	assert.Equal(t, awaitingReconnect, conn.state)
	assert.False(t, r.markPending("a"), "already pending")
	assert.False(t, r.markPending("ghost"))

	assert.Equal(t, []user.User{{ID: "a", Username: "alice"}, {ID: "b", Username: "bob"}}, r.list())
	require.Len(t, r.live(), 1)
	assert.Equal(t, "b", r.live()[0].id)

	name, ok := r.unregister("a")
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	_, ok = r.unregister("a")
	assert.False(t, ok)
	assert.Equal(t, 1, r.len())
}

func TestMembership(t *testing.T) {
	m := newMembership()

	assert.Equal(t, GlobalRoom, m.roomOf("a"))

	assert.Equal(t, GlobalRoom, m.join("a", "tech"))
	assert.Equal(t, "tech", m.join("a", "tech"))
	assert.Equal(t, "tech", m.join("a", "random"))
	assert.Equal(t, "random", m.roomOf("a"))

	prev, changed := m.leave("a")
	assert.True(t, changed)
	assert.Equal(t, "random", prev)

	_, changed = m.leave("a")
	assert.False(t, changed)

	m.join("a", "tech")
	m.remove("a")
	assert.Equal(t, GlobalRoom, m.roomOf("a"))
}

func TestTypingTracker(t *testing.T) {
	tr := newTypingTracker()

	tr.set("a", "tech", true)
	tr.set("a", GlobalRoom, true)
	assert.True(t, typingState(tr, "a", "tech"))

	tr.set("a", "tech", false)
	assert.False(t, typingState(tr, "a", "tech"))

	tr.clearRoom("a", "tech")
	assert.True(t, typingState(tr, "a", GlobalRoom))

	tr.clear("a")
	assert.False(t, typingState(tr, "a", GlobalRoom))
	assert.Empty(t, tr.states)
}

func TestGraceManager(t *testing.T) {
	sched := &fakeScheduler{}
	g := newGraceManager(time.Second, sched.schedule)

	var fired []uint64
	fire := func(_ string, gen uint64) { fired = append(fired, gen) }

	assert.Nil(t, g.begin("alice", "a1", fire))
	assert.Equal(t, "a1", g.pendingConn("alice"))

	replaced := g.begin("alice", "a2", fire)
	require.NotNil(t, replaced)
	assert.Equal(t, "a1", replaced.connID)
	assert.True(t, sched.timers[0].stopped)
	assert.Equal(t, 1, g.len(), "replacing does not stack records")

	sched.fire(0)
	sched.fire(1)
	require.Equal(t, []uint64{1, 2}, fired)

	_, ok := g.expire("alice", 1)
	assert.False(t, ok, "stale generation")

	rec, ok := g.expire("alice", 2)
	require.True(t, ok)
	assert.Equal(t, "a2", rec.connID)

	_, ok = g.cancel("alice")
	assert.False(t, ok)

	g.begin("bob", "b1", fire)
	g.begin("carol", "c1", fire)
	assert.ElementsMatch(t, []string{"b1", "c1"}, g.stopAll())
	assert.Zero(t, g.len())
}

func TestRecentBuffer(t *testing.T) {
	b := newRecentBuffer(DefaultRecentCapacity)
	assert.Empty(t, b.snapshot())

	for i := 1; i <= 101; i++ {
		b.add(Message{ID: uint64(i), Body: fmt.Sprintf("m%d", i)})
	}

	snap := b.snapshot()
	require.Len(t, snap, 100)
	assert.Equal(t, b.len(), len(snap))
	for i, msg := range snap {
		assert.Equal(t, uint64(i+2), msg.ID)
	}
}

func TestRecentBufferPartial(t *testing.T) {
	b := newRecentBuffer(3)
	b.add(Message{ID: 1})
	b.add(Message{ID: 2})

	snap := b.snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, uint64(1), snap[0].ID)
	assert.Equal(t, uint64(2), snap[1].ID)
}
