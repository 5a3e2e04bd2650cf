/*
Package chat contains the core logic of the relay: who is online, which room each
connection is in, who is typing, and which connections receive each event.

This file defines the Coordinator, the single owner of that state. Every inbound
operation and every grace-window expiry goes through its lock, so registry,
membership, typing and pending-removal state change one operation at a time.
Outbound events are handed to a Gateway while the lock is held, which keeps
delivery order per sender equal to routing order.
*/
package chat

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"relaychat/internal/app/user"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/metrics"
)

const (
	// MaxUsernameLength is the longest accepted display name, in runes.
	MaxUsernameLength = 32

	// MaxRoomNameLength is the longest accepted room name, in runes.
	MaxRoomNameLength = 64

	// MaxContentBytes is the largest accepted message body.
	MaxContentBytes = 5000
)

// Gateway delivers outbound events to connections.
//
// Deliver is called with the Coordinator's lock held. It must not block and must
// not call back into the Coordinator; recipients that cannot take the event are
// dropped best-effort.
type Gateway interface {
	Deliver(connIDs []string, evt Event)
}

// JoinOutcome describes a successful Join.
type JoinOutcome struct {
	User user.User

	// Reconnected is true when the join absorbed a pending removal for the same display name.
	Reconnected bool

	// StaleConnID is the pruned connection a reconnect replaced.
	StaleConnID string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithGraceWindow sets how long a disconnected user stays listed before "left" is announced.
func WithGraceWindow(d time.Duration) Option {
	return func(c *Coordinator) { c.graceWindow = d }
}

// WithRecentCapacity sets how many global messages are retained.
func WithRecentCapacity(n int) Option {
	return func(c *Coordinator) { c.recentCapacity = n }
}

// WithClock replaces time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// withScheduler replaces time.AfterFunc for grace timers.
func withScheduler(s scheduleFunc) Option {
	return func(c *Coordinator) { c.schedule = s }
}

// Coordinator owns all presence, room and typing state for one relay process.
type Coordinator struct {
	mu sync.Mutex

	gateway  Gateway
	registry *registry
	members  *membership
	typing   *typingTracker
	grace    *graceManager
	router   *router

	graceWindow    time.Duration
	recentCapacity int
	now            func() time.Time
	schedule       scheduleFunc

	closed bool

	logger zerolog.Logger
}

// NewCoordinator constructs a Coordinator that delivers through gateway.
func NewCoordinator(gateway Gateway, opts ...Option) *Coordinator {
	c := &Coordinator{
		gateway:        gateway,
		graceWindow:    DefaultGraceWindow,
		recentCapacity: DefaultRecentCapacity,
		now:            time.Now,
		schedule:       afterFunc,
		logger:         logx.WithComponent("coordinator"),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.registry = newRegistry()
	c.members = newMembership()
	c.typing = newTypingTracker()
	c.grace = newGraceManager(c.graceWindow, c.schedule)
	c.router = newRouter(c.registry, c.members, newRecentBuffer(c.recentCapacity), c.now)

	c.logger.Info().
		Dur("grace_window", c.graceWindow).
		Int("recent_capacity", c.recentCapacity).
		Msg("Coordinator started.")

	return c
}

// Join registers connID under username. If a pending removal exists for the
// same display name, it is cancelled and its stale connection pruned without a
// "joined" announcement; only the presence list is refreshed.
func (c *Coordinator) Join(connID, username string) (JoinOutcome, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return JoinOutcome{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registry.get(connID); ok {
		c.logger.Warn().Str("conn_id", connID).Str("username", name).Msg("Duplicate join for registered connection.")
		return JoinOutcome{}, errs.NewError(errs.ErrDuplicateConnection)
	}

	outcome := JoinOutcome{}
	if rec, ok := c.grace.cancel(name); ok {
		c.prune(rec.connID)
		outcome.Reconnected = true
		outcome.StaleConnID = rec.connID
		metrics.GraceOutcomes.WithLabelValues("cancelled").Inc()
	}

	conn, err := c.registry.register(connID, name)
	if err != nil {
		return JoinOutcome{}, err
	}
	outcome.User = conn.user()

	c.deliver([]string{connID}, Event{Type: TypeSession, Payload: SessionPayload{User: outcome.User, Reconnected: outcome.Reconnected}})
	c.broadcastUserList()
	if !outcome.Reconnected {
		c.deliver(c.router.everyone(), Event{Type: TypeUserJoined, Payload: UserEventPayload{User: outcome.User}})
	}

	c.updateGauges()

	logEvent := c.logger.Info().Str("conn_id", connID).Str("username", name).Int("online", c.registry.len())
	if outcome.Reconnected {
		logEvent.Str("stale_conn_id", outcome.StaleConnID).Msg("User reconnected within grace window.")
	} else {
		logEvent.Msg("User joined.")
	}

	return outcome, nil
}

// Logout removes connID immediately and announces the departure.
func (c *Coordinator) Logout(connID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, ok := c.registry.get(connID)
	if !ok {
		return "", errs.NewError(errs.ErrNotJoined)
	}

	if c.grace.pendingConn(conn.username) == connID {
		c.grace.cancel(conn.username)
	}

	if room := c.members.roomOf(connID); room != GlobalRoom {
		c.members.leave(connID)
		c.announceRoom(room, fmt.Sprintf("%s left the room", conn.username))
	}

	u := conn.user()
	c.prune(connID)
	c.announceLeft(u)
	c.updateGauges()

	c.logger.Info().Str("conn_id", connID).Str("username", u.Username).Msg("User logged out.")

	return u.Username, nil
}

// Disconnect handles a transport-level close. The connection stays listed for
// the grace window; if no join with the same display name arrives in time, it
// is pruned and "left" is announced.
func (c *Coordinator) Disconnect(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, ok := c.registry.get(connID)
	if !ok || !c.registry.markPending(connID) {
		return
	}

	c.typing.clear(connID)

	if c.closed {
		c.prune(connID)
		c.updateGauges()
		return
	}

	if replaced := c.grace.begin(conn.username, connID, c.expire); replaced != nil && replaced.connID != connID {
		c.prune(replaced.connID)
		c.broadcastUserList()
		metrics.GraceOutcomes.WithLabelValues("replaced").Inc()
		c.logger.Info().Str("username", conn.username).Str("stale_conn_id", replaced.connID).Msg("Pending removal replaced by a newer disconnect.")
	}

	c.updateGauges()

	c.logger.Info().
		Str("conn_id", connID).
		Str("username", conn.username).
		Dur("grace_window", c.graceWindow).
		Msg("Connection lost. Waiting for reconnect.")
}

// expire is the grace timer callback.
func (c *Coordinator) expire(username string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.grace.expire(username, gen)
	if !ok {
		return
	}

	conn, ok := c.registry.get(rec.connID)
	if !ok {
		c.updateGauges()
		return
	}

	u := conn.user()
	c.prune(rec.connID)
	c.announceLeft(u)
	c.updateGauges()

	metrics.GraceOutcomes.WithLabelValues("expired").Inc()
	c.logger.Info().Str("conn_id", u.ID).Str("username", username).Msg("Grace window expired. User left.")
}

// JoinRoom moves connID into room and returns the room it was in. Joining the
// current room is a no-op; joining the empty room name is LeaveRoom.
func (c *Coordinator) JoinRoom(connID, room string) (string, error) {
	room, err := NormalizeRoom(room)
	if err != nil {
		return GlobalRoom, err
	}
	if room == GlobalRoom {
		return c.LeaveRoom(connID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.requireLive(connID)
	if err != nil {
		return GlobalRoom, err
	}

	prev := c.members.join(connID, room)
	if prev == room {
		return prev, nil
	}

	c.typing.clearRoom(connID, prev)
	if prev != GlobalRoom {
		c.announceRoom(prev, fmt.Sprintf("%s left the room", conn.username))
	}
	c.announceRoom(room, fmt.Sprintf("%s joined the room", conn.username))

	c.logger.Debug().Str("conn_id", connID).Str("room", room).Str("previous_room", prev).Msg("Joined room.")

	return prev, nil
}

// LeaveRoom returns connID to the global room and reports the room it left.
// It is a no-op for a connection already in the global room.
func (c *Coordinator) LeaveRoom(connID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.requireLive(connID)
	if err != nil {
		return GlobalRoom, err
	}

	prev, changed := c.members.leave(connID)
	if !changed {
		return GlobalRoom, nil
	}

	c.typing.clearRoom(connID, prev)
	c.announceRoom(prev, fmt.Sprintf("%s left the room", conn.username))

	c.logger.Debug().Str("conn_id", connID).Str("room", prev).Msg("Left room.")

	return prev, nil
}

// RoomOf reports connID's current room; GlobalRoom for unknown connections.
func (c *Coordinator) RoomOf(connID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.members.roomOf(connID)
}

// Send routes a message to connID's current scope: the global room or its named room.
func (c *Coordinator) Send(connID, body string, att *Attachment) (Message, error) {
	if c.RoomOf(connID) == GlobalRoom {
		return c.SendGlobal(connID, body, att)
	}
	return c.SendRoom(connID, body, att)
}

// SendGlobal routes a message to every connection in the global room and
// retains it in the recent-message buffer.
func (c *Coordinator) SendGlobal(connID, body string, att *Attachment) (Message, error) {
	if err := validateContent(body, att); err != nil {
		return Message{}, c.dropped(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sender, err := c.requireLive(connID)
	if err != nil {
		return Message{}, c.dropped(err)
	}

	msg, audience := c.router.routeGlobal(sender, body, att)
	c.deliver(audience, Event{Type: TypeReceiveMessage, Payload: msg})
	countRouted(msg)

	return msg, nil
}

// SendRoom routes a message to the members of connID's current room.
func (c *Coordinator) SendRoom(connID, body string, att *Attachment) (Message, error) {
	if err := validateContent(body, att); err != nil {
		return Message{}, c.dropped(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sender, err := c.requireLive(connID)
	if err != nil {
		return Message{}, c.dropped(err)
	}

	room := c.members.roomOf(connID)
	if room == GlobalRoom {
		return Message{}, c.dropped(errs.NewError(errs.ErrNotInRoom))
	}

	msg, audience := c.router.routeRoom(sender, room, body, att)
	c.deliver(audience, Event{Type: TypeReceiveMessage, Payload: msg})
	countRouted(msg)

	return msg, nil
}

// SendPrivate delivers a direct message to recipientID and echoes it to the sender.
// An unknown recipient drops the message: the sender is not notified, and the
// returned ErrUnknownRecipient is for logging only.
func (c *Coordinator) SendPrivate(connID, recipientID, body string, att *Attachment) (Message, error) {
	if err := validateContent(body, att); err != nil {
		return Message{}, c.dropped(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sender, err := c.requireLive(connID)
	if err != nil {
		return Message{}, c.dropped(err)
	}

	msg, audience, err := c.router.routePrivate(sender, recipientID, body, att)
	if err != nil {
		c.logger.Debug().Str("conn_id", connID).Str("recipient_id", recipientID).Msg("Private message to unknown recipient dropped.")
		return Message{}, c.dropped(err)
	}

	c.deliver(audience, Event{Type: TypePrivateMessage, Payload: msg})
	countRouted(msg)

	return msg, nil
}

// SetTyping records connID's composing state in its current room and tells the
// rest of that room. Every call produces exactly one event.
func (c *Coordinator) SetTyping(connID string, isTyping bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.requireLive(connID)
	if err != nil {
		return err
	}

	room := c.members.roomOf(connID)
	c.typing.set(connID, room, isTyping)

	c.deliver(c.router.audienceExcept(room, connID), Event{
		Type: TypeTypingUpdate,
		Payload: TypingPayload{
			UserID:   connID,
			Username: conn.username,
			IsTyping: isTyping,
			Room:     room,
		},
	})

	return nil
}

// RecentMessages returns the retained global-room messages, oldest first.
func (c *Coordinator) RecentMessages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.router.recent.snapshot()
}

// OnlineUsers returns the presence list in registration order, including
// connections inside their grace window.
func (c *Coordinator) OnlineUsers() []user.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.registry.list()
}

// Shutdown cancels every pending removal and prunes its connection without
// announcing it. Later disconnects are pruned at once.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for _, connID := range c.grace.stopAll() {
		c.prune(connID)
	}
	c.updateGauges()

	c.logger.Info().Int("online", c.registry.len()).Msg("Coordinator shutdown complete.")
}

// requireLive looks up a connected record for an inbound operation.
func (c *Coordinator) requireLive(connID string) (*connection, error) {
	conn, ok := c.registry.get(connID)
	if !ok {
		return nil, errs.NewError(errs.ErrNotJoined)
	}
	if conn.state != connected {
		return nil, errs.NewError(errs.ErrInvalidRoomTransition)
	}
	return conn, nil
}

// prune removes every trace of a connection without announcing anything.
func (c *Coordinator) prune(connID string) {
	c.registry.unregister(connID)
	c.members.remove(connID)
	c.typing.clear(connID)
}

func (c *Coordinator) announceLeft(u user.User) {
	c.deliver(c.router.everyone(), Event{Type: TypeUserLeft, Payload: UserEventPayload{User: u}})
	c.broadcastUserList()
}

func (c *Coordinator) announceRoom(room, text string) {
	msg, audience := c.router.systemMessage(room, text)
	c.deliver(audience, Event{Type: TypeReceiveMessage, Payload: msg})
	countRouted(msg)
}

func (c *Coordinator) broadcastUserList() {
	c.deliver(c.router.everyone(), Event{Type: TypeUserList, Payload: UserListPayload{Users: c.registry.list()}})
}

// countRouted records msg under its scope label; announcements count as "system".
func countRouted(msg Message) {
	scope := msg.Target().String()
	if msg.System {
		scope = "system"
	}
	metrics.MessagesRouted.WithLabelValues(scope).Inc()
}

func (c *Coordinator) deliver(connIDs []string, evt Event) {
	if len(connIDs) == 0 {
		return
	}
	c.gateway.Deliver(connIDs, evt)
}

func (c *Coordinator) dropped(err error) error {
	metrics.MessagesDropped.WithLabelValues(strconv.Itoa(errs.CodeOf(err))).Inc()
	return err
}

func (c *Coordinator) updateGauges() {
	metrics.ConnectionsActive.Set(float64(c.registry.len()))
	metrics.ConnectionsPending.Set(float64(c.grace.len()))
}

// NormalizeUsername trims a display name and checks its length and characters.
func NormalizeUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if name == "" || utf8.RuneCountInString(name) > MaxUsernameLength || strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "", errs.NewError(errs.ErrInvalidUsername, MaxUsernameLength)
	}
	return name, nil
}

// NormalizeRoom trims a room name; the empty result is the global room.
func NormalizeRoom(room string) (string, error) {
	room = strings.TrimSpace(room)
	if utf8.RuneCountInString(room) > MaxRoomNameLength || strings.IndexFunc(room, unicode.IsControl) >= 0 {
		return "", errs.NewError(errs.ErrInvalidRoomName, MaxRoomNameLength)
	}
	return room, nil
}

func validateContent(body string, att *Attachment) error {
	if len(body) > MaxContentBytes {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}
	if att == nil && strings.TrimSpace(body) == "" {
		return errs.NewError(errs.ErrEmptyMessage)
	}
	if err := ValidateAttachment(att); err != nil {
		return err
	}
	return nil
}
