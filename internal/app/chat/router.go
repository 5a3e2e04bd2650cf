package chat

import (
	"time"

	"relaychat/internal/pkg/errs"
)

// router builds messages and resolves their audiences from registry and
// membership state. It owns the sequence counter and the recent-message buffer.
type router struct {
	registry *registry
	members  *membership
	recent   *recentBuffer
	now      func() time.Time
	seq      uint64
}

func newRouter(reg *registry, members *membership, recent *recentBuffer, now func() time.Time) *router {
	return &router{registry: reg, members: members, recent: recent, now: now}
}

func (rt *router) newMessage(sender *connection, body string, att *Attachment) Message {
	rt.seq++
	msg := Message{
		ID:         rt.seq,
		Body:       body,
		Attachment: att,
		Timestamp:  rt.now().UTC(),
	}
	if sender != nil {
		msg.Sender = sender.username
		msg.SenderID = sender.id
	}
	return msg
}

// audience lists live connections whose current room is room, in registration order.
func (rt *router) audience(room string) []string {
	var ids []string
	for _, conn := range rt.registry.live() {
		if rt.members.roomOf(conn.id) == room {
			ids = append(ids, conn.id)
		}
	}
	return ids
}

// audienceExcept is audience(room) without one connection.
func (rt *router) audienceExcept(room, exclude string) []string {
	var ids []string
	for _, id := range rt.audience(room) {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	return ids
}

// everyone lists all live connections regardless of room, for presence events.
func (rt *router) everyone() []string {
	live := rt.registry.live()
	ids := make([]string, 0, len(live))
	for _, conn := range live {
		ids = append(ids, conn.id)
	}
	return ids
}

// routeGlobal builds a global-room message, retains it in the recent buffer
// and returns it with the connections currently in the global room.
func (rt *router) routeGlobal(sender *connection, body string, att *Attachment) (Message, []string) {
	msg := rt.newMessage(sender, body, att)
	rt.recent.add(msg)
	return msg, rt.audience(GlobalRoom)
}

// routeRoom builds a room-scoped message for the members of room. Nothing is retained.
func (rt *router) routeRoom(sender *connection, room, body string, att *Attachment) (Message, []string) {
	msg := rt.newMessage(sender, body, att)
	msg.Room = room
	return msg, rt.audience(room)
}

// routePrivate builds a direct message for the sender (as an echo) and the recipient.
// A recipient that is unknown or inside its grace window yields ErrUnknownRecipient.
func (rt *router) routePrivate(sender *connection, recipientID, body string, att *Attachment) (Message, []string, error) {
	recipient, ok := rt.registry.get(recipientID)
	if !ok || recipient.state != connected {
		return Message{}, nil, errs.NewError(errs.ErrUnknownRecipient)
	}

	msg := rt.newMessage(sender, body, att)
	msg.IsPrivate = true
	msg.To = recipient.id

	if recipient.id == sender.id {
		return msg, []string{sender.id}, nil
	}
	return msg, []string{sender.id, recipient.id}, nil
}

// systemMessage builds a join/leave announcement for room and returns its audience.
func (rt *router) systemMessage(room, text string) (Message, []string) {
	msg := rt.newMessage(nil, text, nil)
	msg.System = true
	msg.Room = room
	return msg, rt.audience(room)
}
