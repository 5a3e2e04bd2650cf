package chat

import (
	"time"

	"relaychat/internal/app/user"
)

// GlobalRoom is the distinguished empty room name: the default audience
// every connection belongs to until it joins a named room.
const GlobalRoom = ""

// EventType names an outbound or inbound frame on the socket.
type EventType string

// Outbound event types delivered through the Gateway.
const (
	TypeSession        EventType = "session"
	TypeUserList       EventType = "user_list"
	TypeUserJoined     EventType = "user_joined"
	TypeUserLeft       EventType = "user_left"
	TypeReceiveMessage EventType = "receive_message"
	TypePrivateMessage EventType = "private_message"
	TypeTypingUpdate   EventType = "typing_update"
	TypeError          EventType = "error"
)

// Inbound event types read from a connection.
const (
	TypeUserJoin    EventType = "user_join"
	TypeUserLeave   EventType = "user_leave"
	TypeJoinRoom    EventType = "join_room"
	TypeLeaveRoom   EventType = "leave_room"
	TypeSendMessage EventType = "send_message"
	TypeSendGlobal  EventType = "send_global"
	TypeSendRoom    EventType = "send_room"
	TypeSendPrivate EventType = "private_message"
	TypeTyping      EventType = "typing"
)

// Event is one outbound frame: a type tag and its payload.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// TargetKind tells which audience a Message was routed to.
type TargetKind int

const (
	TargetGlobal TargetKind = iota
	TargetRoom
	TargetPrivate
)

func (k TargetKind) String() string {
	switch k {
	case TargetRoom:
		return "room"
	case TargetPrivate:
		return "private"
	default:
		return "global"
	}
}

// Message is an immutable chat message, user-authored or a system announcement.
type Message struct {
	// ID is the coordinator-wide sequence number; monotonic, used for ordering and dedup.
	ID uint64 `json:"id"`

	Sender     string      `json:"sender,omitempty"`
	SenderID   string      `json:"senderId,omitempty"`
	Body       string      `json:"message"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`

	// Room is set for room-scoped messages and omitted for the global room.
	Room string `json:"room,omitempty"`

	IsPrivate bool   `json:"isPrivate,omitempty"`
	To        string `json:"to,omitempty"`

	// System marks synthetic join/leave announcements.
	System bool `json:"system,omitempty"`
}

// Target reports the audience kind the message was built for.
func (m Message) Target() TargetKind {
	switch {
	case m.IsPrivate:
		return TargetPrivate
	case m.Room != GlobalRoom:
		return TargetRoom
	default:
		return TargetGlobal
	}
}

// SessionPayload tells a connection its own identity after a successful join.
type SessionPayload struct {
	User        user.User `json:"user"`
	Reconnected bool      `json:"reconnected"`
}

// UserListPayload is a presence snapshot in registration order.
type UserListPayload struct {
	Users []user.User `json:"users"`
}

// UserEventPayload announces a single user joining or leaving the chat.
type UserEventPayload struct {
	User user.User `json:"user"`
}

// TypingPayload reports one connection's composing state in a room or the global room.
type TypingPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
	Room     string `json:"room,omitempty"`
}

// ErrorPayload is sent to a single connection when its own request failed.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
