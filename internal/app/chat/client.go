/*
Package chat contains the core logic of the relay.

This file defines the Client struct, representing an active WebSocket connection. It manages the
socket's read and write loops and translates inbound frames into Coordinator operations.
*/
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 16384

	// capacity of the per-client outbound queue.
	sendBufferSize = 256

	// InboundRate and InboundBurst bound how fast one socket may send frames.
	InboundRate  = 20
	InboundBurst = 40
)

// Client struct represents an active WebSocket connection.
type Client struct {
	// opaque connection identity, unique per socket.
	id string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	hub         *Hub
	coordinator *Coordinator

	// verified display name from an identity token; empty for anonymous sockets.
	identity string

	// a buffered channel used to queue frames waiting to be written.
	send chan []byte

	// token bucket guarding inbound frames.
	limiter *rate.Limiter

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client with a fresh connection identity.
// identity is the verified username, or "" when the socket is anonymous.
func NewClient(hub *Hub, coordinator *Coordinator, wsConn *websocket.Conn, identity string) *Client {
	id := uuid.NewString()

	return &Client{
		id:          id,
		conn:        wsConn,
		hub:         hub,
		coordinator: coordinator,
		identity:    identity,
		send:        make(chan []byte, sendBufferSize),
		limiter:     rate.NewLimiter(rate.Limit(InboundRate), InboundBurst),
		logger:      logx.WithComponent("client").With().Str("conn_id", id).Logger(),
	}
}

// ID returns the connection identity.
func (c *Client) ID() string {
	return c.id
}

// inboundFrame is the envelope every client frame arrives in.
type inboundFrame struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinPayload struct {
	Username string `json:"username"`
}

type roomPayload struct {
	Room string `json:"room"`
}

type messagePayload struct {
	Message    string      `json:"message"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

type privatePayload struct {
	To         string      `json:"to"`
	Message    string      `json:"message"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

type typingPayload struct {
	IsTyping bool `json:"isTyping"`
}

// ReadPump handles reading frames from the WebSocket connection.
// It handles heartbeats (Pong), frame dispatch, and performs cleanup upon connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		if !c.limiter.Allow() {
			c.logger.Warn().Msg("Inbound rate limit exceeded, dropping frame")
			continue
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect detaches the socket and hands the connection to the grace window.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Remove(c)
	c.coordinator.Disconnect(c.id)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage decodes one frame and dispatches it to the Coordinator.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(messageBytes, &frame); err != nil {
		c.logger.Warn().Err(err).Int("frame_bytes", len(messageBytes)).Msg("Client sent invalid JSON")
		return
	}

	var err error
	switch frame.Type {
	case TypeUserJoin:
		err = c.handleJoin(frame.Payload)

	case TypeUserLeave:
		_, err = c.coordinator.Logout(c.id)

	case TypeJoinRoom:
		var p roomPayload
		if err = decodePayload(frame.Payload, &p); err == nil {
			_, err = c.coordinator.JoinRoom(c.id, p.Room)
		}

	case TypeLeaveRoom:
		_, err = c.coordinator.LeaveRoom(c.id)

	case TypeSendMessage, TypeSendGlobal, TypeSendRoom:
		var p messagePayload
		if err = decodePayload(frame.Payload, &p); err == nil {
			err = c.handleSend(frame.Type, p)
		}

	case TypeSendPrivate:
		var p privatePayload
		if err = decodePayload(frame.Payload, &p); err == nil {
			_, err = c.coordinator.SendPrivate(c.id, p.To, p.Message, p.Attachment)
		}

	case TypeTyping:
		var p typingPayload
		if err = decodePayload(frame.Payload, &p); err == nil {
			err = c.coordinator.SetTyping(c.id, p.IsTyping)
		}

	default:
		c.logger.Warn().Str("msg_type", string(frame.Type)).Msg("Client sent unsupported message type")
		return
	}

	if err != nil {
		c.reportError(frame.Type, err)
	}
}

func (c *Client) handleJoin(payload json.RawMessage) error {
	var p joinPayload
	if err := decodePayload(payload, &p); err != nil {
		return err
	}

	username := strings.TrimSpace(p.Username)
	if c.identity != "" {
		if username == "" {
			username = c.identity
		} else if username != c.identity {
			return errs.NewError(errs.ErrIdentityMismatch)
		}
	}

	_, err := c.coordinator.Join(c.id, username)
	return err
}

func (c *Client) handleSend(kind EventType, p messagePayload) error {
	var err error
	switch kind {
	case TypeSendGlobal:
		_, err = c.coordinator.SendGlobal(c.id, p.Message, p.Attachment)
	case TypeSendRoom:
		_, err = c.coordinator.SendRoom(c.id, p.Message, p.Attachment)
	default:
		_, err = c.coordinator.Send(c.id, p.Message, p.Attachment)
	}
	return err
}

func decodePayload(payload json.RawMessage, dst any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}

// silentErrors are logged but never reported back on the socket.
var silentErrors = map[int]struct{}{
	errs.ErrDuplicateConnection: {},
	errs.ErrUnknownRecipient:    {},
}

// reportError logs a failed inbound operation and, when the sender can act on
// it, sends an error frame to this connection only.
func (c *Client) reportError(op EventType, err error) {
	code := errs.CodeOf(err)

	c.logger.Warn().Err(err).Str("msg_type", string(op)).Int("code", code).Msg("Inbound operation failed")

	if _, silent := silentErrors[code]; silent {
		return
	}

	c.SendError(err)
}

// SendError sends a TypeError frame to this connection.
func (c *Client) SendError(err error) {
	var customErr *errs.CustomError
	if !errors.As(err, &customErr) {
		customErr = &errs.CustomError{Code: errs.ErrUnknown, Message: fmt.Sprintf("Internal server error: %v", err)}
	}

	c.hub.Deliver([]string{c.id}, Event{
		Type:    TypeError,
		Payload: ErrorPayload{Code: customErr.Code, Message: customErr.Message},
	})
}

// WritePump handles writing frames from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one queued frame; a closed queue sends a close frame instead.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
