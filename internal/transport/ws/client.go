package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"showtime/internal/app"
	"showtime/internal/domain"
	"showtime/internal/validate"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	conn     *websocket.Conn
	session  *app.RoomSession
	playerID string
	send     chan []byte
	limiter  *rate.Limiter
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.RoomSession, playerID string, limiter *rate.Limiter, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		session:  session,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		limiter:  limiter,
		logger:   logger.With("roomCode", session.Code(), "playerID", playerID),
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.playerID
}

// Send implements app.ClientConnection interface
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection interface. Messages already queued
// are still written before the close frame.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.send)
	return nil
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.Disconnect(c.playerID, c)
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		if !c.limiter.Allow() {
			c.sendError(ErrCodeRateLimited, "Slow down")
			continue
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	var err error
	switch msg.Type {
	case MsgJoinRoom:
		err = c.handleJoinRoom(msg.Payload)
	case MsgStartGame:
		err = c.session.StartGame(c.playerID)
	case MsgSetMature:
		err = c.handleSetMature(msg.Payload)
	case MsgSubmitSelection:
		err = c.handleSubmitSelection(msg.Payload)
	case MsgPause:
		err = c.session.Pause(c.playerID)
	case MsgResume:
		err = c.session.Resume(c.playerID)
	case MsgJumpToLine:
		err = c.handleJumpToLine(msg.Payload)
	case MsgCastVote:
		err = c.handleCastVote(msg.Payload)
	case MsgRequestSequel:
		err = c.session.RequestSequel(c.playerID)
	case MsgReturnToLobby:
		err = c.session.ReturnToLobby(c.playerID)
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}

	if err != nil {
		c.logger.Debug("message rejected", "type", msg.Type, "error", err)
		c.sendError(errorCode(err), err.Error())
	}
}

// decodePayload unmarshals raw into v, reporting a bad payload to the client
func (c *Client) decodePayload(raw json.RawMessage, v interface{}) bool {
	if len(raw) == 0 || json.Unmarshal(raw, v) != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return false
	}
	return true
}

// handleJoinRoom handles a join_room message
func (c *Client) handleJoinRoom(raw json.RawMessage) error {
	var payload JoinRoomPayload
	if !c.decodePayload(raw, &payload) {
		return nil
	}

	nickname, err := validate.Nickname(payload.Nickname)
	if err != nil {
		return err
	}

	if _, err := c.session.Join(c.playerID, nickname); err != nil {
		return err
	}

	c.sendConnected()
	return nil
}

func (c *Client) handleSetMature(raw json.RawMessage) error {
	var payload SetMaturePayload
	if !c.decodePayload(raw, &payload) {
		return nil
	}
	return c.session.SetMature(c.playerID, payload.IsMature)
}

// handleSubmitSelection cleans all three cards before they reach the room
func (c *Client) handleSubmitSelection(raw json.RawMessage) error {
	var payload SubmitSelectionPayload
	if !c.decodePayload(raw, &payload) {
		return nil
	}

	var selection domain.CardSelection
	for _, field := range []struct {
		raw string
		dst *string
	}{
		{payload.Character, &selection.Character},
		{payload.Setting, &selection.Setting},
		{payload.Circumstance, &selection.Circumstance},
	} {
		if field.raw == "" {
			return domain.ErrIncompleteSelection
		}
		cleaned, err := validate.CardText(field.raw)
		if err != nil {
			return err
		}
		*field.dst = cleaned
	}

	return c.session.SubmitSelection(c.playerID, selection)
}

func (c *Client) handleJumpToLine(raw json.RawMessage) error {
	var payload JumpToLinePayload
	if !c.decodePayload(raw, &payload) {
		return nil
	}
	if payload.Index == nil {
		c.sendError(ErrCodeInvalidMessage, "Line index is required")
		return nil
	}
	return c.session.JumpToLine(c.playerID, *payload.Index)
}

func (c *Client) handleCastVote(raw json.RawMessage) error {
	var payload CastVotePayload
	if !c.decodePayload(raw, &payload) {
		return nil
	}
	if payload.TargetPlayerID == "" {
		c.sendError(ErrCodeInvalidMessage, "Target player ID is required")
		return nil
	}
	return c.session.CastVote(c.playerID, payload.TargetPlayerID)
}

// sendConnected sends the connected message with a full snapshot
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		PlayerID: c.playerID,
		RoomCode: c.session.Code(),
		Snapshot: c.session.Snapshot(c.playerID),
	}

	c.Send(NewServerMessage(MsgConnected, payload))
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	c.Send(NewServerMessage(MsgError, payload))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
