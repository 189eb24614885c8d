package ws

import (
	"encoding/json"
	"errors"
	"time"

	"showtime/internal/app"
	"showtime/internal/domain"
	"showtime/internal/validate"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoinRoom        MessageType = "join_room"
	MsgStartGame       MessageType = "start_game"
	MsgSetMature       MessageType = "set_mature"
	MsgSubmitSelection MessageType = "submit_selection"
	MsgPause           MessageType = "pause"
	MsgResume          MessageType = "resume"
	MsgJumpToLine      MessageType = "jump_to_line"
	MsgCastVote        MessageType = "cast_vote"
	MsgRequestSequel   MessageType = "request_sequel"
	MsgReturnToLobby   MessageType = "return_to_lobby"
	MsgPing            MessageType = "ping"
)

// Server → Client message types. Room events are sent as domain.RoomEvent.
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a transport-level message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinRoomPayload is the payload for join_room
type JoinRoomPayload struct {
	Nickname string `json:"nickname"`
}

// SetMaturePayload is the payload for set_mature
type SetMaturePayload struct {
	IsMature bool `json:"isMature"`
}

// SubmitSelectionPayload is the payload for submit_selection
type SubmitSelectionPayload struct {
	Character    string `json:"character"`
	Setting      string `json:"setting"`
	Circumstance string `json:"circumstance"`
}

// JumpToLinePayload is the payload for jump_to_line
type JumpToLinePayload struct {
	Index *int `json:"index"`
}

// CastVotePayload is the payload for cast_vote
type CastVotePayload struct {
	TargetPlayerID string `json:"targetPlayerId"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	PlayerID string        `json:"playerId"`
	RoomCode string        `json:"roomCode"`
	Snapshot *app.Snapshot `json:"snapshot"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage      = "INVALID_MESSAGE"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeRoomNotFound        = "ROOM_NOT_FOUND"
	ErrCodeGameInProgress      = "GAME_IN_PROGRESS"
	ErrCodeNotEnoughPlayers    = "NOT_ENOUGH_PLAYERS"
	ErrCodeNicknameTaken       = "NICKNAME_TAKEN"
	ErrCodeAlreadyJoined       = "ALREADY_JOINED"
	ErrCodeInvalidPhase        = "INVALID_PHASE"
	ErrCodePlayerNotFound      = "PLAYER_NOT_FOUND"
	ErrCodeNotHost             = "NOT_HOST"
	ErrCodeNotPerformer        = "NOT_PERFORMER"
	ErrCodeIncompleteSelection = "INCOMPLETE_SELECTION"
	ErrCodeNotEligibleVoter    = "NOT_ELIGIBLE_VOTER"
	ErrCodeCannotVoteSelf      = "CANNOT_VOTE_SELF"
	ErrCodeInvalidVoteTarget   = "INVALID_VOTE_TARGET"
	ErrCodeInvalidLine         = "INVALID_LINE"
	ErrCodeNoScript            = "NO_SCRIPT"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrRoomNotFound, ErrCodeRoomNotFound},
	{domain.ErrGameInProgress, ErrCodeGameInProgress},
	{domain.ErrNotEnoughPlayers, ErrCodeNotEnoughPlayers},
	{domain.ErrNicknameTaken, ErrCodeNicknameTaken},
	{domain.ErrPlayerExists, ErrCodeAlreadyJoined},
	{domain.ErrInvalidPhase, ErrCodeInvalidPhase},
	{domain.ErrInvalidTransition, ErrCodeInvalidPhase},
	{domain.ErrPlayerNotFound, ErrCodePlayerNotFound},
	{domain.ErrNotHost, ErrCodeNotHost},
	{domain.ErrNotPerformer, ErrCodeNotPerformer},
	{domain.ErrIncompleteSelection, ErrCodeIncompleteSelection},
	{domain.ErrNotEligibleVoter, ErrCodeNotEligibleVoter},
	{domain.ErrCannotVoteSelf, ErrCodeCannotVoteSelf},
	{domain.ErrInvalidVoteTarget, ErrCodeInvalidVoteTarget},
	{domain.ErrInvalidLine, ErrCodeInvalidLine},
	{domain.ErrNoScript, ErrCodeNoScript},
	{validate.ErrInvalidNickname, ErrCodeInvalidInput},
	{validate.ErrInvalidCard, ErrCodeInvalidInput},
}

// errorCode maps a rejection to its stable wire code
func errorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ErrCodeInternalError
}
