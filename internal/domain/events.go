package domain

import "time"

// EventType represents the type of room event
type EventType string

const (
	EventMembership    EventType = "MEMBERSHIP"
	EventStateChanged  EventType = "STATE_CHANGED"
	EventCardOptions   EventType = "CARD_OPTIONS"
	EventLoadingPrompt EventType = "LOADING_PROMPT"
	EventScript        EventType = "SCRIPT"
	EventSync          EventType = "SYNC"
	EventVoteProgress  EventType = "VOTE_PROGRESS"
	EventResults       EventType = "RESULTS"
	EventNotice        EventType = "NOTICE"
	EventError         EventType = "ERROR"
	EventRoomClosed    EventType = "ROOM_CLOSED"
)

// Notice codes
const (
	NoticeHostDisconnected = "HOST_DISCONNECTED"
	NoticeGenerationFailed = "GENERATION_FAILED"
)

// Room close reasons
const (
	CloseHostLeft = "HOST_LEFT"
	CloseShutdown = "SHUTDOWN"
	CloseInactive = "INACTIVE"
)

// RoomEvent represents something that happened in a room
type RoomEvent struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"roomCode"`
	PlayerID  string      `json:"playerId,omitempty"` // Set when the event targets one occupant
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a room-wide event
func NewEvent(eventType EventType, roomCode string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates an event delivered to a single occupant
func NewPlayerEvent(eventType EventType, roomCode, playerID string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// MembershipPayload is sent whenever the occupant list or readiness changes
type MembershipPayload struct {
	Players  []PlayerInfo `json:"players"`
	HostID   string       `json:"hostId"`
	Mode     GameMode     `json:"mode"`
	IsMature bool         `json:"isMature"`
	CanStart bool         `json:"canStart"`
}

// StateChangedPayload is sent on every state transition
type StateChangedPayload struct {
	State    GameState `json:"state"`
	Previous GameState `json:"previous"`
}

// CardOptionsPayload is a private hand dealt to one player
type CardOptionsPayload struct {
	Characters    []string `json:"characters"`
	Settings      []string `json:"settings"`
	Circumstances []string `json:"circumstances"`
}

// LoadingPromptPayload is shown while the writer works
type LoadingPromptPayload struct {
	Prompt string `json:"prompt"`
}

// ScriptPayload carries the script to perform
type ScriptPayload struct {
	Script  *Script  `json:"script"`
	Premise *Premise `json:"premise,omitempty"`
	Round   int      `json:"round"`
}

// SyncPayload moves every teleprompter to the same line
type SyncPayload struct {
	LineIndex int  `json:"lineIndex"`
	IsPaused  bool `json:"isPaused"`
}

// VoteProgressPayload is sent when a vote is cast (without revealing who)
type VoteProgressPayload struct {
	VotedCount  int `json:"votedCount"`
	TotalVoters int `json:"totalVoters"`
}

// ResultsPayload is sent when the room enters RESULTS
type ResultsPayload struct {
	Winner  *VoteResult  `json:"winner,omitempty"`
	Results []VoteResult `json:"results"`
}

// NoticePayload is a non-fatal room-wide message
type NoticePayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomClosedPayload is the last event a room sends
type RoomClosedPayload struct {
	Reason string `json:"reason"`
}

// ErrorPayload is sent when an error occurs
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
