package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"showtime/internal/archive"
	"showtime/internal/common/clock"
	"showtime/internal/common/uuid"
	"showtime/internal/domain"
	"showtime/internal/scriptgen"
)

const eventQueueSize = 256

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// SessionConfig carries the collaborators a RoomSession needs
type SessionConfig struct {
	Logger    *slog.Logger
	Gateway   scriptgen.Gateway
	Archive   archive.Repository // optional
	Clock     clock.Clock
	UUID      uuid.UUID
	Random    domain.Random
	Scheduler Scheduler

	GracePeriod     time.Duration
	GenerateTimeout time.Duration
	HandSize        int

	// OnClose runs, without the session lock held, after the session
	// closes itself (host left the lobby or the lobby emptied).
	OnClose func(roomCode string)
}

// RoomSession wraps a room with concurrency control, timers and client
// management. Every room mutation happens under mu.
type RoomSession struct {
	room *domain.Room
	mu   sync.Mutex

	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex

	cfg    SessionConfig
	logger *slog.Logger

	// Per-player dealt hands, kept for reconnect snapshots
	hands map[string]*domain.CardOptionsPayload

	// Outstanding teleprompter advance; nil when idle
	advance *scheduled

	// Disconnect grace timers by player
	grace map[string]*scheduled

	// Script generation in flight
	genToken  int
	genCancel context.CancelFunc

	closed bool

	// Event channel for broadcasting
	events   chan *domain.RoomEvent
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewRoomSession creates a session around room and starts its broadcaster
func NewRoomSession(room *domain.Room, cfg SessionConfig) *RoomSession {
	session := &RoomSession{
		room:    room,
		clients: make(map[string]ClientConnection),
		cfg:     cfg,
		logger:  cfg.Logger.With("roomCode", room.Code),
		hands:   make(map[string]*domain.CardOptionsPayload),
		grace:   make(map[string]*scheduled),
		events:  make(chan *domain.RoomEvent, eventQueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	// Start event broadcaster
	go session.eventLoop()

	return session
}

// Code returns the room code
func (s *RoomSession) Code() string {
	return s.room.Code
}

// HostID returns the id of the host player
func (s *RoomSession) HostID() string {
	return s.room.HostID
}

// State returns the current room state
func (s *RoomSession) State() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.State
}

// PlayerCount returns the number of occupants, host included
func (s *RoomSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// LastActivity returns when the room last changed
func (s *RoomSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.LastActivity
}

// CanJoin checks if a new player can join the room
func (s *RoomSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.room.State == domain.StateLobby
}

// HasPlayer reports whether playerID occupies this room
func (s *RoomSession) HasPlayer(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.room.Players[playerID]
	return ok
}

// RoomInfo is the public summary served over HTTP
type RoomInfo struct {
	RoomCode    string           `json:"roomCode"`
	State       domain.GameState `json:"state"`
	Mode        domain.GameMode  `json:"mode"`
	IsMature    bool             `json:"isMature"`
	PlayerCount int              `json:"playerCount"`
	Capacity    int              `json:"capacity"`
	Spectators  int              `json:"spectators"`
	CanJoin     bool             `json:"canJoin"`
}

// Info returns the public room summary
func (s *RoomSession) Info() *RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	spectators := 0
	for _, p := range s.room.Players {
		if p.Role == domain.RoleSpectator {
			spectators++
		}
	}

	return &RoomInfo{
		RoomCode:    s.room.Code,
		State:       s.room.State,
		Mode:        s.room.Mode,
		IsMature:    s.room.IsMature,
		PlayerCount: s.room.PlayerCount(),
		Capacity:    s.room.Mode.Capacity(),
		Spectators:  spectators,
		CanJoin:     !s.closed && s.room.State == domain.StateLobby,
	}
}

// Snapshot is the full state handed to a (re)connecting client
type Snapshot struct {
	RoomCode         string                      `json:"roomCode"`
	State            domain.GameState            `json:"state"`
	Mode             domain.GameMode             `json:"mode"`
	IsMature         bool                        `json:"isMature"`
	HostID           string                      `json:"hostId"`
	CanStart         bool                        `json:"canStart"`
	Players          []domain.PlayerInfo         `json:"players"`
	You              *domain.PlayerInfo          `json:"you,omitempty"`
	Hand             *domain.CardOptionsPayload  `json:"hand,omitempty"`
	Premise          *domain.Premise             `json:"premise,omitempty"`
	Script           *domain.Script              `json:"script,omitempty"`
	CurrentLineIndex int                         `json:"currentLineIndex"`
	IsPaused         bool                        `json:"isPaused"`
	VoteProgress     *domain.VoteProgressPayload `json:"voteProgress,omitempty"`
	Results          *domain.VoteTally           `json:"results,omitempty"`
	Round            int                         `json:"round"`
}

// Snapshot returns the room state as seen by playerID
func (s *RoomSession) Snapshot(playerID string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		RoomCode: s.room.Code,
		State:    s.room.State,
		Mode:     s.room.Mode,
		IsMature: s.room.IsMature,
		HostID:   s.room.HostID,
		CanStart: s.room.CanStart(),
		Players:  s.room.PlayerInfoList(),
		Round:    s.room.Round,
	}

	if player, err := s.room.GetPlayer(playerID); err == nil {
		info := player.ToInfo()
		snap.You = &info
	}

	// Add state-specific data
	switch s.room.State {
	case domain.StateSelection:
		snap.Hand = s.hands[playerID]
	case domain.StateLoading:
		snap.Premise = s.room.Premise
	case domain.StatePerforming:
		snap.Premise = s.room.Premise
		snap.Script = s.room.Script
		snap.CurrentLineIndex = s.room.CurrentLineIndex
		snap.IsPaused = s.room.IsPaused
	case domain.StateVoting:
		snap.Script = s.room.Script
		snap.VoteProgress = s.room.VoteProgress()
	case domain.StateResults:
		snap.Script = s.room.Script
		snap.Results = s.room.Results
	}

	return snap
}

// RegisterClient registers a client connection for a player
func (s *RoomSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes client if it is still the one registered for
// playerID. It reports whether anything was removed.
func (s *RoomSession) UnregisterClient(playerID string, client ClientConnection) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if current, ok := s.clients[playerID]; ok && current == client {
		delete(s.clients, playerID)
		return true
	}
	return false
}

// GetClient returns the client for a player
func (s *RoomSession) GetClient(playerID string) (ClientConnection, bool) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	client, ok := s.clients[playerID]
	return client, ok
}

func (s *RoomSession) touchLocked() {
	s.room.Touch(s.cfg.Clock.Now())
}

// requireHostLocked checks host-only actions. Caller must hold the lock.
func (s *RoomSession) requireHostLocked(playerID string) error {
	if s.closed {
		return domain.ErrRoomNotFound
	}
	if !s.room.IsHost(playerID) {
		return domain.ErrNotHost
	}
	return nil
}

// broadcastStateLocked announces a transition
func (s *RoomSession) broadcastStateLocked(previous domain.GameState) {
	s.logger.Info("state changed", "from", previous, "to", s.room.State)
	s.queueEvent(domain.NewEvent(domain.EventStateChanged, s.room.Code, &domain.StateChangedPayload{
		State:    s.room.State,
		Previous: previous,
	}))
}

func (s *RoomSession) broadcastMembershipLocked() {
	s.queueEvent(domain.NewEvent(domain.EventMembership, s.room.Code, s.room.Membership()))
}

// closeLocked marks the session closed, stops every timer and queues the
// final ROOM_CLOSED event. It returns false if already closed.
func (s *RoomSession) closeLocked(reason string) bool {
	if s.closed {
		return false
	}
	s.closed = true

	s.cancelAdvanceLocked()
	for playerID, h := range s.grace {
		h.cancel()
		delete(s.grace, playerID)
	}
	if s.genCancel != nil {
		s.genCancel()
		s.genCancel = nil
	}

	s.logger.Info("room closed", "reason", reason)
	s.queueEvent(domain.NewEvent(domain.EventRoomClosed, s.room.Code, &domain.RoomClosedPayload{Reason: reason}))
	return true
}

// closeIfInactive closes the session if it has been idle for longer than
// timeout. The check and the close happen under one lock hold.
func (s *RoomSession) closeIfInactive(now time.Time, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || now.Sub(s.room.LastActivity) <= timeout {
		return false
	}
	return s.closeLocked(domain.CloseInactive)
}

// notifyClosed tells the owner the session closed itself. Must be called
// without the session lock.
func (s *RoomSession) notifyClosed() {
	if s.cfg.OnClose != nil {
		s.cfg.OnClose(s.room.Code)
	}
}

// queueEvent adds an event to the broadcast queue
func (s *RoomSession) queueEvent(event *domain.RoomEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients. On shutdown it
// flushes whatever is queued before closing the clients.
func (s *RoomSession) eventLoop() {
	defer close(s.stopped)

	for {
		select {
		case <-s.done:
			for {
				select {
				case event := <-s.events:
					s.broadcastEvent(event)
				default:
					s.closeClients()
					return
				}
			}
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to appropriate clients
func (s *RoomSession) broadcastEvent(event *domain.RoomEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	// If player-specific, send only to that player
	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	// Broadcast to all clients
	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

func (s *RoomSession) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
}

// Close shuts down the session, delivering a final ROOM_CLOSED event with
// reason unless the session already closed itself.
func (s *RoomSession) Close(reason string) {
	s.mu.Lock()
	s.closeLocked(reason)
	s.mu.Unlock()

	s.stopOnce.Do(func() {
		close(s.done)
	})
	<-s.stopped
}
