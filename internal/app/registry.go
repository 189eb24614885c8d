package app

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"showtime/internal/archive"
	"showtime/internal/common/clock"
	"showtime/internal/common/uuid"
	"showtime/internal/domain"
	"showtime/internal/scriptgen"
	"showtime/internal/validate"
)

const (
	// maxCodeAttempts bounds the retries on a room code collision
	maxCodeAttempts = 10

	DefaultGracePeriod       = 3 * time.Second
	DefaultSweepInterval     = 5 * time.Minute
	DefaultInactivityTimeout = time.Hour
	DefaultGenerateTimeout   = 60 * time.Second
	DefaultHandSize          = 4
)

// ErrNoRoomCode is returned when no free room code was found
var ErrNoRoomCode = errors.New("failed to generate unique room code")

// RegistryConfig holds the registry's collaborators and timing
type RegistryConfig struct {
	Logger    *slog.Logger
	Gateway   scriptgen.Gateway
	Archive   archive.Repository // optional
	Clock     clock.Clock
	UUID      uuid.UUID
	Random    domain.Random
	Scheduler Scheduler

	// CodeSource supplies the random bytes for room codes; crypto/rand by default
	CodeSource io.Reader

	GracePeriod       time.Duration
	SweepInterval     time.Duration // zero disables the background sweep
	InactivityTimeout time.Duration
	GenerateTimeout   time.Duration
	HandSize          int
}

// RoomRegistry owns every active room session
type RoomRegistry struct {
	sessions map[string]*RoomSession
	mu       sync.RWMutex
	cfg      RegistryConfig
	logger   *slog.Logger
	done     chan struct{}
	wg       sync.WaitGroup
	closed   bool
}

// NewRoomRegistry validates cfg, fills in defaults and starts the
// inactivity sweep
func NewRoomRegistry(cfg *RegistryConfig) (*RoomRegistry, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Gateway == nil {
		return nil, errors.New("script gateway cannot be nil")
	}

	c := *cfg
	if c.Clock == nil {
		c.Clock = &clock.DefaultClock{}
	}
	if c.UUID == nil {
		c.UUID = uuid.New()
	}
	if c.Random == nil {
		c.Random = NewRandom(time.Now().UnixNano())
	}
	if c.Scheduler == nil {
		c.Scheduler = NewScheduler()
	}
	if c.CodeSource == nil {
		c.CodeSource = rand.Reader
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = DefaultGracePeriod
	}
	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = DefaultInactivityTimeout
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = DefaultGenerateTimeout
	}
	if c.HandSize <= 0 {
		c.HandSize = DefaultHandSize
	}

	registry := &RoomRegistry{
		sessions: make(map[string]*RoomSession),
		cfg:      c,
		logger:   c.Logger,
		done:     make(chan struct{}),
	}

	if c.SweepInterval > 0 {
		registry.wg.Add(1)
		go registry.sweepLoop()
	}

	return registry, nil
}

// CreateRoom opens a room in LOBBY with a fresh host and a unique code
func (r *RoomRegistry) CreateRoom(mode domain.GameMode, isMature bool) (*RoomSession, error) {
	if !mode.Valid() {
		return nil, domain.ErrInvalidGameMode
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.New("registry is closed")
	}

	var roomCode string
	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		code, err := r.generateRoomCode()
		if err != nil {
			return nil, err
		}
		if _, exists := r.sessions[code]; !exists {
			roomCode = code
			break
		}
	}
	if roomCode == "" {
		return nil, ErrNoRoomCode
	}

	hostID := r.cfg.UUID.NewUUID()
	room := domain.NewRoom(roomCode, hostID, mode, isMature, r.cfg.Clock.Now())
	session := NewRoomSession(room, r.sessionConfig())
	r.sessions[roomCode] = session

	r.logger.Info("room created", "roomCode", roomCode, "mode", mode, "isMature", isMature)

	return session, nil
}

func (r *RoomRegistry) sessionConfig() SessionConfig {
	return SessionConfig{
		Logger:          r.logger,
		Gateway:         r.cfg.Gateway,
		Archive:         r.cfg.Archive,
		Clock:           r.cfg.Clock,
		UUID:            r.cfg.UUID,
		Random:          r.cfg.Random,
		Scheduler:       r.cfg.Scheduler,
		GracePeriod:     r.cfg.GracePeriod,
		GenerateTimeout: r.cfg.GenerateTimeout,
		HandSize:        r.cfg.HandSize,
		OnClose: func(roomCode string) {
			r.DeleteSession(roomCode, domain.CloseHostLeft)
		},
	}
}

// GetSession returns a room session by code
func (r *RoomRegistry) GetSession(roomCode string) (*RoomSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// DeleteSession removes a room and closes it with reason
func (r *RoomRegistry) DeleteSession(roomCode, reason string) {
	r.mu.Lock()
	session, ok := r.sessions[roomCode]
	if ok {
		delete(r.sessions, roomCode)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	session.Close(reason)
	r.logger.Info("room deleted", "roomCode", roomCode, "reason", reason)
}

// SessionCount returns the number of active rooms
func (r *RoomRegistry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// TotalPlayerCount returns the number of occupants across all rooms
func (r *RoomRegistry) TotalPlayerCount() int {
	total := 0
	for _, session := range r.snapshot() {
		total += session.PlayerCount()
	}
	return total
}

// SweepInactive deletes every room idle for longer than timeout and
// returns their codes
func (r *RoomRegistry) SweepInactive(now time.Time, timeout time.Duration) []string {
	stale := make([]string, 0)
	for _, session := range r.snapshot() {
		if session.closeIfInactive(now, timeout) {
			stale = append(stale, session.Code())
		}
	}

	for _, roomCode := range stale {
		r.DeleteSession(roomCode, domain.CloseInactive)
	}

	if len(stale) > 0 {
		r.logger.Info("inactive rooms swept", "count", len(stale))
	}
	return stale
}

// Close shuts down the registry and every room
func (r *RoomRegistry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.done)
	sessions := r.sessions
	r.sessions = make(map[string]*RoomSession)
	r.mu.Unlock()

	r.wg.Wait()

	for _, session := range sessions {
		session.Close(domain.CloseShutdown)
	}
}

// snapshot copies the session list so callers never hold the registry
// lock while taking a room lock
func (r *RoomRegistry) snapshot() []*RoomSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*RoomSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// generateRoomCode draws a code from the unambiguous charset. 256 is a
// multiple of the charset size, so the modulo does not bias the draw.
func (r *RoomRegistry) generateRoomCode() (string, error) {
	b := make([]byte, validate.RoomCodeLength)
	if _, err := io.ReadFull(r.cfg.CodeSource, b); err != nil {
		return "", fmt.Errorf("reading room code entropy: %w", err)
	}

	code := make([]byte, validate.RoomCodeLength)
	for i := range code {
		code[i] = validate.RoomCodeCharset[int(b[i])%len(validate.RoomCodeCharset)]
	}

	return string(code), nil
}

// sweepLoop periodically reclaims inactive rooms
func (r *RoomRegistry) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.SweepInactive(r.cfg.Clock.Now(), r.cfg.InactivityTimeout)
		}
	}
}
