package app

import (
	"showtime/internal/domain"
)

// Join seats a new player. The returned copy carries the assigned role so
// the caller can tell spectators apart.
func (s *RoomSession) Join(playerID, nickname string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrRoomNotFound
	}

	player, err := s.room.AddPlayer(playerID, nickname, s.cfg.Clock.Now())
	if err != nil {
		return nil, err
	}
	s.touchLocked()

	s.logger.Info("player joined", "playerID", playerID, "role", player.Role)
	s.broadcastMembershipLocked()

	joined := *player
	return &joined, nil
}

// Connect attaches a live client to playerID. A player inside their
// disconnect grace period is kept as if they never left. It reports
// whether playerID already occupies the room.
func (s *RoomSession) Connect(playerID string, client ClientConnection) bool {
	s.RegisterClient(playerID, client)

	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return false
	}

	if h, ok := s.grace[playerID]; ok {
		h.cancel()
		delete(s.grace, playerID)
		s.logger.Info("player reconnected within grace period", "playerID", playerID)
	}
	player.Reconnect()

	return true
}

// Disconnect detaches client. If it was the player's live connection the
// grace timer starts; the player is removed when it expires.
func (s *RoomSession) Disconnect(playerID string, client ClientConnection) {
	if !s.UnregisterClient(playerID, client) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return
	}
	player.Disconnect()

	if h, ok := s.grace[playerID]; ok {
		h.cancel()
	}
	h := &scheduled{}
	h.timer = s.cfg.Scheduler.AfterFunc(s.cfg.GracePeriod, func() {
		s.expireGrace(playerID, h)
	})
	s.grace[playerID] = h

	s.logger.Debug("player disconnected, grace period started", "playerID", playerID, "grace", s.cfg.GracePeriod)
}

// expireGrace removes a player whose grace period ran out
func (s *RoomSession) expireGrace(playerID string, h *scheduled) {
	s.mu.Lock()
	if h.cancelled || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.grace, playerID)
	closed := s.removePlayerLocked(playerID)
	s.mu.Unlock()

	if closed {
		s.notifyClosed()
	}
}

// removePlayerLocked drops a player and re-runs every check their absence
// can affect. It returns true if the room closed as a result.
func (s *RoomSession) removePlayerLocked(playerID string) bool {
	wasHost := s.room.IsHost(playerID)

	if err := s.room.RemovePlayer(playerID); err != nil {
		return false
	}
	delete(s.hands, playerID)
	s.touchLocked()

	s.logger.Info("player removed", "playerID", playerID, "wasHost", wasHost)

	if s.room.State == domain.StateLobby && (wasHost || s.room.IsEmpty()) {
		return s.closeLocked(domain.CloseHostLeft)
	}

	if wasHost {
		s.queueEvent(domain.NewEvent(domain.EventNotice, s.room.Code, &domain.NoticePayload{
			Code:    domain.NoticeHostDisconnected,
			Message: "The host left. The show must go on!",
		}))
	}

	s.broadcastMembershipLocked()

	switch s.room.State {
	case domain.StateSelection:
		if s.room.SelectionComplete() {
			s.beginLoadingLocked()
		}
	case domain.StateVoting:
		s.queueEvent(domain.NewEvent(domain.EventVoteProgress, s.room.Code, s.room.VoteProgress()))
		if s.room.AllVoted() || len(s.room.Voters()) == 0 {
			s.finishVotingLocked()
		}
	}

	return false
}
