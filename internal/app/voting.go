package app

import (
	"context"
	"time"

	"showtime/internal/archive"
	"showtime/internal/domain"
)

const archiveTimeout = 5 * time.Second

// CastVote records a vote and tallies once every eligible voter is in
func (s *RoomSession) CastVote(voterID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrRoomNotFound
	}

	if err := s.room.CastVote(voterID, targetID); err != nil {
		return err
	}
	s.touchLocked()

	// Broadcast vote progress (without revealing who voted for whom)
	s.queueEvent(domain.NewEvent(domain.EventVoteProgress, s.room.Code, s.room.VoteProgress()))

	if s.room.AllVoted() {
		s.finishVotingLocked()
	}

	return nil
}

// finishVotingLocked tallies and moves to RESULTS
func (s *RoomSession) finishVotingLocked() {
	previous := s.room.State
	tally, err := s.room.FinishVoting(s.cfg.Random)
	if err != nil {
		s.logger.Error("failed to finish voting", "error", err)
		return
	}
	s.touchLocked()

	if tally.Winner != nil {
		s.logger.Info("votes tallied", "winner", tally.Winner.PlayerID, "votes", tally.Winner.Votes)
	}

	s.broadcastStateLocked(previous)
	s.broadcastResultsLocked()
}

// broadcastResultsLocked announces the results and archives the show
func (s *RoomSession) broadcastResultsLocked() {
	results := s.room.Results
	if results == nil {
		results = &domain.VoteTally{Results: []domain.VoteResult{}}
	}

	s.queueEvent(domain.NewEvent(domain.EventResults, s.room.Code, &domain.ResultsPayload{
		Winner:  results.Winner,
		Results: results.Results,
	}))
	s.broadcastMembershipLocked()

	s.archiveLocked(results)
}

// archiveLocked writes the finished show in the background. Archive
// failures are only logged.
func (s *RoomSession) archiveLocked(results *domain.VoteTally) {
	if s.cfg.Archive == nil || s.room.Script == nil {
		return
	}

	show := &archive.ShowRecord{
		ID:         s.cfg.UUID.NewUUID(),
		RoomCode:   s.room.Code,
		Mode:       s.room.Mode,
		Round:      s.room.Round,
		Title:      s.room.Script.Title,
		Synopsis:   s.room.Script.Synopsis,
		LineCount:  len(s.room.Script.Lines),
		Results:    results.Results,
		Winner:     results.Winner,
		FinishedAt: s.cfg.Clock.Now(),
	}
	if s.room.Premise != nil {
		show.Characters = append([]string(nil), s.room.Premise.Characters...)
		show.Setting = s.room.Premise.Setting
		show.Circumstance = s.room.Premise.Circumstance
	}

	repo := s.cfg.Archive
	logger := s.logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		if err := repo.SaveShow(ctx, &archive.SaveShowInput{Show: show}); err != nil {
			logger.Warn("failed to archive show", "showID", show.ID, "error", err)
			return
		}
		logger.Debug("show archived", "showID", show.ID)
	}()
}

// ReturnToLobby drops the finished show so new players can join (host only)
func (s *RoomSession) ReturnToLobby(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(playerID); err != nil {
		return err
	}

	previous := s.room.State
	if err := s.room.ReturnToLobby(); err != nil {
		return err
	}
	s.hands = make(map[string]*domain.CardOptionsPayload)
	s.touchLocked()

	s.broadcastStateLocked(previous)
	s.broadcastMembershipLocked()
	return nil
}
