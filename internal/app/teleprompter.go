package app

import (
	"showtime/internal/domain"
)

// The teleprompter is either idle (s.advance == nil) or has exactly one
// scheduled advance. Every path that changes timing cancels the current
// advance before scheduling another.

// startTeleprompterLocked shows line 0 and schedules its advance
func (s *RoomSession) startTeleprompterLocked() {
	s.cancelAdvanceLocked()
	s.broadcastSyncLocked()
	s.scheduleAdvanceLocked()
}

func (s *RoomSession) cancelAdvanceLocked() {
	if s.advance == nil {
		return
	}
	s.advance.cancel()
	s.advance = nil
}

// scheduleAdvanceLocked holds the current line for its full reading time
func (s *RoomSession) scheduleAdvanceLocked() {
	line, err := s.room.CurrentLine()
	if err != nil {
		s.logger.Error("cannot schedule advance", "error", err)
		return
	}

	s.cancelAdvanceLocked()

	h := &scheduled{}
	h.timer = s.cfg.Scheduler.AfterFunc(line.ReadingTime(), func() {
		s.onAdvance(h)
	})
	s.advance = h
}

// onAdvance is the timer callback. It either moves to the next line or,
// when the last line has been read, ends the performance.
func (s *RoomSession) onAdvance(h *scheduled) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.cancelled || s.closed {
		return
	}
	s.advance = nil

	if s.room.State != domain.StatePerforming || s.room.IsPaused {
		return
	}

	moved, err := s.room.AdvanceLine()
	if err != nil {
		s.logger.Error("failed to advance line", "error", err)
		return
	}
	s.touchLocked()

	if !moved {
		s.finishPerformanceLocked()
		return
	}

	s.broadcastSyncLocked()
	s.scheduleAdvanceLocked()
}

func (s *RoomSession) broadcastSyncLocked() {
	s.queueEvent(domain.NewEvent(domain.EventSync, s.room.Code, &domain.SyncPayload{
		LineIndex: s.room.CurrentLineIndex,
		IsPaused:  s.room.IsPaused,
	}))
}

// Pause freezes the teleprompter on the current line (host only). Pausing
// twice is a no-op.
func (s *RoomSession) Pause(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(playerID); err != nil {
		return err
	}
	if s.room.State != domain.StatePerforming {
		return domain.ErrInvalidPhase
	}

	s.cancelAdvanceLocked()
	if s.room.IsPaused {
		return nil
	}

	if err := s.room.SetPaused(true); err != nil {
		return err
	}
	s.touchLocked()

	s.broadcastSyncLocked()
	return nil
}

// Resume restarts the current line from the beginning of its reading time
// (host only). Time already spent on the line before the pause is not
// credited.
func (s *RoomSession) Resume(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(playerID); err != nil {
		return err
	}
	if s.room.State != domain.StatePerforming {
		return domain.ErrInvalidPhase
	}
	if !s.room.IsPaused {
		return nil
	}

	if err := s.room.SetPaused(false); err != nil {
		return err
	}
	s.touchLocked()

	s.broadcastSyncLocked()
	s.scheduleAdvanceLocked()
	return nil
}

// JumpToLine seeks every screen to index (host only). If not paused, the
// new line gets its full reading time.
func (s *RoomSession) JumpToLine(playerID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(playerID); err != nil {
		return err
	}

	if err := s.room.JumpToLine(index); err != nil {
		return err
	}
	s.cancelAdvanceLocked()
	s.touchLocked()

	s.broadcastSyncLocked()
	if !s.room.IsPaused {
		s.scheduleAdvanceLocked()
	}
	return nil
}

// finishPerformanceLocked ends the show and opens voting or results
func (s *RoomSession) finishPerformanceLocked() {
	s.cancelAdvanceLocked()

	previous := s.room.State
	next, err := s.room.FinishPerformance()
	if err != nil {
		s.logger.Error("failed to finish performance", "error", err)
		return
	}
	s.touchLocked()

	s.broadcastStateLocked(previous)

	switch next {
	case domain.StateVoting:
		s.broadcastMembershipLocked()
		s.queueEvent(domain.NewEvent(domain.EventVoteProgress, s.room.Code, s.room.VoteProgress()))
	case domain.StateResults:
		s.broadcastResultsLocked()
	}
}
