package app

import (
	"context"

	"showtime/internal/domain"
	"showtime/internal/scriptgen"
)

// StartGame moves the room from LOBBY to SELECTION and deals every
// player a hand (host only)
func (s *RoomSession) StartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(playerID); err != nil {
		return err
	}

	previous := s.room.State
	if err := s.room.StartSelection(); err != nil {
		return err
	}
	s.touchLocked()

	s.broadcastStateLocked(previous)
	s.broadcastMembershipLocked()
	s.dealHandsLocked()

	return nil
}

// SetMature toggles the content rating (host only)
func (s *RoomSession) SetMature(playerID string, isMature bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(playerID); err != nil {
		return err
	}

	if err := s.room.SetMature(isMature); err != nil {
		return err
	}
	s.touchLocked()

	s.broadcastMembershipLocked()
	return nil
}

// SubmitSelection records a player's three cards and fires the barrier
// once every required player is in.
func (s *RoomSession) SubmitSelection(playerID string, selection domain.CardSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrRoomNotFound
	}

	if err := s.room.SubmitSelection(playerID, selection); err != nil {
		return err
	}
	s.touchLocked()

	s.logger.Debug("selection submitted", "playerID", playerID)
	s.broadcastMembershipLocked()

	if s.room.SelectionComplete() {
		s.beginLoadingLocked()
	}

	return nil
}

// dealHandsLocked sends each player a private hand of card options
func (s *RoomSession) dealHandsLocked() {
	s.hands = make(map[string]*domain.CardOptionsPayload)
	for _, p := range s.room.Performers() {
		hand := Deal(s.cfg.Random, s.room.IsMature, s.cfg.HandSize)
		s.hands[p.ID] = hand
		s.queueEvent(domain.NewPlayerEvent(domain.EventCardOptions, s.room.Code, p.ID, hand))
	}
}

// beginLoadingLocked closes the barrier and hands the premise to the writer
func (s *RoomSession) beginLoadingLocked() {
	previous := s.room.State
	premise, err := s.room.BeginLoading(s.cfg.Random)
	if err != nil {
		s.logger.Error("failed to begin loading", "error", err)
		return
	}
	s.touchLocked()

	s.broadcastStateLocked(previous)
	s.queueEvent(domain.NewEvent(domain.EventLoadingPrompt, s.room.Code, &domain.LoadingPromptPayload{
		Prompt: LoadingPrompt(s.cfg.Random, premise.Setting),
	}))

	s.generateLocked(scriptgen.NewGenerateInput(premise, s.room.IsMature, s.room.Mode, nil))
}

// RequestSequel sends the finished show back to the writer (host only)
func (s *RoomSession) RequestSequel(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(playerID); err != nil {
		return err
	}

	previous := s.room.State
	previousScript := s.room.Script
	premise, err := s.room.BeginSequel()
	if err != nil {
		return err
	}
	s.touchLocked()

	s.broadcastStateLocked(previous)
	s.queueEvent(domain.NewEvent(domain.EventLoadingPrompt, s.room.Code, &domain.LoadingPromptPayload{
		Prompt: LoadingPrompt(s.cfg.Random, premise.Setting),
	}))

	s.generateLocked(scriptgen.NewGenerateInput(premise, s.room.IsMature, s.room.Mode, previousScript))
	return nil
}

// generateLocked starts the writer call. The call itself runs without the
// room lock; its result re-enters through applyScript.
func (s *RoomSession) generateLocked(input *scriptgen.GenerateInput) {
	if s.genCancel != nil {
		s.genCancel()
	}

	s.genToken++
	token := s.genToken

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.cfg.GenerateTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.cfg.GenerateTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	s.genCancel = cancel

	s.logger.Info("generating script", "characters", len(input.Characters), "sequel", input.IsSequel())

	go func() {
		defer cancel()
		script, err := s.cfg.Gateway.Generate(ctx, input)
		s.applyScript(token, script, err)
	}()
}

// applyScript installs a generated script, or rolls back to SELECTION if
// the writer failed.
func (s *RoomSession) applyScript(token int, script *domain.Script, genErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || token != s.genToken || s.room.State != domain.StateLoading {
		s.logger.Debug("discarding script result", "token", token)
		return
	}
	s.genCancel = nil

	if genErr == nil {
		genErr = s.room.StartPerformance(script)
	}
	if genErr != nil {
		s.failGenerationLocked(genErr)
		return
	}
	s.touchLocked()

	s.broadcastStateLocked(domain.StateLoading)
	s.queueEvent(domain.NewEvent(domain.EventScript, s.room.Code, &domain.ScriptPayload{
		Script:  s.room.Script,
		Premise: s.room.Premise,
		Round:   s.room.Round,
	}))

	s.startTeleprompterLocked()
}

// failGenerationLocked reports the failure room-wide and reopens selection
// with every card cleared.
func (s *RoomSession) failGenerationLocked(genErr error) {
	s.logger.Warn("script generation failed", "error", genErr)

	if err := s.room.AbortLoading(); err != nil {
		s.logger.Error("failed to roll back loading", "error", err)
		return
	}
	s.touchLocked()

	s.queueEvent(domain.NewEvent(domain.EventError, s.room.Code, &domain.ErrorPayload{
		Code:    domain.NoticeGenerationFailed,
		Message: "The writers walked out. Pick your cards again!",
	}))
	s.broadcastStateLocked(domain.StateLoading)
	s.broadcastMembershipLocked()
	s.dealHandsLocked()
}
