package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrGameInProgress      = errors.New("game in progress")
	ErrNotEnoughPlayers    = errors.New("not enough players to start")
	ErrNicknameTaken       = errors.New("nickname already taken in this room")
	ErrPlayerExists        = errors.New("player already in room")
	ErrInvalidPhase        = errors.New("invalid action for current state")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrNotHost             = errors.New("only host can perform this action")
	ErrNotPerformer        = errors.New("only players can submit cards")
	ErrIncompleteSelection = errors.New("all three cards are required")
	ErrNotEligibleVoter    = errors.New("host cannot vote")
	ErrCannotVoteSelf      = errors.New("cannot vote for yourself")
	ErrInvalidVoteTarget   = errors.New("invalid vote target")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrInvalidLine         = errors.New("line index out of range")
	ErrNoScript            = errors.New("no script loaded")
	ErrInvalidGameMode     = errors.New("invalid game mode")
	ErrMalformedScript     = errors.New("malformed script")
	ErrEmptyScript         = errors.New("script has no lines")
)
