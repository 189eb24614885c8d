package domain

import "strings"

// GameMode fixes how many performers a room holds
type GameMode string

const (
	ModeSolo       GameMode = "SOLO"
	ModeHeadToHead GameMode = "HEAD_TO_HEAD"
	ModeEnsemble   GameMode = "ENSEMBLE"
)

// ParseGameMode parses a mode name, case-insensitively
func ParseGameMode(s string) (GameMode, error) {
	mode := GameMode(strings.ToUpper(strings.TrimSpace(s)))
	if !mode.Valid() {
		return "", ErrInvalidGameMode
	}
	return mode, nil
}

// Valid reports whether m is a known mode
func (m GameMode) Valid() bool {
	switch m {
	case ModeSolo, ModeHeadToHead, ModeEnsemble:
		return true
	}
	return false
}

// Capacity is the number of PLAYER seats. The host is never counted.
func (m GameMode) Capacity() int {
	switch m {
	case ModeSolo:
		return 1
	case ModeHeadToHead:
		return 2
	case ModeEnsemble:
		return 6
	}
	return 0
}

// MinPlayers is the number of PLAYERs needed before the host can start
func (m GameMode) MinPlayers() int {
	if m == ModeSolo {
		return 1
	}
	return 2
}

// IsSolo returns true for the single-performer mode
func (m GameMode) IsSolo() bool {
	return m == ModeSolo
}

// String returns the string representation of the mode
func (m GameMode) String() string {
	return string(m)
}
