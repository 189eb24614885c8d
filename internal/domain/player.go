package domain

import "time"

// ConnectionStatus represents a player's connection state
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "CONNECTED"
	StatusDisconnected ConnectionStatus = "DISCONNECTED"
)

// HostNickname is the display name given to the player that creates a room
const HostNickname = "Host"

// Player represents an occupant of a room
type Player struct {
	ID                    string           `json:"id"`
	Nickname              string           `json:"nickname"`
	Role                  Role             `json:"role"`
	HasSubmittedSelection bool             `json:"hasSubmittedSelection"`
	HasSubmittedVote      bool             `json:"hasSubmittedVote"`
	Score                 int              `json:"score"`
	Status                ConnectionStatus `json:"status"`
	JoinedAt              time.Time        `json:"joinedAt"`
}

// NewPlayer creates a new player with the given ID, nickname and role
func NewPlayer(id, nickname string, role Role, joinedAt time.Time) *Player {
	return &Player{
		ID:       id,
		Nickname: nickname,
		Role:     role,
		Status:   StatusConnected,
		JoinedAt: joinedAt,
	}
}

// ResetForNewRound clears the per-round submission flags
func (p *Player) ResetForNewRound() {
	p.HasSubmittedSelection = false
	p.HasSubmittedVote = false
}

// IsConnected returns true if the player is currently connected
func (p *Player) IsConnected() bool {
	return p.Status == StatusConnected
}

// Disconnect marks the player as disconnected
func (p *Player) Disconnect() {
	p.Status = StatusDisconnected
}

// Reconnect marks the player as connected
func (p *Player) Reconnect() {
	p.Status = StatusConnected
}

// PlayerInfo is the public view of a player broadcast in membership lists
type PlayerInfo struct {
	ID                    string           `json:"id"`
	Nickname              string           `json:"nickname"`
	Role                  Role             `json:"role"`
	HasSubmittedSelection bool             `json:"hasSubmittedSelection"`
	HasSubmittedVote      bool             `json:"hasSubmittedVote"`
	Score                 int              `json:"score"`
	Status                ConnectionStatus `json:"status"`
}

// ToInfo converts a Player to PlayerInfo
func (p *Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:                    p.ID,
		Nickname:              p.Nickname,
		Role:                  p.Role,
		HasSubmittedSelection: p.HasSubmittedSelection,
		HasSubmittedVote:      p.HasSubmittedVote,
		Score:                 p.Score,
		Status:                p.Status,
	}
}
