package archive

import (
	"time"

	"showtime/internal/domain"
)

// ShowRecord is the summary kept for a show once it reaches RESULTS
type ShowRecord struct {
	ID           string              `json:"id"`
	RoomCode     string              `json:"roomCode"`
	Mode         domain.GameMode     `json:"mode"`
	Round        int                 `json:"round"`
	Title        string              `json:"title"`
	Synopsis     string              `json:"synopsis"`
	LineCount    int                 `json:"lineCount"`
	Characters   []string            `json:"characters"`
	Setting      string              `json:"setting"`
	Circumstance string              `json:"circumstance"`
	Results      []domain.VoteResult `json:"results"`
	Winner       *domain.VoteResult  `json:"winner,omitempty"`
	FinishedAt   time.Time           `json:"finishedAt"`
}

type SaveShowInput struct {
	Show *ShowRecord
}

type GetShowInput struct {
	ShowID string
}

type GetRecentShowsInput struct {
	Limit int
}

type GetRecentShowsOutput struct {
	Shows []*ShowRecord
}

type GetShowsByRoomInput struct {
	RoomCode string
}
