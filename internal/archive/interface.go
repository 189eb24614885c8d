package archive

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go showtime/internal/archive Repository

import (
	"context"
)

// Repository defines the interface for finished show persistence
type Repository interface {
	// SaveShow persists a finished show
	SaveShow(ctx context.Context, input *SaveShowInput) error

	// GetShow retrieves a show by ID
	GetShow(ctx context.Context, input *GetShowInput) (*ShowRecord, error)

	// GetRecentShows lists the newest shows across all rooms
	GetRecentShows(ctx context.Context, input *GetRecentShowsInput) (*GetRecentShowsOutput, error)

	// GetShowsByRoom lists the shows performed in one room, newest first
	GetShowsByRoom(ctx context.Context, input *GetShowsByRoomInput) ([]*ShowRecord, error)
}
