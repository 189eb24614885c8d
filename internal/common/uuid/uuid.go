package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go showtime/internal/common/uuid UUID

// UUID hands out player ids
type UUID interface {
	NewUUID() string
}

// DefaultUUID implements the UUID interface using the uuid package
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new random (v4) UUID
func (d *DefaultUUID) NewUUID() string {
	return uuid.NewString()
}
