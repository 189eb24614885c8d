package domain

// Role represents an occupant's role in a room
type Role string

const (
	RoleHost      Role = "HOST"
	RolePlayer    Role = "PLAYER"
	RoleSpectator Role = "SPECTATOR"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsPerformer returns true if this role submits cards and appears in the script
func (r Role) IsPerformer() bool {
	return r == RolePlayer
}

// CanVote returns true if this role takes part in voting
func (r Role) CanVote() bool {
	return r == RolePlayer || r == RoleSpectator
}
