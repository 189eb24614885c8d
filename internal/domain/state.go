package domain

// GameState represents the current state of a room
type GameState string

const (
	StateLobby      GameState = "LOBBY"      // Waiting for players to join
	StateSelection  GameState = "SELECTION"  // Players picking their three cards
	StateLoading    GameState = "LOADING"    // Waiting on the writer
	StatePerforming GameState = "PERFORMING" // Teleprompter running
	StateVoting     GameState = "VOTING"     // Everyone votes for the best performer
	StateResults    GameState = "RESULTS"    // Show votes & winner
)

// String returns the string representation of the state
func (s GameState) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current state to target state is valid
func (s GameState) CanTransitionTo(target GameState) bool {
	validTransitions := map[GameState][]GameState{
		StateLobby:      {StateSelection},
		StateSelection:  {StateLoading},
		StateLoading:    {StatePerforming, StateSelection},
		StatePerforming: {StateVoting, StateResults},
		StateVoting:     {StateResults},
		StateResults:    {StateLoading, StateLobby}, // Sequel or back to lobby
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == target {
			return true
		}
	}
	return false
}
