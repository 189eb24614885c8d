package domain

import (
	"sort"
	"strings"
	"time"
)

// Room represents one live game
type Room struct {
	Code             string                   `json:"code"`
	HostID           string                   `json:"hostId"`
	Players          map[string]*Player       `json:"players"`
	State            GameState                `json:"state"`
	Mode             GameMode                 `json:"mode"`
	IsMature         bool                     `json:"isMature"`
	Selections       map[string]CardSelection `json:"-"`
	Premise          *Premise                 `json:"premise,omitempty"`
	Script           *Script                  `json:"script,omitempty"`
	CurrentLineIndex int                      `json:"currentLineIndex"`
	IsPaused         bool                     `json:"isPaused"`
	Votes            map[string]string        `json:"-"`
	Results          *VoteTally               `json:"results,omitempty"`
	Round            int                      `json:"round"`
	CreatedAt        time.Time                `json:"createdAt"`
	LastActivity     time.Time                `json:"lastActivity"`
}

// NewRoom creates a room in LOBBY with its host already seated
func NewRoom(code, hostID string, mode GameMode, isMature bool, now time.Time) *Room {
	r := &Room{
		Code:         code,
		HostID:       hostID,
		Players:      make(map[string]*Player),
		State:        StateLobby,
		Mode:         mode,
		IsMature:     isMature,
		Selections:   make(map[string]CardSelection),
		Votes:        make(map[string]string),
		CreatedAt:    now,
		LastActivity: now,
	}
	r.Players[hostID] = NewPlayer(hostID, HostNickname, RoleHost, now)
	return r
}

// Touch records room activity
func (r *Room) Touch(now time.Time) {
	r.LastActivity = now
}

func (r *Room) transition(target GameState) error {
	if !r.State.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	r.State = target
	return nil
}

// AddPlayer seats a new occupant. Players fill the mode's capacity in join
// order; everyone after that becomes a spectator.
func (r *Room) AddPlayer(playerID, nickname string, now time.Time) (*Player, error) {
	if r.State != StateLobby {
		return nil, ErrGameInProgress
	}

	if _, ok := r.Players[playerID]; ok {
		return nil, ErrPlayerExists
	}

	if r.NicknameTaken(nickname) {
		return nil, ErrNicknameTaken
	}

	role := RolePlayer
	if r.PlayerCount() >= r.Mode.Capacity() {
		role = RoleSpectator
	}

	player := NewPlayer(playerID, nickname, role, now)
	r.Players[playerID] = player

	return player, nil
}

// NicknameTaken does a case-insensitive lookup across all occupants
func (r *Room) NicknameTaken(nickname string) bool {
	for _, p := range r.Players {
		if strings.EqualFold(p.Nickname, nickname) {
			return true
		}
	}
	return false
}

// RemovePlayer removes an occupant along with everything they contributed
// to the current round. Voters whose pick was removed may vote again.
func (r *Room) RemovePlayer(playerID string) error {
	if _, ok := r.Players[playerID]; !ok {
		return ErrPlayerNotFound
	}

	delete(r.Players, playerID)
	delete(r.Selections, playerID)
	delete(r.Votes, playerID)

	for voterID, targetID := range r.Votes {
		if targetID != playerID {
			continue
		}
		delete(r.Votes, voterID)
		if voter, ok := r.Players[voterID]; ok {
			voter.HasSubmittedVote = false
		}
	}

	return nil
}

// GetPlayer returns an occupant by ID
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	player, ok := r.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// IsHost checks if the given player is the host
func (r *Room) IsHost(playerID string) bool {
	return r.HostID == playerID
}

// IsEmpty reports whether nobody is left in the room
func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

// PlayerCount returns the number of PLAYER-role occupants
func (r *Room) PlayerCount() int {
	count := 0
	for _, p := range r.Players {
		if p.Role.IsPerformer() {
			count++
		}
	}
	return count
}

// Occupants returns everyone in join order
func (r *Room) Occupants() []*Player {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	sortByJoin(players)
	return players
}

// Performers returns the PLAYER-role occupants in join order
func (r *Room) Performers() []*Player {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Role.IsPerformer() {
			players = append(players, p)
		}
	}
	sortByJoin(players)
	return players
}

// Voters returns the occupants expected to vote: players and spectators
// that have at least one performer other than themselves to pick.
func (r *Room) Voters() []*Player {
	performers := r.PlayerCount()
	voters := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.Role.CanVote() {
			continue
		}
		targets := performers
		if p.Role.IsPerformer() {
			targets--
		}
		if targets > 0 {
			voters = append(voters, p)
		}
	}
	sortByJoin(voters)
	return voters
}

func sortByJoin(players []*Player) {
	sort.Slice(players, func(i, j int) bool {
		if !players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].JoinedAt.Before(players[j].JoinedAt)
		}
		return players[i].ID < players[j].ID
	})
}

// CanStart checks if the host may start the game
func (r *Room) CanStart() bool {
	return r.State == StateLobby && r.PlayerCount() >= r.Mode.MinPlayers()
}

// SetMature toggles the content rating. Only allowed before the premise is fixed.
func (r *Room) SetMature(isMature bool) error {
	if r.State != StateLobby && r.State != StateSelection {
		return ErrInvalidPhase
	}
	r.IsMature = isMature
	return nil
}

func (r *Room) resetRound() {
	r.Selections = make(map[string]CardSelection)
	r.Votes = make(map[string]string)
	for _, p := range r.Players {
		p.ResetForNewRound()
	}
}

// StartSelection moves the room from LOBBY into card selection
func (r *Room) StartSelection() error {
	if r.State != StateLobby {
		return ErrInvalidPhase
	}
	if !r.CanStart() {
		return ErrNotEnoughPlayers
	}
	if err := r.transition(StateSelection); err != nil {
		return err
	}
	r.resetRound()
	return nil
}

// SubmitSelection stores a player's three cards. Resubmitting before the
// barrier fires replaces the earlier choice.
func (r *Room) SubmitSelection(playerID string, selection CardSelection) error {
	if r.State != StateSelection {
		return ErrInvalidPhase
	}

	player, err := r.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if !player.Role.IsPerformer() {
		return ErrNotPerformer
	}

	selection = selection.Normalize()
	if err := selection.Validate(); err != nil {
		return err
	}

	r.Selections[playerID] = selection
	player.HasSubmittedSelection = true

	return nil
}

// SelectionComplete reports whether the selection barrier is satisfied
func (r *Room) SelectionComplete() bool {
	if r.State != StateSelection {
		return false
	}

	performers := r.Performers()
	if len(performers) == 0 {
		return false
	}

	if r.Mode.IsSolo() {
		for _, p := range performers {
			if p.HasSubmittedSelection {
				return true
			}
		}
		return false
	}

	for _, p := range performers {
		if !p.HasSubmittedSelection {
			return false
		}
	}
	return len(r.Players) >= 2
}

// BeginLoading closes the barrier and fixes the premise. Setting and
// circumstance are drawn independently from any submission, so the
// premise mixes contributions from different players.
func (r *Room) BeginLoading(rng Random) (*Premise, error) {
	if !r.SelectionComplete() {
		return nil, ErrInvalidPhase
	}

	submitted := make([]CardSelection, 0, len(r.Selections))
	characters := make([]string, 0, len(r.Selections))
	for _, p := range r.Performers() {
		sel, ok := r.Selections[p.ID]
		if !ok {
			continue
		}
		submitted = append(submitted, sel)
		characters = append(characters, sel.Character)
	}

	if err := r.transition(StateLoading); err != nil {
		return nil, err
	}

	r.Premise = &Premise{
		Characters:   characters,
		Setting:      submitted[rng.Intn(len(submitted))].Setting,
		Circumstance: submitted[rng.Intn(len(submitted))].Circumstance,
	}

	return r.Premise, nil
}

// AbortLoading rolls a failed generation back to SELECTION with every
// selection cleared.
func (r *Room) AbortLoading() error {
	if r.State != StateLoading {
		return ErrInvalidPhase
	}
	if err := r.transition(StateSelection); err != nil {
		return err
	}
	r.Premise = nil
	r.Script = nil
	r.Results = nil
	r.CurrentLineIndex = 0
	r.IsPaused = false
	r.resetRound()
	return nil
}

// BeginSequel re-enters LOADING from RESULTS keeping the premise and the
// finished script, which the writer escalates from.
func (r *Room) BeginSequel() (*Premise, error) {
	if r.State != StateResults {
		return nil, ErrInvalidPhase
	}
	if r.Script == nil || r.Premise == nil {
		return nil, ErrNoScript
	}
	if err := r.transition(StateLoading); err != nil {
		return nil, err
	}
	r.Votes = make(map[string]string)
	return r.Premise, nil
}

// StartPerformance installs a fresh script and moves to PERFORMING at line 0
func (r *Room) StartPerformance(script *Script) error {
	if r.State != StateLoading {
		return ErrInvalidPhase
	}
	if err := script.Validate(); err != nil {
		return err
	}
	if err := r.transition(StatePerforming); err != nil {
		return err
	}

	r.Script = script
	r.CurrentLineIndex = 0
	r.IsPaused = false
	r.Results = nil
	r.Round++
	r.resetRound()

	return nil
}

// CurrentLine returns the line under the cursor
func (r *Room) CurrentLine() (ScriptLine, error) {
	if r.Script == nil {
		return ScriptLine{}, ErrNoScript
	}
	if r.CurrentLineIndex < 0 || r.CurrentLineIndex >= len(r.Script.Lines) {
		return ScriptLine{}, ErrInvalidLine
	}
	return r.Script.Lines[r.CurrentLineIndex], nil
}

// AdvanceLine moves the cursor forward by one. It returns false without
// moving when the cursor already sits on the last line.
func (r *Room) AdvanceLine() (bool, error) {
	if r.State != StatePerforming {
		return false, ErrInvalidPhase
	}
	if r.Script == nil {
		return false, ErrNoScript
	}
	if r.CurrentLineIndex >= r.Script.LastLine() {
		return false, nil
	}
	r.CurrentLineIndex++
	return true, nil
}

// JumpToLine moves the cursor to index
func (r *Room) JumpToLine(index int) error {
	if r.State != StatePerforming {
		return ErrInvalidPhase
	}
	if r.Script == nil {
		return ErrNoScript
	}
	if index < 0 || index >= len(r.Script.Lines) {
		return ErrInvalidLine
	}
	r.CurrentLineIndex = index
	return nil
}

// SetPaused flips the pause flag during a performance
func (r *Room) SetPaused(paused bool) error {
	if r.State != StatePerforming {
		return ErrInvalidPhase
	}
	r.IsPaused = paused
	return nil
}

// FinishPerformance ends the show. Solo rooms and rooms without two
// eligible voters go straight to RESULTS with an empty tally.
func (r *Room) FinishPerformance() (GameState, error) {
	if r.State != StatePerforming {
		return r.State, ErrInvalidPhase
	}

	r.IsPaused = false
	r.Votes = make(map[string]string)
	for _, p := range r.Players {
		p.HasSubmittedVote = false
	}

	if r.Mode.IsSolo() || len(r.Voters()) < 2 {
		if err := r.transition(StateResults); err != nil {
			return r.State, err
		}
		r.Results = &VoteTally{Results: []VoteResult{}}
		return r.State, nil
	}

	if err := r.transition(StateVoting); err != nil {
		return r.State, err
	}
	return r.State, nil
}

// CastVote records voterID's pick. Voting again replaces the earlier pick.
func (r *Room) CastVote(voterID, targetID string) error {
	if r.State != StateVoting {
		return ErrInvalidPhase
	}

	voter, err := r.GetPlayer(voterID)
	if err != nil {
		return err
	}

	if !voter.Role.CanVote() {
		return ErrNotEligibleVoter
	}

	if voterID == targetID {
		return ErrCannotVoteSelf
	}

	target, ok := r.Players[targetID]
	if !ok || !target.Role.IsPerformer() {
		return ErrInvalidVoteTarget
	}

	r.Votes[voterID] = targetID
	voter.HasSubmittedVote = true

	return nil
}

// AllVoted checks if every eligible voter has voted
func (r *Room) AllVoted() bool {
	if r.State != StateVoting {
		return false
	}
	voters := r.Voters()
	if len(voters) == 0 {
		return false
	}
	for _, p := range voters {
		if !p.HasSubmittedVote {
			return false
		}
	}
	return true
}

// VoteProgress returns how many eligible voters have voted
func (r *Room) VoteProgress() *VoteProgressPayload {
	voters := r.Voters()
	voted := 0
	for _, p := range voters {
		if p.HasSubmittedVote {
			voted++
		}
	}
	return &VoteProgressPayload{
		VotedCount:  voted,
		TotalVoters: len(voters),
	}
}

// FinishVoting tallies the votes, credits the winner and moves to RESULTS
func (r *Room) FinishVoting(rng Random) (*VoteTally, error) {
	if r.State != StateVoting {
		return nil, ErrInvalidPhase
	}

	tally := TallyVotes(r.Votes, r.Players, rng)
	if err := r.transition(StateResults); err != nil {
		return nil, err
	}

	if tally.Winner != nil {
		if winner, ok := r.Players[tally.Winner.PlayerID]; ok {
			winner.Score++
		}
	}
	r.Results = tally

	return tally, nil
}

// ReturnToLobby drops the finished show so a new game can be set up
func (r *Room) ReturnToLobby() error {
	if r.State != StateResults {
		return ErrInvalidPhase
	}
	if err := r.transition(StateLobby); err != nil {
		return err
	}
	r.Premise = nil
	r.Script = nil
	r.Results = nil
	r.CurrentLineIndex = 0
	r.IsPaused = false
	r.resetRound()
	return nil
}

// Membership returns the state for broadcasting a membership update
func (r *Room) Membership() *MembershipPayload {
	return &MembershipPayload{
		Players:  r.PlayerInfoList(),
		HostID:   r.HostID,
		Mode:     r.Mode,
		IsMature: r.IsMature,
		CanStart: r.CanStart(),
	}
}

// PlayerInfoList returns every occupant as PlayerInfo, in join order
func (r *Room) PlayerInfoList() []PlayerInfo {
	occupants := r.Occupants()
	players := make([]PlayerInfo, 0, len(occupants))
	for _, p := range occupants {
		players = append(players, p.ToInfo())
	}
	return players
}
