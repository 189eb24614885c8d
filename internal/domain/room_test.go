package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// seqRandom returns a fixed sequence of picks
type seqRandom struct {
	values []int
	next   int
}

func (r *seqRandom) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

type RoomTestSuite struct {
	suite.Suite
	now    time.Time
	hostID string
}

func (s *RoomTestSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	s.hostID = "host-id"
}

func (s *RoomTestSuite) newRoom(mode GameMode) *Room {
	return NewRoom("ABCD", s.hostID, mode, false, s.now)
}

// join adds players with strictly increasing join times
func (s *RoomTestSuite) join(r *Room, names ...string) []*Player {
	players := make([]*Player, 0, len(names))
	for i, name := range names {
		p, err := r.AddPlayer("p-"+name, name, s.now.Add(time.Duration(len(r.Players)+i)*time.Second))
		s.Require().NoError(err)
		players = append(players, p)
	}
	return players
}

func (s *RoomTestSuite) selection(tag string) CardSelection {
	return CardSelection{
		Character:    "char-" + tag,
		Setting:      "setting-" + tag,
		Circumstance: "circ-" + tag,
	}
}

func (s *RoomTestSuite) performingRoom(mode GameMode, names ...string) *Room {
	r := s.newRoom(mode)
	players := s.join(r, names...)
	s.Require().NoError(r.StartSelection())
	for _, p := range players {
		if p.Role == RolePlayer {
			s.Require().NoError(r.SubmitSelection(p.ID, s.selection(p.Nickname)))
		}
	}
	_, err := r.BeginLoading(&seqRandom{})
	s.Require().NoError(err)
	s.Require().NoError(r.StartPerformance(&Script{
		Title: "t",
		Lines: []ScriptLine{{Speaker: "a", Text: "one two", Mood: MoodHappy}, {Speaker: "b", Text: "three", Mood: MoodNeutral}},
	}))
	return r
}

func (s *RoomTestSuite) TestNewRoomSeatsHost() {
	r := s.newRoom(ModeEnsemble)

	s.Equal(StateLobby, r.State)
	s.Len(r.Players, 1)
	host, err := r.GetPlayer(s.hostID)
	s.Require().NoError(err)
	s.Equal(RoleHost, host.Role)
	s.True(r.IsHost(s.hostID))
	s.Equal(0, r.PlayerCount())
}

func (s *RoomTestSuite) TestAddPlayerAssignsRolesByCapacity() {
	testCases := []struct {
		mode    GameMode
		joiners int
		players int
	}{
		{ModeSolo, 3, 1},
		{ModeHeadToHead, 4, 2},
		{ModeEnsemble, 8, 6},
	}

	for _, tc := range testCases {
		s.Run(tc.mode.String(), func() {
			r := s.newRoom(tc.mode)
			for i := 0; i < tc.joiners; i++ {
				p, err := r.AddPlayer(string(rune('a'+i)), string(rune('A'+i)), s.now)
				s.Require().NoError(err)
				if i < tc.players {
					s.Equal(RolePlayer, p.Role)
				} else {
					s.Equal(RoleSpectator, p.Role)
				}
			}
			s.Equal(tc.players, r.PlayerCount())
			s.True(r.IsHost(s.hostID))
			s.Equal(RoleHost, r.Players[s.hostID].Role)
		})
	}
}

func (s *RoomTestSuite) TestAddPlayerRejections() {
	r := s.newRoom(ModeEnsemble)
	s.join(r, "Alice")

	_, err := r.AddPlayer("other", "aLiCe", s.now)
	s.ErrorIs(err, ErrNicknameTaken)

	_, err = r.AddPlayer("other", "host", s.now)
	s.ErrorIs(err, ErrNicknameTaken)

	_, err = r.AddPlayer("p-Alice", "Bob", s.now)
	s.ErrorIs(err, ErrPlayerExists)

	s.join(r, "Bob")
	s.Require().NoError(r.StartSelection())

	_, err = r.AddPlayer("late", "Carol", s.now)
	s.ErrorIs(err, ErrGameInProgress)
}

func (s *RoomTestSuite) TestCanStartRespectsMinimums() {
	solo := s.newRoom(ModeSolo)
	s.False(solo.CanStart())
	s.ErrorIs(solo.StartSelection(), ErrNotEnoughPlayers)
	s.join(solo, "Alice")
	s.True(solo.CanStart())

	ensemble := s.newRoom(ModeEnsemble)
	s.join(ensemble, "Alice")
	s.False(ensemble.CanStart())
	s.join(ensemble, "Bob")
	s.True(ensemble.CanStart())
}

func (s *RoomTestSuite) TestSoloBarrierFiresOnFirstSubmit() {
	r := s.newRoom(ModeSolo)
	players := s.join(r, "Alice", "Watcher")
	s.Require().NoError(r.StartSelection())

	s.ErrorIs(r.SubmitSelection(players[1].ID, s.selection("w")), ErrNotPerformer)
	s.False(r.SelectionComplete())

	s.Require().NoError(r.SubmitSelection(players[0].ID, s.selection("a")))
	s.True(r.SelectionComplete())
}

func (s *RoomTestSuite) TestEnsembleBarrierWaitsForEveryPlayer() {
	r := s.newRoom(ModeEnsemble)
	players := s.join(r, "Alice", "Bob", "Carol")
	s.Require().NoError(r.StartSelection())

	s.Require().NoError(r.SubmitSelection(players[0].ID, s.selection("a")))
	s.Require().NoError(r.SubmitSelection(players[1].ID, s.selection("b")))
	s.False(r.SelectionComplete())

	s.Require().NoError(r.SubmitSelection(players[2].ID, s.selection("c")))
	s.True(r.SelectionComplete())
}

func (s *RoomTestSuite) TestSubmitSelectionValidates() {
	r := s.newRoom(ModeHeadToHead)
	players := s.join(r, "Alice", "Bob")

	s.ErrorIs(r.SubmitSelection(players[0].ID, s.selection("a")), ErrInvalidPhase)

	s.Require().NoError(r.StartSelection())
	err := r.SubmitSelection(players[0].ID, CardSelection{Character: "x", Setting: "  ", Circumstance: "y"})
	s.ErrorIs(err, ErrIncompleteSelection)
	s.False(players[0].HasSubmittedSelection)

	s.ErrorIs(r.SubmitSelection("ghost", s.selection("g")), ErrPlayerNotFound)
	s.ErrorIs(r.SubmitSelection(s.hostID, s.selection("h")), ErrNotPerformer)
}

func (s *RoomTestSuite) TestBeginLoadingMixesContributions() {
	r := s.newRoom(ModeEnsemble)
	players := s.join(r, "Alice", "Bob", "Carol")
	s.Require().NoError(r.StartSelection())
	for _, p := range players {
		s.Require().NoError(r.SubmitSelection(p.ID, s.selection(p.Nickname)))
	}

	premise, err := r.BeginLoading(&seqRandom{values: []int{2, 0}})
	s.Require().NoError(err)

	s.Equal(StateLoading, r.State)
	s.Equal([]string{"char-Alice", "char-Bob", "char-Carol"}, premise.Characters)
	s.Equal("setting-Carol", premise.Setting)
	s.Equal("circ-Alice", premise.Circumstance)
}

func (s *RoomTestSuite) TestAbortLoadingClearsSelections() {
	r := s.newRoom(ModeHeadToHead)
	players := s.join(r, "Alice", "Bob")
	s.Require().NoError(r.StartSelection())
	for _, p := range players {
		s.Require().NoError(r.SubmitSelection(p.ID, s.selection(p.Nickname)))
	}
	_, err := r.BeginLoading(&seqRandom{})
	s.Require().NoError(err)

	s.Require().NoError(r.AbortLoading())

	s.Equal(StateSelection, r.State)
	s.Empty(r.Selections)
	s.Nil(r.Premise)
	for _, p := range r.Players {
		s.False(p.HasSubmittedSelection)
	}
}

func (s *RoomTestSuite) TestStartPerformanceRejectsMalformedScript() {
	r := s.newRoom(ModeSolo)
	players := s.join(r, "Alice")
	s.Require().NoError(r.StartSelection())
	s.Require().NoError(r.SubmitSelection(players[0].ID, s.selection("a")))
	_, err := r.BeginLoading(&seqRandom{})
	s.Require().NoError(err)

	s.ErrorIs(r.StartPerformance(&Script{Title: "empty"}), ErrEmptyScript)
	s.Equal(StateLoading, r.State)
}

func (s *RoomTestSuite) TestAdvanceLineStopsAtLastLine() {
	r := s.performingRoom(ModeSolo, "Alice")

	moved, err := r.AdvanceLine()
	s.Require().NoError(err)
	s.True(moved)
	s.Equal(1, r.CurrentLineIndex)

	moved, err = r.AdvanceLine()
	s.Require().NoError(err)
	s.False(moved)
	s.Equal(1, r.CurrentLineIndex)
}

func (s *RoomTestSuite) TestJumpToLineBounds() {
	r := s.performingRoom(ModeSolo, "Alice")

	s.ErrorIs(r.JumpToLine(-1), ErrInvalidLine)
	s.ErrorIs(r.JumpToLine(2), ErrInvalidLine)
	s.Require().NoError(r.JumpToLine(1))
	s.Equal(1, r.CurrentLineIndex)
}

func (s *RoomTestSuite) TestFinishPerformanceSoloGoesToResults() {
	r := s.performingRoom(ModeSolo, "Alice", "Watcher")

	state, err := r.FinishPerformance()
	s.Require().NoError(err)
	s.Equal(StateResults, state)
	s.Require().NotNil(r.Results)
	s.Nil(r.Results.Winner)
	s.Empty(r.Results.Results)
}

func (s *RoomTestSuite) TestFinishPerformanceGroupGoesToVoting() {
	r := s.performingRoom(ModeHeadToHead, "Alice", "Bob")

	state, err := r.FinishPerformance()
	s.Require().NoError(err)
	s.Equal(StateVoting, state)
	s.Len(r.Voters(), 2)
}

func (s *RoomTestSuite) TestCastVoteRules() {
	r := s.performingRoom(ModeHeadToHead, "Alice", "Bob", "Watcher")
	_, err := r.FinishPerformance()
	s.Require().NoError(err)

	s.ErrorIs(r.CastVote("p-Alice", "p-Alice"), ErrCannotVoteSelf)
	s.ErrorIs(r.CastVote(s.hostID, "p-Alice"), ErrNotEligibleVoter)
	s.ErrorIs(r.CastVote("p-Alice", "p-Watcher"), ErrInvalidVoteTarget)
	s.ErrorIs(r.CastVote("p-Alice", s.hostID), ErrInvalidVoteTarget)

	s.Require().NoError(r.CastVote("p-Alice", "p-Bob"))
	s.Require().NoError(r.CastVote("p-Bob", "p-Alice"))
	s.False(r.AllVoted())

	s.Require().NoError(r.CastVote("p-Watcher", "p-Alice"))
	s.Require().NoError(r.CastVote("p-Watcher", "p-Bob"))
	s.Equal("p-Bob", r.Votes["p-Watcher"])
	s.True(r.AllVoted())

	tally, err := r.FinishVoting(&seqRandom{})
	s.Require().NoError(err)
	s.Equal(StateResults, r.State)
	s.Require().NotNil(tally.Winner)
	s.Equal("p-Bob", tally.Winner.PlayerID)
	s.Equal(3, tally.Total())
	s.Equal(1, r.Players["p-Bob"].Score)
}

func (s *RoomTestSuite) TestRemovePlayerReopensVotesCastForThem() {
	r := s.performingRoom(ModeEnsemble, "Alice", "Bob", "Carol")
	_, err := r.FinishPerformance()
	s.Require().NoError(err)

	s.Require().NoError(r.CastVote("p-Alice", "p-Carol"))
	s.Require().NoError(r.CastVote("p-Bob", "p-Alice"))

	s.Require().NoError(r.RemovePlayer("p-Carol"))

	s.NotContains(r.Votes, "p-Alice")
	s.False(r.Players["p-Alice"].HasSubmittedVote)
	s.True(r.Players["p-Bob"].HasSubmittedVote)
	s.False(r.AllVoted())

	s.ErrorIs(r.RemovePlayer("p-Carol"), ErrPlayerNotFound)
}

func (s *RoomTestSuite) TestSequelKeepsPremiseAndScript() {
	r := s.performingRoom(ModeSolo, "Alice")
	_, err := r.FinishPerformance()
	s.Require().NoError(err)

	premise, err := r.BeginSequel()
	s.Require().NoError(err)
	s.Equal(StateLoading, r.State)
	s.Equal([]string{"char-Alice"}, premise.Characters)
	s.NotNil(r.Script)

	s.Require().NoError(r.StartPerformance(&Script{Title: "II", Lines: []ScriptLine{{Speaker: "a", Text: "again"}}}))
	s.Equal(2, r.Round)
	s.Equal(0, r.CurrentLineIndex)
}

func (s *RoomTestSuite) TestReturnToLobbyClearsShow() {
	r := s.performingRoom(ModeSolo, "Alice")
	_, err := r.FinishPerformance()
	s.Require().NoError(err)

	s.Require().NoError(r.ReturnToLobby())

	s.Equal(StateLobby, r.State)
	s.Nil(r.Script)
	s.Nil(r.Premise)
	s.Nil(r.Results)
	_, err = r.AddPlayer("new", "Newcomer", s.now)
	s.NoError(err)
}

func (s *RoomTestSuite) TestSetMatureOnlyBeforeLoading() {
	r := s.performingRoom(ModeSolo, "Alice")
	s.ErrorIs(r.SetMature(true), ErrInvalidPhase)

	lobby := s.newRoom(ModeSolo)
	s.Require().NoError(lobby.SetMature(true))
	s.True(lobby.IsMature)
}

func TestRoomSuite(t *testing.T) {
	suite.Run(t, new(RoomTestSuite))
}
