package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"showtime/internal/domain"
)

type TeleprompterTestSuite struct {
	appSuite
}

// start brings a head-to-head room to PERFORMING on script
func (s *TeleprompterTestSuite) start(script *domain.Script) (*RoomSession, *recordingClient) {
	session, host := s.newRoom(domain.ModeHeadToHead)
	s.join(session, "Alice", "Bob")
	s.perform(session, script, "Alice", "Bob")
	return session, host
}

func (s *TeleprompterTestSuite) TestLinesAdvanceByReadingTime() {
	// 2 words, 4 words, 1 word
	session, host := s.start(testScript("hello world", "one two three four", "bye"))

	s.Equal([]time.Duration{time.Second}, s.sched.Pending())

	s.sched.Advance(999 * time.Millisecond)
	s.Equal(0, session.Snapshot(session.HostID()).CurrentLineIndex)

	s.sched.Advance(time.Millisecond)
	s.Equal(1, session.Snapshot(session.HostID()).CurrentLineIndex)
	s.Equal([]time.Duration{2 * time.Second}, s.sched.Pending())

	s.sched.Advance(2 * time.Second)
	s.Equal([]time.Duration{500 * time.Millisecond}, s.sched.Pending())

	// The last line is held for its full reading time before voting opens
	s.sched.Advance(499 * time.Millisecond)
	s.Equal(domain.StatePerforming, session.State())
	s.sched.Advance(time.Millisecond)
	s.Equal(domain.StateVoting, session.State())
	s.Empty(s.sched.Pending())

	s.Eventually(func() bool {
		states := host.states()
		return len(states) > 0 && states[len(states)-1] == domain.StateVoting
	}, waitFor, tick)
	s.Equal([]int{0, 1, 2}, host.syncIndexes())
}

func (s *TeleprompterTestSuite) TestPauseIsIdempotent() {
	session, host := s.start(testScript("one two", "three"))

	s.Require().NoError(session.Pause(session.HostID()))
	s.Require().NoError(session.Pause(session.HostID()))
	s.Empty(s.sched.Pending())

	s.sched.Advance(time.Minute)
	snap := session.Snapshot(session.HostID())
	s.Equal(0, snap.CurrentLineIndex)
	s.True(snap.IsPaused)

	s.Eventually(func() bool {
		return host.count(domain.EventSync) == 2
	}, waitFor, tick)
	s.Never(func() bool {
		return host.count(domain.EventSync) > 2
	}, 50*time.Millisecond, tick)
}

func (s *TeleprompterTestSuite) TestResumeRestartsFullLineTime() {
	session, _ := s.start(testScript("one two three four", "five"))

	s.sched.Advance(1500 * time.Millisecond)
	s.Require().NoError(session.Pause(session.HostID()))
	s.sched.Advance(10 * time.Second)

	s.Require().NoError(session.Resume(session.HostID()))
	s.Require().NoError(session.Resume(session.HostID()))
	s.Equal([]time.Duration{2 * time.Second}, s.sched.Pending())

	s.sched.Advance(1999 * time.Millisecond)
	s.Equal(0, session.Snapshot(session.HostID()).CurrentLineIndex)
	s.sched.Advance(time.Millisecond)
	s.Equal(1, session.Snapshot(session.HostID()).CurrentLineIndex)
}

func (s *TeleprompterTestSuite) TestJumpReplacesOutstandingAdvance() {
	// 1, 2, 3 and 4 words
	session, host := s.start(testScript("a", "a b", "a b c", "a b c d"))

	s.Require().NoError(session.JumpToLine(session.HostID(), 1))
	s.Require().NoError(session.JumpToLine(session.HostID(), 3))

	s.Equal([]time.Duration{2 * time.Second}, s.sched.Pending())

	s.sched.Advance(2 * time.Second)
	s.Equal(domain.StateVoting, session.State())

	s.Eventually(func() bool {
		return len(host.syncIndexes()) == 3
	}, waitFor, tick)
	s.Equal([]int{0, 1, 3}, host.syncIndexes())
}

func (s *TeleprompterTestSuite) TestJumpWhilePausedStaysPaused() {
	session, host := s.start(testScript("a", "a b", "a b c"))

	s.Require().NoError(session.Pause(session.HostID()))
	s.Require().NoError(session.JumpToLine(session.HostID(), 2))
	s.Empty(s.sched.Pending())

	snap := session.Snapshot(session.HostID())
	s.Equal(2, snap.CurrentLineIndex)
	s.True(snap.IsPaused)

	s.Eventually(func() bool {
		return host.count(domain.EventSync) == 3
	}, waitFor, tick)
	last := host.ofType(domain.EventSync)[2].Payload.(*domain.SyncPayload)
	s.True(last.IsPaused)
	s.Equal(2, last.LineIndex)
}

func (s *TeleprompterTestSuite) TestJumpRejections() {
	session, _ := s.start(testScript("a", "b"))

	s.ErrorIs(session.JumpToLine(session.HostID(), 2), domain.ErrInvalidLine)
	s.ErrorIs(session.JumpToLine(session.HostID(), -1), domain.ErrInvalidLine)
	s.ErrorIs(session.JumpToLine("p-Alice", 1), domain.ErrNotHost)
	s.ErrorIs(session.Pause("p-Alice"), domain.ErrNotHost)
	s.ErrorIs(session.Resume("p-Alice"), domain.ErrNotHost)

	s.Equal([]time.Duration{500 * time.Millisecond}, s.sched.Pending())
	s.Equal(0, session.Snapshot(session.HostID()).CurrentLineIndex)
}

func (s *TeleprompterTestSuite) TestControlsOutsidePerformanceRejected() {
	session, _ := s.newRoom(domain.ModeHeadToHead)

	s.ErrorIs(session.Pause(session.HostID()), domain.ErrInvalidPhase)
	s.ErrorIs(session.Resume(session.HostID()), domain.ErrInvalidPhase)
	s.Error(session.JumpToLine(session.HostID(), 0))
}

func (s *TeleprompterTestSuite) TestLateTimerFireIsIgnored() {
	session, host := s.start(testScript("a", "b", "c", "d"))

	// The jump's Stop loses the race with the already-firing line 0 timer
	s.sched.lateFire = true
	s.Require().NoError(session.JumpToLine(session.HostID(), 2))

	// Timer 0 held line 0
	s.sched.fireIndex(0)

	s.Equal(2, session.Snapshot(session.HostID()).CurrentLineIndex)
	s.Eventually(func() bool {
		return len(host.syncIndexes()) == 2
	}, waitFor, tick)
	s.Never(func() bool {
		return len(host.syncIndexes()) > 2
	}, 50*time.Millisecond, tick)
	s.Equal([]int{0, 2}, host.syncIndexes())
}

func TestTeleprompterSuite(t *testing.T) {
	suite.Run(t, new(TeleprompterTestSuite))
}
