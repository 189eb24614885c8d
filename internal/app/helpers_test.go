package app

import (
	"sort"
	"sync"
	"time"

	"showtime/internal/domain"
)

// fakeScheduler runs callbacks only when the test advances its clock
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer

	// lateFire makes Stop report failure and lets the callback run anyway,
	// the way a real timer behaves when it fires just before Stop.
	lateFire bool
}

type fakeTimer struct {
	sched   *fakeScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{}
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &fakeTimer{sched: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()

	if t.sched.lateFire {
		return false
	}
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// active returns unfired, unstopped timers ordered by due time
func (s *fakeScheduler) active() []*fakeTimer {
	out := make([]*fakeTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].at != out[j].at {
			return out[i].at < out[j].at
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Pending returns the remaining delay of every outstanding timer
func (s *fakeScheduler) Pending() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	var delays []time.Duration
	for _, t := range s.active() {
		delays = append(delays, t.at-s.now)
	}
	return delays
}

// Advance moves the clock forward by d, firing due callbacks in order.
// Callbacks run without the scheduler lock held.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		due := s.active()
		if len(due) == 0 || due[0].at > target {
			s.now = target
			s.mu.Unlock()
			return
		}
		t := due[0]
		t.fired = true
		s.now = t.at
		s.mu.Unlock()

		t.f()
	}
}

// fireIndex runs the i-th timer ever created, even if it was stopped
func (s *fakeScheduler) fireIndex(i int) {
	s.mu.Lock()
	t := s.timers[i]
	t.fired = true
	s.mu.Unlock()

	t.f()
}

// recordingClient captures every event sent to it
type recordingClient struct {
	id     string
	mu     sync.Mutex
	events []*domain.RoomEvent
	closed bool
}

func newRecordingClient(id string) *recordingClient {
	return &recordingClient{id: id}
}

func (c *recordingClient) Send(message interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if event, ok := message.(*domain.RoomEvent); ok {
		c.events = append(c.events, event)
	}
	return nil
}

func (c *recordingClient) GetPlayerID() string {
	return c.id
}

func (c *recordingClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recordingClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *recordingClient) ofType(eventType domain.EventType) []*domain.RoomEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*domain.RoomEvent
	for _, e := range c.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (c *recordingClient) count(eventType domain.EventType) int {
	return len(c.ofType(eventType))
}

// syncIndexes returns the line index of every SYNC event received
func (c *recordingClient) syncIndexes() []int {
	var out []int
	for _, e := range c.ofType(domain.EventSync) {
		out = append(out, e.Payload.(*domain.SyncPayload).LineIndex)
	}
	return out
}

// states returns every state announced, in order
func (c *recordingClient) states() []domain.GameState {
	var out []domain.GameState
	for _, e := range c.ofType(domain.EventStateChanged) {
		out = append(out, e.Payload.(*domain.StateChangedPayload).State)
	}
	return out
}

func testScript(texts ...string) *domain.Script {
	script := &domain.Script{Title: "Test Show", Synopsis: "A test."}
	for i, text := range texts {
		script.Lines = append(script.Lines, domain.ScriptLine{
			Speaker: string(rune('A' + i%3)),
			Text:    text,
			Mood:    domain.MoodNeutral,
		})
	}
	return script
}
