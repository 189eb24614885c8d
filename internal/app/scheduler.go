package app

import "time"

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay. Sessions use it for teleprompter
// advances and disconnect grace periods so tests can drive time by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

// NewScheduler returns a Scheduler backed by time.AfterFunc
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// scheduled is the handle kept for one outstanding callback. cancelled is
// only read and written under the owning session's lock, so a callback that
// lost the race with Stop still sees it and does nothing.
type scheduled struct {
	timer     Timer
	cancelled bool
}

func (h *scheduled) cancel() {
	if h == nil || h.cancelled {
		return
	}
	h.cancelled = true
	if h.timer != nil {
		h.timer.Stop()
	}
}
