package controller

import (
	"time"

	"github.com/zazu-22/scoreplay"
)

// session is one load-to-unload lifetime of a single engine instance. The
// controller holds at most one; starting a new load destroys the previous
// session synchronously before the next engine is constructed, so at most
// one session is ever in flight.
//
// The id is never reused. Every message the event bridge enqueues carries
// it, and the controller compares it against the live session when the
// message is processed. Callbacks therefore never need to capture session
// state; they resolve the session indirectly, at processing time.
type session struct {
	id      uint64
	engine  scoreplay.Engine
	offs    []func()
	timeout *time.Timer
}

// stopTimeout cancels the pending load timeout, if any. Safe to call twice.
func (s *session) stopTimeout() {
	if s.timeout != nil {
		s.timeout.Stop()
		s.timeout = nil
	}
}

// destroy cancels the load timeout, removes every engine subscription and
// tears the engine down, in that order, so that no callback can fire into a
// dead session. Idempotent.
func (s *session) destroy() {
	s.stopTimeout()
	for _, off := range s.offs {
		off()
	}
	s.offs = nil
	if s.engine != nil {
		s.engine.Destroy()
		s.engine = nil
	}
}

// subscriptionCount reports how many engine subscriptions are live.
func (s *session) subscriptionCount() int { return len(s.offs) }
