package controller

import (
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/zazu-22/scoreplay"
)

type (
	// Broker is the centralized message hub of the playback controller. The
	// engine's callback threads, the metronome goroutine and load timers only
	// ever enqueue onto ToController; the goroutine that owns the Controller
	// drains the channel and is the sole mutator of controller state, so no
	// two messages are ever processed concurrently. ToHost carries position,
	// transport and alert updates out to whatever presents them.
	//
	// For closing the metronome goroutine, the broker has a CloseMetronome /
	// FinishedMetronome channel pair. CloseMetronome has a capacity of 1 so a
	// close request never blocks; if the channel is already full, someone
	// else has already requested the closure and dropping the message is
	// fine. FinishedMetronome is never sent to, only closed, so waiting for
	// the goroutine is "<-FinishedMetronome", combined with a timeout when
	// deadlocks must be avoided.
	Broker struct {
		ToController chan MsgToController
		ToHost       chan MsgToHost
		ToMetronome  chan MsgToMetronome

		CloseMetronome    chan struct{}
		FinishedMetronome chan struct{}
	}

	// MsgToController is a message for the controller goroutine. Session ties
	// the message to the engine session that produced it; the controller
	// discards messages whose session is not the live one, which is what
	// makes a torn-down session's late callbacks harmless. Session 0 marks
	// messages that are not bound to any engine session (metronome ticks,
	// controller-internal work).
	//
	// Position changes are the most frequent message, so they travel unboxed
	// next to Data instead of being cast to any.
	MsgToController struct {
		Session     uint64
		HasPosition bool
		Position    scoreplay.PositionChange

		Data any
	}

	// MsgToHost is a snapshot update for the presentation side. State is
	// always valid; Position is valid when HasPosition is set; Data
	// optionally carries an Alert or a MetronomeTick.
	MsgToHost struct {
		State       TransportState
		HasPosition bool
		Position    scoreplay.Position

		Data any
	}

	// MsgToMetronome reconfigures the metronome scheduler. The full desired
	// configuration travels every time, so the scheduler never has to merge
	// partial updates.
	MsgToMetronome struct {
		Running     bool
		Interval    time.Duration
		Volume      float64
		BeatsPerBar int
		// CountIn is the number of count-in clicks to play before the first
		// regular tick, at CountInVolume; zero disables the count-in. Only
		// consumed when a run starts.
		CountIn       int
		CountInVolume float64
	}

	// MetronomeTick is sent to both the controller and the host for every
	// audible/visual metronome click. Index counts beats from the start of
	// the current run; Accent marks the first beat of a bar; CountIn marks
	// clicks belonging to the count-in lead.
	MetronomeTick struct {
		Index   int
		Accent  bool
		CountIn bool
	}
)

// internal messages the event bridge and timers enqueue for the controller

type (
	scoreLoadedMsg    struct{ score *scoreplay.Score }
	engineErrorMsg    struct{ err error }
	playerReadyMsg    struct{}
	playerStateMsg    struct{ state scoreplay.PlayerState }
	renderStartedMsg  struct{}
	renderFinishedMsg struct{}
	playerFinishedMsg struct{}
	beatClickMsg      struct{ click scoreplay.BeatClick }
	midiEventsMsg     struct{ msgs []midi.Message }
	loadTimeoutMsg    struct{}
)

func NewBroker() *Broker {
	return &Broker{
		ToController:      make(chan MsgToController, 1024),
		ToHost:            make(chan MsgToHost, 1024),
		ToMetronome:       make(chan MsgToMetronome, 16),
		CloseMetronome:    make(chan struct{}, 1),
		FinishedMetronome: make(chan struct{}),
	}
}

// TrySend is a helper function to send a value to a channel if it is not
// full. It is guaranteed to be non-blocking. Returns true if the value was
// sent, false otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received
// from a channel, or timing out after t. ok will be false if the timeout
// occurred or if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
