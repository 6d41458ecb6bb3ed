package controller

import (
	"fmt"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/zazu-22/scoreplay"
)

type (
	// Controller implements the playback controller sitting between the
	// opaque notation engine and the rest of the application: transport,
	// mixing, bar/beat position mapping, loop selection and the external
	// metronome for charts the engine cannot play.
	//
	// The Controller is owned by a single goroutine. That goroutine calls the
	// transport/mixer methods and drains Broker.ToController through
	// ProcessMsg; everything else (engine callbacks, load timers, the
	// metronome) communicates with it only by enqueueing messages, so state
	// is never touched from two goroutines and events are handled strictly
	// in arrival order.
	Controller struct {
		broker  *Broker
		factory scoreplay.EngineFactory
		opts    Options

		state       TransportState
		session     *session
		sessionSeq  uint64
		score       *scoreplay.Score
		format      scoreplay.ChartFormat
		loaded      bool
		engineReady bool
		rendering   bool
		stopping    bool

		position scoreplay.Position
		bpm      float64

		trackMix  []TrackMixState
		globalMix GlobalMixState
		speed     float64

		loop Loop
		// provisional first loop pick; start < 0 means none
		loopPickStart int
		loopPickDur   int
		// a loop-wrap seek has been issued and the engine has not yet
		// reported a position back inside the loop
		loopWrapPending bool

		lastReportedPlaying bool
		alerts              []Alert
	}

	// Options is the configuration surface the host application passes in.
	// The four callbacks are invoked on the controller goroutine while a
	// message is being processed; they should hand off and return.
	Options struct {
		// ReadOnly disables the playback half of the engine entirely; charts
		// are rendered but every transport control is a no-op.
		ReadOnly bool
		// LoadTimeout bounds how long a load may stay pending without the
		// engine reporting readiness or an error. Zero means 15 s.
		LoadTimeout time.Duration
		// DefaultBPM is the tempo assumed for charts with no native playback
		// until the host supplies one. Zero means 120.
		DefaultBPM float64

		OnPlaybackChange func(playing bool)
		OnTempoChange    func(bpm float64)
		OnPlayerReady    func()
		OnError          func(message string)

		// MIDIOut, when set, receives every batch of MIDI events the engine
		// reports as played, e.g. for forwarding to an external port.
		MIDIOut func(msgs []midi.Message)
	}
)

const (
	defaultLoadTimeout = 15 * time.Second
	defaultBPM         = 120
)

func New(broker *Broker, factory scoreplay.EngineFactory, opts Options) *Controller {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	if opts.DefaultBPM <= 0 {
		opts.DefaultBPM = defaultBPM
	}
	return &Controller{
		broker:   broker,
		factory:  factory,
		opts:     opts,
		state:    TransportIdle,
		position: scoreplay.Position{Track: -1},
		bpm:      opts.DefaultBPM,
		speed:    1,
		globalMix: GlobalMixState{
			Master: 1,
		},
		loopPickStart: -1,
	}
}

// Broker returns the broker the controller was created with.
func (c *Controller) Broker() *Broker { return c.broker }

// Score returns the track list and bar structure of the loaded chart, or nil
// before the engine has reported one.
func (c *Controller) Score() *scoreplay.Score { return c.score }

// Position returns the latest published playback position.
func (c *Controller) Position() scoreplay.Position { return c.position }

// Format returns the format of the loaded chart payload.
func (c *Controller) Format() scoreplay.ChartFormat { return c.format }

// ProcessMsg handles one message from Broker.ToController. The owning
// goroutine calls it for every received message; messages bound to an engine
// session that is no longer the live one are discarded, which is what keeps
// late callbacks of a torn-down session from mutating current state.
func (c *Controller) ProcessMsg(msg MsgToController) {
	if msg.Session != 0 && (c.session == nil || c.session.id != msg.Session) {
		return
	}
	if msg.HasPosition {
		c.handlePosition(msg.Position)
	}
	switch m := msg.Data.(type) {
	case scoreLoadedMsg:
		c.handleScoreLoaded(m.score)
	case playerReadyMsg:
		c.handlePlayerReady()
	case playerStateMsg:
		c.handlePlayerState(m.state)
	case engineErrorMsg:
		c.fail(m.err.Error())
	case loadTimeoutMsg:
		if c.state == TransportLoading {
			c.fail(scoreplay.ErrLoadTimeout.Error())
		}
	case renderStartedMsg:
		c.rendering = true
		c.pushHost(nil)
	case renderFinishedMsg:
		c.rendering = false
		c.pushHost(nil)
	case playerFinishedMsg:
		c.handlePlayerFinished()
	case beatClickMsg:
		c.handleBeatClick(m.click)
	case midiEventsMsg:
		if c.opts.MIDIOut != nil {
			c.opts.MIDIOut(m.msgs)
		}
	case MetronomeTick:
		c.pushHost(m)
	default:
		// ignore unknown messages
	}
}

func (c *Controller) handleScoreLoaded(score *scoreplay.Score) {
	if err := score.Validate(); err != nil {
		c.fail(fmt.Sprintf("engine reported an unusable score: %v", err))
		return
	}
	c.session.stopTimeout()
	c.score = score
	c.resetTrackMix(len(score.Tracks))
	c.applyGlobalMix()
	c.session.engine.SetPlaybackSpeed(c.speed)
	c.setTempo(score.Bars[0].BPM)
	c.position = scoreplay.Position{TotalMs: score.TotalMs, Track: -1}
	c.setState(TransportReady)
}

func (c *Controller) handlePlayerReady() {
	c.engineReady = true
	if c.opts.OnPlayerReady != nil {
		c.opts.OnPlayerReady()
	}
}

func (c *Controller) handlePlayerState(state scoreplay.PlayerState) {
	switch {
	case state == scoreplay.PlayerPlaying:
		c.stopping = false
		c.setState(TransportPlaying)
	case c.stopping:
		c.stopping = false
		c.setState(TransportStopped)
	case c.state == TransportPlaying:
		c.setState(TransportPaused)
	}
}

func (c *Controller) handlePlayerFinished() {
	if c.loop.Active() && c.session != nil && c.score != nil {
		c.session.engine.SetTimePosition(c.score.TimeAt(c.loop.StartTick))
	}
	c.loopWrapPending = false
	c.resetPositionTo(c.loop.Start())
	c.setState(TransportStopped)
}

// Load tears down any previous session and starts loading the given chart
// payload. Readiness arrives later as events; the returned error covers only
// failures detectable synchronously (undecodable payload, engine
// construction failure).
func (c *Controller) Load(fileData []byte) error {
	c.Unload()
	format := scoreplay.DetectChartFormat(fileData)
	if format == scoreplay.ChartUnknown {
		err := fmt.Errorf("%w: unrecognized chart payload", scoreplay.ErrInvalidFileFormat)
		c.Alerts().AddNamed("Load", err.Error(), Error)
		return err
	}
	c.format = format
	c.loaded = true
	if !format.NativePlayback() {
		// text/PDF/image charts never reach the engine; the transport only
		// drives the metronome and the auto-scroll rate for them
		c.setState(TransportReady)
		return nil
	}
	engine, err := c.constructEngine()
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", scoreplay.ErrEngineInit, err)
		c.fail(wrapped.Error())
		return wrapped
	}
	c.sessionSeq++
	s := &session{id: c.sessionSeq, engine: engine}
	c.session = s
	c.attach(s)
	s.timeout = time.AfterFunc(c.opts.LoadTimeout, func() {
		TrySend(c.broker.ToController, MsgToController{Session: s.id, Data: loadTimeoutMsg{}})
	})
	c.setState(TransportLoading)
	if err := engine.Load(fileData); err != nil {
		wrapped := fmt.Errorf("%w: %v", scoreplay.ErrEngineInit, err)
		c.fail(wrapped.Error())
		return wrapped
	}
	return nil
}

// constructEngine calls the injected factory, converting a panicking engine
// library into an ordinary error so a construction failure can never leave a
// half-mounted session behind.
func (c *Controller) constructEngine() (engine scoreplay.Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			engine, err = nil, fmt.Errorf("engine construction panicked: %v", r)
		}
	}()
	return c.factory.Engine(scoreplay.EngineSettings{
		EnablePlayer: !c.opts.ReadOnly,
		EnableCursor: !c.opts.ReadOnly,
		Speed:        c.speed,
	})
}

// Unload destroys the live session, if any, and returns the transport to
// Idle. It is idempotent and safe to call in any state, including while a
// load is still pending; afterwards no timer is pending, no engine
// subscription is live and no reference to the engine instance remains.
func (c *Controller) Unload() {
	if s := c.session; s != nil {
		s.destroy()
		c.session = nil
	}
	c.score = nil
	c.format = scoreplay.ChartUnknown
	c.loaded = false
	c.engineReady = false
	c.rendering = false
	c.stopping = false
	c.trackMix = nil
	c.loop = Loop{}
	c.loopPickStart = -1
	c.loopWrapPending = false
	c.position = scoreplay.Position{Track: -1}
	c.bpm = c.opts.DefaultBPM
	c.setState(TransportIdle)
}

// fail funnels any engine or load failure into the Error state: the session
// is torn down, the message lands in the alert list and the host's OnError
// is invoked. There is no automatic retry; only a fresh Load leaves Error.
func (c *Controller) fail(message string) {
	if s := c.session; s != nil {
		s.destroy()
		c.session = nil
	}
	c.engineReady = false
	c.stopping = false
	c.Alerts().AddNamed("EngineError", message, Error)
	c.setState(TransportError)
	if c.opts.OnError != nil {
		c.opts.OnError(message)
	}
}

func (c *Controller) setState(state TransportState) {
	if c.state == state {
		return
	}
	c.state = state
	playing := state == TransportPlaying
	if playing != c.lastReportedPlaying {
		c.lastReportedPlaying = playing
		if c.opts.OnPlaybackChange != nil {
			c.opts.OnPlaybackChange(playing)
		}
	}
	c.updateMetronome()
	c.pushHost(nil)
}

func (c *Controller) setTempo(bpm float64) {
	if c.bpm == bpm {
		return
	}
	c.bpm = bpm
	if c.opts.OnTempoChange != nil {
		c.opts.OnTempoChange(bpm)
	}
	c.updateMetronome()
}

func (c *Controller) resetPositionTo(tick int) {
	if c.score == nil {
		c.position = scoreplay.Position{Track: -1}
		return
	}
	pos := c.score.PositionAt(tick)
	pos.TotalMs = c.score.TotalMs
	c.position = pos
}

func (c *Controller) pushHost(data any) {
	TrySend(c.broker.ToHost, MsgToHost{
		State:       c.state,
		HasPosition: true,
		Position:    c.position,
		Data:        data,
	})
}
