package controller

import "math"

// TransportState is the controller's playback state. Playing and Paused are
// only entered once the engine confirms the change through its
// PlayerStateChanged event; the transport calls into the engine and waits
// for the echo rather than assuming the call worked.
type TransportState int

const (
	TransportIdle TransportState = iota
	TransportLoading
	TransportReady
	TransportPlaying
	TransportPaused
	TransportStopped
	TransportError
)

var transportStateNames = [...]string{
	"idle", "loading", "ready", "playing", "paused", "stopped", "error",
}

func (s TransportState) String() string {
	if s < 0 || int(s) >= len(transportStateNames) {
		return "invalid"
	}
	return transportStateNames[s]
}

// State returns the current transport state.
func (c *Controller) State() TransportState { return c.state }

// EngineReady reports whether the engine's player has signalled readiness.
func (c *Controller) EngineReady() bool { return c.engineReady }

// Rendering reports whether the engine is between RenderStarted and
// RenderFinished.
func (c *Controller) Rendering() bool { return c.rendering }

// Play starts playback. It is a no-op unless the transport is in Ready,
// Paused or Stopped, and for engine-backed charts additionally until the
// engine has reported readiness. In read-only mode it does nothing.
func (c *Controller) Play() {
	if c.opts.ReadOnly {
		return
	}
	switch c.state {
	case TransportReady, TransportPaused, TransportStopped:
	default:
		return
	}
	if c.session != nil {
		if !c.engineReady {
			return
		}
		c.session.engine.Play()
		return
	}
	// no engine for this chart; the transport itself is authoritative and
	// Playing only drives the metronome and the auto-scroll rate
	c.setState(TransportPlaying)
}

// Pause pauses playback; a no-op unless Playing.
func (c *Controller) Pause() {
	if c.state != TransportPlaying {
		return
	}
	if c.session != nil {
		c.session.engine.Pause()
		return
	}
	c.setState(TransportPaused)
}

// PlayPause toggles between Play and Pause.
func (c *Controller) PlayPause() {
	if c.state == TransportPlaying {
		c.Pause()
	} else {
		c.Play()
	}
}

// Stop halts playback and resets the position to the loop start, or to the
// beginning when no loop is selected. A no-op unless Playing or Paused.
func (c *Controller) Stop() {
	switch c.state {
	case TransportPlaying, TransportPaused:
	default:
		return
	}
	if c.session != nil {
		c.stopping = true
		c.session.engine.Stop()
		// the engine's own stop rewinds to 0; with a loop selected the
		// reset target is the loop start instead
		if c.loop.Active() && c.score != nil {
			c.session.engine.SetTimePosition(c.score.TimeAt(c.loop.StartTick))
		}
	}
	c.loopWrapPending = false
	c.resetPositionTo(c.loop.Start())
	c.setState(TransportStopped)
}

// Seek jumps to the given fraction of the song, clamped to [0,1]. Valid in
// Ready, Playing, Paused and Stopped; it never changes whether the song is
// playing. Charts without an engine have no time axis to seek on.
func (c *Controller) Seek(pct float64) {
	switch c.state {
	case TransportReady, TransportPlaying, TransportPaused, TransportStopped:
	default:
		return
	}
	if c.session == nil || c.score == nil {
		return
	}
	if math.IsNaN(pct) || pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	c.session.engine.SetTimePosition(pct * c.score.TotalMs)
}

// SetDesiredPlaying reconciles the host's desired playing flag with the
// transport, one-way: when the flag disagrees with the current state the
// controller issues Play or Pause to converge. The controller never mutates
// the host's flag; the host learns the actual state through
// OnPlaybackChange.
func (c *Controller) SetDesiredPlaying(playing bool) {
	if playing == (c.state == TransportPlaying) {
		return
	}
	if playing {
		c.Play()
	} else {
		c.Pause()
	}
}

const (
	autoScrollPixelsPerBeat   = 40.0
	autoScrollFramesPerSecond = 60.0
)

// ScrollRate returns the auto-scroll speed in pixels per frame for charts
// without native playback, derived from the tempo and the playback speed
// multiplier. Zero whenever auto-scroll does not apply.
func (c *Controller) ScrollRate() float64 {
	if !c.loaded || c.format.NativePlayback() || c.state != TransportPlaying {
		return 0
	}
	beatsPerSecond := c.bpm * c.speed / 60
	return autoScrollPixelsPerBeat * beatsPerSecond / autoScrollFramesPerSecond
}
