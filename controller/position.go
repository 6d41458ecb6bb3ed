package controller

import "github.com/zazu-22/scoreplay"

// handlePosition maps an engine position-change event into bar/beat
// coordinates and publishes the result. Bar and beat are recomputed from the
// event's tick against the score's bar list, never derived from the time
// value, since the tempo may differ bar to bar.
func (c *Controller) handlePosition(pc scoreplay.PositionChange) {
	if c.score == nil {
		return
	}
	if c.loop.Active() && c.state == TransportPlaying && c.session != nil {
		if pc.Tick >= c.loop.EndTick {
			// wrap back to the loop start once; further positions past the
			// end are the engine still catching up to the seek
			if !c.loopWrapPending {
				c.loopWrapPending = true
				c.session.engine.SetTimePosition(c.score.TimeAt(c.loop.StartTick))
			}
		} else {
			c.loopWrapPending = false
		}
	}
	track := c.position.Track
	pos := c.score.PositionAt(pc.Tick)
	pos.TimeMs = pc.TimeMs
	if pc.TotalMs > 0 {
		pos.TotalMs = pc.TotalMs
	}
	pos.Track = track
	c.position = pos
	c.setTempo(c.score.BPMAt(pc.Tick))
	c.pushHost(nil)
}
