package controller

import "github.com/zazu-22/scoreplay"

// Loop is a forward-only playback loop in ticks. The zero value means no
// loop is selected.
type Loop struct {
	StartTick int
	EndTick   int
}

// Active reports whether a loop range is selected.
func (l Loop) Active() bool { return l.EndTick > l.StartTick }

// Start returns the tick playback resets to on Stop: the loop start, or 0
// when no loop is selected.
func (l Loop) Start() int { return l.StartTick }

// LoopSelection returns the selected loop range, and whether one is active.
func (c *Controller) LoopSelection() (Loop, bool) { return c.loop, c.loop.Active() }

// HasProvisionalLoopStart reports whether the first of the two loop picks
// has been made and the controller is waiting for the second.
func (c *Controller) HasProvisionalLoopStart() bool { return c.loopPickStart >= 0 }

// ClearLoop drops the loop selection and any provisional pick.
func (c *Controller) ClearLoop() {
	c.loop = Loop{}
	c.loopPickStart = -1
	c.loopWrapPending = false
	c.pushHost(nil)
}

// handleBeatClick processes a BeatMouseDown event. Without the selection
// modifier the click only scrubs to the clicked beat. With the modifier, two
// sequential picks build the loop: the first records a provisional start,
// the second closes the range as min..max plus the duration of whichever
// pick lies later in the song, so picking a later bar first and an earlier
// bar second still yields the same forward range.
func (c *Controller) handleBeatClick(click scoreplay.BeatClick) {
	if c.score == nil {
		return
	}
	if !click.Modifier {
		if c.session != nil {
			c.session.engine.SetTimePosition(c.score.TimeAt(click.Start))
		}
		c.position.Track = click.Track
		c.pushHost(nil)
		return
	}
	if c.loopPickStart < 0 {
		c.loopPickStart = click.Start
		c.loopPickDur = click.Duration
		c.pushHost(nil)
		return
	}
	start, end := c.loopPickStart, click.Start
	endDur := click.Duration
	if start > end {
		start, end = end, start
		endDur = c.loopPickDur
	}
	c.loop = Loop{StartTick: start, EndTick: end + endDur}
	c.loopPickStart = -1
	c.loopWrapPending = false
	c.pushHost(nil)
}
