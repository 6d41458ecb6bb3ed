package controller

import (
	"fmt"
	"math"

	"github.com/zazu-22/scoreplay"
)

type (
	// TrackMixState is the controller's record of one track's mixer flags.
	// The engine remains authoritative for what is audible: soloing any
	// track implicitly silences the non-soloed ones inside the engine, and
	// that is deliberately not mirrored here as extra muted flags.
	TrackMixState struct {
		Muted  bool    `yaml:"muted,omitempty"`
		Solo   bool    `yaml:"solo,omitempty"`
		Volume float64 `yaml:"volume"`
	}

	// GlobalMixState holds the global levels. Metronome and CountIn follow
	// the engine contract that a volume of exactly zero turns the feature
	// off; there is intentionally no separate enabled flag that could drift
	// out of sync with the value.
	GlobalMixState struct {
		Master    float64 `yaml:"master"`
		Metronome float64 `yaml:"metronome"`
		CountIn   float64 `yaml:"countIn"`
	}
)

// clamp01 clamps volumes into [0,1]. Out-of-range and NaN inputs are
// clamped, never rejected.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TrackMix returns a copy of the per-track mixer state.
func (c *Controller) TrackMix() []TrackMixState {
	out := make([]TrackMixState, len(c.trackMix))
	copy(out, c.trackMix)
	return out
}

// GlobalMix returns the global mixer state.
func (c *Controller) GlobalMix() GlobalMixState { return c.globalMix }

func (c *Controller) resetTrackMix(tracks int) {
	c.trackMix = make([]TrackMixState, tracks)
	for i := range c.trackMix {
		c.trackMix[i].Volume = 1
	}
}

func (c *Controller) applyGlobalMix() {
	if c.session == nil {
		return
	}
	e := c.session.engine
	e.SetMasterVolume(c.globalMix.Master)
	e.SetMetronomeVolume(c.globalMix.Metronome)
	e.SetCountInVolume(c.globalMix.CountIn)
}

// trackIndexOK validates a mixer track index. An unknown index is a
// stale-UI/engine race, so it is recorded as a warning and ignored instead
// of surfaced as an error.
func (c *Controller) trackIndexOK(index int) bool {
	if index >= 0 && index < len(c.trackMix) {
		return true
	}
	c.Alerts().AddNamed("TrackIndex",
		fmt.Sprintf("%v: ignoring mixer change for track %d", scoreplay.ErrTrackIndex, index), Warning)
	return false
}

// SetTrackVolume sets one track's volume, clamped to [0,1]. Unknown indices
// are ignored and the engine is not called.
func (c *Controller) SetTrackVolume(index int, volume float64) {
	if !c.trackIndexOK(index) {
		return
	}
	volume = clamp01(volume)
	if c.session != nil {
		c.session.engine.ChangeTrackVolume([]int{index}, volume)
	}
	c.trackMix[index].Volume = volume
}

// ToggleMute flips one track's mute flag.
func (c *Controller) ToggleMute(index int) {
	if !c.trackIndexOK(index) {
		return
	}
	muted := !c.trackMix[index].Muted
	if c.session != nil {
		c.session.engine.ChangeTrackMute([]int{index}, muted)
	}
	c.trackMix[index].Muted = muted
}

// ToggleSolo flips one track's solo flag. Which other tracks fall silent as
// a result is decided inside the engine.
func (c *Controller) ToggleSolo(index int) {
	if !c.trackIndexOK(index) {
		return
	}
	solo := !c.trackMix[index].Solo
	if c.session != nil {
		c.session.engine.ChangeTrackSolo([]int{index}, solo)
	}
	c.trackMix[index].Solo = solo
}

// SetMasterVolume sets the master output level, clamped to [0,1].
func (c *Controller) SetMasterVolume(volume float64) {
	c.globalMix.Master = clamp01(volume)
	if c.session != nil {
		c.session.engine.SetMasterVolume(c.globalMix.Master)
	}
}

// SetMetronomeVolume sets the metronome level, clamped to [0,1]. Zero turns
// the metronome off, any other value turns it on.
func (c *Controller) SetMetronomeVolume(volume float64) {
	c.globalMix.Metronome = clamp01(volume)
	if c.session != nil {
		c.session.engine.SetMetronomeVolume(c.globalMix.Metronome)
	}
	c.updateMetronome()
}

// SetCountInVolume sets the count-in level, clamped to [0,1]. Zero turns the
// count-in off, any other value turns it on.
func (c *Controller) SetCountInVolume(volume float64) {
	c.globalMix.CountIn = clamp01(volume)
	if c.session != nil {
		c.session.engine.SetCountInVolume(c.globalMix.CountIn)
	}
	c.updateMetronome()
}

// MetronomeActive reports whether the metronome is on, which by the engine
// contract means its volume is non-zero.
func (c *Controller) MetronomeActive() bool { return c.globalMix.Metronome > 0 }

// CountInActive reports whether the count-in is on.
func (c *Controller) CountInActive() bool { return c.globalMix.CountIn > 0 }

// SetPlaybackSpeed sets the playback rate multiplier, clamped to
// [0.25, 2].
func (c *Controller) SetPlaybackSpeed(speed float64) {
	if math.IsNaN(speed) || speed < minPlaybackSpeed {
		speed = minPlaybackSpeed
	}
	if speed > maxPlaybackSpeed {
		speed = maxPlaybackSpeed
	}
	c.speed = speed
	if c.session != nil {
		c.session.engine.SetPlaybackSpeed(speed)
	}
	// the speed scales the metronome period along with the tempo
	c.updateMetronome()
}

const (
	minPlaybackSpeed = 0.25
	maxPlaybackSpeed = 2.0
)
