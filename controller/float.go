package controller

import "math"

type (
	// Float is a bound, clamped controller parameter, for binding sliders
	// and knobs without the UI knowing which mixer field it drives. Set
	// clamps into Range instead of rejecting, matching how the underlying
	// mixer calls behave.
	Float struct {
		FloatData
	}

	FloatData interface {
		Value() float64
		Range() floatRange

		setValue(float64)
	}

	floatRange struct {
		Min, Max float64
	}

	MasterVolume    Controller
	MetronomeVolume Controller
	CountInVolume   Controller
	PlaybackSpeed   Controller
	Tempo           Controller

	// TrackVolume addresses one track by its ordinal in the loaded score.
	TrackVolume struct {
		c     *Controller
		track int
	}
)

func (v Float) Set(value float64) {
	value = v.Range().Clamp(value)
	if value == v.Value() {
		return
	}
	v.setValue(value)
}

// Add nudges the parameter by delta, clamped to the range.
func (v Float) Add(delta float64) {
	v.Set(v.Value() + delta)
}

func (r floatRange) Clamp(value float64) float64 {
	if math.IsNaN(value) {
		return r.Min
	}
	return max(min(value, r.Max), r.Min)
}

var volumeRange = floatRange{0, 1}

// Controller methods

func (c *Controller) MasterVolume() *MasterVolume       { return (*MasterVolume)(c) }
func (c *Controller) MetronomeVolume() *MetronomeVolume { return (*MetronomeVolume)(c) }
func (c *Controller) CountInVolume() *CountInVolume     { return (*CountInVolume)(c) }
func (c *Controller) PlaybackSpeed() *PlaybackSpeed     { return (*PlaybackSpeed)(c) }
func (c *Controller) Tempo() *Tempo                     { return (*Tempo)(c) }
func (c *Controller) TrackVolume(track int) Float {
	return Float{TrackVolume{c: c, track: track}}
}

// MasterVolume methods

func (v *MasterVolume) Float() Float           { return Float{v} }
func (v *MasterVolume) Value() float64         { return v.globalMix.Master }
func (v *MasterVolume) Range() floatRange      { return volumeRange }
func (v *MasterVolume) setValue(value float64) { (*Controller)(v).SetMasterVolume(value) }

// MetronomeVolume methods

func (v *MetronomeVolume) Float() Float           { return Float{v} }
func (v *MetronomeVolume) Value() float64         { return v.globalMix.Metronome }
func (v *MetronomeVolume) Range() floatRange      { return volumeRange }
func (v *MetronomeVolume) setValue(value float64) { (*Controller)(v).SetMetronomeVolume(value) }

// CountInVolume methods

func (v *CountInVolume) Float() Float           { return Float{v} }
func (v *CountInVolume) Value() float64         { return v.globalMix.CountIn }
func (v *CountInVolume) Range() floatRange      { return volumeRange }
func (v *CountInVolume) setValue(value float64) { (*Controller)(v).SetCountInVolume(value) }

// PlaybackSpeed methods

func (v *PlaybackSpeed) Float() Float      { return Float{v} }
func (v *PlaybackSpeed) Value() float64    { return v.speed }
func (v *PlaybackSpeed) Range() floatRange { return floatRange{minPlaybackSpeed, maxPlaybackSpeed} }
func (v *PlaybackSpeed) setValue(value float64) { (*Controller)(v).SetPlaybackSpeed(value) }

// Tempo methods
//
// For charts the engine plays natively the tempo comes from the score and
// setting it has no effect; for the rest the host supplies the tempo and it
// drives the metronome interval and the auto-scroll rate.

func (v *Tempo) Float() Float      { return Float{v} }
func (v *Tempo) Value() float64    { return v.bpm }
func (v *Tempo) Range() floatRange { return floatRange{30, 300} }
func (v *Tempo) setValue(value float64) {
	c := (*Controller)(v)
	if c.loaded && c.format.NativePlayback() {
		return
	}
	c.setTempo(value)
}

// TrackVolume methods

func (v TrackVolume) Value() float64 {
	if v.track < 0 || v.track >= len(v.c.trackMix) {
		return 0
	}
	return v.c.trackMix[v.track].Volume
}
func (v TrackVolume) Range() floatRange      { return volumeRange }
func (v TrackVolume) setValue(value float64) { v.c.SetTrackVolume(v.track, value) }
