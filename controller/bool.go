package controller

type (
	Bool struct {
		BoolData
	}

	BoolData interface {
		Value() bool
		Enabled() bool
		setValue(bool)
	}

	// Playing exposes the desired-playing flag as a toggle; setting it goes
	// through the same one-way reconciliation as SetDesiredPlaying.
	Playing Controller

	// Mute and Solo address one track by its ordinal in the loaded score.
	Mute struct {
		c     *Controller
		track int
	}
	Solo struct {
		c     *Controller
		track int
	}
)

func (v Bool) Toggle() {
	v.Set(!v.Value())
}

func (v Bool) Set(value bool) {
	if v.Enabled() && v.Value() != value {
		v.setValue(value)
	}
}

// Controller methods

func (c *Controller) Playing() *Playing { return (*Playing)(c) }
func (c *Controller) Mute(track int) Bool {
	return Bool{Mute{c: c, track: track}}
}
func (c *Controller) Solo(track int) Bool {
	return Bool{Solo{c: c, track: track}}
}

// Playing methods

func (v *Playing) Bool() Bool  { return Bool{v} }
func (v *Playing) Value() bool { return v.state == TransportPlaying }
func (v *Playing) Enabled() bool {
	c := (*Controller)(v)
	return c.loaded && !c.opts.ReadOnly
}
func (v *Playing) setValue(value bool) { (*Controller)(v).SetDesiredPlaying(value) }

// Mute methods

func (v Mute) Value() bool {
	if v.track < 0 || v.track >= len(v.c.trackMix) {
		return false
	}
	return v.c.trackMix[v.track].Muted
}
func (v Mute) Enabled() bool       { return v.track >= 0 && v.track < len(v.c.trackMix) }
func (v Mute) setValue(value bool) { v.c.ToggleMute(v.track) }

// Solo methods

func (v Solo) Value() bool {
	if v.track < 0 || v.track >= len(v.c.trackMix) {
		return false
	}
	return v.c.trackMix[v.track].Solo
}
func (v Solo) Enabled() bool       { return v.track >= 0 && v.track < len(v.c.trackMix) }
func (v Solo) setValue(value bool) { v.c.ToggleSolo(v.track) }
