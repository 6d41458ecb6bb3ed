/*
Package controller contains the interactive score playback controller: the
layer between the opaque notation/audio engine and the rest of the band
application.

The Controller struct holds the transport state, the per-track and global
mixer levels, the current playback position in bar/beat coordinates and the
loop selection. It is owned by a single goroutine, which calls the transport
and mixer methods and drains Broker.ToController through ProcessMsg. The
engine's callback threads, the load timeout timer and the metronome
scheduler never touch controller state; they only enqueue messages, so
events are handled one at a time and strictly in arrival order.

The presentation side does not read controller fields directly; besides the
snapshots pushed through Broker.ToHost, there are Bool and Float parameter
types for binding individual controls. For example, c.MasterVolume().Float()
is a clamped volume slider binding and c.Mute(2).Toggle() flips the mute
flag of the third track.

Loading a chart creates an engine session; loading the next chart (or
Unload) destroys it, cancels its pending load timeout and removes its event
subscriptions before anything new is constructed, so late callbacks from a
torn-down session are discarded instead of corrupting current state.
*/
package controller
