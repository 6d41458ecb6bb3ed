// Package gomidi forwards the MIDI events the engine reports as played to an
// external MIDI output port, so the band application can drive a hardware or
// software synth from the score. Wire RTMIDIContext.HandleMidiEvents into
// controller.Options.MIDIOut.
package gomidi

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	RTMIDIContext struct {
		driver             *rtmididrv.Driver
		currentOut         drivers.Out
		send               func(midi.Message) error
		outputDevices      []RTMIDIDevice
		devicesInitialized bool
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		out     drivers.Out
	}
)

// NewContext opens the RTMIDI driver. A machine without MIDI support is not
// an error; the context just has no devices and drops everything sent to it.
func NewContext() *RTMIDIContext {
	m := RTMIDIContext{}
	// there's not much we can do if this fails, so just use m.driver = nil to
	// indicate no driver available
	m.driver, _ = rtmididrv.New()
	return &m
}

// OutputDevices iterates over the available MIDI output ports.
func (m *RTMIDIContext) OutputDevices(yield func(RTMIDIDevice) bool) {
	if m.devicesInitialized {
		for _, device := range m.outputDevices {
			if !yield(device) {
				break
			}
		}
		return
	}
	if m.driver == nil {
		return
	}
	outs, err := m.driver.Outs()
	if err != nil {
		return
	}
	for i := 0; i < len(outs); i++ {
		device := RTMIDIDevice{context: m, out: outs[i]}
		m.outputDevices = append(m.outputDevices, device)
		if !yield(device) {
			break
		}
	}
	m.devicesInitialized = true
}

// Open makes the device the context's output, closing the currently open
// port if necessary.
func (d RTMIDIDevice) Open() error {
	if d.context.currentOut == d.out {
		return nil
	}
	if d.context.driver == nil {
		return errors.New("no driver available")
	}
	if d.context.HasDeviceOpen() {
		d.context.currentOut.Close()
	}
	d.context.currentOut = d.out
	if err := d.out.Open(); err != nil {
		d.context.currentOut = nil
		return fmt.Errorf("opening MIDI output failed: %w", err)
	}
	send, err := midi.SendTo(d.out)
	if err != nil {
		d.out.Close()
		d.context.currentOut = nil
		return fmt.Errorf("preparing MIDI output failed: %w", err)
	}
	d.context.send = send
	return nil
}

func (d RTMIDIDevice) String() string {
	return d.out.String()
}

// TryToOpenBy opens the first output whose name starts with namePrefix, or
// just the first output when takeFirst is set.
func (m *RTMIDIContext) TryToOpenBy(namePrefix string, takeFirst bool) {
	if namePrefix == "" && !takeFirst {
		return
	}
	m.OutputDevices(func(device RTMIDIDevice) bool {
		if takeFirst || strings.HasPrefix(device.String(), namePrefix) {
			device.Open()
			return false
		}
		return true
	})
}

// HandleMidiEvents sends a batch of played events to the open port. Without
// an open port the batch is silently dropped; playback must not stall on
// MIDI trouble.
func (m *RTMIDIContext) HandleMidiEvents(msgs []midi.Message) {
	if m.send == nil {
		return
	}
	for _, msg := range msgs {
		if err := m.send(msg); err != nil {
			return
		}
	}
}

func (m *RTMIDIContext) HasDeviceOpen() bool {
	return m.currentOut != nil && m.currentOut.IsOpen()
}

func (m *RTMIDIContext) Close() {
	if m.driver == nil {
		return
	}
	if m.currentOut != nil && m.currentOut.IsOpen() {
		m.currentOut.Close()
	}
	m.send = nil
	m.driver.Close()
}
